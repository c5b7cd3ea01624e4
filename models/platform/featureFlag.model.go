package platform

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FeatureFlag gates a feature behind a percentage rollout
type FeatureFlag struct {
	gorm.Model
	Key               string         `json:"key" gorm:"column:flag_key;type:varchar(100);uniqueIndex;not null"`
	Description       string         `json:"description"`
	Enabled           bool           `json:"enabled" gorm:"default:false"`
	RolloutPercentage int            `json:"rollout_percentage" gorm:"default:0;check:rollout_percentage >= 0 AND rollout_percentage <= 100"`
	Metadata          datatypes.JSON `json:"metadata"`
}

const (
	OverrideScopeUser = "USER"
	OverrideScopeOrg  = "ORG"
)

// FeatureFlagOverride forces a flag value for one user or organisation
type FeatureFlagOverride struct {
	gorm.Model
	FlagID   uint   `json:"flag_id" gorm:"uniqueIndex:idx_flag_scope_target;not null"`
	Scope    string `json:"scope" gorm:"type:varchar(10);uniqueIndex:idx_flag_scope_target;not null"` // USER, ORG
	TargetID uint   `json:"target_id" gorm:"uniqueIndex:idx_flag_scope_target;not null"`
	Value    bool   `json:"value"`
}

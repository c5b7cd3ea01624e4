// Package featureflag decides whether a feature is on for a caller.
//
// Resolution order: a missing or disabled flag is off; a user override wins,
// then an organisation override; otherwise the caller is hashed into one of
// 100 buckets and is included when the bucket is below the rollout
// percentage. Evaluation is read-only and deterministic.
package featureflag

import (
	"context"
	"errors"
	"fmt"

	"learnhub/models/platform"

	"github.com/cespare/xxhash/v2"
	"gorm.io/gorm"
)

const (
	ReasonNotFound     = "FLAG_NOT_FOUND"
	ReasonDisabled     = "FLAG_DISABLED"
	ReasonUserOverride = "USER_OVERRIDE"
	ReasonOrgOverride  = "ORG_OVERRIDE"
	ReasonRollout      = "ROLLOUT"
	ReasonNoIdentifier = "NO_IDENTIFIER"
)

// Decision is the evaluated state of one flag for one caller
type Decision struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason"`
	Bucket  *int   `json:"bucket,omitempty"`
}

// Evaluator reads flags and overrides from the database
type Evaluator struct {
	db *gorm.DB
}

func NewEvaluator(db *gorm.DB) *Evaluator {
	return &Evaluator{db: db}
}

// Bucket maps an identifier into [0, 100) for the given flag key. Salting
// with the key keeps rollouts of different flags independent.
func Bucket(flagKey, identifier string) int {
	return int(xxhash.Sum64String(flagKey+":"+identifier) % 100)
}

// InRollout reports whether identifier falls inside percentage
func InRollout(flagKey, identifier string, percentage int) bool {
	if percentage <= 0 {
		return false
	}
	if percentage >= 100 {
		return true
	}
	return Bucket(flagKey, identifier) < percentage
}

// Identifier picks the user, falling back to the organisation
func Identifier(userID, orgID uint) string {
	switch {
	case userID > 0:
		return fmt.Sprintf("user:%d", userID)
	case orgID > 0:
		return fmt.Sprintf("org:%d", orgID)
	default:
		return ""
	}
}

// Evaluate resolves a single flag
func (e *Evaluator) Evaluate(ctx context.Context, key string, userID, orgID uint) (Decision, error) {
	var flag platform.FeatureFlag
	if err := e.db.WithContext(ctx).Where("flag_key = ?", key).First(&flag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Decision{Key: key, Reason: ReasonNotFound}, nil
		}
		return Decision{}, err
	}

	overrides, err := e.overridesFor(ctx, []uint{flag.ID}, userID, orgID)
	if err != nil {
		return Decision{}, err
	}

	return Decide(flag, overrides, userID, orgID), nil
}

// EvaluateAll resolves every enabled flag for the caller
func (e *Evaluator) EvaluateAll(ctx context.Context, userID, orgID uint) ([]Decision, error) {
	var flags []platform.FeatureFlag
	if err := e.db.WithContext(ctx).Where("enabled = ?", true).Order("flag_key asc").Find(&flags).Error; err != nil {
		return nil, err
	}
	if len(flags) == 0 {
		return []Decision{}, nil
	}

	ids := make([]uint, len(flags))
	for i, f := range flags {
		ids[i] = f.ID
	}
	overrides, err := e.overridesFor(ctx, ids, userID, orgID)
	if err != nil {
		return nil, err
	}

	decisions := make([]Decision, len(flags))
	for i, f := range flags {
		decisions[i] = Decide(f, overrides, userID, orgID)
	}
	return decisions, nil
}

func (e *Evaluator) overridesFor(ctx context.Context, flagIDs []uint, userID, orgID uint) ([]platform.FeatureFlagOverride, error) {
	if userID == 0 && orgID == 0 {
		return nil, nil
	}
	var overrides []platform.FeatureFlagOverride
	err := e.db.WithContext(ctx).
		Where("flag_id IN ?", flagIDs).
		Where("(scope = ? AND target_id = ?) OR (scope = ? AND target_id = ?)",
			platform.OverrideScopeUser, userID, platform.OverrideScopeOrg, orgID).
		Find(&overrides).Error
	return overrides, err
}

// Decide applies the resolution order to an already loaded flag
func Decide(flag platform.FeatureFlag, overrides []platform.FeatureFlagOverride, userID, orgID uint) Decision {
	d := Decision{Key: flag.Key}
	if !flag.Enabled {
		d.Reason = ReasonDisabled
		return d
	}

	var orgOverride *platform.FeatureFlagOverride
	for i := range overrides {
		o := &overrides[i]
		if o.FlagID != flag.ID {
			continue
		}
		if o.Scope == platform.OverrideScopeUser && userID > 0 && o.TargetID == userID {
			d.Enabled = o.Value
			d.Reason = ReasonUserOverride
			return d
		}
		if o.Scope == platform.OverrideScopeOrg && orgID > 0 && o.TargetID == orgID {
			orgOverride = o
		}
	}
	if orgOverride != nil {
		d.Enabled = orgOverride.Value
		d.Reason = ReasonOrgOverride
		return d
	}

	id := Identifier(userID, orgID)
	if id == "" {
		d.Enabled = flag.RolloutPercentage >= 100
		d.Reason = ReasonNoIdentifier
		return d
	}

	bucket := Bucket(flag.Key, id)
	d.Bucket = &bucket
	d.Enabled = InRollout(flag.Key, id, flag.RolloutPercentage)
	d.Reason = ReasonRollout
	return d
}

package featureflag

import (
	"context"
	"fmt"
	"testing"

	"learnhub/models/platform"
	"learnhub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketIsDeterministicAndInRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("user:%d", i)
		b := Bucket("new-player", id)
		assert.GreaterOrEqual(t, b, 0)
		assert.Less(t, b, 100)
		assert.Equal(t, b, Bucket("new-player", id))
	}
}

func TestInRolloutBounds(t *testing.T) {
	assert.False(t, InRollout("k", "user:1", 0))
	assert.False(t, InRollout("k", "user:1", -5))
	assert.True(t, InRollout("k", "user:1", 100))
	assert.True(t, InRollout("k", "user:1", 150))
}

func TestInRolloutIsMonotonic(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("user:%d", i)
		if InRollout("checkout-v2", id, 20) {
			assert.True(t, InRollout("checkout-v2", id, 50), id)
		}
	}
}

func TestInRolloutDistribution(t *testing.T) {
	included := 0
	for i := 0; i < 1000; i++ {
		if InRollout("dark-mode", fmt.Sprintf("user:%d", i), 30) {
			included++
		}
	}
	assert.InDelta(t, 300, included, 70)
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "user:7", Identifier(7, 3))
	assert.Equal(t, "org:3", Identifier(0, 3))
	assert.Equal(t, "", Identifier(0, 0))
}

func TestEvaluate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	e := NewEvaluator(db)

	full := platform.FeatureFlag{Key: "ai-assistant", Enabled: true, RolloutPercentage: 100}
	off := platform.FeatureFlag{Key: "legacy-player", Enabled: false, RolloutPercentage: 100}
	none := platform.FeatureFlag{Key: "beta-chat", Enabled: true, RolloutPercentage: 0}
	require.NoError(t, db.Create(&full).Error)
	require.NoError(t, db.Create(&off).Error)
	require.NoError(t, db.Create(&none).Error)

	require.NoError(t, db.Create(&platform.FeatureFlagOverride{FlagID: none.ID, Scope: platform.OverrideScopeOrg, TargetID: 5, Value: true}).Error)
	require.NoError(t, db.Create(&platform.FeatureFlagOverride{FlagID: none.ID, Scope: platform.OverrideScopeUser, TargetID: 42, Value: false}).Error)
	require.NoError(t, db.Create(&platform.FeatureFlagOverride{FlagID: full.ID, Scope: platform.OverrideScopeUser, TargetID: 9, Value: false}).Error)

	tests := []struct {
		name    string
		key     string
		user    uint
		org     uint
		enabled bool
		reason  string
	}{
		{"missing flag", "nope", 1, 0, false, ReasonNotFound},
		{"disabled flag", "legacy-player", 1, 0, false, ReasonDisabled},
		{"full rollout", "ai-assistant", 1, 0, true, ReasonRollout},
		{"user override beats rollout", "ai-assistant", 9, 0, false, ReasonUserOverride},
		{"zero rollout", "beta-chat", 1, 0, false, ReasonRollout},
		{"org override", "beta-chat", 1, 5, true, ReasonOrgOverride},
		{"user override beats org override", "beta-chat", 42, 5, false, ReasonUserOverride},
		{"org only caller", "beta-chat", 0, 5, true, ReasonOrgOverride},
		{"anonymous full rollout", "ai-assistant", 0, 0, true, ReasonNoIdentifier},
		{"anonymous partial rollout", "beta-chat", 0, 0, false, ReasonNoIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := e.Evaluate(ctx, tt.key, tt.user, tt.org)
			require.NoError(t, err)
			assert.Equal(t, tt.enabled, d.Enabled)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}

func TestEvaluateAllOnlyReturnsEnabledFlags(t *testing.T) {
	db := testutil.SetupTestDB(t)
	e := NewEvaluator(db)

	require.NoError(t, db.Create(&platform.FeatureFlag{Key: "b-flag", Enabled: true, RolloutPercentage: 100}).Error)
	require.NoError(t, db.Create(&platform.FeatureFlag{Key: "a-flag", Enabled: true, RolloutPercentage: 0}).Error)
	require.NoError(t, db.Create(&platform.FeatureFlag{Key: "c-flag", Enabled: false, RolloutPercentage: 100}).Error)

	decisions, err := e.EvaluateAll(context.Background(), 3, 0)
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	assert.Equal(t, "a-flag", decisions[0].Key)
	assert.False(t, decisions[0].Enabled)
	assert.Equal(t, "b-flag", decisions[1].Key)
	assert.True(t, decisions[1].Enabled)
}

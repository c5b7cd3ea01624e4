package pricing

import (
	"testing"
	"time"

	"learnhub/models/billing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func coupon(kind, value string) billing.Coupon {
	return billing.Coupon{
		Code:           "SAVE",
		DiscountType:   kind,
		DiscountValue:  d(value),
		MinOrderAmount: decimal.Zero,
		IsActive:       true,
	}
}

func TestApplyCoupon(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		coupon   func() billing.Coupon
		amount   string
		courseID uint
		discount string
		final    string
		err      error
	}{
		{name: "percentage", coupon: func() billing.Coupon { return coupon(billing.DiscountPercentage, "25") }, amount: "80", discount: "20", final: "60"},
		{name: "percentage rounds to cents", coupon: func() billing.Coupon { return coupon(billing.DiscountPercentage, "33") }, amount: "19.99", discount: "6.6", final: "13.39"},
		{name: "fixed", coupon: func() billing.Coupon { return coupon(billing.DiscountFixed, "15") }, amount: "49.99", discount: "15", final: "34.99"},
		{name: "fixed capped at amount", coupon: func() billing.Coupon { return coupon(billing.DiscountFixed, "100") }, amount: "30", discount: "30", final: "0"},
		{name: "over 100 percent capped", coupon: func() billing.Coupon { return coupon(billing.DiscountPercentage, "150") }, amount: "10", discount: "10", final: "0"},
		{name: "inactive", coupon: func() billing.Coupon { c := coupon(billing.DiscountFixed, "5"); c.IsActive = false; return c }, amount: "10", err: ErrCouponInactive},
		{name: "expired", coupon: func() billing.Coupon { c := coupon(billing.DiscountFixed, "5"); c.ExpiresAt = &past; return c }, amount: "10", err: ErrCouponExpired},
		{name: "not yet expired", coupon: func() billing.Coupon { c := coupon(billing.DiscountFixed, "5"); c.ExpiresAt = &future; return c }, amount: "10", discount: "5", final: "5"},
		{name: "exhausted", coupon: func() billing.Coupon { c := coupon(billing.DiscountFixed, "5"); c.MaxUses = 2; c.UsedCount = 2; return c }, amount: "10", err: ErrCouponExhausted},
		{name: "unlimited uses", coupon: func() billing.Coupon { c := coupon(billing.DiscountFixed, "5"); c.UsedCount = 1000; return c }, amount: "10", discount: "5", final: "5"},
		{name: "other course", coupon: func() billing.Coupon { c := coupon(billing.DiscountFixed, "5"); c.CourseID = 9; return c }, amount: "10", courseID: 3, err: ErrCouponNotForCourse},
		{name: "matching course", coupon: func() billing.Coupon { c := coupon(billing.DiscountFixed, "5"); c.CourseID = 3; return c }, amount: "10", courseID: 3, discount: "5", final: "5"},
		{name: "below minimum", coupon: func() billing.Coupon { c := coupon(billing.DiscountFixed, "5"); c.MinOrderAmount = d("50"); return c }, amount: "49.99", err: ErrBelowMinimum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ApplyCoupon(tt.coupon(), d(tt.amount), tt.courseID, now)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.True(t, d(tt.discount).Equal(q.DiscountAmount), "discount %s", q.DiscountAmount)
			assert.True(t, d(tt.final).Equal(q.FinalAmount), "final %s", q.FinalAmount)
			assert.True(t, q.DiscountAmount.Add(q.FinalAmount).Equal(q.OriginalAmount))
		})
	}
}

func TestApplyCouponUnknownType(t *testing.T) {
	_, err := ApplyCoupon(coupon("BOGO", "1"), d("10"), 0, time.Now())
	assert.Error(t, err)
}

func TestCalculateCommission(t *testing.T) {
	split, err := CalculateCommission(d("99.99"), 30)
	require.NoError(t, err)
	assert.True(t, d("30").Equal(split.PlatformFee), split.PlatformFee.String())
	assert.True(t, d("69.99").Equal(split.InstructorEarning), split.InstructorEarning.String())
	assert.True(t, split.PlatformFee.Add(split.InstructorEarning).Equal(split.GrossAmount))

	split, err = CalculateCommission(d("10"), 0)
	require.NoError(t, err)
	assert.True(t, split.PlatformFee.IsZero())
	assert.True(t, d("10").Equal(split.InstructorEarning))

	split, err = CalculateCommission(d("10"), 100)
	require.NoError(t, err)
	assert.True(t, split.InstructorEarning.IsZero())

	_, err = CalculateCommission(d("10"), 101)
	assert.ErrorIs(t, err, ErrInvalidRate)
	_, err = CalculateCommission(d("10"), -1)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestNoDiscount(t *testing.T) {
	q := NoDiscount(d("12.345"))
	assert.True(t, d("12.35").Equal(q.FinalAmount), q.FinalAmount.String())
	assert.True(t, q.DiscountAmount.IsZero())
}

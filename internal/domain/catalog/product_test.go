package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(v int) *int { return &v }

func TestProductValidatePromotion(t *testing.T) {
	t.Run("no promotion fields is valid", func(t *testing.T) {
		p := &Product{Price: dec("100")}
		require.NoError(t, p.ValidatePromotion())
		assert.Nil(t, p.PromotionPercentage)
	})

	t.Run("percentage without old price is rejected", func(t *testing.T) {
		p := &Product{Price: dec("100"), PromotionPercentage: intPtr(10)}
		assert.Error(t, p.ValidatePromotion())
	})

	t.Run("old price must exceed current price", func(t *testing.T) {
		p := &Product{Price: dec("100"), OldPrice: decPtr("100")}
		assert.Error(t, p.ValidatePromotion())
	})

	t.Run("percentage is derived when omitted", func(t *testing.T) {
		p := &Product{Price: dec("75"), OldPrice: decPtr("100")}
		require.NoError(t, p.ValidatePromotion())
		require.NotNil(t, p.PromotionPercentage)
		assert.Equal(t, 25, *p.PromotionPercentage)
	})

	t.Run("derived percentage rounds up", func(t *testing.T) {
		p := &Product{Price: dec("66.67"), OldPrice: decPtr("100")}
		require.NoError(t, p.ValidatePromotion())
		require.NotNil(t, p.PromotionPercentage)
		assert.Equal(t, 34, *p.PromotionPercentage)
	})

	t.Run("explicit percentage must stay within 1..100", func(t *testing.T) {
		p := &Product{Price: dec("50"), OldPrice: decPtr("100"), PromotionPercentage: intPtr(0)}
		assert.Error(t, p.ValidatePromotion())

		p = &Product{Price: dec("50"), OldPrice: decPtr("100"), PromotionPercentage: intPtr(101)}
		assert.Error(t, p.ValidatePromotion())

		p = &Product{Price: dec("50"), OldPrice: decPtr("100"), PromotionPercentage: intPtr(50)}
		assert.NoError(t, p.ValidatePromotion())
	})
}

func TestProductValidatePhysical(t *testing.T) {
	p := &Product{Weight: dec("1.5"), Height: dec("10"), Width: dec("20"), Length: dec("30")}
	assert.NoError(t, p.ValidatePhysical())

	p.Width = dec("0")
	assert.Error(t, p.ValidatePhysical())
}

func TestProductSyncAvailability(t *testing.T) {
	p := &Product{Count: 3}
	p.SyncAvailability()
	assert.True(t, p.Available)

	p.Count = 0
	p.SyncAvailability()
	assert.False(t, p.Available)
}

package bonus

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgfc/som/internal/money"
)

func testService() *Service {
	return NewService(NewMemoryBalancesWithSamples(), zerolog.Nop())
}

func lines() []Line {
	return []Line{
		{SKU: "A001", Name: "fridge", Subtotal: money.New(800)},
		{SKU: "A002", Name: "cable", Subtotal: money.New(50)},
	}
}

func TestValidateRejections(t *testing.T) {
	s := testService()

	_, err := s.ValidateRedemption("M001", "A001", 100, true, lines())
	assert.ErrorIs(t, err, ErrTempCard)

	_, err = s.ValidateRedemption("M001", "A001", 2000, false, lines())
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	_, err = s.ValidateRedemption("M001", "A001", 9, false, lines())
	assert.ErrorIs(t, err, ErrBelowMinimum)

	_, err = s.ValidateRedemption("M001", "ZZZZ", 100, false, lines())
	assert.ErrorIs(t, err, ErrLineNotFound)

	// unknown member has zero balance
	_, err = s.ValidateRedemption("NOBODY", "A001", 100, false, lines())
	assert.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestRedeemHappyPath(t *testing.T) {
	s := testService()

	r, err := s.Redeem("M001", "A001", 100, false, lines())
	require.NoError(t, err)
	assert.Equal(t, 100, r.Points)
	assert.False(t, r.Adjusted)
	assert.Equal(t, money.New(100), r.Discount)
	assert.Equal(t, 900, r.RemainingPoints)
	assert.Equal(t, 900, s.AvailablePoints("M001"))
}

func TestRedeemCapsAtSubtotal(t *testing.T) {
	s := testService()

	// A002 subtotal is 50; requesting 200 points caps to 50
	r, err := s.Redeem("M001", "A002", 200, false, lines())
	require.NoError(t, err)
	assert.True(t, r.Adjusted)
	assert.Equal(t, 200, r.RequestedPoints)
	assert.Equal(t, 50, r.Points)
	assert.Equal(t, money.New(50), r.Discount)
	assert.Equal(t, 950, s.AvailablePoints("M001"))
}

func TestCancel(t *testing.T) {
	s := testService()
	ls := lines()

	_, err := s.Cancel("M001", "A001", ls)
	assert.ErrorIs(t, err, ErrNothingToCancel)

	_, err = s.Cancel("M001", "ZZZZ", ls)
	assert.ErrorIs(t, err, ErrLineNotFound)

	r, err := s.Redeem("M001", "A001", 100, false, ls)
	require.NoError(t, err)
	ls[0].BonusDisc = r.Discount

	returned, err := s.Cancel("M001", "A001", ls)
	require.NoError(t, err)
	assert.Equal(t, 100, returned)
	assert.Equal(t, 1000, s.AvailablePoints("M001"))
}

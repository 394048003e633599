// Package bonus applies loyalty-point redemption to a single order line.
// It sees lines only through the Line view, so it stays decoupled from the
// order aggregate; the caller writes the resulting discount onto the line.
package bonus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tgfc/som/internal/money"
)

const (
	// DefaultExchangeRate is the monetary value of one point.
	DefaultExchangeRate = 1
	// DefaultMinimumPoints is the smallest redeemable point count.
	DefaultMinimumPoints = 10
)

var (
	ErrTempCard           = errors.New("temp card customers cannot redeem points")
	ErrInsufficientPoints = errors.New("requested points exceed available balance")
	ErrBelowMinimum       = errors.New("requested points below redemption minimum")
	ErrLineNotFound       = errors.New("target line not found on order")
	ErrNothingToCancel    = errors.New("line carries no bonus discount to cancel")
)

// Line is the service's view of one order line.
type Line struct {
	SKU       string
	Name      string
	Subtotal  money.Money
	BonusDisc money.Money
}

// Redemption records one applied point redemption. Points is the count
// actually redeemed, which the cap rule may have adjusted below the
// requested count.
type Redemption struct {
	MemberID        string
	SKU             string
	SKUName         string
	Points          int
	RequestedPoints int
	Adjusted        bool
	Discount        money.Money
	RemainingPoints int
}

// Balances is the point ledger, owned upstream by the CRM.
type Balances interface {
	Available(memberID string) int
	Debit(memberID string, points int) error
	Credit(memberID string, points int)
}

// MemoryBalances keeps balances in process.
type MemoryBalances struct {
	mu     sync.Mutex
	points map[string]int
}

// NewMemoryBalances returns a ledger seeded with the given balances.
func NewMemoryBalances(seed map[string]int) *MemoryBalances {
	points := make(map[string]int, len(seed))
	for id, p := range seed {
		points[id] = p
	}
	return &MemoryBalances{points: points}
}

// NewMemoryBalancesWithSamples returns the demo ledger.
func NewMemoryBalancesWithSamples() *MemoryBalances {
	return NewMemoryBalances(map[string]int{
		"K00123": 5000,
		"M001":   1000,
		"M002":   500,
	})
}

func (b *MemoryBalances) Available(memberID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.points[memberID]
}

func (b *MemoryBalances) Debit(memberID string, points int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.points[memberID] < points {
		return fmt.Errorf("member %s: %w", memberID, ErrInsufficientPoints)
	}
	b.points[memberID] -= points
	return nil
}

func (b *MemoryBalances) Credit(memberID string, points int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.points[memberID] += points
}

// Service validates and executes redemptions.
type Service struct {
	Balances      Balances
	ExchangeRate  int
	MinimumPoints int
	Logger        zerolog.Logger
}

// NewService wires a service with the standard rate and minimum.
func NewService(balances Balances, logger zerolog.Logger) *Service {
	return &Service{
		Balances:      balances,
		ExchangeRate:  DefaultExchangeRate,
		MinimumPoints: DefaultMinimumPoints,
		Logger:        logger,
	}
}

// ValidateRedemption checks a redemption request against the balance, the
// minimum and the target line. A request worth more than the line's
// subtotal is not rejected: the point count is silently capped to the
// subtotal's worth and the adjustment reported on the result.
func (s *Service) ValidateRedemption(memberID, sku string, points int, tempCard bool, lines []Line) (Redemption, error) {
	if tempCard {
		return Redemption{}, ErrTempCard
	}

	available := s.Balances.Available(memberID)
	if points > available {
		return Redemption{}, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientPoints, points, available)
	}
	if points < s.MinimumPoints {
		return Redemption{}, fmt.Errorf("%w: requested %d, minimum %d", ErrBelowMinimum, points, s.MinimumPoints)
	}

	var target *Line
	for i := range lines {
		if lines[i].SKU == sku {
			target = &lines[i]
			break
		}
	}
	if target == nil {
		return Redemption{}, fmt.Errorf("%w: %s", ErrLineNotFound, sku)
	}

	requested := points
	discount := money.New(int64(points) * int64(s.ExchangeRate))
	adjusted := false
	if discount.GreaterThan(target.Subtotal) {
		points = int(target.Subtotal.Int64()) / s.ExchangeRate
		discount = money.New(int64(points) * int64(s.ExchangeRate))
		adjusted = true
		s.Logger.Info().
			Str("member_id", memberID).
			Str("sku", sku).
			Int("requested_points", requested).
			Int("adjusted_points", points).
			Msg("redemption capped at line subtotal")
	}

	return Redemption{
		MemberID:        memberID,
		SKU:             sku,
		SKUName:         target.Name,
		Points:          points,
		RequestedPoints: requested,
		Adjusted:        adjusted,
		Discount:        discount,
		RemainingPoints: available - points,
	}, nil
}

// Redeem validates and then debits the balance. The caller writes
// Redemption.Discount onto the target line.
func (s *Service) Redeem(memberID, sku string, points int, tempCard bool, lines []Line) (Redemption, error) {
	redemption, err := s.ValidateRedemption(memberID, sku, points, tempCard, lines)
	if err != nil {
		return Redemption{}, err
	}
	if err := s.Balances.Debit(memberID, redemption.Points); err != nil {
		return Redemption{}, err
	}
	s.Logger.Info().
		Str("member_id", memberID).
		Str("sku", sku).
		Int("points", redemption.Points).
		Int64("discount", redemption.Discount.Int64()).
		Int("remaining", redemption.RemainingPoints).
		Msg("bonus points redeemed")
	return redemption, nil
}

// Cancel reverses a redemption: it credits back the points worth of the
// line's current bonus discount and returns that point count. Cancelling a
// line that carries no bonus discount is an explicit error, not a no-op.
func (s *Service) Cancel(memberID, sku string, lines []Line) (int, error) {
	var target *Line
	for i := range lines {
		if lines[i].SKU == sku {
			target = &lines[i]
			break
		}
	}
	if target == nil {
		return 0, fmt.Errorf("%w: %s", ErrLineNotFound, sku)
	}
	if target.BonusDisc.IsZero() {
		return 0, fmt.Errorf("%w: %s", ErrNothingToCancel, sku)
	}

	points := int(target.BonusDisc.Int64()) / s.ExchangeRate
	s.Balances.Credit(memberID, points)
	s.Logger.Info().
		Str("member_id", memberID).
		Str("sku", sku).
		Int("points_returned", points).
		Msg("bonus redemption cancelled")
	return points, nil
}

// AvailablePoints reports the member's current balance.
func (s *Service) AvailablePoints(memberID string) int {
	return s.Balances.Available(memberID)
}

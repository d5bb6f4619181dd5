package league

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fantasy-roster/internal/domain/scoring"
)

var ErrInvalidConfiguration = errors.New("invalid league configuration")

// RefundPolicy decides what a squad gets back when it sells a player.
type RefundPolicy string

const (
	RefundAtPurchasePrice RefundPolicy = "AT_PURCHASE_PRICE"
	RefundAtCurrentPrice  RefundPolicy = "AT_CURRENT_PRICE"
)

// Config is the rulebook of one fantasy league. It does not change during a run.
type Config struct {
	ID                       string `validate:"required"`
	Name                     string `validate:"required"`
	ScoringRules             scoring.RuleSet
	BudgetCap                int64 `validate:"gte=0"`
	SquadSizeLimit           int   `validate:"gt=0"`
	TransferLimitPerWeek     int   `validate:"gte=0"`
	MaxPlayersPerRealTeam    int   `validate:"gt=0"`
	CaptainMultiplierEnabled bool
	CaptainMultiplierValue   int          `validate:"gte=0"`
	RefundPolicy             RefundPolicy `validate:"oneof=AT_PURCHASE_PRICE AT_CURRENT_PRICE"`
	StartDate                time.Time    `validate:"required"`
	EndDate                  time.Time    `validate:"required,gtefield=StartDate"`
}

// DefaultConfig mirrors the defaults a newly created league starts with.
func DefaultConfig(id, name string, start, end time.Time) Config {
	return Config{
		ID:                       id,
		Name:                     name,
		ScoringRules:             scoring.RuleSet{},
		BudgetCap:                100_000_000,
		SquadSizeLimit:           15,
		TransferLimitPerWeek:     1,
		MaxPlayersPerRealTeam:    3,
		CaptainMultiplierEnabled: true,
		CaptainMultiplierValue:   scoring.DefaultCaptainMultiplier,
		RefundPolicy:             RefundAtPurchasePrice,
		StartDate:                start,
		EndDate:                  end,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if err := c.ScoringRules.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return nil
}

// EffectiveRules merges the league's overrides on top of the default rule set.
func (c Config) EffectiveRules() scoring.RuleSet {
	return scoring.MergeRules(scoring.DefaultRuleSet(), c.ScoringRules)
}

func (c Config) CaptainPolicy() scoring.CaptainPolicy {
	return scoring.CaptainPolicy{
		Enabled:    c.CaptainMultiplierEnabled,
		Multiplier: c.CaptainMultiplierValue,
	}
}

// Refund returns the amount credited when selling a player bought at purchasePrice.
func (c Config) Refund(purchasePrice, currentPrice int64) int64 {
	if c.RefundPolicy == RefundAtCurrentPrice {
		return currentPrice
	}
	return purchasePrice
}

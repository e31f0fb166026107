package payroll

import "github.com/shopspring/decimal"

// =============================================================================
// CONFIG - Bonus parameters, passed by value into PayCommand
// =============================================================================

// Config holds the bonus parameters. It is a value: copies never alias,
// and changes go through Apply, which returns a new Config.
type Config struct {
	// SalariedBonusPercentage is a fraction of base pay (0.1 = 10%).
	SalariedBonusPercentage decimal.Decimal

	// HourlyBonusThreshold is the hours an hourly employee must exceed.
	HourlyBonusThreshold int

	// HourlyBonusAmount is the flat bonus paid above the threshold.
	HourlyBonusAmount decimal.Decimal
}

// DefaultConfig returns 10% salaried bonus, 160h threshold, 100 hourly bonus.
func DefaultConfig() Config {
	return Config{
		SalariedBonusPercentage: decimal.RequireFromString("0.1"),
		HourlyBonusThreshold:    160,
		HourlyBonusAmount:       decimal.NewFromInt(100),
	}
}

// Validate rejects negative parameters.
func (c Config) Validate() error {
	if c.SalariedBonusPercentage.IsNegative() {
		return &ValidationError{Field: "salaried_bonus_percentage", Reason: "must not be negative"}
	}
	if c.HourlyBonusThreshold < 0 {
		return &ValidationError{Field: "hourly_bonus_threshold", Reason: "must not be negative"}
	}
	if c.HourlyBonusAmount.IsNegative() {
		return &ValidationError{Field: "hourly_bonus_amount", Reason: "must not be negative"}
	}
	return nil
}

// Equal compares two configs by value.
func (c Config) Equal(o Config) bool {
	return c.SalariedBonusPercentage.Equal(o.SalariedBonusPercentage) &&
		c.HourlyBonusThreshold == o.HourlyBonusThreshold &&
		c.HourlyBonusAmount.Equal(o.HourlyBonusAmount)
}

// ConfigUpdate carries the fields to change; nil fields are left alone.
type ConfigUpdate struct {
	SalariedBonusPercentage *decimal.Decimal
	HourlyBonusThreshold    *int
	HourlyBonusAmount       *decimal.Decimal
}

// IsEmpty reports whether the update changes nothing.
func (u ConfigUpdate) IsEmpty() bool {
	return u.SalariedBonusPercentage == nil && u.HourlyBonusThreshold == nil && u.HourlyBonusAmount == nil
}

// Apply returns a new Config with the update's fields set. The receiver
// is unchanged. The result is validated.
func (c Config) Apply(u ConfigUpdate) (Config, error) {
	next := c
	if u.SalariedBonusPercentage != nil {
		next.SalariedBonusPercentage = *u.SalariedBonusPercentage
	}
	if u.HourlyBonusThreshold != nil {
		next.HourlyBonusThreshold = *u.HourlyBonusThreshold
	}
	if u.HourlyBonusAmount != nil {
		next.HourlyBonusAmount = *u.HourlyBonusAmount
	}
	if err := next.Validate(); err != nil {
		return c, err
	}
	return next, nil
}

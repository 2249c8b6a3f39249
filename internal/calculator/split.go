// Package calculator implements the group balance and settlement
// engine: split calculation, balance aggregation, and greedy debt
// netting. It is pure computation; persistence and permissions live in
// the service layer.
package calculator

import (
	"fmt"
	"math"

	"github.com/splitpot/splitpot/internal/models"
)

// SplitShare is the calculated share for one participant.
type SplitShare struct {
	UserID string
	Amount float64
}

// CalculateSplits turns an expense total, a split strategy, and the
// per-participant configuration into per-participant owed amounts.
//
// Each share is rounded independently, so the sum of the output may
// differ from totalAmount by a few cents. The residual is accepted
// rather than redistributed; callers compare sums with a per-participant
// cent of slack.
//
// Percentage and custom configurations are not validated here; callers
// run ValidateSplits as a separate step before persisting anything.
func CalculateSplits(totalAmount float64, splitType models.SplitType, configs []models.SplitConfig) ([]SplitShare, error) {
	if len(configs) == 0 {
		return nil, models.Validationf("at least one participant is required")
	}

	shares := make([]SplitShare, 0, len(configs))
	switch splitType {
	case models.SplitEqual:
		perHead := totalAmount / float64(len(configs))
		for _, c := range configs {
			shares = append(shares, SplitShare{UserID: c.UserID, Amount: Round2(perHead)})
		}

	case models.SplitPercentage:
		for _, c := range configs {
			shares = append(shares, SplitShare{UserID: c.UserID, Amount: Round2(totalAmount * c.Percentage / 100)})
		}

	case models.SplitCustom:
		for _, c := range configs {
			shares = append(shares, SplitShare{UserID: c.UserID, Amount: c.Amount})
		}

	case models.SplitShares:
		var totalShares float64
		for _, c := range configs {
			totalShares += c.Shares
		}
		if totalShares == 0 {
			return nil, models.Validationf("total shares must be greater than zero")
		}
		for _, c := range configs {
			shares = append(shares, SplitShare{UserID: c.UserID, Amount: Round2(totalAmount / totalShares * c.Shares)})
		}

	default:
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidSplitType, splitType)
	}

	return shares, nil
}

// ValidateSplits checks that a split configuration can account for the
// full expense amount. Equal splits are always valid for one or more
// participants.
func ValidateSplits(splitType models.SplitType, configs []models.SplitConfig, totalAmount float64) error {
	if len(configs) == 0 {
		return models.Validationf("at least one participant is required")
	}

	switch splitType {
	case models.SplitEqual:
		return nil

	case models.SplitPercentage:
		var sum float64
		for _, c := range configs {
			sum += c.Percentage
		}
		if math.Abs(sum-100) > Epsilon {
			return models.Validationf("percentages must add up to 100%%, got %.2f%%", sum)
		}

	case models.SplitCustom:
		var sum float64
		for _, c := range configs {
			sum += c.Amount
		}
		if math.Abs(sum-totalAmount) > Epsilon {
			return models.Validationf("custom amounts must add up to %.2f, got %.2f", totalAmount, sum)
		}

	case models.SplitShares:
		var totalShares float64
		for _, c := range configs {
			totalShares += c.Shares
		}
		if totalShares <= 0 {
			return models.Validationf("total shares must be greater than zero")
		}

	default:
		return fmt.Errorf("%w: %q", models.ErrInvalidSplitType, splitType)
	}

	return nil
}

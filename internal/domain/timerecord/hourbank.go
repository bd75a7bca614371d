package timerecord

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	BalancePositive = "positive"
	BalanceNegative = "negative"
)

// HourBank is the signed balance of worked against expected minutes over a
// set of records.
type HourBank struct {
	TotalWorkedMinutes   int             `json:"total_worked_minutes"`
	TotalExpectedMinutes int             `json:"total_expected_minutes"`
	BalanceMinutes       int             `json:"balance_minutes"`
	BalanceFormatted     string          `json:"balance_formatted"`
	BalanceHours         decimal.Decimal `json:"balance_hours"`
	Status               string          `json:"status"`
	TotalDays            int             `json:"total_days"`
}

var sixty = decimal.NewFromInt(60)

// CalculateHourBank aggregates records. It does not filter; callers pass the
// records of the period they want.
func CalculateHourBank(records []TimeRecord) HourBank {
	var worked, expected int
	for _, r := range records {
		worked += r.WorkedMinutes
		expected += r.ExpectedMinutes
	}

	balance := worked - expected
	status := BalancePositive
	if balance < 0 {
		status = BalanceNegative
	}

	return HourBank{
		TotalWorkedMinutes:   worked,
		TotalExpectedMinutes: expected,
		BalanceMinutes:       balance,
		BalanceFormatted:     FormatBalance(balance),
		BalanceHours:         decimal.NewFromInt(int64(balance)).Div(sixty).Round(2),
		Status:               status,
		TotalDays:            len(records),
	}
}

// FormatBalance renders minutes as a signed "HH:MM" string. Zero is "+00:00".
func FormatBalance(minutes int) string {
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%02d:%02d", sign, minutes/60, minutes%60)
}

// FormatDuration renders non-negative minutes as "HH:MM".
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

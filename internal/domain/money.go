package domain

import "github.com/shopspring/decimal"

// MaxAmount is the exclusive upper bound of a NUMERIC(10,2) money column.
var MaxAmount = decimal.New(1, 8)

// AmountProblem reports why v cannot be stored in a money column, or "" when it fits.
func AmountProblem(v decimal.Decimal) string {
	switch {
	case v.IsNegative():
		return "must not be negative"
	case v.GreaterThanOrEqual(MaxAmount):
		return "must be less than 100000000"
	case !v.Equal(v.Round(2)):
		return "must have at most 2 decimal places"
	}
	return ""
}

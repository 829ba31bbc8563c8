package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const amountPlaces = 2

// SplitAmount divides total evenly between n workers. Shares are rounded
// down to cents and the leftover cents go one each to the first shares, so
// the shares add up to total and differ by at most one cent.
func SplitAmount(total float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: at least one worker is required", ErrInvalidInput)
	}
	amount := decimal.NewFromFloat(total).Round(amountPlaces)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: total amount must be positive", ErrInvalidInput)
	}

	count := decimal.NewFromInt(int64(n))
	share := amount.Div(count).RoundDown(amountPlaces)
	if !share.IsPositive() {
		return nil, fmt.Errorf("%w: total amount %s is too small to split between %d workers", ErrInvalidInput, amount.StringFixed(amountPlaces), n)
	}

	cent := decimal.New(1, -amountPlaces)
	extra := amount.Sub(share.Mul(count)).Div(cent).IntPart()

	shares := make([]float64, n)
	for i := range shares {
		value := share
		if int64(i) < extra {
			value = value.Add(cent)
		}
		shares[i] = value.InexactFloat64()
	}
	return shares, nil
}

// lineAmount is quantity × price rounded to cents.
func lineAmount(quantity, price float64) decimal.Decimal {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(price)).Round(amountPlaces)
}

func sumAmounts(values []float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(amountPlaces).InexactFloat64()
}

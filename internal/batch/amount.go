package batch

import (
	"fmt"
	"math/big"

	"github.com/cockroachdb/apd/v3"

	"github.com/mmynk/vesting/internal/models"
)

// maxScaleExponent bounds 10^n scaling so "1e999999" can't allocate a huge number.
const maxScaleExponent = 256

// ParseAmount converts a human token amount ("1500", "0.25", "1e3") into the
// token's smallest unit for a token with the given number of decimals.
//
// The amount must be a finite number greater than zero and must not carry more
// fractional digits than the token supports. Failures wrap models.ErrInvalidAmount.
func ParseAmount(s string, decimals int32) (*big.Int, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", models.ErrInvalidAmount, s)
	}
	if d.Form != apd.Finite {
		return nil, fmt.Errorf("%w: %q is not finite", models.ErrInvalidAmount, s)
	}
	if d.Negative || d.IsZero() {
		return nil, fmt.Errorf("%w: %q must be greater than zero", models.ErrInvalidAmount, s)
	}

	units := new(big.Int).Set(d.Coeff.MathBigInt())
	exp := int64(d.Exponent) + int64(decimals)
	switch {
	case exp > maxScaleExponent:
		return nil, fmt.Errorf("%w: %q is too large", models.ErrInvalidAmount, s)
	case exp >= 0:
		units.Mul(units, pow10(exp))
	default:
		if -exp > maxScaleExponent {
			return nil, fmt.Errorf("%w: %q has too many decimal places", models.ErrInvalidAmount, s)
		}
		q, r := new(big.Int).QuoRem(units, pow10(-exp), new(big.Int))
		if r.Sign() != 0 {
			return nil, fmt.Errorf("%w: %q has more than %d decimal places", models.ErrInvalidAmount, s, decimals)
		}
		units = q
	}

	return units, nil
}

// FormatAmount renders a smallest-unit amount as a human token amount,
// trimming trailing zeros ("1500", "0.25").
func FormatAmount(units *big.Int, decimals int32) string {
	if units == nil || units.Sign() == 0 {
		return "0"
	}
	if decimals <= 0 {
		return units.String()
	}
	d := apd.NewWithBigInt(new(apd.BigInt).SetMathBigInt(units), -decimals)
	reduced := new(apd.Decimal)
	reduced.Reduce(d)
	return reduced.Text('f')
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

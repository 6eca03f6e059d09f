package calculator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zephyrtronium/calculator"
)

func TestFormatResult(t *testing.T) {
	x, y := 0.1, 0.2
	cases := []struct {
		name string
		v    float64
		want string
	}{
		{"zero", 0, "0"},
		{"negzero", math.Copysign(0, -1), "0"},
		{"int", 14, "14"},
		{"neg", -4, "-4"},
		{"frac", 0.5, "0.5"},
		{"grouped", 1234.5, "1,234.5"},
		{"million", 1e6, "1,000,000"},
		{"float-sum", x + y, "0.3"},
		{"third", 1.0 / 3, "0.3333333333333333"},
		{"nan", math.NaN(), "NaN"},
		{"inf", math.Inf(1), "∞"},
		{"neginf", math.Inf(-1), "-∞"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, calculator.FormatResult(c.v))
		})
	}
}

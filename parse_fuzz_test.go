package calculator_test

import (
	"strings"
	"testing"

	"github.com/zephyrtronium/calculator"
)

func FuzzParse(f *testing.F) {
	f.Add("2 + 3 * 4")
	f.Add("cos(0)")
	f.Add("1×2÷3")
	f.Add("hypot(3, 4)%")
	f.Fuzz(func(t *testing.T, s string) {
		a, err := calculator.Shared().Parse(strings.NewReader(s))
		if err == nil && a == nil {
			t.Errorf("%q: no expression and no error", s)
		}
	})
}

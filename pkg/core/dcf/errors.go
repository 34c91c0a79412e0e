package dcf

import (
	"errors"
	"fmt"
)

// ErrInfeasibleSpread is reported when the discount rate does not exceed
// terminal growth. The perpetuity formula divides by (rate - growth), so the
// terminal value is infinite at equality and sign-reversed below it; the
// engine fails instead of letting such a number flow downstream.
var ErrInfeasibleSpread = errors.New("discount rate must exceed terminal growth")

func spreadError(rate, growth float64) error {
	return fmt.Errorf("%w: wacc=%.4f, terminal_growth=%.4f", ErrInfeasibleSpread, rate, growth)
}

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DataIntegrityError aborts a run. Rows holds a readable rendering of
// every offending input row.
type DataIntegrityError struct {
	Reason string
	Rows   []string
}

func (e DataIntegrityError) Error() string {
	if len(e.Rows) == 0 {
		return "data integrity error: " + e.Reason
	}
	shown := e.Rows
	if len(shown) > 10 {
		shown = shown[:10]
	}
	msg := fmt.Sprintf("data integrity error: %s (%d rows): %s", e.Reason, len(e.Rows), strings.Join(shown, "; "))
	if len(e.Rows) > len(shown) {
		msg += "; ..."
	}
	return msg
}

// AlignmentViolation means a weight was multiplied against a return that
// was not realized strictly after the weight was decided.
type AlignmentViolation struct {
	Symbol       string
	DecisionDate time.Time
	RealizedDate time.Time
}

func (e AlignmentViolation) Error() string {
	return fmt.Sprintf(
		"alignment violation for %s: weight decided %s applied to return realized %s",
		e.Symbol,
		e.DecisionDate.Format(time.DateOnly),
		e.RealizedDate.Format(time.DateOnly),
	)
}

type ParamsError struct {
	Field  string
	Reason string
}

func (e ParamsError) Error() string {
	return fmt.Sprintf("invalid params: %s %s", e.Field, e.Reason)
}

// factor evaluation outcomes that exclude a symbol for a date without
// failing the run
var (
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrStaleSnapshot       = errors.New("no snapshot within staleness bound")
	ErrNoPrice             = errors.New("no price on date")
)

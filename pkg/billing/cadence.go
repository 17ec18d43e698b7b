// Package billing materializes payable fees from fee definitions.
package billing

import (
	"errors"
	"fmt"
	"time"

	"academy-be/internal/entity"

	"github.com/google/uuid"
)

var ErrMalformedDefinition = errors.New("malformed fee definition")

// ValidateDefinition reports why a definition cannot produce fees.
func ValidateDefinition(def *entity.FeeDefinition) error {
	switch {
	case def == nil:
		return fmt.Errorf("%w: nil", ErrMalformedDefinition)
	case def.StudentId == uuid.Nil:
		return fmt.Errorf("%w: missing student", ErrMalformedDefinition)
	case def.AdminId == uuid.Nil:
		return fmt.Errorf("%w: missing admin", ErrMalformedDefinition)
	case !def.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive", ErrMalformedDefinition)
	case def.GenerationDay < 1 || def.GenerationDay > 31:
		return fmt.Errorf("%w: generation day %d out of range", ErrMalformedDefinition, def.GenerationDay)
	case !def.Cadence.IsValid():
		return fmt.Errorf("%w: unknown cadence %q", ErrMalformedDefinition, def.Cadence)
	case def.StartDate.IsZero():
		return fmt.Errorf("%w: missing start date", ErrMalformedDefinition)
	}
	return nil
}

// ShouldGenerateFee decides whether def is due for a fee on now's calendar day.
// hasAnyFee only matters for ONCE definitions.
func ShouldGenerateFee(def *entity.FeeDefinition, now time.Time, hasAnyFee bool) bool {
	today := dateOf(now, now.Location())

	if dateOf(def.StartDate, now.Location()).After(today) {
		return false
	}
	if def.EndDate != nil && dateOf(*def.EndDate, now.Location()).Before(today) {
		return false
	}

	if def.Cadence == entity.FeeCadenceOnce {
		return !hasAnyFee
	}

	if now.Day() != anchorDay(def.GenerationDay, now.Year(), now.Month()) {
		return false
	}

	period := def.Cadence.PeriodMonths()
	if period == 0 {
		return false
	}
	elapsed := MonthsSinceStart(def.StartDate.In(now.Location()), now)
	return elapsed >= 0 && elapsed%period == 0
}

// MonthsSinceStart counts calendar months between start and now, ignoring days.
func MonthsSinceStart(start, now time.Time) int {
	return (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
}

// DueDate anchors to the generation day of now's month. When that day has
// already passed, the due date moves forward one cadence period (one month for ONCE).
func DueDate(def *entity.FeeDefinition, now time.Time) time.Time {
	loc := now.Location()
	year, month := now.Year(), now.Month()

	if now.Day() > anchorDay(def.GenerationDay, year, month) {
		period := def.Cadence.PeriodMonths()
		if period == 0 {
			period = 1
		}
		shifted := time.Date(year, month+time.Month(period), 1, 0, 0, 0, 0, loc)
		year, month = shifted.Year(), shifted.Month()
	}

	return time.Date(year, month, anchorDay(def.GenerationDay, year, month), 0, 0, 0, 0, loc)
}

// anchorDay clamps a generation day to the length of the month, so day 31
// falls on the 30th in April and the 28th or 29th in February.
func anchorDay(generationDay, year int, month time.Month) int {
	last := daysIn(year, month)
	if generationDay > last {
		return last
	}
	return generationDay
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfDay is midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return dateOf(t, t.Location())
}

package services

import (
	"errors"
	"fmt"
	"time"
)

// Cadence is the billing period unit of a subscription.
type Cadence string

const (
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

var ErrUnknownCadence = errors.New("unknown billing cadence")

// weeksPerMonth is the average used to normalize weekly costs. Not
// calendar-exact on purpose: comparisons stay stable across months of
// different lengths.
const weeksPerMonth = 4.33

// ParseCadence validates a cadence string. Callers validate at subscription
// creation time so MonthlyEquivalent and Advance never see an unknown value.
func ParseCadence(s string) (Cadence, error) {
	switch Cadence(s) {
	case CadenceWeekly, CadenceMonthly, CadenceYearly:
		return Cadence(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCadence, s)
}

// MonthlyEquivalent normalizes a cost to a comparable monthly figure.
func MonthlyEquivalent(cost float64, cadence Cadence) (float64, error) {
	switch cadence {
	case CadenceMonthly:
		return cost, nil
	case CadenceYearly:
		return cost / 12, nil
	case CadenceWeekly:
		return cost * weeksPerMonth, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCadence, cadence)
}

// Advance rolls a charge date forward by exactly one cadence period,
// regardless of how late the caller runs. Monthly and yearly advances keep
// the day of month, clamping to the last day of the target month when it is
// shorter (Jan 31 -> Feb 28/29).
func Advance(t time.Time, cadence Cadence) (time.Time, error) {
	switch cadence {
	case CadenceWeekly:
		return t.AddDate(0, 0, 7), nil
	case CadenceMonthly:
		year, month := t.Year(), t.Month()
		if month == time.December {
			year++
			month = time.January
		} else {
			month++
		}
		return dateWithClampedDay(t, year, month), nil
	case CadenceYearly:
		return dateWithClampedDay(t, t.Year()+1, t.Month()), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownCadence, cadence)
}

func dateWithClampedDay(t time.Time, year int, month time.Month) time.Time {
	day := t.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseCadence(t *testing.T) {
	for _, valid := range []string{"weekly", "monthly", "yearly"} {
		c, err := ParseCadence(valid)
		require.NoError(t, err)
		assert.Equal(t, Cadence(valid), c)
	}

	_, err := ParseCadence("daily")
	assert.ErrorIs(t, err, ErrUnknownCadence)

	_, err = ParseCadence("")
	assert.ErrorIs(t, err, ErrUnknownCadence)
}

func TestMonthlyEquivalent(t *testing.T) {
	tests := []struct {
		cost    float64
		cadence Cadence
		want    float64
	}{
		{12.00, CadenceYearly, 1.00},
		{10.00, CadenceWeekly, 43.30},
		{9.99, CadenceMonthly, 9.99},
		{120.00, CadenceYearly, 10.00},
		{0, CadenceWeekly, 0},
	}

	for _, tc := range tests {
		got, err := MonthlyEquivalent(tc.cost, tc.cadence)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-9, "cost=%v cadence=%s", tc.cost, tc.cadence)
	}

	_, err := MonthlyEquivalent(10, "quarterly")
	assert.ErrorIs(t, err, ErrUnknownCadence)
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name    string
		in      time.Time
		cadence Cadence
		want    time.Time
	}{
		{"monthly mid-month", date(2024, time.January, 15), CadenceMonthly, date(2024, time.February, 15)},
		{"monthly year rollover", date(2024, time.December, 15), CadenceMonthly, date(2025, time.January, 15)},
		{"weekly", date(2024, time.March, 10), CadenceWeekly, date(2024, time.March, 17)},
		{"weekly month boundary", date(2024, time.March, 28), CadenceWeekly, date(2024, time.April, 4)},
		{"yearly", date(2024, time.June, 1), CadenceYearly, date(2025, time.June, 1)},
		// month-end clamping: target month is shorter than the source day
		{"monthly clamp to leap february", date(2024, time.January, 31), CadenceMonthly, date(2024, time.February, 29)},
		{"monthly clamp to february", date(2025, time.January, 31), CadenceMonthly, date(2025, time.February, 28)},
		{"monthly clamp 31st to 30-day month", date(2024, time.March, 31), CadenceMonthly, date(2024, time.April, 30)},
		{"yearly clamp leap day", date(2024, time.February, 29), CadenceYearly, date(2025, time.February, 28)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Advance(tc.in, tc.cadence)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %v, got %v", tc.want, got)
		})
	}

	_, err := Advance(date(2024, time.January, 1), "fortnightly")
	assert.ErrorIs(t, err, ErrUnknownCadence)
}

func TestAdvance_PreservesTimeOfDay(t *testing.T) {
	in := time.Date(2024, time.May, 12, 9, 30, 0, 0, time.UTC)

	got, err := Advance(in, CadenceMonthly)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestAdvance_RollsExactlyOnePeriod(t *testing.T) {
	// Advancing repeatedly always moves one period at a time, regardless of
	// how late the caller is.
	d := date(2024, time.January, 31)
	var err error
	for i := 0; i < 12; i++ {
		d, err = Advance(d, CadenceMonthly)
		require.NoError(t, err)
	}
	// clamped in short months but still lands in January the next year
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.January, d.Month())
}

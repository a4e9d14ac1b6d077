package event

import (
	"testing"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"github.com/stretchr/testify/assert"
)

func TestHoliday(t *testing.T) {
	testData := map[string]struct {
		hol       *cal.Holiday
		start     time.Time
		end       time.Time
		durBefore time.Duration
		durAfter  time.Duration
		expected  []Event
	}{
		"simple": {
			hol:       us.ChristmasDay,
			start:     time.Date(2024, 12, 8, 1, 0, 0, 0, time.UTC),
			end:       time.Date(2026, 12, 8, 1, 0, 0, 0, time.UTC),
			durBefore: 0,
			durAfter:  0,
			expected: []Event{
				{
					"Christmas_Day_2024",
					time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
					time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC),
				},
				{
					"Christmas_Day_2025",
					time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC),
					time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		"non utc tz": {
			hol:       us.ChristmasDay,
			start:     time.Date(2024, 12, 8, 1, 0, 0, 0, time.FixedZone("UTC-8", -8*60*60)),
			end:       time.Date(2026, 12, 8, 1, 0, 0, 0, time.FixedZone("UTC-8", -8*60*60)),
			durBefore: 0,
			durAfter:  0,
			expected: []Event{
				{
					"Christmas_Day_2024",
					time.Date(2024, 12, 25, 0, 0, 0, 0, time.FixedZone("UTC-8", -8*60*60)),
					time.Date(2024, 12, 26, 0, 0, 0, 0, time.FixedZone("UTC-8", -8*60*60)),
				},
				{
					"Christmas_Day_2025",
					time.Date(2025, 12, 25, 0, 0, 0, 0, time.FixedZone("UTC-8", -8*60*60)),
					time.Date(2025, 12, 26, 0, 0, 0, 0, time.FixedZone("UTC-8", -8*60*60)),
				},
			},
		},

		"span collapsed by negative buffer": {
			hol:      us.ChristmasDay,
			start:    time.Date(2024, 12, 8, 1, 0, 0, 0, time.UTC),
			end:      time.Date(2026, 12, 8, 1, 0, 0, 0, time.UTC),
			durAfter: -2 * 24 * time.Hour,
			expected: []Event{},
		},
		"with buffer": {
			hol:       us.ChristmasDay,
			start:     time.Date(2024, 12, 8, 1, 0, 0, 0, time.UTC),
			end:       time.Date(2026, 12, 8, 1, 0, 0, 0, time.UTC),
			durBefore: time.Duration(24 * time.Hour),
			durAfter:  time.Duration(2 * 24 * time.Hour),
			expected: []Event{
				{
					"Christmas_Day_2024",
					time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC),
					time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC),
				},
				{
					"Christmas_Day_2025",
					time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC),
					time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC),
				},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := Holiday(td.hol, td.start, td.end, td.durBefore, td.durAfter)
			assert.Equal(t, td.expected, res)
		})
	}
}

func TestEventValid(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	e := NewEvent("promo", start, end)
	assert.Nil(t, e.Valid())

	e = NewEvent("", start, end)
	assert.ErrorIs(t, e.Valid(), ErrNoEventName)

	e = NewEvent("promo", end, start)
	assert.ErrorIs(t, e.Valid(), ErrStartAfterEnd)

	e = NewEvent("promo", time.Time{}, end)
	assert.ErrorIs(t, e.Valid(), ErrUnsetTime)
}

func TestCalendarIndicator(t *testing.T) {
	tSeries := []time.Time{
		time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
	}

	c := NewCalendar()
	res := c.Indicator(tSeries)
	assert.Equal(t, []float64{0, 1, 0, 1, 0}, res)

	c = NewCalendar(us.ChristmasDay)
	res = c.Indicator(tSeries)
	assert.Equal(t, []float64{0, 1, 0, 0, 0}, res)

	assert.Empty(t, c.Indicator(nil))
}

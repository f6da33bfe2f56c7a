package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmyappointment/booking-api/internal/httperr"
)

func TestParseClock(t *testing.T) {
	min, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, min)

	min, err = ParseClock("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, min)

	_, err = ParseClock("9h30")
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:30", FormatClock(570))
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "18:05", FormatClock(18*60+5))
}

func TestParseInterval(t *testing.T) {
	iv, err := ParseInterval("09:00", "18:00")
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 540, End: 1080}, iv)

	_, err = ParseInterval("18:00", "09:00")
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))

	// Zero-length is invalid too.
	_, err = ParseInterval("09:00", "09:00")
	assert.Error(t, err)
}

func TestOverlapsHalfOpen(t *testing.T) {
	a := Interval{Start: 540, End: 600} // 09:00-10:00

	// Back-to-back slots share a boundary and do not overlap.
	assert.False(t, a.Overlaps(Interval{Start: 600, End: 660}))
	assert.False(t, a.Overlaps(Interval{Start: 480, End: 540}))

	assert.True(t, a.Overlaps(Interval{Start: 570, End: 630}))
	assert.True(t, a.Overlaps(Interval{Start: 500, End: 550}))
	assert.True(t, a.Overlaps(Interval{Start: 500, End: 700}))
	assert.True(t, a.Overlaps(a))
}

func TestContains(t *testing.T) {
	window := Interval{Start: 540, End: 1080}

	assert.True(t, window.Contains(Interval{Start: 540, End: 600}))
	assert.True(t, window.Contains(Interval{Start: 1020, End: 1080}))
	assert.False(t, window.Contains(Interval{Start: 500, End: 600}))
	assert.False(t, window.Contains(Interval{Start: 1020, End: 1081}))
}

func TestClip(t *testing.T) {
	window := Interval{Start: 540, End: 1080}

	clipped, ok := Interval{Start: 500, End: 600}.Clip(window)
	require.True(t, ok)
	assert.Equal(t, Interval{Start: 540, End: 600}, clipped)

	// Wholly outside the window: no effect left.
	_, ok = Interval{Start: 300, End: 400}.Clip(window)
	assert.False(t, ok)

	// Touching the boundary only is empty after clipping.
	_, ok = Interval{Start: 480, End: 540}.Clip(window)
	assert.False(t, ok)
}

func TestAddBreak(t *testing.T) {
	existing := []Interval{{Start: 720, End: 780}} // 12:00-13:00

	out, err := AddBreak(existing, Interval{Start: 600, End: 630})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 600, out[0].Start) // sorted by start

	// Strict overlap with an existing break is rejected.
	_, err = AddBreak(existing, Interval{Start: 750, End: 810})
	assert.True(t, httperr.IsBusiness(err, "break_overlap"))

	// Adjacent is fine under half-open semantics.
	_, err = AddBreak(existing, Interval{Start: 780, End: 840})
	assert.NoError(t, err)
}

func TestWeekdayOf(t *testing.T) {
	day, err := WeekdayOf("2026-08-24")
	require.NoError(t, err)
	assert.Equal(t, "Monday", day)

	day, err = WeekdayOf("2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, "Sunday", day)

	_, err = WeekdayOf("30/08/2026")
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
}

package timeutil_test

import (
	"strings"
	"testing"

	"github.com/RogueKostas/ZenRoutine/pkg/timeutil"
	"github.com/stretchr/testify/assert"
)

func TestMinutesToTimeString(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{1, "00:01"},
		{59, "00:59"},
		{60, "01:00"},
		{540, "09:00"},
		{754, "12:34"},
		{1439, "23:59"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, timeutil.MinutesToTimeString(c.minutes))
	}
}

func TestTimeStringToMinutes(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := timeutil.TimeStringToMinutes("09:30")
		assert.NoError(t, err)
		assert.Equal(t, 570, got)
	})
	t.Run("missing separator", func(t *testing.T) {
		_, err := timeutil.TimeStringToMinutes("0930")
		assert.Error(t, err)
	})
	t.Run("garbage hours", func(t *testing.T) {
		_, err := timeutil.TimeStringToMinutes("ab:30")
		assert.Error(t, err)
	})
	t.Run("garbage minutes", func(t *testing.T) {
		_, err := timeutil.TimeStringToMinutes("09:xx")
		assert.Error(t, err)
	})
}

func TestTimeStringRoundTrip(t *testing.T) {
	for m := 0; m < 1440; m++ {
		got, err := timeutil.TimeStringToMinutes(timeutil.MinutesToTimeString(m))
		assert.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		minutes float64
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{59.6, "1h"},
		{60, "1h"},
		{90, "1h 30m"},
		{120, "2h"},
		{150.4, "2h 30m"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, timeutil.FormatDuration(c.minutes))
	}
}

func TestFormatDurationNeverTrailsZeroMinutes(t *testing.T) {
	for m := 0; m <= 600; m++ {
		s := timeutil.FormatDuration(float64(m))
		if m >= 60 {
			assert.Contains(t, s, "h")
		} else {
			assert.NotContains(t, s, "h")
		}
		assert.False(t, strings.HasSuffix(s, " 0m"), "got %q for %d", s, m)
	}
}

func TestDayName(t *testing.T) {
	assert.Equal(t, "Sunday", timeutil.DayName(0, false))
	assert.Equal(t, "Wed", timeutil.DayName(3, true))
	assert.Equal(t, "Saturday", timeutil.DayName(6, false))
	assert.Equal(t, "", timeutil.DayName(7, false))
	assert.Equal(t, "", timeutil.DayName(-1, true))
}

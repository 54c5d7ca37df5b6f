package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeksJune2024(t *testing.T) {
	weeks := Weeks(2024, time.June)
	require.Len(t, weeks, 5)

	// June 1, 2024 is a Saturday: Monday through Friday stay blank.
	for col := 0; col < 5; col++ {
		assert.True(t, weeks[0][col].IsZero())
	}
	assert.Equal(t, 1, weeks[0][5].Day())
	assert.Equal(t, 2, weeks[0][6].Day())

	// the month ends on Sunday the 30th, closing the last row exactly
	last := weeks[len(weeks)-1]
	assert.Equal(t, 30, last[6].Day())
	assert.Equal(t, time.June, last[6].Month())
}

func TestWeeksExactMonth(t *testing.T) {
	// February 2021 starts on a Monday and has 28 days: four full rows.
	weeks := Weeks(2021, time.February)
	require.Len(t, weeks, 4)
	assert.Equal(t, 1, weeks[0][0].Day())
	assert.Equal(t, 28, weeks[3][6].Day())
	for _, week := range weeks {
		for _, d := range week {
			assert.False(t, d.IsZero())
		}
	}
}

func TestWeeksTrailingPartialRow(t *testing.T) {
	// July 2024 ends on a Wednesday: the last row has blanks after the 31st.
	weeks := Weeks(2024, time.July)
	last := weeks[len(weeks)-1]
	assert.Equal(t, 31, last[2].Day())
	for col := 3; col < 7; col++ {
		assert.True(t, last[col].IsZero())
	}
}

func TestPrevNextAcrossYear(t *testing.T) {
	y, m := Prev(2024, time.January)
	assert.Equal(t, 2023, y)
	assert.Equal(t, time.December, m)

	y, m = Next(2023, time.December)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.January, m)
}

func TestParseDay(t *testing.T) {
	d, ok := ParseDay("Mon")
	require.True(t, ok)
	assert.Equal(t, time.Monday, d)

	d, ok = ParseDay("Sun")
	require.True(t, ok)
	assert.Equal(t, time.Sunday, d)

	_, ok = ParseDay("Monday")
	assert.False(t, ok)
}

func TestDayNamesOrder(t *testing.T) {
	require.Len(t, DayNames, 7)
	assert.Equal(t, "Mon", DayNames[0])
	assert.Equal(t, "Sun", DayNames[6])
}

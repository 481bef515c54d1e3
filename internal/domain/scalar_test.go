package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFlag_Unmarshal(t *testing.T) {
	cases := []struct {
		input string
		want  ReadFlag
	}{
		{`true`, true},
		{`false`, false},
		{`1`, true},
		{`0`, false},
		{`"1"`, true},
		{`"0"`, false},
		{`"TRUE"`, true},
		{`null`, false},
	}
	for _, c := range cases {
		var f ReadFlag
		require.NoError(t, json.Unmarshal([]byte(c.input), &f), "input: %s", c.input)
		assert.Equal(t, c.want, f, "input: %s", c.input)
	}
}

func TestReadFlag_UnmarshalRejectsGarbage(t *testing.T) {
	var f ReadFlag
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &f))
	assert.Error(t, json.Unmarshal([]byte(`2`), &f))
}

func TestTimestamp_Layouts(t *testing.T) {
	want := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	for _, input := range []string{
		`"2024-03-05T09:30:00Z"`,
		`"2024-03-05T09:30:00"`,
		`"2024-03-05T09:30:00.000"`,
		`"2024-03-05 09:30:00"`,
		`1709631000000`,
	} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(input), &ts), "input: %s", input)
		assert.True(t, want.Equal(ts.Time), "input: %s got %s", input, ts.Time)
	}
}

func TestTimestamp_NullAndZero(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestDate_AcceptsDateTimeAndEncodesDay(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-09-01T14:00:00"`), &d))
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-09-01"`, string(out))
}

func TestDate_Between(t *testing.T) {
	from, _ := ParseDate("2024-01-01")
	to, _ := ParseDate("2024-01-31")
	inside, _ := ParseDate("2024-01-31")
	outside, _ := ParseDate("2024-02-01")

	assert.True(t, inside.Between(from, to))
	assert.False(t, outside.Between(from, to))
	assert.True(t, outside.Between(from, Date{}))
	assert.False(t, Date{}.Between(from, to))
}

func TestParseTimestamp_Invalid(t *testing.T) {
	_, err := ParseTimestamp("yesterday")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestWeekOf(t *testing.T) {
	// 2026-03-12 is a Thursday.
	mon, sun := WeekOf(time.Date(2026, 3, 12, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, "2026-03-09", mon.String())
	assert.Equal(t, "2026-03-15", sun.String())

	mon, sun = WeekOf(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-03-09", mon.String())
	assert.Equal(t, "2026-03-15", sun.String())
}

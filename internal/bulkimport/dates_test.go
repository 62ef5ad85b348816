package bulkimport

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateEveryLayout(t *testing.T) {
	// A moment every supported layout can represent without ambiguity
	// surprises: day > 12 so day/month order is observable.
	want := time.Date(2026, time.March, 25, 0, 0, 0, 0, time.UTC)
	wantClock := time.Date(2026, time.March, 25, 14, 30, 0, 0, time.UTC)
	wantSecs := time.Date(2026, time.March, 25, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"25-03-2026", want},
		{"03-25-2026", want},
		{"2026-03-25", want},
		{"25/03/2026", want},
		{"03/25/2026", want},
		{"2026/03/25", want},
		{"25-03-2026 14:30", wantClock},
		{"03-25-2026 14:30", wantClock},
		{"2026-03-25 14:30", wantClock},
		{"25/03/2026 14:30", wantClock},
		{"03/25/2026 14:30", wantClock},
		{"2026/03/25 14:30", wantClock},
		{"25-03-2026 14:30:45", wantSecs},
		{"03-25-2026 14:30:45", wantSecs},
		{"2026-03-25 14:30:45", wantSecs},
		{"25/03/2026 14:30:45", wantSecs},
		{"03/25/2026 14:30:45", wantSecs},
		{"2026/03/25 14:30:45", wantSecs},
		{"2026-03-25T14:30:45Z", wantSecs},
		{"2026-03-25T14:30:45", wantSecs},
		{"2026-03-25T14:30", wantClock},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseDateAmbiguityFirstMatchWins(t *testing.T) {
	// "03-04-2026" parses as both dd-MM and MM-dd; the dd-MM layout is
	// listed first so it wins: April 3rd, not March 4th.
	got, err := ParseDate("03-04-2026")
	require.NoError(t, err)
	assert.Equal(t, time.April, got.Month())
	assert.Equal(t, 3, got.Day())
}

func TestParseDateErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrDueDateRequired},
		{"whitespace only", "   ", ErrDueDateRequired},
		{"garbage", "not-a-date", ErrInvalidDateFormat},
		{"month thirteen", "2026-13-01", ErrInvalidDateFormat},
		{"partial", "2026-03", ErrInvalidDateFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDate(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseDateTrimsWhitespace(t *testing.T) {
	got, err := ParseDate("  2026-03-25  ")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-25", got.Format("2006-01-02"))
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, time.March, 25, 23, 59, 59, 999, time.UTC)
	got := startOfDay(in)
	assert.Equal(t, time.Date(2026, time.March, 25, 0, 0, 0, 0, time.UTC), got)
}

func ExampleParseDate() {
	t, _ := ParseDate("25/03/2026 14:30")
	fmt.Println(t.Format(time.RFC3339))
	// Output: 2026-03-25T14:30:00Z
}

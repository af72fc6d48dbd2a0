package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/geodateam/team-presence/internal/core/common/dates"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2026-03-02", dates.Format(ts))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid date", "2026-03-02", true},
		{"leap day", "2024-02-29", true},
		{"non leap day", "2026-02-29", false},
		{"month out of range", "2026-13-01", false},
		{"slash separators", "2026/03/02", false},
		{"missing zero padding", "2026-3-2", false},
		{"empty", "", false},
		{"garbage", "not-a-date", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := dates.Validate(tc.input)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestInRange(t *testing.T) {
	cases := []struct {
		name             string
		date, start, end string
		want             bool
	}{
		{"inside window", "2026-03-02", "2026-03-01", "2026-03-03", true},
		{"inclusive start", "2026-03-01", "2026-03-01", "2026-03-03", true},
		{"inclusive end", "2026-03-03", "2026-03-01", "2026-03-03", true},
		{"before window", "2026-02-28", "2026-03-01", "2026-03-03", false},
		{"after window", "2026-03-04", "2026-03-01", "2026-03-03", false},
		{"open start", "2026-03-02", "", "2026-03-03", true},
		{"open end", "2026-03-02", "2026-03-01", "", true},
		{"fully open", "2026-03-02", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dates.InRange(tc.date, tc.start, tc.end))
		})
	}
}

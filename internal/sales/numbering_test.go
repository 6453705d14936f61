package sales

import (
	"testing"
	"time"
)

func TestNextSaleNumber(t *testing.T) {
	day := time.Date(2025, 3, 14, 10, 30, 0, 0, time.Local)

	cases := []struct {
		name string
		last string
		now  time.Time
		want string
	}{
		{name: "first sale ever", last: "", now: day, want: "SL202503140001"},
		{name: "increments same day", last: "SL202503140007", now: day, want: "SL202503140008"},
		{name: "resets on new day", last: "SL202503130042", now: day, want: "SL202503140001"},
		{name: "ignores malformed suffix", last: "SL20250314abcd", now: day, want: "SL202503140001"},
		{name: "grows past four digits", last: "SL202503149999", now: day, want: "SL2025031410000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextSaleNumber(tc.last, tc.now); got != tc.want {
				t.Fatalf("nextSaleNumber(%q) = %q, want %q", tc.last, got, tc.want)
			}
		})
	}
}

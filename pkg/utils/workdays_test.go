package util

import "testing"

func TestCountScheduledWorkdays(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		// 2025-03-03 is a Monday.
		{"monday to saturday", "2025-03-03", "2025-03-08", 6},
		{"monday to sunday", "2025-03-03", "2025-03-09", 6},
		{"two full weeks", "2025-03-03", "2025-03-16", 12},
		{"single workday", "2025-03-03", "2025-03-03", 1},
		{"single sunday", "2025-03-02", "2025-03-02", 0},
		{"saturday counts", "2025-03-08", "2025-03-08", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CountScheduledWorkdays(tc.start, tc.end)
			if err != nil {
				t.Fatalf("CountScheduledWorkdays(%q, %q): %v", tc.start, tc.end, err)
			}
			if got != tc.want {
				t.Errorf("CountScheduledWorkdays(%q, %q) = %d, want %d", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestCountScheduledWorkdaysErrors(t *testing.T) {
	if _, err := CountScheduledWorkdays("03-03-2025", "2025-03-08"); err == nil {
		t.Error("expected error for malformed start date")
	}
	if _, err := CountScheduledWorkdays("2025-03-03", "not-a-date"); err == nil {
		t.Error("expected error for malformed end date")
	}
	if _, err := CountScheduledWorkdays("2025-03-08", "2025-03-03"); err == nil {
		t.Error("expected error when end precedes start")
	}
}

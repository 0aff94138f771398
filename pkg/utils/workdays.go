package util

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// CountScheduledWorkdays counts the working days (Monday through Saturday)
// between two dates, inclusive. Construction sites run six-day weeks.
func CountScheduledWorkdays(startDate, endDate string) (int, error) {
	layout := "2006-01-02"

	start, err := time.Parse(layout, startDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(layout, endDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return 0, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}

	rr, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   start,
		Byweekday: []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to build workday rule: %w", err)
	}

	ruleSet := rrule.Set{}
	ruleSet.RRule(rr)

	return len(ruleSet.Between(start, end, true)), nil
}

package campaign

import (
	"fmt"
	"time"
)

// SendCheck is the pre-send gate for a campaign: estimated cost against the
// org's balance, and the org-local send time against quiet hours.
type SendCheck struct {
	RecipientCount int
	PerMessageCost float64
	Balance        float64

	// "HH:MM" boundaries; the window may wrap midnight (21:00 -> 09:00).
	// Empty boundaries disable the quiet-hours check.
	QuietStart string
	QuietEnd   string
}

// EstimatedCost returns the projected spend for this send.
func (c SendCheck) EstimatedCost() float64 {
	return float64(c.RecipientCount) * c.PerMessageCost
}

// Validate reports why the campaign must not be sent at now, or nil.
func (c SendCheck) Validate(now time.Time) error {
	if c.RecipientCount <= 0 {
		return fmt.Errorf("campaign has no recipients")
	}
	if cost := c.EstimatedCost(); cost > c.Balance {
		return fmt.Errorf("estimated cost %.2f exceeds balance %.2f", cost, c.Balance)
	}
	if c.QuietStart != "" && c.QuietEnd != "" {
		inside, err := withinWindow(now, c.QuietStart, c.QuietEnd)
		if err != nil {
			return err
		}
		if inside {
			return fmt.Errorf("sending is blocked during quiet hours (%s-%s)", c.QuietStart, c.QuietEnd)
		}
	}
	return nil
}

// withinWindow reports whether now falls inside the [start, end) wall-clock
// window, handling windows that wrap midnight.
func withinWindow(now time.Time, start, end string) (bool, error) {
	startMin, err := parseClock(start)
	if err != nil {
		return false, err
	}
	endMin, err := parseClock(end)
	if err != nil {
		return false, err
	}
	nowMin := now.Hour()*60 + now.Minute()

	if startMin == endMin {
		return false, nil
	}
	if startMin < endMin {
		return nowMin >= startMin && nowMin < endMin, nil
	}
	// wraps midnight
	return nowMin >= startMin || nowMin < endMin, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid quiet-hours time %q (expected HH:MM)", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

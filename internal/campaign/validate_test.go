package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hhmm string) time.Time {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	return time.Date(2026, 3, 10, t.Hour(), t.Minute(), 0, 0, time.UTC)
}

func TestValidatePassesWithinBudgetAndDaytime(t *testing.T) {
	check := SendCheck{
		RecipientCount: 100,
		PerMessageCost: 0.80,
		Balance:        100,
		QuietStart:     "21:00",
		QuietEnd:       "09:00",
	}
	assert.NoError(t, check.Validate(at("14:00")))
	assert.Equal(t, 80.0, check.EstimatedCost())
}

func TestValidateRejectsCostOverBalance(t *testing.T) {
	check := SendCheck{RecipientCount: 200, PerMessageCost: 0.80, Balance: 100}
	err := check.Validate(at("14:00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds balance")
}

func TestValidateRejectsEmptyRecipientList(t *testing.T) {
	check := SendCheck{RecipientCount: 0, Balance: 100}
	assert.Error(t, check.Validate(at("14:00")))
}

func TestQuietHoursWrappingMidnight(t *testing.T) {
	check := SendCheck{
		RecipientCount: 1,
		PerMessageCost: 0.10,
		Balance:        10,
		QuietStart:     "21:00",
		QuietEnd:       "09:00",
	}
	assert.Error(t, check.Validate(at("22:30")))
	assert.Error(t, check.Validate(at("03:00")))
	assert.Error(t, check.Validate(at("21:00"))) // boundary start is quiet
	assert.NoError(t, check.Validate(at("09:00")))
	assert.NoError(t, check.Validate(at("12:00")))
}

func TestQuietHoursSameDayWindow(t *testing.T) {
	check := SendCheck{
		RecipientCount: 1,
		PerMessageCost: 0.10,
		Balance:        10,
		QuietStart:     "13:00",
		QuietEnd:       "14:00",
	}
	assert.Error(t, check.Validate(at("13:30")))
	assert.NoError(t, check.Validate(at("12:59")))
	assert.NoError(t, check.Validate(at("14:00")))
}

func TestQuietHoursDisabledWhenUnset(t *testing.T) {
	check := SendCheck{RecipientCount: 1, PerMessageCost: 0.10, Balance: 10}
	assert.NoError(t, check.Validate(at("23:00")))
}

func TestQuietHoursBadClockValue(t *testing.T) {
	check := SendCheck{
		RecipientCount: 1,
		Balance:        10,
		QuietStart:     "25:99",
		QuietEnd:       "09:00",
	}
	assert.Error(t, check.Validate(at("12:00")))
}

package timerecord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ct(s string) *ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return &c
}

func TestCalculateWorkedMinutes(t *testing.T) {
	tests := []struct {
		name                         string
		entry, exit, lunchS, lunchE *ClockTime
		want                         int
	}{
		{"full day with lunch", ct("08:00"), ct("18:00"), ct("12:00"), ct("13:00"), 540},
		{"no exit", ct("08:00"), nil, nil, nil, 0},
		{"no entry", nil, ct("17:00"), nil, nil, 0},
		{"no lunch", ct("09:00"), ct("17:30"), nil, nil, 510},
		{"only lunch start", ct("09:00"), ct("17:00"), ct("12:00"), nil, 480},
		{"inverted lunch ignored", ct("09:00"), ct("17:00"), ct("13:00"), ct("12:00"), 480},
		{"exit before entry floors at zero", ct("18:00"), ct("08:00"), nil, nil, 0},
		{"lunch longer than span floors at zero", ct("10:00"), ct("11:00"), ct("09:00"), ct("12:00"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateWorkedMinutes(tt.entry, tt.exit, tt.lunchS, tt.lunchE)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CalculateWorkedMinutes(tt.entry, tt.exit, tt.lunchS, tt.lunchE), "calculation is idempotent")
		})
	}
}

func TestCalculateWorkedMinutes_LunchInsideSpan(t *testing.T) {
	for entry := 6 * 60; entry <= 10*60; entry += 37 {
		for span := 60; span <= 12*60; span += 53 {
			exit := entry + span
			lunchStart := entry + span/3
			lunchEnd := lunchStart + span/4
			e, x := ClockTime(entry), ClockTime(exit)
			ls, le := ClockTime(lunchStart), ClockTime(lunchEnd)

			got := CalculateWorkedMinutes(&e, &x, &ls, &le)
			assert.Equal(t, (exit-entry)-(lunchEnd-lunchStart), got)
			assert.GreaterOrEqual(t, got, 0)
		}
	}
}

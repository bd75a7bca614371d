package timerecord

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	c, err := ParseClockTime("08:05")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(485), c)
	assert.Equal(t, "08:05", c.String())

	c, err = ParseClockTime("17:30:59")
	require.NoError(t, err)
	assert.Equal(t, "17:30", c.String())

	for _, bad := range []string{"", "25:00", "12:60", "noon", "12-30"} {
		_, err := ParseClockTime(bad)
		assert.Error(t, err, bad)
	}
}

func TestNextClockField_FillsInOrder(t *testing.T) {
	var r TimeRecord
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	for i, want := range []Field{FieldEntryTime, FieldLunchStart, FieldLunchEnd, FieldExitTime} {
		f, ok := r.NextClockField()
		require.True(t, ok)
		assert.Equal(t, want, f)
		r.Punch(f, ClockTime(8*60+i*60).Ptr(), at)
		assert.NotNil(t, r.RecordedAt(f))
	}

	_, ok := r.NextClockField()
	assert.False(t, ok)
}

func TestPunch_NilClearsStamp(t *testing.T) {
	var r TimeRecord
	r.Punch(FieldExitTime, ct("17:00"), time.Now())
	r.Punch(FieldExitTime, nil, time.Now())

	assert.Nil(t, r.ExitTime)
	assert.Nil(t, r.ExitTimeRecordedAt)
}

func TestValidateWindows(t *testing.T) {
	r := TimeRecord{EntryTime: ct("09:00"), ExitTime: ct("08:00"), LunchStart: ct("13:00"), LunchEnd: ct("12:00")}

	err := r.ValidateWindows()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "exit_time")
	assert.Contains(t, fields, "lunch_end")

	ok := TimeRecord{EntryTime: ct("08:00"), ExitTime: ct("18:00"), LunchStart: ct("12:00"), LunchEnd: ct("13:00")}
	assert.NoError(t, ok.ValidateWindows())
}

func TestApply(t *testing.T) {
	notes := "original"
	r := TimeRecord{
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EntryTime: ct("08:00"),
		Notes:     &notes,
	}

	require.NoError(t, r.Apply(FieldExitTime, "17:00"))
	assert.Equal(t, "17:00", r.ExitTime.String())
	assert.Nil(t, r.ExitTimeRecordedAt, "adjustments do not stamp recorded_at")

	require.NoError(t, r.Apply(FieldDate, "2026-03-03"))
	assert.Equal(t, "2026-03-03", r.Date.Format(DateLayout))

	require.NoError(t, r.Apply(FieldNotes, "forgot to clock out"))
	assert.Equal(t, "forgot to clock out", *r.Notes)

	err := r.Apply(FieldExitTime, "5pm")
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "requested_value", verrs[0].Field)

	assert.ErrorIs(t, r.Apply(Field("worked_minutes"), "10"), ErrInvalidField)
}

func TestValue(t *testing.T) {
	r := TimeRecord{Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), EntryTime: ct("08:00")}

	assert.Equal(t, "08:00", *r.Value(FieldEntryTime))
	assert.Nil(t, r.Value(FieldExitTime))
	assert.Equal(t, "2026-03-02", *r.Value(FieldDate))
	assert.Nil(t, r.Value(FieldNotes))
}

func TestBuildAudit(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	recorded := time.Date(2026, 3, 2, 11, 15, 0, 0, time.UTC) // 08:15 local
	late := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)      // next day
	r := TimeRecord{
		ID:                  "rec",
		Date:                time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EntryTime:           ct("08:00"),
		EntryTimeRecordedAt: &recorded,
		ExitTime:            ct("17:00"),
		ExitTimeRecordedAt:  &late,
	}

	audit := BuildAudit(r, loc)
	require.Len(t, audit.Entries, 4)

	entry := audit.Entries[0]
	assert.Equal(t, "entry_time", entry.Field)
	assert.False(t, entry.Backdated)
	require.NotNil(t, entry.RecordedDelayMinutes)
	assert.Equal(t, 15, *entry.RecordedDelayMinutes)

	exit := audit.Entries[3]
	assert.Equal(t, "exit_time", exit.Field)
	assert.True(t, exit.Backdated)

	lunch := audit.Entries[1]
	assert.Nil(t, lunch.RecordedAt)
	assert.Nil(t, lunch.RecordedDelayMinutes)
}

func TestStoreTimeRecordRequest_Validate(t *testing.T) {
	bad := "7h"
	req := StoreTimeRecordRequest{Date: "2026/03/02", EntryTime: &bad}
	err := req.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "date")
	assert.Contains(t, verrs.ToMap(), "entry_time")

	empty := ""
	good := StoreTimeRecordRequest{Date: "2026-03-02", ExitTime: &empty}
	require.NoError(t, good.Validate())
	inputs := good.ClockInputs(&verrs)
	assert.True(t, inputs[FieldExitTime].Set)
	assert.Nil(t, inputs[FieldExitTime].Value)
	assert.False(t, inputs[FieldEntryTime].Set)
}

package genetic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sma-edu/timetable-ga/internal/schedule"
	"github.com/sma-edu/timetable-ga/internal/timeslot"
)

func TestWarmStartInterleavesPeriodsWithinADay(t *testing.T) {
	c := &schedule.Chromosome{Items: []schedule.Item{
		{CourseID: "cs101", Day: timeslot.Monday},
		{CourseID: "cs102", Day: timeslot.Monday},
		{CourseID: "cs103", Day: timeslot.Monday},
	}}

	WarmStart(c)

	p1, _, err := timeslot.PeriodToTime(1)
	assert.NoError(t, err)
	p3, _, err := timeslot.PeriodToTime(3)
	assert.NoError(t, err)
	p5, _, err := timeslot.PeriodToTime(5)
	assert.NoError(t, err)

	assert.Equal(t, p1, c.Items[0].Start, "first gene on the day takes period 1")
	assert.Equal(t, p3, c.Items[1].Start, "second gene takes period 3")
	assert.Equal(t, p5, c.Items[2].Start, "third gene takes period 5")
}

func TestWarmStartNeverTouchesCourseRoomOrLecturer(t *testing.T) {
	c := &schedule.Chromosome{Items: []schedule.Item{
		{CourseID: "cs101", LecturerID: "lect-1", RoomID: "r1", Day: timeslot.Monday},
	}}

	WarmStart(c)

	assert.Equal(t, "cs101", c.Items[0].CourseID)
	assert.Equal(t, "lect-1", c.Items[0].LecturerID)
	assert.Equal(t, "r1", c.Items[0].RoomID)
}

func TestWarmStartTreatsEachDayIndependently(t *testing.T) {
	c := &schedule.Chromosome{Items: []schedule.Item{
		{CourseID: "cs101", Day: timeslot.Monday},
		{CourseID: "cs102", Day: timeslot.Tuesday},
	}}

	WarmStart(c)

	p1, _, err := timeslot.PeriodToTime(1)
	assert.NoError(t, err)
	assert.Equal(t, p1, c.Items[0].Start, "Monday's sole gene gets period 1")
	assert.Equal(t, p1, c.Items[1].Start, "Tuesday's sole gene also gets period 1, independent of Monday")
}

package genetic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sma-edu/timetable-ga/internal/schedule"
	"github.com/sma-edu/timetable-ga/internal/timeslot"
	"github.com/sma-edu/timetable-ga/pkg/rng"
)

func TestMutateBelowRateLeavesChromosomeUntouched(t *testing.T) {
	snap := fixtureSnapshot(t)
	original := schedule.Item{CourseID: "cs101", LecturerID: "lect-1", RoomID: "r1", Day: timeslot.Monday}
	c := &schedule.Chromosome{Items: []schedule.Item{original}}

	Mutate(snap, c, 0, rng.New(1))

	assert.Equal(t, original, c.Items[0])
}

func TestMutateEmptyChromosomeIsNoop(t *testing.T) {
	snap := fixtureSnapshot(t)
	c := &schedule.Chromosome{}
	assert.NotPanics(t, func() {
		Mutate(snap, c, 1.0, rng.New(1))
	})
}

func TestMutateAlwaysSnapsLecturerBackToCatalogueMapping(t *testing.T) {
	snap := fixtureSnapshot(t)
	c := &schedule.Chromosome{Items: []schedule.Item{
		{CourseID: "cs101", LecturerID: "some-wrong-lecturer", RoomID: "r1", Day: timeslot.Monday},
	}}

	Mutate(snap, c, 1.0, rng.New(3))

	assert.Equal(t, "lect-1", c.Items[0].LecturerID, "P4: mutation must never leave an incorrect lecturer behind")
}

func TestMutateUnknownCourseIsNoop(t *testing.T) {
	snap := fixtureSnapshot(t)
	c := &schedule.Chromosome{Items: []schedule.Item{
		{CourseID: "does-not-exist", LecturerID: "lect-1", RoomID: "r1", Day: timeslot.Monday},
	}}
	original := c.Items[0]

	Mutate(snap, c, 1.0, rng.New(1))

	assert.Equal(t, original, c.Items[0])
}

func TestMutateOnlyTouchesOneOfTimeRoomOrDay(t *testing.T) {
	snap := fixtureSnapshot(t)
	for seed := int64(0); seed < 20; seed++ {
		before := schedule.Item{CourseID: "cs101", LecturerID: "lect-1", RoomID: "r1", Day: timeslot.Monday}
		c := &schedule.Chromosome{Items: []schedule.Item{before}}

		Mutate(snap, c, 1.0, rng.New(seed))

		after := c.Items[0]
		assert.Equal(t, before.CourseID, after.CourseID)
		assert.Equal(t, "lect-1", after.LecturerID)

		changed := 0
		if before.Start != after.Start || before.End != after.End {
			changed++
		}
		if before.RoomID != after.RoomID {
			changed++
		}
		if before.Day != after.Day {
			changed++
		}
		assert.LessOrEqual(t, changed, 1, "at most one of time, room or day may change")
	}
}

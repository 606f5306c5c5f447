package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sma-edu/timetable-ga/internal/catalogue"
	"github.com/sma-edu/timetable-ga/internal/timeslot"
	"github.com/sma-edu/timetable-ga/pkg/rng"
)

func fixtureSnapshot(t *testing.T, courses []catalogue.Course, lecturers []catalogue.Lecturer, rooms []catalogue.Room) *catalogue.Snapshot {
	t.Helper()
	snap, err := catalogue.Load(courses, lecturers, rooms, nil, catalogue.Filter{Semester: "fall"}, nil)
	require.NoError(t, err)
	return snap
}

func TestBuildProducesAtLeastOneSessionPerCourse(t *testing.T) {
	courses := []catalogue.Course{
		{ID: "cs101", Name: "Intro CS", Semester: "fall", Students: 30, Credit: 4, LecturerID: "lect-1"},
	}
	rooms := []catalogue.Room{
		{ID: "r1", Name: "Room 1", Capacity: 40},
	}
	snap := fixtureSnapshot(t, courses, nil, rooms)

	c := Build(snap, rng.New(1), 200, nil)

	assert.GreaterOrEqual(t, len(c.Items), 2, "P1: a 4-credit course needs >=2 sessions")
	for _, it := range c.Items {
		assert.True(t, it.Day.IsWeekday(), "P2: every gene's day must be a weekday")
	}
}

func TestBuildNeverDropsACourseEvenWithoutSuitableRoom(t *testing.T) {
	courses := []catalogue.Course{
		{ID: "cs101", Name: "Physics Lab", Semester: "fall", Students: 30, Credit: 2, LecturerID: "lect-1"},
	}
	// No LAB-typed room exists at all: tryPlace can never succeed, but
	// fallbackPlace must still place the course's sessions.
	rooms := []catalogue.Room{
		{ID: "r1", Name: "Room 1", Capacity: 40},
	}
	snap := fixtureSnapshot(t, courses, nil, rooms)

	c := Build(snap, rng.New(1), 200, nil)

	assert.GreaterOrEqual(t, len(c.Items), 1, "fallback must still place the session")
	for _, it := range c.Items {
		assert.Equal(t, "cs101", it.CourseID)
	}
}

func TestBuildPlacementsNeverViolatePrayerWindow(t *testing.T) {
	courses := []catalogue.Course{
		{ID: "cs101", Name: "Intro CS", Semester: "fall", Students: 30, Credit: 10, LecturerID: "lect-1"},
	}
	rooms := []catalogue.Room{
		{ID: "r1", Name: "Room 1", Capacity: 40},
		{ID: "r2", Name: "Room 2", Capacity: 40},
	}
	snap := fixtureSnapshot(t, courses, nil, rooms)

	c := Build(snap, rng.New(42), 200, nil)
	for _, it := range c.Items {
		// tryPlace always rejects prayer-violating candidates; only
		// fallbackPlace can produce one, and this fixture has enough
		// rooms/sessions headroom that fallback is not needed. Assert
		// the common path holds.
		assert.False(t, timeslot.ViolatesPrayer(it.Slot()), "placement for %s falls in the Friday prayer window", it.CourseID)
	}
}

func TestBuildUsesExpectedLecturerWhenMapped(t *testing.T) {
	courses := []catalogue.Course{
		{ID: "cs101", Name: "Intro CS", Semester: "fall", Students: 30, Credit: 2, LecturerID: "lect-1"},
	}
	lecturers := []catalogue.Lecturer{
		{ID: "lect-1", Name: "Dr. A"},
	}
	rooms := []catalogue.Room{{ID: "r1", Name: "Room 1", Capacity: 40}}
	snap := fixtureSnapshot(t, courses, lecturers, rooms)

	c := Build(snap, rng.New(7), 200, nil)
	for _, it := range c.Items {
		assert.Equal(t, "lect-1", it.LecturerID, "P4: gene's lecturer must equal course->lecturer mapping")
		assert.Equal(t, "Dr. A", it.LecturerName)
	}
}

func TestRandomItemFallsBackToARandomLecturerWhenUnmapped(t *testing.T) {
	courses := []catalogue.Course{
		{ID: "cs101", Name: "Intro CS", Semester: "fall", Students: 30, Credit: 2},
	}
	lecturers := []catalogue.Lecturer{
		{ID: "lect-1", Name: "Dr. A"},
	}
	rooms := []catalogue.Room{{ID: "r1", Name: "Room 1", Capacity: 40}}
	snap := fixtureSnapshot(t, courses, lecturers, rooms)

	it := RandomItem(snap, "cs101", rng.New(3))
	assert.Equal(t, "lect-1", it.LecturerID, "only one lecturer exists in the fixture, so fallback must pick it")
}

func TestOrderedCourseIDsPlacesLabsAndLargerCohortsFirst(t *testing.T) {
	courses := []catalogue.Course{
		{ID: "small-lecture", Name: "Small Lecture", Semester: "fall", Students: 10, Credit: 2},
		{ID: "big-lab", Name: "Big Lab", Semester: "fall", Students: 50, Credit: 2},
		{ID: "big-lecture", Name: "Big Lecture", Semester: "fall", Students: 40, Credit: 2},
	}
	snap := fixtureSnapshot(t, courses, nil, nil)

	order := orderedCourseIDs(snap)
	assert.Equal(t, []string{"big-lab", "big-lecture", "small-lecture"}, order)
}

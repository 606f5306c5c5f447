// Package repair implements the post-hoc fix-up pass that runs once,
// on the evolved winner: a conflict-type-specific strategy table that tries a
// plausible correction for every reported conflict, then re-evaluates
// to see whether the pass actually helped.
package repair

import (
	"github.com/sma-edu/timetable-ga/internal/builder"
	"github.com/sma-edu/timetable-ga/internal/catalogue"
	"github.com/sma-edu/timetable-ga/internal/fitness"
	"github.com/sma-edu/timetable-ga/internal/schedule"
	"github.com/sma-edu/timetable-ga/internal/timeslot"
	"github.com/sma-edu/timetable-ga/pkg/rng"
)

// Repair mutates c in place, applying one fix attempt per reported
// conflict per pass, for up to maxAttempts passes. It tracks the
// lowest combined (hard, soft) violation state seen across every
// pass and restores it before returning, so a pass that makes things
// worse (or merely fails to improve) can never leave c worse off than
// it started — it stops and reverts rather than stopping in place.
func Repair(snap *catalogue.Snapshot, c *schedule.Chromosome, maxAttempts int, rngSrc *rng.Source) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	fitness.Evaluate(snap, c)

	best := c.Clone()
	bestScore := best.HardViolations*1000 + best.SoftViolations

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if c.HardViolations == 0 && c.SoftViolations == 0 {
			return
		}

		for _, conf := range c.Conflicts {
			applyFix(snap, c, conf, rngSrc)
		}
		fitness.Evaluate(snap, c)

		score := c.HardViolations*1000 + c.SoftViolations
		if score >= bestScore {
			*c = *best.Clone()
			return
		}
		bestScore = score
		best = c.Clone()
	}
}

func applyFix(snap *catalogue.Snapshot, c *schedule.Chromosome, conf schedule.Conflict, rngSrc *rng.Source) {
	switch conf.Type {
	case schedule.MissingCourse:
		removeItems(c, conf.Items)
	case schedule.UnderScheduled:
		fillMissingSessions(snap, c, conf, rngSrc)
	case schedule.OverScheduled:
		trimExcessSessions(snap, c, conf)
	case schedule.IncorrectLecturer:
		fixLecturer(snap, c, conf)
	case schedule.RoomCapacity, schedule.LabCourseInNonLabRoom, schedule.RoomOverlap:
		relocateRoom(snap, c, conf, rngSrc, false)
	case schedule.NonACEveningClass:
		relocateRoom(snap, c, conf, rngSrc, true)
	default:
		// LECTURER_OVERLAP, STUDENT_OVERLAP, PRAYER_TIME_CONFLICT,
		// WEEKEND_CLASS, EARLY_MORNING, LATE_EVENING,
		// INSUFFICIENT_REST_TIME and anything else time-shaped.
		relocateTimeslot(snap, c, conf, rngSrc)
	}
}

func fillMissingSessions(snap *catalogue.Snapshot, c *schedule.Chromosome, conf schedule.Conflict, rngSrc *rng.Source) {
	courseIDs := conf.CourseIDSet()
	if len(courseIDs) == 0 {
		// A course with no genes at all is reported with an empty item
		// list, so its id cannot be read off the conflict: check every
		// catalogue course instead.
		courseIDs = snap.OrderedCourseIDs
	}
	for _, courseID := range courseIDs {
		course, ok := snap.Courses[courseID]
		if !ok {
			continue
		}
		needed := course.SessionsRequired()
		have := countItems(c, courseID)
		for have < needed {
			c.Items = append(c.Items, builder.RandomItem(snap, courseID, rngSrc))
			have++
		}
	}
}

func trimExcessSessions(snap *catalogue.Snapshot, c *schedule.Chromosome, conf schedule.Conflict) {
	for _, courseID := range conf.CourseIDSet() {
		course, ok := snap.Courses[courseID]
		if !ok {
			continue
		}
		needed := course.SessionsRequired()
		idxs := indicesOf(c, courseID)
		for len(idxs) > needed {
			removeAt(c, idxs[len(idxs)-1])
			idxs = idxs[:len(idxs)-1]
		}
	}
}

func fixLecturer(snap *catalogue.Snapshot, c *schedule.Chromosome, conf schedule.Conflict) {
	for _, it := range conf.Items {
		idx := findIndex(c, it)
		if idx < 0 {
			continue
		}
		expected, ok := snap.CourseLecturer[it.CourseID]
		if !ok {
			continue
		}
		c.Items[idx].LecturerID = expected
		if lecturer, ok := snap.Lecturers[expected]; ok {
			c.Items[idx].LecturerName = lecturer.Name
		}
	}
}

// relocateRoom picks a new room for every item named by the conflict:
// among the course's suitable rooms, unoccupied at the item's current
// slot, it takes the one whose capacity margin over the course's
// enrollment is smallest, breaking ties by room id. When preferAC is
// set (the NON_AC_EVENING_CLASS strategy) it restricts the candidate
// set to air-conditioned rooms when at least one is suitable, falling
// back to the unrestricted suitable set otherwise. An item with no
// unoccupied suitable room is left untouched rather than moved into
// another conflict.
func relocateRoom(snap *catalogue.Snapshot, c *schedule.Chromosome, conf schedule.Conflict, rngSrc *rng.Source, preferAC bool) {
	for _, it := range conf.Items {
		idx := findIndex(c, it)
		if idx < 0 {
			continue
		}
		course, ok := snap.Courses[it.CourseID]
		if !ok {
			continue
		}
		suitable := snap.RoomsSuitableFor(course)
		if preferAC {
			if acRooms := filterAC(suitable); len(acRooms) > 0 {
				suitable = acRooms
			}
		}
		r, ok := bestUnoccupiedRoom(c, idx, course.Students, suitable)
		if !ok {
			continue
		}
		c.Items[idx].RoomID = r.ID
		c.Items[idx].RoomName = r.Name
	}
}

// bestUnoccupiedRoom returns the tightest-fit candidate (smallest
// capacity-minus-students margin, room id breaking ties) that is not
// booked by any other item overlapping idx's current slot.
func bestUnoccupiedRoom(c *schedule.Chromosome, idx, students int, candidates []catalogue.Room) (catalogue.Room, bool) {
	slot := c.Items[idx].Slot()

	var best catalogue.Room
	bestMargin := 0
	found := false

	for _, r := range candidates {
		if roomOccupied(c, idx, r.ID, slot) {
			continue
		}
		margin := r.Capacity - students
		if !found || margin < bestMargin || (margin == bestMargin && r.ID < best.ID) {
			best, bestMargin, found = r, margin, true
		}
	}
	return best, found
}

// roomOccupied reports whether roomID is booked by some item other
// than idx at a slot overlapping slot.
func roomOccupied(c *schedule.Chromosome, idx int, roomID string, slot timeslot.TimeSlot) bool {
	for j, other := range c.Items {
		if j == idx || other.RoomID != roomID {
			continue
		}
		if other.Slot().Overlaps(slot) {
			return true
		}
	}
	return false
}

func filterAC(rooms []catalogue.Room) []catalogue.Room {
	var out []catalogue.Room
	for _, r := range rooms {
		if r.HasAC {
			out = append(out, r)
		}
	}
	return out
}

// relocateTimeslot searches for an alternative (day, period) for every
// item named by the conflict that does not overlap any other booking
// for the same lecturer, room, or student group, accepting the first
// candidate found within a bounded number of draws.
func relocateTimeslot(snap *catalogue.Snapshot, c *schedule.Chromosome, conf schedule.Conflict, rngSrc *rng.Source) {
	weekdays := timeslot.Weekdays()
	maxDraws := len(weekdays) * timeslot.PeriodsPerDay

	for _, it := range conf.Items {
		idx := findIndex(c, it)
		if idx < 0 {
			continue
		}
		for attempt := 0; attempt < maxDraws; attempt++ {
			day := weekdays[rngSrc.Intn(len(weekdays))]
			period := timeslot.Period(rngSrc.Intn(timeslot.PeriodsPerDay) + 1)
			start, end, err := timeslot.PeriodToTime(period)
			if err != nil {
				continue
			}
			candidate := timeslot.TimeSlot{Day: day, Start: start, End: end}
			if timeslot.ViolatesPrayer(candidate) {
				continue
			}
			if conflictsWithOthers(snap, c, idx, candidate) {
				continue
			}
			c.Items[idx].Day = day
			c.Items[idx].Start = start
			c.Items[idx].End = end
			break
		}
	}
}

func conflictsWithOthers(snap *catalogue.Snapshot, c *schedule.Chromosome, idx int, candidate timeslot.TimeSlot) bool {
	item := c.Items[idx]
	group := item.CourseID
	if course, ok := snap.Courses[item.CourseID]; ok {
		group = course.Group()
	}

	for j, other := range c.Items {
		if j == idx {
			continue
		}
		if !other.Slot().Overlaps(candidate) {
			continue
		}
		if other.LecturerID == item.LecturerID {
			return true
		}
		if other.RoomID == item.RoomID {
			return true
		}
		otherGroup := other.CourseID
		if course, ok := snap.Courses[other.CourseID]; ok {
			otherGroup = course.Group()
		}
		if otherGroup == group {
			return true
		}
	}
	return false
}

func findIndex(c *schedule.Chromosome, target schedule.Item) int {
	for i, it := range c.Items {
		if it.CourseID == target.CourseID && it.Day == target.Day && it.Start == target.Start &&
			it.End == target.End && it.RoomID == target.RoomID && it.LecturerID == target.LecturerID {
			return i
		}
	}
	return -1
}

func countItems(c *schedule.Chromosome, courseID string) int {
	n := 0
	for _, it := range c.Items {
		if it.CourseID == courseID {
			n++
		}
	}
	return n
}

func indicesOf(c *schedule.Chromosome, courseID string) []int {
	var out []int
	for i, it := range c.Items {
		if it.CourseID == courseID {
			out = append(out, i)
		}
	}
	return out
}

func removeAt(c *schedule.Chromosome, idx int) {
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

func removeItems(c *schedule.Chromosome, items []schedule.Item) {
	for _, it := range items {
		if idx := findIndex(c, it); idx >= 0 {
			removeAt(c, idx)
		}
	}
}

// Package builder implements the greedy constructive heuristic that
// seeds the GA population with one feasible-ish chromosome per call.
package builder

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sma-edu/timetable-ga/internal/catalogue"
	"github.com/sma-edu/timetable-ga/internal/schedule"
	"github.com/sma-edu/timetable-ga/internal/timeslot"
	"github.com/sma-edu/timetable-ga/pkg/rng"
)

// bookingIndex tracks the timeslots already claimed by a lecturer, a
// room or a student group within the chromosome under construction.
type bookingIndex map[string][]timeslot.TimeSlot

func (b bookingIndex) overlaps(key string, slot timeslot.TimeSlot) bool {
	for _, existing := range b[key] {
		if existing.Overlaps(slot) {
			return true
		}
	}
	return false
}

func (b bookingIndex) record(key string, slot timeslot.TimeSlot) {
	b[key] = append(b[key], slot)
}

// Build runs the greedy constructive heuristic once and returns an
// unevaluated chromosome: courses ordered lab-first-then-largest,
// each session drawing up to maxAttempts candidate (day, period,
// room) triples before falling back to a random, conflict-accepting
// placement.
func Build(snap *catalogue.Snapshot, rngSrc *rng.Source, maxAttempts int, log *zap.Logger) *schedule.Chromosome {
	order := orderedCourseIDs(snap)

	lecturerBookings := bookingIndex{}
	roomBookings := bookingIndex{}
	groupBookings := bookingIndex{}

	chromosome := &schedule.Chromosome{}
	weekdays := timeslot.Weekdays()

	allRoomIDs := sortedRoomIDs(snap)

	for _, courseID := range order {
		course := snap.Courses[courseID]
		lecturerID, haveLecturer := snap.CourseLecturer[courseID]
		if !haveLecturer {
			if log != nil {
				log.Warn("course has no lecturer assignment, using fallback lecturer",
					zap.String("course_id", courseID))
			}
			lecturerID = fallbackLecturer(snap, rngSrc)
		}

		suitable := snap.RoomsSuitableForBuilder(course)

		for session := 0; session < course.SessionsRequired(); session++ {
			item, placed := tryPlace(snap, course, lecturerID, suitable, weekdays, maxAttempts, rngSrc, lecturerBookings, roomBookings, groupBookings)
			if !placed {
				item = fallbackPlace(snap, course, lecturerID, suitable, allRoomIDs, weekdays, rngSrc)
				if log != nil {
					log.Warn("session deferred to fallback placement",
						zap.String("course_id", courseID),
						zap.Int("session", session))
				}
				slot := item.Slot()
				lecturerBookings.record(lecturerID, slot)
				roomBookings.record(item.RoomID, slot)
				groupBookings.record(course.Group(), slot)
			}
			chromosome.Items = append(chromosome.Items, item)
		}
	}

	return chromosome
}

func tryPlace(
	snap *catalogue.Snapshot,
	course catalogue.Course,
	lecturerID string,
	suitable []catalogue.Room,
	weekdays []timeslot.Day,
	maxAttempts int,
	rngSrc *rng.Source,
	lecturerBookings, roomBookings, groupBookings bookingIndex,
) (schedule.Item, bool) {
	if len(suitable) == 0 {
		return schedule.Item{}, false
	}
	group := course.Group()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		day := weekdays[rngSrc.Intn(len(weekdays))]
		period := timeslot.Period(rngSrc.Intn(timeslot.PeriodsPerDay) + 1)
		start, end, err := timeslot.PeriodToTime(period)
		if err != nil {
			continue
		}
		slot := timeslot.TimeSlot{Day: day, Start: start, End: end}
		if timeslot.ViolatesPrayer(slot) {
			continue
		}

		room := suitable[rngSrc.Intn(len(suitable))]

		if lecturerBookings.overlaps(lecturerID, slot) {
			continue
		}
		if roomBookings.overlaps(room.ID, slot) {
			continue
		}
		if groupBookings.overlaps(group, slot) {
			continue
		}

		lecturer := snap.Lecturers[lecturerID]
		item := schedule.Item{
			CourseID:     course.ID,
			LecturerID:   lecturerID,
			RoomID:       room.ID,
			Day:          day,
			Start:        start,
			End:          end,
			CourseName:   course.Name,
			LecturerName: lecturer.Name,
			RoomName:     room.Name,
			Semester:     course.Semester,
			Year:         resolveYear(course, snap),
		}
		lecturerBookings.record(lecturerID, slot)
		roomBookings.record(room.ID, slot)
		groupBookings.record(group, slot)
		return item, true
	}

	return schedule.Item{}, false
}

// fallbackPlace never fails: it places the session at a uniformly
// random (day, period, room), explicitly accepting whatever
// conflicts result, so a course is never silently dropped.
func fallbackPlace(
	snap *catalogue.Snapshot,
	course catalogue.Course,
	lecturerID string,
	suitable []catalogue.Room,
	allRoomIDs []string,
	weekdays []timeslot.Day,
	rngSrc *rng.Source,
) schedule.Item {
	day := weekdays[rngSrc.Intn(len(weekdays))]
	period := timeslot.Period(rngSrc.Intn(timeslot.PeriodsPerDay) + 1)
	start, end, err := timeslot.PeriodToTime(period)
	if err != nil {
		start, end, _ = timeslot.PeriodToTime(1)
	}

	var roomID, roomName string
	switch {
	case len(suitable) > 0:
		r := suitable[rngSrc.Intn(len(suitable))]
		roomID, roomName = r.ID, r.Name
	case len(allRoomIDs) > 0:
		id := allRoomIDs[rngSrc.Intn(len(allRoomIDs))]
		r := snap.Rooms[id]
		roomID, roomName = r.ID, r.Name
	}

	lecturer := snap.Lecturers[lecturerID]
	return schedule.Item{
		CourseID:     course.ID,
		LecturerID:   lecturerID,
		RoomID:       roomID,
		Day:          day,
		Start:        start,
		End:          end,
		CourseName:   course.Name,
		LecturerName: lecturer.Name,
		RoomName:     roomName,
		Semester:     course.Semester,
		Year:         resolveYear(course, snap),
	}
}

// RandomItem draws a single freshly-random gene for courseID: a
// uniformly random weekday/period and a uniformly random room chosen
// from the evaluator's margin-free suitable set (capacity >= students,
// LAB type required for lab courses). It never checks for conflicts
// with the rest of any chromosome — callers (crossover's
// missing-course fill, repair's UNDER_SCHEDULED session fill)
// accept whatever overlaps result and let the next evaluation surface
// them. The gene's lecturer is always the catalogue's expected
// assignment, falling back to a random lecturer if the course has
// none.
func RandomItem(snap *catalogue.Snapshot, courseID string, rngSrc *rng.Source) schedule.Item {
	course := snap.Courses[courseID]

	lecturerID, ok := snap.CourseLecturer[courseID]
	if !ok {
		lecturerID = fallbackLecturer(snap, rngSrc)
	}
	lecturer := snap.Lecturers[lecturerID]

	suitable := snap.RoomsSuitableFor(course)
	var roomID, roomName string
	switch {
	case len(suitable) > 0:
		r := suitable[rngSrc.Intn(len(suitable))]
		roomID, roomName = r.ID, r.Name
	default:
		ids := sortedRoomIDs(snap)
		if len(ids) > 0 {
			id := ids[rngSrc.Intn(len(ids))]
			r := snap.Rooms[id]
			roomID, roomName = r.ID, r.Name
		}
	}

	weekdays := timeslot.Weekdays()
	day := weekdays[rngSrc.Intn(len(weekdays))]
	period := timeslot.Period(rngSrc.Intn(timeslot.PeriodsPerDay) + 1)
	start, end, err := timeslot.PeriodToTime(period)
	if err != nil {
		start, end, _ = timeslot.PeriodToTime(1)
	}

	return schedule.Item{
		CourseID:     courseID,
		LecturerID:   lecturerID,
		RoomID:       roomID,
		Day:          day,
		Start:        start,
		End:          end,
		CourseName:   course.Name,
		LecturerName: lecturer.Name,
		RoomName:     roomName,
		Semester:     course.Semester,
		Year:         resolveYear(course, snap),
	}
}

func fallbackLecturer(snap *catalogue.Snapshot, rngSrc *rng.Source) string {
	ids := make([]string, 0, len(snap.Lecturers))
	for id := range snap.Lecturers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) == 0 {
		return ""
	}
	return ids[rngSrc.Intn(len(ids))]
}

// resolveYear applies the "course year, else run parameter, else 1"
// fallback the result assembler otherwise would have to repeat per
// item.
func resolveYear(course catalogue.Course, snap *catalogue.Snapshot) int {
	if course.Year != 0 {
		return course.Year
	}
	if snap.Year != 0 {
		return snap.Year
	}
	return 1
}

// orderedCourseIDs sorts courses by (not-lab, -students): lab courses
// first, then largest cohorts first, matching the catalogue's
// deterministic iteration order as the stable tiebreak.
func orderedCourseIDs(snap *catalogue.Snapshot) []string {
	ids := append([]string(nil), snap.OrderedCourseIDs...)
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := snap.Courses[ids[i]], snap.Courses[ids[j]]
		if a.IsLab() != b.IsLab() {
			return a.IsLab()
		}
		return a.Students > b.Students
	})
	return ids
}

func sortedRoomIDs(snap *catalogue.Snapshot) []string {
	ids := make([]string, 0, len(snap.Rooms))
	for id := range snap.Rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

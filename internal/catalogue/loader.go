package catalogue

import (
	"go.uber.org/zap"

	apierrors "github.com/sma-edu/timetable-ga/pkg/errors"
)

// Filter selects the (semester, year) slice of the catalogue a run
// operates against. Year zero means "any year".
type Filter struct {
	Semester string
	Year     int
}

func (f Filter) matches(c Course) bool {
	if f.Semester != "" && c.Semester != f.Semester {
		return false
	}
	if f.Year != 0 && c.Year != 0 && c.Year != f.Year {
		return false
	}
	return true
}

// Load builds an immutable Snapshot from the caller's reference data.
// It is the only place the course->lecturer mapping is computed: a
// course that gets no lecturer from either source stays in the
// snapshot without a mapping, and a warning is logged for it when log
// is non-nil.
func Load(courses []Course, lecturers []Lecturer, rooms []Room, constraints []Constraint, filter Filter, log *zap.Logger) (*Snapshot, error) {
	snap := &Snapshot{
		Semester:       filter.Semester,
		Year:           filter.Year,
		Courses:        make(map[string]Course),
		Lecturers:      make(map[string]Lecturer),
		Rooms:          make(map[string]Room),
		CourseLecturer: make(map[string]string),
	}

	for _, c := range courses {
		if !filter.matches(c) {
			continue
		}
		snap.Courses[c.ID] = c
		snap.OrderedCourseIDs = append(snap.OrderedCourseIDs, c.ID)
	}

	if len(snap.Courses) == 0 {
		return nil, apierrors.ErrCatalogueEmpty
	}

	// First source: a course's own claimed lecturer.
	for _, id := range snap.OrderedCourseIDs {
		if lecturerID := snap.Courses[id].LecturerID; lecturerID != "" {
			snap.CourseLecturer[id] = lecturerID
		}
	}

	// Second source: a lecturer's claimed courses. Last writer wins, so
	// this union runs after the course-side pass and silently
	// overrides it on conflict.
	for _, l := range lecturers {
		snap.Lecturers[l.ID] = l
		for _, courseID := range l.CourseIDs {
			snap.CourseLecturer[courseID] = l.ID
		}
	}

	for _, r := range rooms {
		snap.Rooms[r.ID] = r
	}

	snap.Constraints = constraints

	if log != nil {
		for _, id := range snap.OrderedCourseIDs {
			if _, ok := snap.CourseLecturer[id]; !ok {
				log.Warn("course has no assigned lecturer",
					zap.String("course_id", id))
			}
		}
	}

	return snap, nil
}

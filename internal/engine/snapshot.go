package engine

import (
	"go.uber.org/zap"

	"github.com/sma-edu/timetable-ga/internal/catalogue"
	"github.com/sma-edu/timetable-ga/internal/dto"
)

func loadSnapshot(req dto.GenerateRequest, log *zap.Logger) (*catalogue.Snapshot, error) {
	courses := make([]catalogue.Course, 0, len(req.Courses))
	for _, c := range req.Courses {
		courses = append(courses, catalogue.Course{
			ID:           c.ID,
			Name:         c.Name,
			Students:     c.Students,
			Credit:       c.Credit,
			Semester:     c.Semester,
			Year:         c.Year,
			StudentGroup: c.StudentGroup,
			LecturerID:   c.LecturerID,
		})
	}

	lecturers := make([]catalogue.Lecturer, 0, len(req.Lecturers))
	for _, l := range req.Lecturers {
		lecturers = append(lecturers, catalogue.Lecturer{
			ID:        l.ID,
			Name:      l.Name,
			CourseIDs: l.CourseIDs,
		})
	}

	rooms := make([]catalogue.Room, 0, len(req.Rooms))
	for _, r := range req.Rooms {
		rooms = append(rooms, catalogue.Room{
			ID:       r.ID,
			Name:     r.Name,
			Capacity: r.Capacity,
			Type:     r.Type,
			HasAC:    r.HasAC,
		})
	}

	constraints := make([]catalogue.Constraint, 0, len(req.Constraints))
	for _, ct := range req.Constraints {
		constraints = append(constraints, catalogue.Constraint{
			ID:         ct.ID,
			Type:       ct.Type,
			Value:      ct.Value,
			CourseID:   ct.CourseID,
			LecturerID: ct.LecturerID,
			RoomID:     ct.RoomID,
		})
	}

	filter := catalogue.Filter{Semester: req.Semester, Year: req.Year}
	return catalogue.Load(courses, lecturers, rooms, constraints, filter, log)
}

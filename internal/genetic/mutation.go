package genetic

import (
	"github.com/sma-edu/timetable-ga/internal/catalogue"
	"github.com/sma-edu/timetable-ga/internal/schedule"
	"github.com/sma-edu/timetable-ga/internal/timeslot"
	"github.com/sma-edu/timetable-ga/pkg/rng"
)

// Mutate gates once on mutationRate; below it, c is left untouched.
// On a hit, it picks exactly one gene uniformly and rewrites one of
// {time, room, day} uniformly. The mutated gene's lecturer is always
// snapped back to the catalogue's expected assignment afterward, so
// mutation can never introduce an INCORRECT_LECTURER conflict on its
// own.
func Mutate(snap *catalogue.Snapshot, c *schedule.Chromosome, mutationRate float64, rngSrc *rng.Source) {
	if rngSrc.Float64() > mutationRate {
		return
	}
	if len(c.Items) == 0 {
		return
	}

	i := rngSrc.Intn(len(c.Items))
	it := &c.Items[i]
	course, ok := snap.Courses[it.CourseID]
	if !ok {
		return
	}

	switch rngSrc.Intn(3) {
	case 0:
		period := timeslot.Period(rngSrc.Intn(timeslot.PeriodsPerDay) + 1)
		if start, end, err := timeslot.PeriodToTime(period); err == nil {
			it.Start, it.End = start, end
		}
	case 1:
		if suitable := snap.RoomsSuitableFor(course); len(suitable) > 0 {
			r := suitable[rngSrc.Intn(len(suitable))]
			it.RoomID, it.RoomName = r.ID, r.Name
		}
	case 2:
		weekdays := timeslot.Weekdays()
		it.Day = weekdays[rngSrc.Intn(len(weekdays))]
	}

	if lecturerID, ok := snap.CourseLecturer[it.CourseID]; ok {
		it.LecturerID = lecturerID
		if lecturer, ok := snap.Lecturers[lecturerID]; ok {
			it.LecturerName = lecturer.Name
		}
	}
}

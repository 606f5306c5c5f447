package engine

import (
	"github.com/sma-edu/timetable-ga/internal/dto"
	"github.com/sma-edu/timetable-ga/internal/schedule"
)

// assembleResponse denormalises best into the external result shape:
// a schedule list carrying the display names the chromosome's genes
// already hold, a conflict list, and the run's stats.
func assembleResponse(runID string, req dto.GenerateRequest, best *schedule.Chromosome) *dto.GenerateResponse {
	items := make([]dto.ScheduleItemOutput, 0, len(best.Items))
	for _, it := range best.Items {
		year := it.Year
		if year == 0 {
			year = req.Year
		}
		if year == 0 {
			year = 1
		}
		items = append(items, dto.ScheduleItemOutput{
			CourseID:        it.CourseID,
			CourseName:      it.CourseName,
			LecturerID:      it.LecturerID,
			LecturerName:    it.LecturerName,
			RoomID:          it.RoomID,
			RoomName:        it.RoomName,
			DayOfTheWeek:    string(it.Day),
			StartTime:       it.Start.String(),
			EndTime:         it.End.String(),
			Semester:        it.Semester,
			Year:            year,
			TimetableNumber: 1,
		})
	}

	conflicts := make([]dto.ConflictOutput, 0, len(best.Conflicts))
	for _, c := range best.Conflicts {
		conflicts = append(conflicts, dto.ConflictOutput{
			Type:         c.Type,
			Description:  c.Description,
			Severity:     string(c.Severity),
			ConstraintID: c.ConstraintID,
			CourseIDs:    c.CourseIDSet(),
		})
	}

	return &dto.GenerateResponse{
		RunID:     runID,
		Schedule:  items,
		Conflicts: conflicts,
		Stats: dto.Stats{
			Fitness:        best.Fitness,
			HardViolations: best.HardViolations,
			SoftViolations: best.SoftViolations,
			TotalConflicts: len(best.Conflicts),
		},
	}
}

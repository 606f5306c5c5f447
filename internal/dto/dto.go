// Package dto holds the request/response shapes at the generation
// engine's boundary: the raw catalogue rows and GA parameters a caller
// submits, and the schedule/conflict/stats shape it gets back.
package dto

// CourseInput is one schedulable course row as submitted by a caller.
type CourseInput struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Students     int    `json:"students" validate:"min=1"`
	Credit       int    `json:"credit" validate:"min=1"`
	Semester     string `json:"semester"`
	Year         int    `json:"year" validate:"omitempty,min=1"`
	StudentGroup string `json:"studentGroup"`
	LecturerID   string `json:"lecturerId"`
}

// LecturerInput is one lecturer row, optionally carrying its own
// course-id assignments (unioned with CourseInput.LecturerID at load).
type LecturerInput struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	CourseIDs []string `json:"courseIds"`
}

// RoomInput is one physical room row.
type RoomInput struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"min=1"`
	Type     string `json:"type"`
	HasAC    bool   `json:"hasAc"`
}

// ConstraintInput is one institutional constraint-catalogue row.
type ConstraintInput struct {
	ID         string `json:"id" validate:"required"`
	Type       string `json:"type" validate:"required"`
	Value      string `json:"value"`
	CourseID   string `json:"courseId"`
	LecturerID string `json:"lecturerId"`
	RoomID     string `json:"roomId"`
}

// GAParams carries the tunables a caller may override; zero values
// fall back to GAConfig's defaults. Ranges mirror the documented
// parameter table.
type GAParams struct {
	PopulationSize       int     `json:"populationSize" validate:"omitempty,min=50,max=200"`
	Generations          int     `json:"generations" validate:"omitempty,min=50,max=2000"`
	CrossoverRate        float64 `json:"crossoverRate" validate:"omitempty,min=0.7,max=0.9"`
	MutationRate         float64 `json:"mutationRate" validate:"omitempty,min=0.01,max=0.10"`
	ElitismCount         int     `json:"elitismCount" validate:"omitempty,min=1,max=10"`
	TournamentSize       int     `json:"tournamentSize" validate:"omitempty,min=2,max=5"`
	StagnationLimit      int     `json:"stagnationLimit" validate:"omitempty,min=1"`
	MaxRepairAttempts    int     `json:"maxRepairAttempts" validate:"omitempty,min=0"`
	ConstructionAttempts int     `json:"constructionAttempts" validate:"omitempty,min=1"`
	ParallelWorkers      int     `json:"parallelWorkers" validate:"omitempty,min=0"`
	Seed                 int64   `json:"seed"`
	SeedSet              bool    `json:"-"`
}

// GenerateRequest is the full input to one generation run: the
// catalogue rows to filter and load, plus the GA parameters governing
// that run.
type GenerateRequest struct {
	Semester    string            `json:"semester" validate:"required"`
	Year        int               `json:"year" validate:"omitempty,min=1"`
	Courses     []CourseInput     `json:"courses" validate:"required,min=1,dive"`
	Lecturers   []LecturerInput   `json:"lecturers" validate:"dive"`
	Rooms       []RoomInput       `json:"rooms" validate:"required,min=1,dive"`
	Constraints []ConstraintInput `json:"constraints" validate:"dive"`
	GA          GAParams          `json:"ga"`
}

// ScheduleItemOutput is one denormalised row of the assembled result.
type ScheduleItemOutput struct {
	CourseID        string `json:"courseId"`
	CourseName      string `json:"courseName"`
	LecturerID      string `json:"lecturerId"`
	LecturerName    string `json:"lecturerName"`
	RoomID          string `json:"roomId"`
	RoomName        string `json:"roomName"`
	DayOfTheWeek    string `json:"dayOfTheWeek"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Semester        string `json:"semester"`
	Year            int    `json:"year"`
	TimetableNumber int    `json:"timetableNumber"`
}

// ConflictOutput is one reported conflict after merge-deduplication.
type ConflictOutput struct {
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	Severity     string   `json:"severity"`
	ConstraintID string   `json:"constraintId,omitempty"`
	CourseIDs    []string `json:"courseIds"`
}

// Stats summarises one assembled result.
type Stats struct {
	Fitness        float64 `json:"fitness"`
	HardViolations int     `json:"hardViolations"`
	SoftViolations int     `json:"softViolations"`
	TotalConflicts int     `json:"totalConflicts"`
}

// GenerateResponse is the full output of one generation run.
type GenerateResponse struct {
	RunID     string               `json:"runId"`
	Schedule  []ScheduleItemOutput `json:"schedule"`
	Conflicts []ConflictOutput     `json:"conflicts"`
	Stats     Stats                `json:"stats"`
}

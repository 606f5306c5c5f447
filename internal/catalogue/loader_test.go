package catalogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/sma-edu/timetable-ga/pkg/errors"
)

func TestLoadEmptyCatalogueReturnsErrCatalogueEmpty(t *testing.T) {
	snap, err := Load(nil, nil, nil, nil, Filter{Semester: "fall"}, nil)
	assert.Nil(t, snap)
	require.Error(t, err)
	assert.ErrorIs(t, err, apierrors.ErrCatalogueEmpty)
}

func TestLoadFiltersBySemesterAndYear(t *testing.T) {
	courses := []Course{
		{ID: "cs101", Name: "Intro CS", Semester: "fall", Year: 2026, Students: 20, Credit: 2},
		{ID: "cs102", Name: "Algorithms", Semester: "spring", Year: 2026, Students: 20, Credit: 2},
		{ID: "cs103", Name: "Systems", Semester: "fall", Year: 2025, Students: 20, Credit: 2},
	}
	snap, err := Load(courses, nil, nil, nil, Filter{Semester: "fall", Year: 2026}, nil)
	require.NoError(t, err)
	assert.Len(t, snap.Courses, 1)
	_, ok := snap.Courses["cs101"]
	assert.True(t, ok)
}

func TestLoadCourseLecturerMappingUnionsBothSources(t *testing.T) {
	courses := []Course{
		{ID: "cs101", Name: "Intro CS", Semester: "fall", Students: 20, Credit: 2, LecturerID: "lect-1"},
		{ID: "cs102", Name: "Algorithms", Semester: "fall", Students: 20, Credit: 2},
	}
	lecturers := []Lecturer{
		{ID: "lect-2", Name: "Dr. B", CourseIDs: []string{"cs102"}},
	}
	snap, err := Load(courses, lecturers, nil, nil, Filter{Semester: "fall"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "lect-1", snap.CourseLecturer["cs101"])
	assert.Equal(t, "lect-2", snap.CourseLecturer["cs102"])
}

func TestLoadLecturerSideLastWriterWinsOnConflict(t *testing.T) {
	courses := []Course{
		{ID: "cs101", Name: "Intro CS", Semester: "fall", Students: 20, Credit: 2, LecturerID: "lect-1"},
	}
	lecturers := []Lecturer{
		{ID: "lect-2", Name: "Dr. B", CourseIDs: []string{"cs101"}},
	}
	snap, err := Load(courses, lecturers, nil, nil, Filter{Semester: "fall"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "lect-2", snap.CourseLecturer["cs101"], "lecturer-side union runs last and wins")
}

func TestLoadCourseWithoutAnyLecturerHasNoMapping(t *testing.T) {
	courses := []Course{
		{ID: "cs101", Name: "Intro CS", Semester: "fall", Students: 20, Credit: 2},
	}
	snap, err := Load(courses, nil, nil, nil, Filter{Semester: "fall"}, nil)
	require.NoError(t, err)
	_, ok := snap.CourseLecturer["cs101"]
	assert.False(t, ok)
}

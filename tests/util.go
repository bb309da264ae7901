package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/record"
	"github.com/trezcool/autom8/storage/blob/dummy"
)

// Now is a fixed creation timestamp, so fixtures compare equal across round-trips.
var Now = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

// NewStore returns an empty store over a fresh in-memory backend.
func NewStore(t *testing.T) (*record.Store, *dummyblob.DB) {
	t.Helper()
	db := dummyblob.Open()
	return record.NewStore(db, record.DefaultStorageKey, core.NopLogger{}), db
}

// Reload opens a second store over the same backend and loads it.
func Reload(t *testing.T, db *dummyblob.DB) *record.Store {
	t.Helper()
	store := record.NewStore(db, record.DefaultStorageKey, core.NopLogger{})
	store.LoadFromStorage(context.Background())
	return store
}

func CreateCourse(t *testing.T, store *record.Store, id, code string, outcomes ...record.CourseOutcome) record.Course {
	t.Helper()
	if len(outcomes) == 0 {
		outcomes = record.DefaultOutcomes(store.Settings().TargetPercentage)
	}
	course := record.Course{
		ID:       id,
		Code:     code,
		Name:     code + " course",
		Semester: 1,
		Outcomes: outcomes,
		Assessments: []record.Assessment{
			{ID: id + "-iae1", Name: "IAE 1", Type: record.AssessmentIAE1, Weightage: 30},
			{ID: id + "-iae2", Name: "IAE 2", Type: record.AssessmentIAE2, Weightage: 30},
			{ID: id + "-asg", Name: "Assignment", Type: record.AssessmentAssignment, Weightage: 40},
		},
		Students:  []record.StudentMark{},
		CreatedAt: Now,
	}
	store.AddCourse(course)
	return course
}

func CreateStudent(t *testing.T, store *record.Store, id, name string) record.Student {
	t.Helper()
	st := record.Student{
		ID:              id,
		RollNumber:      fmt.Sprintf("R-%s", id),
		Name:            name,
		Email:           id + "@school.test",
		EnrolledCourses: []string{},
		CreatedAt:       Now,
	}
	store.AddStudent(st)
	return st
}

// Outcome returns a single outcome with the given target.
func Outcome(id, code string, target float64) record.CourseOutcome {
	return record.CourseOutcome{ID: id, Code: code, Description: code + " outcome", Target: target}
}

func Scale(id string, bands ...record.GradeBand) record.GradingScale {
	if len(bands) == 0 {
		bands = record.DefaultGradeBands()
	}
	return record.GradingScale{ID: id, Name: "Scale " + id, Grades: bands}
}

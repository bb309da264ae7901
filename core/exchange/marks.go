package exchange

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/record"
)

var (
	studentIDColumns   = []string{"Student ID", "ID"}
	studentNameColumns = []string{"Student Name", "Name"}

	errNoHeader    = errors.New("missing header row")
	errNoIDColumn  = errors.New(`missing "Student ID" column`)
	errNoStudentID = "student id is required"
)

type csvRow map[string]string

// first returns the first non-empty value among columns.
func (r csvRow) first(columns ...string) string {
	for _, c := range columns {
		if v := r[c]; v != "" {
			return v
		}
	}
	return ""
}

// ParseMarks reads a marks sheet for course. Outcome columns are matched by code, or by
// "CO" plus the last character of the code; absent, unparsable or non-finite marks become 0.
func ParseMarks(r io.Reader, course record.Course) ([]record.StudentMark, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, core.NewValidationError(errNoHeader)
	}
	if err != nil {
		return nil, core.NewValidationError(errors.Wrap(err, "reading header"))
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	if !hasAny(header, studentIDColumns) {
		return nil, core.NewValidationError(errNoIDColumn)
	}

	marks := make([]record.StudentMark, 0)
	for line := 2; ; line++ {
		values, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.NewValidationError(errors.Wrapf(err, "reading line %d", line))
		}
		if isBlank(values) {
			continue
		}

		row := make(csvRow, len(header))
		for i, h := range header {
			if i < len(values) {
				row[h] = strings.TrimSpace(values[i])
			}
		}

		sm := record.StudentMark{
			StudentID:   row.first(studentIDColumns...),
			StudentName: row.first(studentNameColumns...),
			Marks:       make(map[string]float64, len(course.Outcomes)),
		}
		if sm.StudentID == "" {
			return nil, core.NewValidationError(nil, core.FieldError{
				Field: "line " + strconv.Itoa(line),
				Error: errNoStudentID,
			})
		}
		for _, o := range course.Outcomes {
			sm.Marks[o.ID] = parseMark(row.first(o.Code, fallbackColumn(o.Code)))
		}
		marks = append(marks, sm)
	}
	return marks, nil
}

// ImportMarks replaces the course roster with the rows of a marks sheet.
// On any error the store is left untouched.
func ImportMarks(store *record.Store, courseID string, r io.Reader) ([]record.StudentMark, error) {
	course, ok := store.GetCourse(courseID)
	if !ok {
		return nil, record.ErrNotFound
	}
	marks, err := ParseMarks(r, course)
	if err != nil {
		return nil, err
	}
	store.ReplaceCourseStudents(courseID, marks)
	return marks, nil
}

// ExportMarks writes the course roster with each student's average and grade against scale.
func ExportMarks(w io.Writer, course record.Course, scale record.GradingScale) error {
	cw := csv.NewWriter(w)

	header := []string{"Student ID", "Student Name"}
	for _, o := range course.Outcomes {
		header = append(header, o.Code)
	}
	header = append(header, "Average", "Grade")
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing header")
	}

	for _, sm := range course.Students {
		res := record.ComputeGrade(course.Outcomes, sm.Marks, scale)
		row := []string{sm.StudentID, sm.StudentName}
		for _, o := range course.Outcomes {
			row = append(row, formatFloat(sm.Marks[o.ID]))
		}
		row = append(row, formatFloat(record.Round(res.Average, 2)), res.Grade)
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "writing %s", sm.StudentID)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

func fallbackColumn(code string) string {
	if code == "" {
		return ""
	}
	return "CO" + code[len(code)-1:]
}

func parseMark(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func hasAny(header, columns []string) bool {
	for _, h := range header {
		for _, c := range columns {
			if h == c {
				return true
			}
		}
	}
	return false
}

func isBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

package exchange

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/record"
)

// Backup formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown backup format")

// Backup is a full export of the store.
type Backup struct {
	Courses       []record.Course           `json:"courses" yaml:"courses"`
	Students      []record.Student          `json:"students" yaml:"students"`
	Attendance    []record.AttendanceRecord `json:"attendance" yaml:"attendance"`
	GradingScales []record.GradingScale     `json:"gradingScales" yaml:"gradingScales"`
	StudentGrades []record.StudentGrade     `json:"studentGrades" yaml:"studentGrades"`
	Settings      *record.Settings          `json:"settings,omitempty" yaml:"settings,omitempty"`
	ExportDate    time.Time                 `json:"exportDate" yaml:"exportDate"`
}

func NewBackup(snap record.Snapshot, exportDate time.Time) Backup {
	settings := snap.Settings
	return Backup{
		Courses:       snap.Courses,
		Students:      snap.Students,
		Attendance:    snap.Attendance,
		GradingScales: snap.GradingScales,
		StudentGrades: snap.StudentGrades,
		Settings:      &settings,
		ExportDate:    exportDate.UTC(),
	}
}

// Stats counts the records held by the backup.
func (b Backup) Stats() record.Stats {
	return record.Stats{
		Courses:       len(b.Courses),
		Students:      len(b.Students),
		Attendance:    len(b.Attendance),
		GradingScales: len(b.GradingScales),
		StudentGrades: len(b.StudentGrades),
	}
}

// ExportBackup writes the whole store, indented, as JSON or YAML.
func ExportBackup(w io.Writer, store *record.Store, format string, now time.Time) error {
	b := NewBackup(store.Snapshot(), now)
	switch strings.ToLower(format) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(b), "encoding json backup")
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return errors.Wrap(err, "encoding yaml backup")
		}
		return errors.Wrap(enc.Close(), "encoding yaml backup")
	}
	return errors.Wrap(ErrUnknownFormat, format)
}

// ParseBackup decodes a JSON or YAML backup. Settings fields absent from the backup keep
// the values of base, so a partial settings object merges like an update.
func ParseBackup(data []byte, base record.Settings) (Backup, error) {
	b := Backup{Settings: &base}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Backup{}, core.NewValidationError(errors.New("empty backup"))
	}

	var err error
	if trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &b)
	} else {
		err = yaml.Unmarshal(trimmed, &b)
	}
	if err != nil {
		return Backup{}, core.NewValidationError(errors.Wrap(err, "decoding backup"))
	}
	return b, nil
}

// Validate checks every record of the backup.
func (b *Backup) Validate(validate *validator.Validate) error {
	for i := range b.Courses {
		if err := b.Courses[i].Validate(validate); err != nil {
			return err
		}
	}
	for i := range b.Students {
		if err := b.Students[i].Validate(validate); err != nil {
			return err
		}
	}
	for _, rec := range b.Attendance {
		if err := rec.Validate(validate); err != nil {
			return err
		}
	}
	for i := range b.GradingScales {
		if err := b.GradingScales[i].Validate(validate); err != nil {
			return err
		}
	}
	for _, g := range b.StudentGrades {
		if err := g.Validate(validate); err != nil {
			return err
		}
	}
	if b.Settings != nil {
		return validate.Struct(b.Settings)
	}
	return nil
}

// ImportBackup re-adds every record of b through the store's add operations and merges the
// settings, persisting once. Records already in the store are not replaced, so importing the
// same backup twice duplicates them.
func ImportBackup(store *record.Store, b Backup) {
	store.Batch(func() {
		for _, c := range b.Courses {
			store.AddCourse(c)
		}
		for _, s := range b.Students {
			store.AddStudent(s)
		}
		for _, rec := range b.Attendance {
			store.AddAttendance(rec)
		}
		for _, g := range b.GradingScales {
			store.AddGradingScale(g)
		}
		for _, g := range b.StudentGrades {
			store.AddStudentGrade(g)
		}
		if b.Settings != nil {
			store.UpdateSettings(record.SettingsPatchFrom(*b.Settings))
		}
	})
}

// RestoreBackup replaces the whole store content with b.
func RestoreBackup(store *record.Store, b Backup) {
	store.Batch(func() {
		store.Reset()
		ImportBackup(store, b)
	})
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/trezcool/autom8/core/exchange"
	"github.com/trezcool/autom8/core/record"
)

func (cli *commandLine) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count the stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := cli.store.Stats()
			_, err := fmt.Fprintf(cli.out, "courses: %d\nstudents: %d\nattendance: %d\ngrading scales: %d\nstudent grades: %d\n",
				s.Courses, s.Students, s.Attendance, s.GradingScales, s.StudentGrades)
			return err
		},
	}
}

func (cli *commandLine) backupCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export every record as a JSON or YAML backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, closeFn, err := cli.output(out)
			if err != nil {
				return err
			}
			if err = exchange.ExportBackup(w, cli.store, format, nowFunc()); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", exchange.FormatJSON, "json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

// readBackup parses and validates the backup file at path.
func (cli *commandLine) readBackup(path string, base record.Settings) (exchange.Backup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return exchange.Backup{}, errors.Wrapf(err, "reading %s", path)
	}
	b, err := exchange.ParseBackup(data, base)
	if err != nil {
		return exchange.Backup{}, errors.Wrap(err, path)
	}
	if err = b.Validate(cli.validate); err != nil {
		return exchange.Backup{}, errors.Wrap(err, path)
	}
	return b, nil
}

func (cli *commandLine) restoreCmd() *cobra.Command {
	var merge bool
	cmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Replace every record with a backup (or add to them with --merge)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if merge {
				b, err := cli.readBackup(args[0], cli.store.Settings())
				if err != nil {
					return err
				}
				exchange.ImportBackup(cli.store, b)
			} else {
				b, err := cli.readBackup(args[0], record.DefaultSettings())
				if err != nil {
					return err
				}
				exchange.RestoreBackup(cli.store, b)
			}
			s := cli.store.Stats()
			_, err := fmt.Fprintf(cli.out, "restored: %d courses, %d students\n", s.Courses, s.Students)
			return err
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "add the backup's records to the existing ones")
	return cmd
}

func (cli *commandLine) diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Show a unified diff of two backups, ignoring their export dates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := cli.backupLines(args[0])
			if err != nil {
				return err
			}
			b, err := cli.backupLines(args[1])
			if err != nil {
				return err
			}
			diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        a,
				B:        b,
				FromFile: args[0],
				ToFile:   args[1],
				Context:  3,
			})
			if err != nil {
				return errors.Wrap(err, "diffing backups")
			}
			if diff == "" {
				diff = "no differences\n"
			}
			_, err = fmt.Fprint(cli.out, diff)
			return err
		},
	}
}

// backupLines renders a backup as canonical indented JSON lines, so that JSON and YAML
// backups of the same data compare equal.
func (cli *commandLine) backupLines(path string) ([]string, error) {
	b, err := cli.readBackup(path, record.DefaultSettings())
	if err != nil {
		return nil, err
	}
	snap := record.Snapshot{
		Courses:       b.Courses,
		Students:      b.Students,
		Attendance:    b.Attendance,
		GradingScales: b.GradingScales,
		StudentGrades: b.StudentGrades,
		Settings:      *b.Settings,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding backup")
	}
	return difflib.SplitLines(string(data) + "\n"), nil
}

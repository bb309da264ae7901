package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/autom8/core/exchange"
	"github.com/trezcool/autom8/core/record"
)

func (cli *commandLine) course(id string) (record.Course, error) {
	course, ok := cli.store.GetCourse(id)
	if !ok {
		return record.Course{}, errors.Wrapf(record.ErrNotFound, "course %q", id)
	}
	return course, nil
}

func (cli *commandLine) importMarksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-marks COURSE_ID FILE",
		Short: "Replace a course roster with the rows of a marks CSV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cli.course(args[0]); err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return errors.Wrapf(err, "opening %s", args[1])
			}
			defer func() { _ = f.Close() }()

			marks, err := exchange.ImportMarks(cli.store, args[0], f)
			if err != nil {
				return errors.Wrap(err, args[1])
			}
			_, err = fmt.Fprintf(cli.out, "imported marks of %d students\n", len(marks))
			return err
		},
	}
}

func (cli *commandLine) exportMarksCmd() *cobra.Command {
	var scaleID, out string
	cmd := &cobra.Command{
		Use:   "export-marks COURSE_ID",
		Short: "Export a course's marks with averages and grades as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := cli.course(args[0])
			if err != nil {
				return err
			}
			scale := record.GradingScale{Name: "Default", Grades: record.DefaultGradeBands()}
			if scaleID != "" {
				var ok bool
				if scale, ok = cli.store.GetGradingScale(scaleID); !ok {
					return errors.Wrapf(record.ErrNotFound, "grading scale %q", scaleID)
				}
			}

			w, closeFn, err := cli.output(out)
			if err != nil {
				return err
			}
			if err = exchange.ExportMarks(w, course, scale); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVar(&scaleID, "scale", "", "grading scale id (default 10-point bands)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func (cli *commandLine) reportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report COURSE_ID",
		Short: "Export a course's outcome attainment report as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := cli.course(args[0])
			if err != nil {
				return err
			}
			w, closeFn, err := cli.output(out)
			if err != nil {
				return err
			}
			if err = exchange.ExportAttainmentReport(w, course); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

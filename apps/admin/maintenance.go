package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/record"
)

var errNotConfirmed = errors.New("reset not confirmed")

const alertsTemplate = `{{len .}} alert(s) need attention:
{{range .}}- {{.StudentName}} ({{.StudentID}}) in {{.CourseCode}}: {{.Kind}} {{printf "%.2f" .Value}} below {{.Threshold}}
{{end}}`

func (cli *commandLine) checkCmd() *cobra.Command {
	var sync bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report records pointing at missing courses or students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sync {
				cli.store.SyncEnrollments()
			}
			orphans := cli.store.Orphans()
			if len(orphans) == 0 {
				_, err := fmt.Fprintln(cli.out, "no orphans found")
				return err
			}
			tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "KIND\tSTUDENT\tCOURSE\tDETAIL")
			for _, o := range orphans {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Kind, o.StudentID, o.CourseID, o.Detail)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&sync, "sync-enrollments", false, "rebuild students' enrolled courses from the course rosters first")
	return cmd
}

func (cli *commandLine) alertsCmd() *cobra.Command {
	var attendance, gpa float64
	var notify []string
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List students with low attendance or GPA, optionally emailing the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipients := make([]mail.Address, 0, len(notify))
			for _, n := range notify {
				addr, err := mail.ParseAddress(n)
				if err != nil {
					return core.NewValidationError(nil, core.FieldError{Field: "notify", Error: n + " is not a valid email address"})
				}
				recipients = append(recipients, *addr)
			}

			alerts := cli.store.Alerts(attendance, gpa)
			tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "KIND\tSTUDENT\tCOURSE\tVALUE\tTHRESHOLD")
			for _, a := range alerts {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\n", a.Kind, a.StudentName, a.CourseCode, a.Value, a.Threshold)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(recipients) == 0 || len(alerts) == 0 {
				return nil
			}
			msg := &core.EmailMessage{
				To:           recipients,
				Subject:      fmt.Sprintf("%d student alert(s)", len(alerts)),
				Template:     alertsTemplate,
				TemplateData: alerts,
			}
			return errors.Wrap(cli.mailSvc.SendMessages(msg), "sending alerts")
		},
	}
	cmd.Flags().Float64Var(&attendance, "attendance", record.DefaultAttendanceThreshold, "attendance percentage threshold")
	cmd.Flags().Float64Var(&gpa, "gpa", record.DefaultGPAThreshold, "GPA threshold")
	cmd.Flags().StringSliceVar(&notify, "notify", nil, "email addresses to send the alerts to")
	return cmd
}

func (cli *commandLine) settingsCmd() *cobra.Command {
	var target, cie, see float64
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the settings, updating the given ones first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch record.SettingsPatch
			flags := cmd.Flags()
			if flags.Changed("target") {
				patch.TargetPercentage = null.Float64From(target)
			}
			if flags.Changed("cie") {
				patch.CIEWeightage = null.Float64From(cie)
			}
			if flags.Changed("see") {
				patch.SEEWeightage = null.Float64From(see)
			}
			if patch != (record.SettingsPatch{}) {
				if err := patch.Validate(cli.validate); err != nil {
					return err
				}
				cli.store.UpdateSettings(patch)
			}

			enc := json.NewEncoder(cli.out)
			enc.SetIndent("", "  ")
			return enc.Encode(cli.store.Settings())
		},
	}
	cmd.Flags().Float64Var(&target, "target", 0, "target attainment percentage")
	cmd.Flags().Float64Var(&cie, "cie", 0, "CIE weightage")
	cmd.Flags().Float64Var(&see, "see", 0, "SEE weightage")
	return cmd
}

func (cli *commandLine) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every record and restore the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !cli.isInteractive() {
					return errors.Wrap(errNotConfirmed, "pass --yes when not on a terminal")
				}
				_, _ = fmt.Fprint(cli.out, "This deletes every record. Type 'yes' to confirm: ")
				line, _ := bufio.NewReader(cli.in).ReadString('\n')
				if strings.TrimSpace(line) != "yes" {
					return errNotConfirmed
				}
			}
			cli.store.Reset()
			_, err := fmt.Fprintln(cli.out, "store reset")
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

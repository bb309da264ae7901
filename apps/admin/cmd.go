package main

import (
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/autom8/core"
	"github.com/trezcool/autom8/core/record"
)

var (
	termIsTerminal = term.IsTerminal
	isTerminalFunc = termIsTerminal // mockable
	nowFunc        = time.Now        // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf     *core.Config
	store    *record.Store
	mailSvc  core.EmailService
	validate *validator.Validate

	in  io.Reader
	out io.Writer
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Autom8 administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	root.AddCommand(
		cli.statsCmd(),
		cli.backupCmd(),
		cli.restoreCmd(),
		cli.diffCmd(),
		cli.importMarksCmd(),
		cli.exportMarksCmd(),
		cli.reportCmd(),
		cli.checkCmd(),
		cli.alertsCmd(),
		cli.settingsCmd(),
		cli.resetCmd(),
	)
	return root
}

// run executes the command line args (program name included).
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}

// output returns the file at path, or the cli's output when path is empty or "-".
func (cli *commandLine) output(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cli.out, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "creating %s", path)
	}
	return f, f.Close, nil
}

// isInteractive reports whether the cli reads from a terminal.
func (cli *commandLine) isInteractive() bool {
	f, ok := cli.in.(interface{ Fd() uintptr })
	return ok && isTerminalFunc(int(f.Fd()))
}

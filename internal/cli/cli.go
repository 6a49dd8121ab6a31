// Package cli is the minic command line: it reads a source file and drives
// the parser, the checker and the interpreter over it.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/hassan/minic/internal/config"
	"github.com/hassan/minic/internal/log"
)

// errFailed reports that diagnostics were already printed and the exit
// status must be 1.
var errFailed = errors.New("failed")

// Execute runs the command line on os.Args and exits with its status.
// An interrupt cancels a running program.
func Execute(version string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := Run(ctx, os.Args, os.Stdout, os.Stderr, version)
	stop()
	os.Exit(code)
}

// Run runs the command line with args and returns the exit status. Program
// output and result markers go to stdout, diagnostics to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, version string) int {
	a := &app{stdout: stdout, stderr: stderr}
	err := a.command(version).Run(ctx, args)
	if err == nil {
		return 0
	}
	if !errors.Is(err, errFailed) {
		if a.log == nil {
			a.log = log.New(stderr, config.ColorNever, false)
		}
		a.log.Errorf("%v", err)
	}
	return 1
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	cfg    config.Config
	log    *log.Logger
}

func (a *app) command(version string) *cli.Command {
	fileCommand := func(name, usage string, action func(context.Context, string) error) *cli.Command {
		return &cli.Command{
			Name:      name,
			Usage:     usage,
			ArgsUsage: "<file>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.NArg() != 1 {
					return fmt.Errorf("usage: minic %s <file>", name)
				}
				if err := a.setup(cmd); err != nil {
					return err
				}
				return action(ctx, cmd.Args().First())
			},
		}
	}

	return &cli.Command{
		Name:      "minic",
		Usage:     "Check and interpret minic programs",
		Version:   version,
		ArgsUsage: "<file>",
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "settings file (default " + config.DefaultPath + " when present)",
				Sources: cli.EnvVars("MINIC_CONFIG"),
			},
			&cli.IntFlag{
				Name:    "max-depth",
				Usage:   "maximum depth of nested function calls",
				Sources: cli.EnvVars("MINIC_MAX_DEPTH"),
			},
			&cli.BoolFlag{
				Name:    "werror",
				Usage:   "treat checker warnings as errors",
				Sources: cli.EnvVars("MINIC_WERROR"),
			},
			&cli.BoolFlag{
				Name:    "run-on-errors",
				Usage:   "interpret the program even when the checker reports errors",
				Sources: cli.EnvVars("MINIC_RUN_ON_ERRORS"),
			},
			&cli.StringFlag{
				Name:    "color",
				Usage:   "colour diagnostics: auto, always or never",
				Sources: cli.EnvVars("MINIC_COLOR"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "print progress of each pass",
				Sources: cli.EnvVars("MINIC_VERBOSE"),
			},
		},
		// `minic prog.mc` is shorthand for `minic run prog.mc`.
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return cli.DefaultShowRootCommandHelp(cmd)
			}
			if cmd.NArg() > 1 {
				return fmt.Errorf("usage: minic <file>")
			}
			if err := a.setup(cmd); err != nil {
				return err
			}
			return a.run(ctx, cmd.Args().First())
		},
		Commands: []*cli.Command{
			fileCommand("run", "Check a file and interpret it", a.run),
			fileCommand("check", "Type check a file", a.check),
			fileCommand("tree", "Print the syntax tree of a file", a.tree),
			fileCommand("tokens", "Print the tokens of a file", a.tokens),
		},
	}
}

// setup resolves the settings: defaults, then the config file, then flags
// and their environment variables.
func (a *app) setup(cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.IsSet("max-depth") {
		cfg.MaxCallDepth = int(cmd.Int("max-depth"))
	}
	if cmd.IsSet("werror") {
		cfg.WarningsAsErrors = cmd.Bool("werror")
	}
	if cmd.IsSet("run-on-errors") {
		cfg.RunOnErrors = cmd.Bool("run-on-errors")
	}
	if cmd.IsSet("color") {
		cfg.Color = cmd.String("color")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log.New(a.stderr, cfg.Color, cmd.Bool("verbose"))
	a.log.Debugf("max call depth %d, werror %t, run on errors %t", cfg.MaxCallDepth, cfg.WarningsAsErrors, cfg.RunOnErrors)
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/webtesting/sitetasks/internal/action"
	"github.com/webtesting/sitetasks/internal/app"
	"github.com/webtesting/sitetasks/internal/browser"
	"github.com/webtesting/sitetasks/internal/output"
	"github.com/webtesting/sitetasks/internal/pipeline"
	"github.com/webtesting/sitetasks/internal/site"
)

// runCommand returns the "run" CLI subcommand.
func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the careers site tasks",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "task",
				Usage: "Run only the named task (repeatable): open, locations, description, jobs, close",
			},
			&cli.StringFlag{
				Name:    "output",
				Usage:   "Where results go: console or file",
				Sources: cli.EnvVars("SITETASKS_OUTPUT"),
			},
			&cli.StringFlag{
				Name:    "output-path",
				Usage:   "Results file path when output is file",
				Sources: cli.EnvVars("SITETASKS_OUTPUT_PATH"),
			},
			&cli.StringFlag{
				Name:    "pointer",
				Usage:   "Click backend: cdp or os",
				Sources: cli.EnvVars("SITETASKS_POINTER"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := configWithOverrides(cmd)
			if err != nil {
				return err
			}

			sink, err := output.New(cfg.Output, os.Stdout)
			if err != nil {
				return err
			}

			sess, err := browser.NewSession(ctx, cfg.Browser)
			if err != nil {
				return err
			}

			ptr, err := action.NewPointer(cfg.Pointer.Backend, cfg.Pointer.Display, sess)
			if err != nil {
				_ = sess.Close()
				return err
			}

			clicker := &action.Coordinator{Pointer: ptr, Settle: cfg.Pointer.Settle}
			s := site.New(cfg.Site, clicker, cfg.Browser.ElementTimeout)

			tasks, err := pipeline.Select(s.Tasks(), cmd.StringSlice("task"))
			if err != nil {
				_ = sess.Close()
				return err
			}

			runner := &pipeline.Runner{Driver: sess, Sink: sink, StopOnError: cfg.Pipeline.StopOnError}
			report := runner.Run(ctx, tasks)

			slog.InfoContext(ctx, "run finished",
				"tasks", len(report.Results),
				"failed", len(report.Failed()),
				"output", sink.Location(),
			)
			if err := report.Err(); err != nil {
				return fmt.Errorf("%d task(s) failed: %w", len(report.Failed()), err)
			}
			return nil
		},
	}
}

// configWithOverrides applies the command's flags on top of the loaded
// config and validates the result.
func configWithOverrides(cmd *cli.Command) (*app.Config, error) {
	loaded, err := app.ConfigFrom(cmd)
	if err != nil {
		return nil, err
	}
	cfg := *loaded

	if cmd.IsSet("output") {
		cfg.Output.Mode = cmd.String("output")
	}
	if cmd.IsSet("output-path") {
		cfg.Output.Path = cmd.String("output-path")
	}
	if cmd.IsSet("pointer") {
		cfg.Pointer.Backend = cmd.String("pointer")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

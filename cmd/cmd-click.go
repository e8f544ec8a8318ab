package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/webtesting/sitetasks/internal/action"
	"github.com/webtesting/sitetasks/internal/app"
	"github.com/webtesting/sitetasks/internal/browser"
)

// clickCommand returns the "click" CLI subcommand. It clicks once at an
// absolute position so input permission problems can be checked in isolation.
func clickCommand() *cli.Command {
	return &cli.Command{
		Name:  "click",
		Usage: "Issue one pointer click at the given coordinates",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "x", Usage: "Click x", Required: true},
			&cli.IntFlag{Name: "y", Usage: "Click y", Required: true},
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
			point := action.ScreenPoint{X: int(cmd.Int("x")), Y: int(cmd.Int("y"))}

			var exec action.Executor
			if cfg.Pointer.Backend == app.PointerCDP {
				sess, err := browser.NewSession(ctx, cfg.Browser)
				if err != nil {
					return err
				}
				defer sess.Close()
				exec = sess
			}

			ptr, err := action.NewPointer(cfg.Pointer.Backend, cfg.Pointer.Display, exec)
			if err != nil {
				return err
			}

			if err := action.IssueClick(ctx, ptr, point); err != nil {
				switch {
				case errors.Is(err, action.ErrPermissionDenied):
					slog.ErrorContext(ctx, "pointer input was refused by the display server", "backend", ptr.Name())
				case errors.Is(err, action.ErrBackendUnavailable):
					slog.ErrorContext(ctx, "pointer backend is not available", "backend", ptr.Name())
				}
				return err
			}
			fmt.Printf("clicked %s via %s\n", point, ptr.Name())
			return nil
		},
	}
}

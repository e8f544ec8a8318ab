package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/webtesting/sitetasks/internal/action"
)

// pointCommand returns the "point" CLI subcommand.
func pointCommand() *cli.Command {
	return &cli.Command{
		Name:  "point",
		Usage: "Print the click point for an element box",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "x", Usage: "Box origin x", Required: true},
			&cli.IntFlag{Name: "y", Usage: "Box origin y", Required: true},
			&cli.IntFlag{Name: "width", Usage: "Box width", Required: true},
			&cli.IntFlag{Name: "height", Usage: "Box height", Required: true},
			&cli.IntFlag{Name: "offset", Usage: "Browser UI height above the page"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			g := action.ElementGeometry{
				OriginX: int(cmd.Int("x")),
				OriginY: int(cmd.Int("y")),
				Width:   int(cmd.Int("width")),
				Height:  int(cmd.Int("height")),
			}
			offset := int(cmd.Int("offset"))
			if err := g.Validate(offset); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Println(action.ComputeClickPoint(g, offset))
			return nil
		},
	}
}

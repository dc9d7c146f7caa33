package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"metricchart/internal/logger"
	"metricchart/internal/render"
	"metricchart/internal/scene"
)

const (
	formatSVG = "svg"
	formatPNG = "png"
)

func newRenderCmd() *cobra.Command {
	var (
		flags  chartFlags
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart to SVG or PNG.",
		Long: `Draw one chart from a bucket file (or generated data) and write it as
SVG or PNG. The format follows --format, or the extension of --out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
				if format == "" {
					format = formatSVG
				}
			}
			if format != formatSVG && format != formatPNG {
				return fmt.Errorf("unsupported format %q", format)
			}

			svg, err := flags.draw()
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				return write(cmd.OutOrStdout(), svg, format)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()
			if err := write(f, svg, format); err != nil {
				return err
			}
			logger.Info("Chart written", map[string]interface{}{"file": out, "format": format, "elements": svg.Len()})
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: svg or png")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file; - writes to stdout")
	return cmd
}

func write(w io.Writer, svg *scene.Surface, format string) error {
	if format == formatPNG {
		return render.PNG(w, svg)
	}
	return render.SVG(w, svg)
}

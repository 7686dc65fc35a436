package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	app "damage-dashboard/internal/application"
	"damage-dashboard/internal/container"
	"damage-dashboard/internal/infrastructure/detection"
	"damage-dashboard/internal/overlay"
)

var (
	renderResult string
	renderOut    string
	renderProbes []string
	renderWidth  int
)

const renderSession = "cli"

var renderCmd = &cobra.Command{
	Use:   "render <image>",
	Short: "Render before/after surfaces for a photo",
	Long: `Renders before.png, after.png and comparison.png for a photo.
With --result the detections are read from a JSON file in the detection service format,
otherwise the photo is sent to the detection service.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		imagePath := args[0]

		imageData, err := os.ReadFile(imagePath)
		if err != nil {
			return eris.Wrapf(err, "read image %s", imagePath)
		}

		probes, err := parseProbes(renderProbes)
		if err != nil {
			return err
		}

		svc := container.Build(cfg).AnalysisService

		var view *app.AnalysisView
		if renderResult != "" {
			result, err := detection.ReadResultFile(renderResult)
			if err != nil {
				return err
			}
			view, err = svc.Load(ctx, renderSession, filepath.Base(imagePath), imageData, result)
			if err != nil {
				return err
			}
		} else {
			view, err = svc.Analyze(ctx, renderSession, filepath.Base(imagePath), imageData)
			if err != nil {
				return err
			}
		}

		if err := writeSurfaces(svc, renderOut, renderWidth); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "claim:   %s\n", view.ClaimStatus)
		fmt.Fprintf(out, "damage:  %s\n", view.Result.Decision.FinalDamage)
		fmt.Fprintf(out, "cost:    %s\n", view.CostText)
		fmt.Fprintf(out, "size:    %dx%d\n", view.Width, view.Height)
		for _, label := range view.Tooltips {
			fmt.Fprintf(out, "  - %s\n", label)
		}

		for _, p := range probes {
			tip, err := svc.PointerMove(renderSession, p[0], p[1], nil)
			if err != nil {
				return err
			}
			text := "(none)"
			if tip.Visible {
				text = tip.Text
			}
			fmt.Fprintf(out, "probe %g,%g: %s\n", p[0], p[1], text)
		}

		zap.L().Debug("render finished", zap.String("out", renderOut))
		return nil
	},
}

// parseProbes разбирает точки вида "x,y".
func parseProbes(raw []string) ([][2]float64, error) {
	probes := make([][2]float64, 0, len(raw))
	for _, r := range raw {
		xs, ys, ok := strings.Cut(r, ",")
		if !ok {
			return nil, eris.Errorf("probe %q: expected x,y", r)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "probe %q", r)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "probe %q", r)
		}
		probes = append(probes, [2]float64{x, y})
	}
	return probes, nil
}

func writeSurfaces(svc *app.AnalysisService, dir string, maxWidth int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "create %s", dir)
	}

	before, after, err := svc.Surfaces(renderSession)
	if err != nil {
		return err
	}
	comparison, err := svc.Comparison(renderSession, maxWidth)
	if err != nil {
		return err
	}

	files := []struct {
		name string
		img  *image.RGBA
	}{
		{"before.png", before.Image()},
		{"after.png", after.Image()},
		{"comparison.png", comparison},
	}
	for _, f := range files {
		data, err := overlay.EncodePNG(f.img)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), data, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", f.name)
		}
	}
	return nil
}

func init() {
	renderCmd.Flags().StringVar(&renderResult, "result", "", "detection result JSON (skip the detection service)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", ".", "output directory")
	renderCmd.Flags().StringArrayVar(&renderProbes, "probe", nil, "pointer position x,y to report the tooltip for (repeatable)")
	renderCmd.Flags().IntVar(&renderWidth, "max-width", 0, "max panel width in comparison.png")
	rootCmd.AddCommand(renderCmd)
}

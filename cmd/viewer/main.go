// Команда viewer открывает настольное окно дашборда.
package main

import (
	"os"
	"path/filepath"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"damage-dashboard/config"
	"damage-dashboard/internal/container"
	"damage-dashboard/internal/domain/entity"
	"damage-dashboard/internal/infrastructure/detection"
	"damage-dashboard/internal/ui/viewer"
)

const appID = "com.damage-dashboard.viewer"

var resultPath string

var rootCmd = &cobra.Command{
	Use:   "viewer [image]",
	Short: "Desktop viewer for vehicle damage photos",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		defer zap.L().Sync() //nolint:errcheck

		c := container.Build(cfg)

		a := fyneapp.NewWithID(appID)
		w := viewer.New(a, c.AnalysisService)

		if len(args) == 1 {
			imagePath := args[0]
			imageData, err := os.ReadFile(imagePath)
			if err != nil {
				return eris.Wrapf(err, "read image %s", imagePath)
			}

			var result *entity.AnalysisResult
			if resultPath != "" {
				if result, err = detection.ReadResultFile(resultPath); err != nil {
					return err
				}
			}
			w.Open(filepath.Base(imagePath), imageData, result)
		}

		w.ShowAndRun()
		return nil
	},
}

func main() {
	rootCmd.Flags().StringVar(&resultPath, "result", "", "detection result JSON (skip the detection service)")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

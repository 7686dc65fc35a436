//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rotisserie/eris"
	_ "golang.org/x/image/webp"

	"damage-dashboard/internal/domain/entity"
)

// Check без OpenCV проверяет только, что снимок читается и не меньше минимального размера.
func (g *QualityGate) Check(ctx context.Context, imageData []byte) error {
	_ = ctx
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return eris.Wrapf(entity.ErrImageQuality, "failed to decode image: %v", err)
	}
	if cfg.Width < g.MinImageSide || cfg.Height < g.MinImageSide {
		return eris.Wrapf(entity.ErrImageQuality, "image is too small (%dx%d)", cfg.Width, cfg.Height)
	}
	return nil
}

//go:build gocv
// +build gocv

package vision

import (
	"context"

	"github.com/rotisserie/eris"
	"gocv.io/x/gocv"

	"damage-dashboard/internal/domain/entity"
)

// Check декодирует снимок через OpenCV и отклоняет маленькие, размытые,
// пере- и недоэкспонированные фото, а также фото с сильными бликами.
func (g *QualityGate) Check(ctx context.Context, imageData []byte) error {
	_ = ctx
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		if err == nil {
			mat.Close()
		}
		return eris.Wrap(entity.ErrImageQuality, "failed to decode image")
	}
	defer mat.Close()

	if mat.Cols() < g.MinImageSide || mat.Rows() < g.MinImageSide {
		return eris.Wrapf(entity.ErrImageQuality, "image is too small (%dx%d)", mat.Cols(), mat.Rows())
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)
	if ratio := ratioOfMask(edges); ratio < g.MinSharpnessEdgeRatio {
		return eris.Wrapf(entity.ErrImageQuality, "image is blurry (edge_ratio=%.4f)", ratio)
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)
	if ratio := ratioOfMask(bright); ratio > g.MaxOverexposedRatio {
		return eris.Wrapf(entity.ErrImageQuality, "overexposed image (ratio=%.4f)", ratio)
	}

	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)
	if ratio := ratioOfMask(dark); ratio > g.MaxUnderexposedRatio {
		return eris.Wrapf(entity.ErrImageQuality, "underexposed image (ratio=%.4f)", ratio)
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)
	channels := gocv.Split(hsv)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) < 3 {
		return eris.Wrap(entity.ErrImageQuality, "invalid hsv channels")
	}

	// блик: низкая насыщенность при почти максимальной яркости
	lowSat := gocv.NewMat()
	defer lowSat.Close()
	gocv.Threshold(channels[1], &lowSat, 40, 255, gocv.ThresholdBinaryInv)

	highVal := gocv.NewMat()
	defer highVal.Close()
	gocv.Threshold(channels[2], &highVal, 245, 255, gocv.ThresholdBinary)

	glare := gocv.NewMat()
	defer glare.Close()
	gocv.BitwiseAnd(lowSat, highVal, &glare)
	if ratio := ratioOfMask(glare); ratio > g.MaxGlareRatio {
		return eris.Wrapf(entity.ErrImageQuality, "too much glare (ratio=%.4f)", ratio)
	}

	return nil
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}

// Package viewer настольное окно дашборда на fyne: фото до и после,
// решение по заявке и подсказки при наведении на повреждения.
package viewer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	app "damage-dashboard/internal/application"
	"damage-dashboard/internal/domain/entity"
	"damage-dashboard/internal/overlay"
)

const (
	title = "Damage Dashboard"

	sessionID = "viewer"

	// tooltipOffset смещение подсказки от указателя
	tooltipOffset = 10
)

// Window главное окно просмотрщика.
type Window struct {
	fyne.Window
	svc *app.AnalysisService

	before *canvas.Image
	after  *HoverImage

	status     *widget.Label
	damage     *widget.Label
	cost       *widget.Label
	detections *widget.Label
	question   *widget.Entry

	tooltipText *widget.Label
	tooltip     *widget.PopUp
}

// New создаёт окно.
func New(fyneApp fyne.App, svc *app.AnalysisService) *Window {
	w := &Window{
		Window: fyneApp.NewWindow(title),
		svc:    svc,
	}
	w.setupUI()
	return w
}

func (w *Window) setupUI() {
	w.before = canvas.NewImageFromImage(nil)
	w.before.FillMode = canvas.ImageFillStretch
	w.before.ScaleMode = canvas.ImageScalePixels
	w.before.SetMinSize(fyne.NewSize(320, 240))

	w.after = NewHoverImage(w.onPointerMove, w.onPointerLeave)

	w.status = widget.NewLabel("Open a photo to start")
	w.damage = widget.NewLabel("")
	w.cost = widget.NewLabel("")
	w.detections = widget.NewLabel("")
	w.detections.Wrapping = fyne.TextWrapWord

	w.question = widget.NewEntry()
	w.question.SetPlaceHolder("Ask about the decision…")
	w.question.OnSubmitted = func(string) { w.onAsk() }

	w.tooltipText = widget.NewLabel("")
	w.tooltip = widget.NewPopUp(w.tooltipText, w.Canvas())

	toolbar := container.NewHBox(
		widget.NewButton("Open photo…", w.onOpenPhoto),
		widget.NewButton("Reset", w.onReset),
	)

	images := container.NewGridWithColumns(2,
		container.NewBorder(widget.NewLabel(overlay.CaptionBefore), nil, nil, nil, w.before),
		container.NewBorder(widget.NewLabel(overlay.CaptionAfter), nil, nil, nil, w.after),
	)

	claim := widget.NewCard("Claim", "", container.NewVBox(
		w.status,
		w.damage,
		w.cost,
		w.detections,
	))

	ask := container.NewBorder(nil, nil, nil, widget.NewButton("Ask", w.onAsk), w.question)

	w.SetContent(container.NewBorder(
		toolbar,                       // top
		container.NewVBox(claim, ask), // bottom
		nil,                           // left
		nil,                           // right
		images,                        // center
	))
	w.Resize(fyne.NewSize(1100, 700))
}

// Open показывает фото: с готовым результатом, если он есть, иначе через сервис детекции.
// Подсказка от прежнего фото скрывается сразу.
func (w *Window) Open(filename string, imageData []byte, result *entity.AnalysisResult) {
	w.tooltip.Hide()
	w.status.SetText("Analyzing…")
	go func() {
		var (
			view *app.AnalysisView
			err  error
		)
		ctx := context.Background()
		if result != nil {
			view, err = w.svc.Load(ctx, sessionID, filename, imageData, result)
		} else {
			view, err = w.svc.Analyze(ctx, sessionID, filename, imageData)
		}
		if err != nil {
			zap.L().Warn("viewer: analysis failed", zap.String("filename", filename), zap.Error(err))
			w.status.SetText("Analysis failed")
			dialog.ShowError(err, w.Window)
			return
		}
		w.show(view)
	}()
}

func (w *Window) show(view *app.AnalysisView) {
	before, after, err := w.svc.Surfaces(view.SessionID)
	if err != nil {
		dialog.ShowError(err, w.Window)
		return
	}

	w.before.Image = before.Image()
	w.before.Refresh()
	w.after.SetImage(after.Image())

	w.SetTitle(fmt.Sprintf("%s - %s", title, view.Filename))
	w.status.SetText("Claim: " + view.ClaimStatus)
	w.damage.SetText("Damage: " + view.Result.Decision.FinalDamage)
	w.cost.SetText("Estimated cost: " + view.CostText)
	if len(view.Tooltips) == 0 {
		w.detections.SetText("No damage detected")
	} else {
		w.detections.SetText(strings.Join(view.Tooltips, "\n"))
	}
}

func (w *Window) onPointerMove(x, y float64, layout overlay.Layout, abs fyne.Position) {
	tip, err := w.svc.PointerMove(sessionID, x, y, &layout)
	if err != nil || !tip.Visible {
		w.tooltip.Hide()
		return
	}
	w.tooltipText.SetText(tip.Text)
	w.tooltip.ShowAtPosition(abs.Add(fyne.NewPos(tooltipOffset, tooltipOffset)))
}

func (w *Window) onPointerLeave() {
	if _, err := w.svc.PointerLeave(sessionID); err != nil {
		zap.L().Debug("viewer: pointer leave", zap.Error(err))
	}
	w.tooltip.Hide()
}

func (w *Window) onOpenPhoto() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.Window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close() //nolint:errcheck

		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(err, w.Window)
			return
		}
		w.Open(filepath.Base(reader.URI().Path()), data, nil)
	}, w.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".jpg", ".jpeg", ".png", ".webp"}))
	fd.Show()
}

func (w *Window) onAsk() {
	question := w.question.Text
	go func() {
		answer, err := w.svc.Ask(context.Background(), sessionID, question)
		if err != nil {
			dialog.ShowError(err, w.Window)
			return
		}
		w.question.SetText("")
		dialog.ShowInformation("Assistant", answer.Answer, w.Window)
	}()
}

func (w *Window) onReset() {
	if err := w.svc.Reset(context.Background(), sessionID); err != nil {
		dialog.ShowError(err, w.Window)
		return
	}
	w.tooltip.Hide()
	w.before.Image = nil
	w.before.Refresh()
	w.after.Clear()
	w.SetTitle(title)
	w.status.SetText("Open a photo to start")
	w.damage.SetText("")
	w.cost.SetText("")
	w.detections.SetText("")
}

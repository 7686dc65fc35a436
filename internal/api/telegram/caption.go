package telegram

import (
	"strings"

	"github.com/rotisserie/eris"

	app "damage-dashboard/internal/application"
	"damage-dashboard/internal/domain/entity"
)

// maxCaption лимит подписи к фото в Telegram
const maxCaption = 1024

// formatCaption подпись к картинке «до / после».
func formatCaption(view *app.AnalysisView) string {
	var sb strings.Builder

	if view.Result.Decision.ClaimApproved {
		sb.WriteString("✅ Заявка: ")
	} else {
		sb.WriteString("❌ Заявка: ")
	}
	sb.WriteString(view.ClaimStatus)
	sb.WriteString("\n")

	if damage := view.Result.Decision.FinalDamage; damage != "" {
		sb.WriteString("🚗 Повреждение: ")
		sb.WriteString(damage)
		sb.WriteString("\n")
	}
	sb.WriteString("💰 Стоимость ремонта: ")
	sb.WriteString(view.CostText)

	if len(view.Tooltips) == 0 {
		sb.WriteString("\n\nПовреждения не обнаружены.")
	} else {
		sb.WriteString("\n\n🔍 Найдено:")
		for _, label := range view.Tooltips {
			sb.WriteString("\n• ")
			sb.WriteString(label)
		}
	}

	caption := sb.String()
	if r := []rune(caption); len(r) > maxCaption {
		caption = string(r[:maxCaption-1]) + "…"
	}
	return caption
}

// errorMessage сообщение пользователю по ошибке анализа.
func errorMessage(err error) string {
	switch {
	case eris.Is(err, entity.ErrImageQuality):
		return msgPoorQuality
	case eris.Is(err, entity.ErrUpstream), eris.Is(err, app.ErrNotConfigured):
		return msgServiceDown
	default:
		return msgProcessingError
	}
}

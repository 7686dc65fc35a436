package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"

	app "damage-dashboard/internal/application"
	"damage-dashboard/internal/domain/entity"
)

func TestFormatCaption(t *testing.T) {
	view := &app.AnalysisView{
		Result: &entity.AnalysisResult{
			Decision: entity.Decision{ClaimApproved: true, FinalDamage: "Dent"},
		},
		ClaimStatus: "Approved",
		CostText:    "₹2,735 - ₹7,838",
		Tooltips:    []string{"Dent (95%)", "Scratch (62%)"},
	}

	caption := formatCaption(view)
	require.True(t, strings.HasPrefix(caption, "✅ Заявка: Approved"))
	require.Contains(t, caption, "Повреждение: Dent")
	require.Contains(t, caption, "₹2,735 - ₹7,838")
	require.Contains(t, caption, "• Dent (95%)\n• Scratch (62%)")
}

func TestFormatCaption_NoDetections(t *testing.T) {
	view := &app.AnalysisView{
		Result:      &entity.AnalysisResult{Decision: entity.Decision{FinalDamage: "none"}},
		ClaimStatus: "Rejected",
		CostText:    "₹0 - ₹0",
	}

	caption := formatCaption(view)
	require.True(t, strings.HasPrefix(caption, "❌ Заявка: Rejected"))
	require.Contains(t, caption, "Повреждения не обнаружены.")
}

func TestFormatCaption_Truncated(t *testing.T) {
	labels := make([]string, 200)
	for i := range labels {
		labels[i] = "Scratch (50%)"
	}
	view := &app.AnalysisView{
		Result:      &entity.AnalysisResult{},
		ClaimStatus: "Rejected",
		Tooltips:    labels,
	}

	caption := formatCaption(view)
	require.Equal(t, maxCaption, utf8.RuneCountInString(caption))
	require.True(t, strings.HasSuffix(caption, "…"))
}

func TestErrorMessage(t *testing.T) {
	require.Equal(t, msgPoorQuality, errorMessage(eris.Wrap(entity.ErrImageQuality, "blurry")))
	require.Equal(t, msgServiceDown, errorMessage(eris.Wrap(entity.ErrUpstream, "status 502")))
	require.Equal(t, msgProcessingError, errorMessage(eris.New("other")))
}

func TestSessionID(t *testing.T) {
	require.Equal(t, "tg-42", sessionID(42))
}

package entity

// TooltipState состояние всплывающей подсказки над изображением.
// X, Y это координаты указателя во viewport, а не в пикселях изображения.
type TooltipState struct {
	Visible bool    `json:"visible"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Text    string  `json:"text"`
}

// HiddenTooltip скрытая подсказка в начале координат.
func HiddenTooltip() TooltipState {
	return TooltipState{}
}

// ShowTooltip подсказка для детекции под указателем.
func ShowTooltip(d Detection, x, y float64) TooltipState {
	return TooltipState{Visible: true, X: x, Y: y, Text: d.Label()}
}

// AgentAnswer ответ ассистента на вопрос по заявке.
type AgentAnswer struct {
	Answer string `json:"answer"`
	Source string `json:"source,omitempty"`
}

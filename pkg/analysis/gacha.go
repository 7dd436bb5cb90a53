package analysis

import "fmt"

// GachaAnalysis 宝石余额对应的抽卡能力
type GachaAnalysis struct {
	SinglePullPossible bool   `json:"single_pull_possible"`
	TenPullPossible    bool   `json:"ten_pull_possible"`
	EstimatedPulls     int    `json:"estimated_pulls"`
	Recommendation     string `json:"recommendation"`
}

// AnalyzeGacha 没有可解析的宝石读数时返回 nil
func AnalyzeGacha(currency map[string]CurrencyEntry) *GachaAnalysis {
	gems, ok := GemCount(currency)
	if !ok {
		return nil
	}
	rec := "Need more gems"
	if gems >= SinglePullCost {
		rec = "Enough for gacha"
	}
	return &GachaAnalysis{
		SinglePullPossible: gems >= SinglePullCost,
		TenPullPossible:    gems >= TenPullCost,
		EstimatedPulls:     gems / SinglePullCost,
		Recommendation:     rec,
	}
}

// GachaButton 抽卡按钮摘要
type GachaButton struct {
	Text        string  `json:"text"`
	Position    Point   `json:"position"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// BestGachaButton 置信度最高的抽卡按钮，相同置信度取先出现者
func BestGachaButton(elements []UIElement) (*GachaButton, []UIElement) {
	buttons := FilterCategory(elements, CategoryGacha)
	if len(buttons) == 0 {
		return nil, buttons
	}
	best := buttons[0]
	for _, b := range buttons[1:] {
		if b.Confidence > best.Confidence {
			best = b
		}
	}
	return &GachaButton{
		Text:        best.Text,
		Position:    best.Position,
		Confidence:  best.Confidence,
		Description: best.Description,
	}, buttons
}

// Clickable 所有可点击元素
func Clickable(elements []UIElement) []UIElement {
	out := []UIElement{}
	for _, e := range elements {
		if e.Clickable {
			out = append(out, e)
		}
	}
	return out
}

// SummaryRecommendations get_game_summary 的建议列表
func SummaryRecommendations(res Result, gacha *GachaAnalysis, button *GachaButton) []string {
	out := []string{}
	if len(res.Notifications) > 0 {
		out = append(out, "New notifications need checking")
	}
	if button != nil {
		if gacha != nil && gacha.SinglePullPossible {
			out = append(out, fmt.Sprintf("Gacha available at [%d, %d]", button.Position.X(), button.Position.Y()))
		} else {
			out = append(out, "Gacha button found but not enough gems")
		}
	}
	if res.ScreenState == StateMainMenu {
		out = append(out, "On main menu - can navigate to other features")
	}
	return out
}

package analysis

import (
	"fmt"
	"strconv"
)

// 单抽和十连的宝石消耗
const (
	SinglePullCost = 150
	TenPullCost    = 1500
)

var mainMenuSuggestions = []string{
	"Click on gacha/scout button to access summoning",
	"Check inventory for items",
	"Look for daily missions or events",
}

// GemCount 解析宝石数量，没有或无法解析时 ok 为 false
func GemCount(currency map[string]CurrencyEntry) (int, bool) {
	entry, ok := currency[CurrencyGems]
	if !ok || entry.Value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(entry.Value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SuggestActions 按固定规则顺序给出建议操作
func SuggestActions(state ScreenState, elements []UIElement, currency map[string]CurrencyEntry) []string {
	out := []string{}

	switch state {
	case StateMainMenu:
		out = append(out, mainMenuSuggestions...)
	case StateGacha:
		if gems, ok := GemCount(currency); ok {
			switch {
			case gems >= TenPullCost:
				out = append(out, "Perform 10x summon (recommended)")
			case gems >= SinglePullCost:
				out = append(out, "Perform single summon")
			default:
				out = append(out, "Insufficient gems for summoning")
			}
		}
	}

	if btn, ok := FirstOfCategory(elements, CategoryGacha); ok {
		out = append(out, fmt.Sprintf("Gacha button found at [%d, %d]", btn.Position.X(), btn.Position.Y()))
	}
	return out
}

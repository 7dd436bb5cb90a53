package analysis

import "strings"

// ClassifyState 由 UI 元素文本判断画面状态
func ClassifyState(elements []UIElement) ScreenState {
	texts := make([]string, len(elements))
	for i, e := range elements {
		texts[i] = e.Text
	}
	content := strings.ToLower(strings.Join(texts, " "))

	for _, r := range stateRules {
		if containsAny(content, r.keywords) {
			return r.state
		}
	}
	return StateUnknown
}

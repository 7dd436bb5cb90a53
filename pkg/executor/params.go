package executor

import "math"

// FindWindowParams find_game_window 参数
type FindWindowParams struct {
	WindowTitle string `json:"window_title" jsonschema:"part of the game window title, case-insensitive (e.g. BlueStacks, Genshin)"`
}

// AnalyzeParams analyze_game_state / get_game_summary 参数
type AnalyzeParams struct {
	IncludeImage bool `json:"include_image,omitempty" jsonschema:"attach the captured screenshot as a PNG image"`
}

// ClickParams click_at_position 参数
type ClickParams struct {
	X           int    `json:"x" jsonschema:"x coordinate relative to the game window"`
	Y           int    `json:"y" jsonschema:"y coordinate relative to the game window"`
	Description string `json:"description,omitempty" jsonschema:"what is being clicked (e.g. Gacha button)"`
	ClickType   string `json:"click_type,omitempty" jsonschema:"left, right or double (default left)"`
}

// WaitParams wait_and_analyze 参数
type WaitParams struct {
	Delay        *float64 `json:"delay,omitempty" jsonschema:"seconds to wait before analyzing (default 2, max 60)"`
	IncludeImage bool     `json:"include_image,omitempty" jsonschema:"attach the captured screenshot as a PNG image"`
}

// HistoryParams get_analysis_history 参数
type HistoryParams struct {
	Limit         int  `json:"limit,omitempty" jsonschema:"number of most recent analyses to return (default 20)"`
	IncludeResult bool `json:"include_result,omitempty" jsonschema:"include the full analysis result of each entry"`
}

// KeyParams press_key 参数
type KeyParams struct {
	Key       string   `json:"key" jsonschema:"key name such as esc, enter, space, a"`
	Modifiers []string `json:"modifiers,omitempty" jsonschema:"modifier keys such as ctrl, shift, alt"`
}

const (
	defaultDelay = 2.0
	maxDelay     = 60.0
)

// delaySeconds 默认 2 秒，限制在 [0, 60]
func (p WaitParams) delaySeconds() float64 {
	if p.Delay == nil {
		return defaultDelay
	}
	d := *p.Delay
	switch {
	case d < 0 || math.IsNaN(d):
		return 0
	case d > maxDelay:
		return maxDelay
	}
	return d
}

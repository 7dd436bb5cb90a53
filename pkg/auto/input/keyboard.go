package input

import (
	"fmt"
	"strings"

	"github.com/go-vgo/robotgo"
)

// NormalizeKey 统一按键名，escape 归一为 robotgo 的 esc
func NormalizeKey(key string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	switch k {
	case "":
		return "", fmt.Errorf("按键不能为空")
	case "escape":
		return "esc", nil
	case "return":
		return "enter", nil
	}
	return k, nil
}

// KeyTap 按键，modifiers 如 ctrl、shift、alt
func (s *RobotgoSynthesizer) KeyTap(key string, modifiers ...string) error {
	k, err := NormalizeKey(key)
	if err != nil {
		return err
	}
	if len(modifiers) == 0 {
		return robotgo.KeyTap(k)
	}

	mods := make([]string, len(modifiers))
	for i, m := range modifiers {
		mods[i] = strings.ToLower(strings.TrimSpace(m))
	}
	return robotgo.KeyTap(k, mods)
}

// Package input 提供鼠标和键盘输入合成
package input

import (
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto"
)

// Synthesizer 输入合成能力，坐标为屏幕绝对坐标（截图像素）
type Synthesizer interface {
	Click(p auto.Point, clickType auto.ClickType) error
	KeyTap(key string, modifiers ...string) error
}

// RobotgoSynthesizer 基于 robotgo 的输入实现
type RobotgoSynthesizer struct {
	// MoveSettle 移动后到点击前的等待
	MoveSettle time.Duration
}

// NewRobotgoSynthesizer 创建输入合成器
func NewRobotgoSynthesizer() *RobotgoSynthesizer {
	return &RobotgoSynthesizer{MoveSettle: 50 * time.Millisecond}
}

// MoveTo 移动鼠标到指定位置
func MoveTo(x, y int) {
	inputX, inputY := auto.NormalizePointForInput(x, y)
	robotgo.Move(inputX, inputY)
}

// Click 在指定位置点击
func (s *RobotgoSynthesizer) Click(p auto.Point, clickType auto.ClickType) error {
	MoveTo(p.X, p.Y)
	time.Sleep(s.MoveSettle) // 确保鼠标到位

	switch clickType {
	case auto.ClickLeft:
		robotgo.Click("left", false)
	case auto.ClickRight:
		robotgo.Click("right", false)
	case auto.ClickDouble:
		robotgo.Click("left", true)
	default:
		return fmt.Errorf("不支持的点击方式: %q", clickType)
	}
	return nil
}

// Package auto 提供桌面自动化的共享类型和工具函数。
// 具体功能分布在子包中：window, screen, input。
package auto

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Point 表示二维坐标点
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Region 表示矩形区域
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty 区域是否为空
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ContainsRelative 判断窗口相对坐标是否在区域内（含边界）
func (r Region) ContainsRelative(x, y int) bool {
	return x >= 0 && y >= 0 && x <= r.Width && y <= r.Height
}

// Absolute 窗口相对坐标转屏幕绝对坐标
func (r Region) Absolute(x, y int) Point {
	return Point{X: r.X + x, Y: r.Y + y}
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// ClickType 点击方式
type ClickType string

const (
	ClickLeft   ClickType = "left"
	ClickRight  ClickType = "right"
	ClickDouble ClickType = "double"
)

// ParseClickType 解析点击方式，空字符串视为左键
func ParseClickType(s string) (ClickType, error) {
	switch ClickType(strings.ToLower(strings.TrimSpace(s))) {
	case "", ClickLeft:
		return ClickLeft, nil
	case ClickRight:
		return ClickRight, nil
	case ClickDouble:
		return ClickDouble, nil
	default:
		return "", fmt.Errorf("不支持的点击方式: %q (可选: left, right, double)", s)
	}
}

// SleepContext 可取消的休眠
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

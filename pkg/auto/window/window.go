// Package window 提供窗口发现与激活
package window

import (
	"fmt"
	"strings"

	"github.com/go-vgo/robotgo"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/process"
)

// WindowInfo 窗口信息，Bounds 为截图像素坐标
type WindowInfo struct {
	PID       int         `json:"pid"`
	Title     string      `json:"title"`
	OwnerName string      `json:"owner_name"`
	Bounds    auto.Region `json:"bounds"`
}

// Manager 窗口管理能力
type Manager interface {
	// List 列出所有有标题的窗口
	List() ([]WindowInfo, error)
	// Get 按 PID 重新读取窗口信息（边界可能已变化）
	Get(pid int) (*WindowInfo, error)
	// Activate 激活窗口到前台
	Activate(pid int) error
}

// MatchTitle 按标题（不区分大小写，部分匹配）筛选窗口，保持原有顺序
func MatchTitle(windows []WindowInfo, title string) []WindowInfo {
	needle := strings.ToLower(title)
	var out []WindowInfo
	for _, w := range windows {
		if strings.Contains(strings.ToLower(w.Title), needle) {
			out = append(out, w)
		}
	}
	return out
}

// ActiveReporter 能报告前台窗口的 Manager
type ActiveReporter interface {
	ActivePID() int
}

// RobotgoManager 基于 robotgo 的窗口管理实现
type RobotgoManager struct{}

// NewRobotgoManager 创建窗口管理器
func NewRobotgoManager() *RobotgoManager {
	return &RobotgoManager{}
}

// List 获取窗口列表，平台支持时使用原生枚举（每个窗口一项），否则按进程枚举
func (m *RobotgoManager) List() ([]WindowInfo, error) {
	if windows, ok := nativeWindows(); ok {
		return windows, nil
	}

	pids, err := robotgo.Pids()
	if err != nil {
		return nil, fmt.Errorf("获取进程列表失败: %w", err)
	}

	var windows []WindowInfo
	for _, pid := range pids {
		info, ok := m.lookup(pid)
		if !ok {
			continue
		}
		windows = append(windows, *info)
	}
	return windows, nil
}

// Get 按 PID 获取窗口信息，同一进程有多个窗口时取最前面的一个
func (m *RobotgoManager) Get(pid int) (*WindowInfo, error) {
	if !process.Running(pid) {
		return nil, fmt.Errorf("窗口所属进程已退出: PID=%d", pid)
	}
	if windows, ok := nativeWindows(); ok {
		for i := range windows {
			if windows[i].PID == pid {
				return &windows[i], nil
			}
		}
	}
	info, ok := m.lookup(pid)
	if !ok {
		return nil, fmt.Errorf("未找到 PID=%d 的窗口", pid)
	}
	return info, nil
}

// Activate 将窗口置于前台
func (m *RobotgoManager) Activate(pid int) error {
	if err := activateNative(pid); err == nil {
		return nil
	}
	if err := robotgo.ActivePid(pid); err != nil {
		return fmt.Errorf("激活窗口失败: %w", err)
	}
	return nil
}

// ActivePID 前台窗口所属进程
func (m *RobotgoManager) ActivePID() int {
	return robotgo.GetPid()
}

func (m *RobotgoManager) lookup(pid int) (*WindowInfo, bool) {
	title := robotgo.GetTitle(pid)
	if strings.TrimSpace(title) == "" {
		return nil, false
	}

	x, y, w, h := robotgo.GetBounds(pid)
	x, y, w, h = auto.NormalizeRegionForScreen(x, y, w, h)
	if w <= 0 || h <= 0 {
		return nil, false
	}

	return &WindowInfo{
		PID:       pid,
		Title:     title,
		OwnerName: ownerName(pid),
		Bounds:    auto.Region{X: x, Y: y, Width: w, Height: h},
	}, true
}

func ownerName(pid int) string {
	if info, err := process.Lookup(pid); err == nil && info.Name != "" {
		return info.Name
	}
	name, _ := robotgo.FindName(pid)
	return name
}

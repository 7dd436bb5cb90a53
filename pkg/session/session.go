// Package session 持有当前目标游戏窗口
//
// 截图和点击在同一把锁内完成"刷新窗口 → 激活 → 等待 → 操作"，
// 并发的 find_game_window 不会插入到中间。
package session

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/errors"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto/input"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto/screen"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto/window"
)

// Options 会话参数
type Options struct {
	CaptureSettle time.Duration
	ClickSettle   time.Duration
	// NormalizeHiDPI 将截图缩放到窗口尺寸
	NormalizeHiDPI bool
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		CaptureSettle:  300 * time.Millisecond,
		ClickSettle:    200 * time.Millisecond,
		NormalizeHiDPI: true,
	}
}

// FindResult find_game_window 的结果
type FindResult struct {
	Window     window.WindowInfo
	AllMatches []window.WindowInfo
	// ActivePID 前台窗口进程，无法获取时为 0
	ActivePID int
}

// ClickResult 一次点击的坐标信息
type ClickResult struct {
	Relative  auto.Point
	Absolute  auto.Point
	ClickType auto.ClickType
	Window    window.WindowInfo
}

// Session 目标窗口会话
type Session struct {
	mu     sync.Mutex
	target *window.WindowInfo

	windows window.Manager
	grabber screen.Grabber
	input   input.Synthesizer
	opts    Options
}

// New 创建会话
func New(windows window.Manager, grabber screen.Grabber, synth input.Synthesizer, opts Options) *Session {
	return &Session{
		windows: windows,
		grabber: grabber,
		input:   synth,
		opts:    opts,
	}
}

// Find 按标题查找窗口，选中第一个匹配项
//
// 未找到时返回 WINDOW_NOT_FOUND，同时返回所有可见窗口标题供调用方展示。
func (s *Session) Find(title string) (*FindResult, []string, error) {
	if title == "" {
		return nil, nil, errors.NewInvalidParameterError("window_title 不能为空")
	}

	all, err := s.windows.List()
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrorInternal, err, "枚举窗口失败")
	}

	matches := window.MatchTitle(all, title)
	if len(matches) == 0 {
		titles := make([]string, 0, len(all))
		for _, w := range all {
			titles = append(titles, w.Title)
		}
		return nil, titles, errors.NewWindowNotFoundError(title)
	}

	s.mu.Lock()
	selected := matches[0]
	s.target = &selected
	s.mu.Unlock()

	res := &FindResult{Window: selected, AllMatches: matches}
	if ar, ok := s.windows.(window.ActiveReporter); ok {
		res.ActivePID = ar.ActivePID()
	}

	logger.Info("已选中窗口: %s (pid=%d, %s)", selected.Title, selected.PID, selected.Bounds)
	return res, nil, nil
}

// Target 当前目标窗口的副本
func (s *Session) Target() (window.WindowInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target == nil {
		return window.WindowInfo{}, false
	}
	return *s.target, true
}

// Clear 清除目标窗口
func (s *Session) Clear() {
	s.mu.Lock()
	s.target = nil
	s.mu.Unlock()
}

// refresh 重新读取目标窗口的位置和尺寸，调用方需持有锁
func (s *Session) refresh() (window.WindowInfo, error) {
	if s.target == nil {
		return window.WindowInfo{}, errors.NewNoTargetWindowError()
	}
	info, err := s.windows.Get(s.target.PID)
	if err != nil {
		// 窗口已关闭：旧边界处可能已是别的程序，清除目标避免误截图和误点击
		title := s.target.Title
		s.target = nil
		logger.Warn("目标窗口已不可用，已清除: %s: %v", title, err)
		return window.WindowInfo{}, errors.Wrap(errors.ErrorWindowNotFound, err, "目标窗口已关闭: %s", title)
	}
	s.target = info
	return *info, nil
}

// activate 激活窗口并等待焦点稳定，调用方需持有锁
func (s *Session) activate(ctx context.Context, w window.WindowInfo, settle time.Duration) error {
	if err := s.windows.Activate(w.PID); err != nil {
		logger.Warn("激活窗口失败: %v", err)
	}
	return auto.SleepContext(ctx, settle)
}

// Capture 截取目标窗口
//
// 返回的截图尺寸与窗口尺寸一致（NormalizeHiDPI 开启时），
// 分析得到的坐标可直接传给 Click。
func (s *Session) Capture(ctx context.Context) (image.Image, window.WindowInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.refresh()
	if errors.HasCode(err, errors.ErrorNoTargetWindow) {
		return nil, window.WindowInfo{}, err
	}
	if err != nil {
		return nil, window.WindowInfo{}, errors.NewCaptureFailedError(err)
	}
	if err := s.activate(ctx, w, s.opts.CaptureSettle); err != nil {
		return nil, w, errors.NewCaptureFailedError(err)
	}

	img, err := s.grabber.CaptureRegion(w.Bounds)
	if err != nil {
		return nil, w, errors.NewCaptureFailedError(err)
	}
	if img == nil {
		return nil, w, errors.NewCaptureFailedError(fmt.Errorf("截图为空"))
	}

	if s.opts.NormalizeHiDPI {
		img = screen.FitToSize(img, w.Bounds.Width, w.Bounds.Height)
	}
	return img, w, nil
}

// Click 在窗口相对坐标处点击
func (s *Session) Click(ctx context.Context, x, y int, clickType string) (*ClickResult, error) {
	ct, err := auto.ParseClickType(clickType)
	if err != nil {
		return nil, errors.NewInvalidParameterError("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.refresh()
	if err != nil {
		return nil, err
	}
	if !w.Bounds.ContainsRelative(x, y) {
		return nil, errors.NewInvalidParameterError("坐标 (%d, %d) 超出窗口范围 (%dx%d)", x, y, w.Bounds.Width, w.Bounds.Height)
	}
	if err := s.activate(ctx, w, s.opts.ClickSettle); err != nil {
		return nil, err
	}

	abs := w.Bounds.Absolute(x, y)
	if err := s.input.Click(abs, ct); err != nil {
		return nil, errors.Wrap(errors.ErrorInternal, err, "点击失败")
	}

	logger.Debug("点击 %s 相对(%d,%d) 绝对(%d,%d)", ct, x, y, abs.X, abs.Y)
	return &ClickResult{
		Relative:  auto.Point{X: x, Y: y},
		Absolute:  abs,
		ClickType: ct,
		Window:    w,
	}, nil
}

// PressKey 激活目标窗口后按键
func (s *Session) PressKey(ctx context.Context, key string, modifiers ...string) (window.WindowInfo, error) {
	if _, err := input.NormalizeKey(key); err != nil {
		return window.WindowInfo{}, errors.NewInvalidParameterError("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.refresh()
	if err != nil {
		return w, err
	}
	if err := s.activate(ctx, w, s.opts.ClickSettle); err != nil {
		return w, err
	}
	if err := s.input.KeyTap(key, modifiers...); err != nil {
		return w, errors.Wrap(errors.ErrorInternal, err, "按键失败")
	}
	return w, nil
}

// Package sessiontest 提供会话依赖的内存实现，用于测试
package sessiontest

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto/window"
)

// Windows 固定窗口列表
type Windows struct {
	mu        sync.Mutex
	Windows   []window.WindowInfo
	ListErr   error
	Activated []int
}

func (w *Windows) List() ([]window.WindowInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ListErr != nil {
		return nil, w.ListErr
	}
	return append([]window.WindowInfo(nil), w.Windows...), nil
}

func (w *Windows) Get(pid int) (*window.WindowInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, info := range w.Windows {
		if info.PID == pid {
			found := info
			return &found, nil
		}
	}
	return nil, fmt.Errorf("未找到 PID=%d 的窗口", pid)
}

func (w *Windows) Activate(pid int) error {
	w.mu.Lock()
	w.Activated = append(w.Activated, pid)
	w.mu.Unlock()
	return nil
}

// Move 修改窗口边界，模拟用户拖动窗口
func (w *Windows) Move(pid int, bounds auto.Region) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.Windows {
		if w.Windows[i].PID == pid {
			w.Windows[i].Bounds = bounds
		}
	}
}

// Close 移除窗口，模拟游戏被关闭
func (w *Windows) Close(pid int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	kept := w.Windows[:0]
	for _, info := range w.Windows {
		if info.PID != pid {
			kept = append(kept, info)
		}
	}
	w.Windows = kept
}

// Grabber 返回固定图像，Frame 为 nil 时生成纯色图
type Grabber struct {
	mu      sync.Mutex
	Frame   image.Image
	Err     error
	Regions []auto.Region
}

func (g *Grabber) CaptureRegion(r auto.Region) (image.Image, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Regions = append(g.Regions, r)
	if g.Err != nil {
		return nil, g.Err
	}
	if g.Frame != nil {
		return g.Frame, nil
	}
	return Solid(r.Width, r.Height, color.RGBA{R: 30, G: 30, B: 30, A: 255}), nil
}

// Calls 截图次数
func (g *Grabber) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Regions)
}

// Click 一次点击记录
type Click struct {
	Point auto.Point
	Type  auto.ClickType
}

// Key 一次按键记录
type Key struct {
	Key       string
	Modifiers []string
}

// Input 记录所有输入
type Input struct {
	mu     sync.Mutex
	Clicks []Click
	Keys   []Key
}

func (in *Input) Click(p auto.Point, ct auto.ClickType) error {
	in.mu.Lock()
	in.Clicks = append(in.Clicks, Click{Point: p, Type: ct})
	in.mu.Unlock()
	return nil
}

func (in *Input) KeyTap(key string, modifiers ...string) error {
	in.mu.Lock()
	in.Keys = append(in.Keys, Key{Key: key, Modifiers: modifiers})
	in.mu.Unlock()
	return nil
}

// Solid 纯色图像
func Solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

package session

import (
	"context"
	stderrors "errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/errors"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto/window"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/session/sessiontest"
)

func newTestSession() (*Session, *sessiontest.Windows, *sessiontest.Grabber, *sessiontest.Input) {
	wins := &sessiontest.Windows{Windows: []window.WindowInfo{
		{PID: 10, Title: "Notepad", Bounds: auto.Region{X: 0, Y: 0, Width: 400, Height: 300}},
		{PID: 20, Title: "BlueStacks App Player", Bounds: auto.Region{X: 100, Y: 50, Width: 1280, Height: 720}},
		{PID: 30, Title: "BlueStacks Multi-Instance", Bounds: auto.Region{X: 0, Y: 0, Width: 640, Height: 480}},
	}}
	grab := &sessiontest.Grabber{}
	in := &sessiontest.Input{}
	s := New(wins, grab, in, Options{})
	return s, wins, grab, in
}

func TestFindSelectsFirstMatch(t *testing.T) {
	s, _, _, _ := newTestSession()

	res, _, err := s.Find("bluestacks")
	if err != nil {
		t.Fatalf("查找窗口失败: %v", err)
	}
	if res.Window.PID != 20 {
		t.Errorf("应选中第一个匹配窗口, 实际 pid=%d", res.Window.PID)
	}
	if len(res.AllMatches) != 2 {
		t.Errorf("应返回 2 个匹配窗口, 实际 %d", len(res.AllMatches))
	}

	target, ok := s.Target()
	if !ok || target.PID != 20 {
		t.Errorf("目标窗口未更新: %+v", target)
	}
}

func TestFindMiss(t *testing.T) {
	s, _, _, _ := newTestSession()

	_, titles, err := s.Find("Genshin")
	if !errors.HasCode(err, errors.ErrorWindowNotFound) {
		t.Fatalf("应返回 WINDOW_NOT_FOUND, 实际 %v", err)
	}
	if len(titles) != 3 {
		t.Errorf("应返回所有可见窗口标题, 实际 %v", titles)
	}
	if _, ok := s.Target(); ok {
		t.Error("未命中时不应设置目标窗口")
	}

	if _, _, err := s.Find(""); !errors.HasCode(err, errors.ErrorInvalidParameter) {
		t.Errorf("空标题应返回参数错误, 实际 %v", err)
	}
}

func TestCaptureWithoutTarget(t *testing.T) {
	s, _, grab, _ := newTestSession()

	_, _, err := s.Capture(context.Background())
	if !errors.HasCode(err, errors.ErrorNoTargetWindow) {
		t.Fatalf("未选窗口时应返回 NO_TARGET_WINDOW, 实际 %v", err)
	}
	if grab.Calls() != 0 {
		t.Error("未选窗口时不应截图")
	}
}

func TestCaptureRefreshesBounds(t *testing.T) {
	s, wins, grab, _ := newTestSession()
	if _, _, err := s.Find("App Player"); err != nil {
		t.Fatal(err)
	}

	moved := auto.Region{X: 300, Y: 200, Width: 1280, Height: 720}
	wins.Move(20, moved)

	img, w, err := s.Capture(context.Background())
	if err != nil {
		t.Fatalf("截图失败: %v", err)
	}
	if w.Bounds != moved || grab.Regions[0] != moved {
		t.Errorf("截图前应刷新窗口边界: 窗口 %s, 截图区域 %s", w.Bounds, grab.Regions[0])
	}
	if img.Bounds().Dx() != 1280 || img.Bounds().Dy() != 720 {
		t.Errorf("截图尺寸错误: %v", img.Bounds())
	}
	if len(wins.Activated) != 1 || wins.Activated[0] != 20 {
		t.Errorf("截图前应激活窗口: %v", wins.Activated)
	}
}

func TestCaptureNormalizesHiDPI(t *testing.T) {
	s, _, grab, _ := newTestSession()
	s.opts.NormalizeHiDPI = true
	grab.Frame = sessiontest.Solid(1280, 960, color.RGBA{R: 200, A: 255})

	if _, _, err := s.Find("Multi-Instance"); err != nil {
		t.Fatal(err)
	}
	img, _, err := s.Capture(context.Background())
	if err != nil {
		t.Fatalf("截图失败: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 640, 480) {
		t.Errorf("HiDPI 截图应缩放到窗口尺寸, 实际 %v", img.Bounds())
	}
}

func TestCaptureFailure(t *testing.T) {
	s, _, grab, _ := newTestSession()
	grab.Err = stderrors.New("display unavailable")
	if _, _, err := s.Find("Notepad"); err != nil {
		t.Fatal(err)
	}

	_, _, err := s.Capture(context.Background())
	if !errors.HasCode(err, errors.ErrorCaptureFailed) {
		t.Fatalf("应返回 CAPTURE_FAILED, 实际 %v", err)
	}
	if !stderrors.Is(err, grab.Err) {
		t.Error("应保留底层错误")
	}
}

func TestTargetWindowClosed(t *testing.T) {
	s, wins, grab, in := newTestSession()
	if _, _, err := s.Find("App Player"); err != nil {
		t.Fatal(err)
	}
	wins.Close(20)

	_, _, err := s.Capture(context.Background())
	if !errors.HasCode(err, errors.ErrorCaptureFailed) {
		t.Fatalf("窗口关闭后截图应返回 CAPTURE_FAILED, 实际 %v", err)
	}
	if grab.Calls() != 0 {
		t.Errorf("窗口关闭后不应截取旧区域: %+v", grab.Regions)
	}
	if _, ok := s.Target(); ok {
		t.Error("窗口关闭后应清除目标窗口")
	}

	if _, err := s.Click(context.Background(), 10, 10, "left"); !errors.HasCode(err, errors.ErrorNoTargetWindow) {
		t.Errorf("目标清除后点击应返回 NO_TARGET_WINDOW, 实际 %v", err)
	}
	if len(in.Clicks) != 0 {
		t.Errorf("窗口关闭后不应产生点击: %+v", in.Clicks)
	}
}

func TestClickAfterWindowClosed(t *testing.T) {
	s, wins, _, in := newTestSession()
	if _, _, err := s.Find("App Player"); err != nil {
		t.Fatal(err)
	}
	wins.Close(20)

	if _, err := s.Click(context.Background(), 10, 10, "left"); !errors.HasCode(err, errors.ErrorWindowNotFound) {
		t.Errorf("窗口关闭后点击应返回 WINDOW_NOT_FOUND, 实际 %v", err)
	}
	if _, err := s.PressKey(context.Background(), "esc"); !errors.HasCode(err, errors.ErrorNoTargetWindow) {
		t.Errorf("目标清除后按键应返回 NO_TARGET_WINDOW, 实际 %v", err)
	}
	if len(in.Clicks) != 0 || len(in.Keys) != 0 {
		t.Errorf("窗口关闭后不应产生输入: %+v %+v", in.Clicks, in.Keys)
	}
	if len(wins.Activated) != 0 {
		t.Errorf("窗口关闭后不应激活: %v", wins.Activated)
	}
}

func TestCaptureCancelled(t *testing.T) {
	s, _, grab, _ := newTestSession()
	s.opts.CaptureSettle = 1e9
	if _, _, err := s.Find("Notepad"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := s.Capture(ctx); !errors.HasCode(err, errors.ErrorCaptureFailed) {
		t.Errorf("取消的截图应返回 CAPTURE_FAILED, 实际 %v", err)
	}
	if grab.Calls() != 0 {
		t.Error("取消后不应截图")
	}
}

func TestClick(t *testing.T) {
	s, _, _, in := newTestSession()
	if _, _, err := s.Find("App Player"); err != nil {
		t.Fatal(err)
	}

	res, err := s.Click(context.Background(), 640, 520, "")
	if err != nil {
		t.Fatalf("点击失败: %v", err)
	}
	if res.Absolute != (auto.Point{X: 740, Y: 570}) {
		t.Errorf("绝对坐标错误: %+v", res.Absolute)
	}
	if res.ClickType != auto.ClickLeft {
		t.Errorf("默认应为左键: %s", res.ClickType)
	}
	if len(in.Clicks) != 1 || in.Clicks[0].Point != res.Absolute {
		t.Errorf("输入记录错误: %+v", in.Clicks)
	}

	if _, err := s.Click(context.Background(), 1280, 720, "double"); err != nil {
		t.Errorf("窗口边界上的点击应允许: %v", err)
	}
}

func TestClickRejects(t *testing.T) {
	s, _, _, in := newTestSession()

	if _, err := s.Click(context.Background(), 1, 1, "left"); !errors.HasCode(err, errors.ErrorNoTargetWindow) {
		t.Errorf("未选窗口应返回 NO_TARGET_WINDOW, 实际 %v", err)
	}

	if _, _, err := s.Find("App Player"); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name      string
		x, y      int
		clickType string
	}{
		{"x 超出", 1281, 10, "left"},
		{"y 超出", 10, 721, "left"},
		{"负坐标", -1, 10, "left"},
		{"无效点击方式", 10, 10, "middle"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.Click(context.Background(), tc.x, tc.y, tc.clickType); !errors.HasCode(err, errors.ErrorInvalidParameter) {
				t.Errorf("应返回 INVALID_PARAMETER, 实际 %v", err)
			}
		})
	}
	if len(in.Clicks) != 0 {
		t.Errorf("被拒绝的点击不应产生输入: %+v", in.Clicks)
	}
}

func TestPressKey(t *testing.T) {
	s, _, _, in := newTestSession()
	if _, err := s.PressKey(context.Background(), "esc"); !errors.HasCode(err, errors.ErrorNoTargetWindow) {
		t.Errorf("未选窗口应返回 NO_TARGET_WINDOW, 实际 %v", err)
	}
	if _, _, err := s.Find("Notepad"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PressKey(context.Background(), " "); !errors.HasCode(err, errors.ErrorInvalidParameter) {
		t.Errorf("空按键应返回参数错误, 实际 %v", err)
	}
	if _, err := s.PressKey(context.Background(), "a", "ctrl"); err != nil {
		t.Fatalf("按键失败: %v", err)
	}
	if len(in.Keys) != 1 || in.Keys[0].Key != "a" || in.Keys[0].Modifiers[0] != "ctrl" {
		t.Errorf("按键记录错误: %+v", in.Keys)
	}
}

func TestConcurrentFindAndCapture(t *testing.T) {
	s, _, _, _ := newTestSession()
	if _, _, err := s.Find("Notepad"); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			title := "Notepad"
			if i%2 == 0 {
				title = "App Player"
			}
			_, _, _ = s.Find(title)
		}(i)
		go func() {
			defer wg.Done()
			img, w, err := s.Capture(context.Background())
			if err != nil {
				t.Errorf("截图失败: %v", err)
				return
			}
			if img.Bounds().Dx() != w.Bounds.Width {
				t.Errorf("截图与窗口不一致: %v vs %s", img.Bounds(), w.Bounds)
			}
		}()
	}
	wg.Wait()
}

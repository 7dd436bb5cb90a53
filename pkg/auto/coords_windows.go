//go:build windows

package auto

import (
	"math"
	"sync"
	"syscall"

	"github.com/go-vgo/robotgo"
)

// 坐标空间:
//   截图像素 (physical) 窗口边界、分析结果、click_at_position 参数都在此空间
//   robotgo 输入坐标    robotgo.Move/CaptureImg 期望的坐标
//
// coordScale = 全屏截图尺寸 / robotgo.GetScreenSize()，首次使用时探测。

var (
	scaleOnce sync.Once
	scaleX    = 1.0
	scaleY    = 1.0

	user32           = syscall.NewLazyDLL("user32.dll")
	procGetDpiForWin = user32.NewProc("GetDpiForWindow")
	procGetDesktop   = user32.NewProc("GetDesktopWindow")
)

// GetDPIScale 获取桌面 DPI 缩放比例 (1.0 = 100%)
func GetDPIScale() float64 {
	if procGetDpiForWin.Find() != nil {
		return 1.0
	}
	hwnd, _, _ := procGetDesktop.Call()
	if hwnd == 0 {
		return 1.0
	}
	dpi, _, _ := procGetDpiForWin.Call(hwnd)
	if dpi == 0 {
		return 1.0
	}
	return clampScale(float64(dpi) / 96.0)
}

func coordinateScale() (float64, float64) {
	scaleOnce.Do(func() {
		reportedW, reportedH := robotgo.GetScreenSize()
		if reportedW <= 0 || reportedH <= 0 {
			return
		}
		img, err := robotgo.CaptureImg()
		if err != nil || img == nil {
			s := GetDPIScale()
			scaleX, scaleY = s, s
			return
		}
		scaleX = clampScale(float64(img.Bounds().Dx()) / float64(reportedW))
		scaleY = clampScale(float64(img.Bounds().Dy()) / float64(reportedH))
	})
	return scaleX, scaleY
}

func clampScale(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0.5 || v > 4.0 {
		return 1.0
	}
	if math.Abs(v-1.0) < 0.05 {
		return 1.0
	}
	return v
}

func scaleInt(v int, f float64) int {
	return int(math.Round(float64(v) * f))
}

// NormalizePointForInput 截图坐标 → robotgo 坐标
func NormalizePointForInput(x, y int) (int, int) {
	sx, sy := coordinateScale()
	return scaleInt(x, 1/sx), scaleInt(y, 1/sy)
}

// NormalizeRegionForInput 截图区域 → robotgo 区域
func NormalizeRegionForInput(x, y, width, height int) (int, int, int, int) {
	sx, sy := coordinateScale()
	nw, nh := scaleInt(width, 1/sx), scaleInt(height, 1/sy)
	if width > 0 && nw < 1 {
		nw = 1
	}
	if height > 0 && nh < 1 {
		nh = 1
	}
	return scaleInt(x, 1/sx), scaleInt(y, 1/sy), nw, nh
}

// NormalizeRegionForScreen robotgo 区域 → 截图区域
func NormalizeRegionForScreen(x, y, width, height int) (int, int, int, int) {
	sx, sy := coordinateScale()
	return scaleInt(x, sx), scaleInt(y, sy), scaleInt(width, sx), scaleInt(height, sy)
}

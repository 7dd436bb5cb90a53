//go:build windows

package window

import (
	"fmt"
	"strings"
	"syscall"
	"unsafe"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto"
)

var (
	user32                       = syscall.NewLazyDLL("user32.dll")
	kernel32                     = syscall.NewLazyDLL("kernel32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procIsIconic                 = user32.NewProc("IsIconic")
	procGetWindowLongW           = user32.NewProc("GetWindowLongW")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procShowWindow               = user32.NewProc("ShowWindow")
	procBringWindowToTop         = user32.NewProc("BringWindowToTop")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procAttachThreadInput        = user32.NewProc("AttachThreadInput")
	procGetCurrentThreadId       = kernel32.NewProc("GetCurrentThreadId")
)

const (
	gwlExStyle = ^uintptr(19) // -20

	wsExToolWindow uintptr = 0x00000080
	wsExAppWindow  uintptr = 0x00040000

	swRestore = 9
)

type rect struct {
	Left, Top, Right, Bottom int32
}

type hwndWindow struct {
	hwnd syscall.Handle
	info WindowInfo
}

// enumTopLevel 枚举可见的顶层应用窗口，按 Z 序
func enumTopLevel() []hwndWindow {
	var out []hwndWindow
	callback := syscall.NewCallback(func(hwnd syscall.Handle, _ uintptr) uintptr {
		if ret, _, _ := procIsWindowVisible.Call(uintptr(hwnd)); ret == 0 {
			return 1
		}
		exStyle, _, _ := procGetWindowLongW.Call(uintptr(hwnd), gwlExStyle)
		if exStyle&wsExToolWindow != 0 && exStyle&wsExAppWindow == 0 {
			return 1
		}

		title := windowText(hwnd)
		if strings.TrimSpace(title) == "" {
			return 1
		}

		var pid uint32
		procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))
		if pid == 0 {
			return 1
		}

		var r rect
		procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
		width, height := int(r.Right-r.Left), int(r.Bottom-r.Top)
		if width < 50 || height < 50 {
			return 1
		}

		// 与 robotgo.GetBounds 同一坐标空间
		x, y, width, height := auto.NormalizeRegionForScreen(int(r.Left), int(r.Top), width, height)
		out = append(out, hwndWindow{
			hwnd: hwnd,
			info: WindowInfo{
				PID:    int(pid),
				Title:  title,
				Bounds: auto.Region{X: x, Y: y, Width: width, Height: height},
			},
		})
		return 1
	})
	procEnumWindows.Call(callback, 0)
	return out
}

func windowText(hwnd syscall.Handle) string {
	length, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if length == 0 {
		return ""
	}
	buf := make([]uint16, length+1)
	procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(length+1))
	return syscall.UTF16ToString(buf)
}

// nativeWindows 通过 EnumWindows 枚举窗口
func nativeWindows() ([]WindowInfo, bool) {
	all := enumTopLevel()
	out := make([]WindowInfo, 0, len(all))
	for _, w := range all {
		w.info.OwnerName = ownerName(w.info.PID)
		out = append(out, w.info)
	}
	return out, true
}

// activateNative 激活 PID 的第一个顶层窗口，最小化时先还原
func activateNative(pid int) error {
	for _, w := range enumTopLevel() {
		if w.info.PID == pid {
			return bringToFront(w.hwnd)
		}
	}
	return fmt.Errorf("未找到 PID %d 的窗口", pid)
}

// bringToFront 挂接前台线程输入后再 SetForegroundWindow，绕过前台锁
func bringToFront(hwnd syscall.Handle) error {
	current, _, _ := procGetCurrentThreadId.Call()

	if fg, _, _ := procGetForegroundWindow.Call(); fg != 0 {
		fgThread, _, _ := procGetWindowThreadProcessId.Call(fg, 0)
		if fgThread != 0 && fgThread != current {
			procAttachThreadInput.Call(current, fgThread, 1)
			defer procAttachThreadInput.Call(current, fgThread, 0)
		}
	}

	if iconic, _, _ := procIsIconic.Call(uintptr(hwnd)); iconic != 0 {
		procShowWindow.Call(uintptr(hwnd), swRestore)
	}
	procBringWindowToTop.Call(uintptr(hwnd))

	if ret, _, _ := procSetForegroundWindow.Call(uintptr(hwnd)); ret == 0 {
		return fmt.Errorf("SetForegroundWindow 失败")
	}
	return nil
}

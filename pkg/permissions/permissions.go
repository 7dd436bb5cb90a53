// Package permissions 检查截图和输入合成所需的系统权限
//
// macOS 上截取游戏窗口需要屏幕录制权限，点击和按键需要辅助功能权限；
// 其他平台总是视为已授权。
package permissions

import "strings"

// Status 权限状态
type Status struct {
	Accessibility   bool `json:"accessibility"`
	ScreenRecording bool `json:"screen_recording"`
	AllGranted      bool `json:"all_granted"`
}

func newStatus(accessibility, screenRecording bool) *Status {
	return &Status{
		Accessibility:   accessibility,
		ScreenRecording: screenRecording,
		AllGranted:      accessibility && screenRecording,
	}
}

// Instructions 缺失权限的授权说明，全部已授权时为空
func Instructions(status *Status) string {
	if status.AllGranted {
		return ""
	}

	var b strings.Builder
	b.WriteString("需要授权以下权限才能正常工作:\n")
	if !status.ScreenRecording {
		b.WriteString("  - 屏幕录制 (截取游戏窗口): 系统设置 > 隐私与安全性 > 屏幕录制\n")
	}
	if !status.Accessibility {
		b.WriteString("  - 辅助功能 (点击和按键): 系统设置 > 隐私与安全性 > 辅助功能\n")
	}
	b.WriteString("授权后需要重启 gachamcp 才能生效。")
	return b.String()
}

// Ensure 检查权限，未全部授权时返回说明
func Ensure() (bool, string) {
	status := Check()
	return status.AllGranted, Instructions(status)
}

// Package process 查询窗口所属进程
package process

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Info 进程信息
type Info struct {
	PID  int    `json:"pid"`
	Name string `json:"name"`
	Exe  string `json:"exe"`
}

// Lookup 按 PID 读取进程名和可执行文件路径，名称读取失败时取可执行文件名
func Lookup(pid int) (*Info, error) {
	if pid <= 0 {
		return nil, fmt.Errorf("无效的 PID: %d", pid)
	}
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("进程不存在: PID=%d: %w", pid, err)
	}

	info := &Info{PID: pid}
	info.Name, _ = proc.Name()
	info.Exe, _ = proc.Exe()
	if info.Name == "" && info.Exe != "" {
		info.Name = strings.TrimSuffix(filepath.Base(info.Exe), ".exe")
	}
	return info, nil
}

// Running 进程是否存活，僵尸进程视为已退出
func Running(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return false
	}
	if ok, err := proc.IsRunning(); err != nil || !ok {
		return false
	}
	if status, err := proc.Status(); err == nil {
		for _, s := range status {
			if s == process.Zombie {
				return false
			}
		}
	}
	return true
}

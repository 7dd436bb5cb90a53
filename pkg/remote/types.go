package remote

import (
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// ClientStatus 客户端状态
type ClientStatus string

const (
	StatusDisconnected ClientStatus = "disconnected"
	StatusConnecting   ClientStatus = "connecting"
	StatusConnected    ClientStatus = "connected"
	StatusReconnecting ClientStatus = "reconnecting"
)

// SystemInfo 系统信息
type SystemInfo struct {
	Hostname     string `json:"hostname"`
	Platform     string `json:"platform"`
	OSVersion    string `json:"osVersion"`
	AgentVersion string `json:"agentVersion"`
}

// GetSystemInfo 获取当前系统信息
func GetSystemInfo(agentVersion string) *SystemInfo {
	hostname, _ := os.Hostname()

	platform := strings.ToUpper(runtime.GOOS)
	if platform == "DARWIN" {
		platform = "MACOS"
	}

	osVersion := runtime.GOOS + "/" + runtime.GOARCH
	if info, err := host.Info(); err == nil && info.PlatformVersion != "" {
		osVersion = info.Platform + " " + info.PlatformVersion + " (" + runtime.GOARCH + ")"
	}

	return &SystemInfo{
		Hostname:     hostname,
		Platform:     platform,
		OSVersion:    osVersion,
		AgentVersion: agentVersion,
	}
}

// getResourceInfo CPU 与内存占用，读取失败的项为 0
func getResourceInfo() *WsResourceInfo {
	info := &WsResourceInfo{}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		info.CpuUsage = float32(percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemoryUsage = float32(vm.UsedPercent)
	}
	return info
}

// ClientConfig 客户端配置
type ClientConfig struct {
	// ServerURL 服务端地址
	ServerURL string
	AccessKey string
	SecretKey string
	// AgentVersion 上报的版本号
	AgentVersion string
	// HeartbeatInterval 心跳间隔（秒）
	HeartbeatInterval int
	// ReconnectDelays 重连延迟序列（秒）
	ReconnectDelays []int
}

// DefaultConfig 默认配置
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		AgentVersion:      "dev",
		HeartbeatInterval: 5,
		ReconnectDelays:   []int{2, 5, 10, 30, 60},
	}
}

// StatusCallback 状态变更回调
type StatusCallback func(status ClientStatus)

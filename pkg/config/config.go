package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "GACHAMCP_"

// OCRConfig OCR 配置
type OCRConfig struct {
	// Engine 识别引擎: paddle | tesseract
	Engine          string   `yaml:"engine"`
	OnnxRuntimePath string   `yaml:"onnx_runtime_path"`
	DetModelPath    string   `yaml:"det_model_path"`
	RecModelPath    string   `yaml:"rec_model_path"`
	DictPath        string   `yaml:"dict_path"`
	Languages       []string `yaml:"languages"`
}

// JournalConfig 分析历史记录配置
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// RemoteConfig 远程 worker 连接配置
type RemoteConfig struct {
	ServerURL string `yaml:"server_url"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config GachaMCP 配置
type Config struct {
	ScreenshotsDir      string        `yaml:"screenshots_dir"`
	SaveScreenshots     bool          `yaml:"save_screenshots"`
	AnnotateScreenshots bool          `yaml:"annotate_screenshots"`
	CaptureSettleMs     int           `yaml:"capture_settle_ms"`
	ClickSettleMs       int           `yaml:"click_settle_ms"`
	NormalizeHiDPI      bool          `yaml:"normalize_hidpi"`
	OCR                 OCRConfig     `yaml:"ocr"`
	Journal             JournalConfig `yaml:"journal"`
	Remote              RemoteConfig  `yaml:"remote"`
	Log                 LogConfig     `yaml:"log"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		ScreenshotsDir:  "screenshots",
		SaveScreenshots: true,
		CaptureSettleMs: 300,
		ClickSettleMs:   200,
		NormalizeHiDPI:  true,
		OCR: OCRConfig{
			Engine:    "paddle",
			Languages: []string{"eng"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.OCR.Engine {
	case "paddle", "tesseract":
	default:
		return fmt.Errorf("不支持的 OCR 引擎: %s (可选: paddle, tesseract)", c.OCR.Engine)
	}
	if c.CaptureSettleMs < 0 || c.ClickSettleMs < 0 {
		return fmt.Errorf("等待时间不能为负数: capture=%d click=%d", c.CaptureSettleMs, c.ClickSettleMs)
	}
	if c.ScreenshotsDir == "" && c.SaveScreenshots {
		return fmt.Errorf("启用截图保存时 screenshots_dir 不能为空")
	}
	return nil
}

// Manager 配置管理器
type Manager struct {
	configDir  string
	configFile string
	mu         sync.RWMutex
}

// NewManager 创建配置管理器
func NewManager() *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return NewManagerWithDir(filepath.Join(homeDir, ".gachamcp"))
}

// NewManagerWithDir 使用指定目录创建配置管理器
func NewManagerWithDir(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configFile: filepath.Join(configDir, "config.yaml"),
	}
}

// ensureDir 确保配置目录存在
func (m *Manager) ensureDir() error {
	return os.MkdirAll(m.configDir, 0755)
}

// Load 加载配置：默认值 <- config.yaml <- 环境变量（含 .env）
func (m *Manager) Load() (*Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg := DefaultConfig()

	data, err := os.ReadFile(m.configFile)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("读取配置文件失败: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return cfg, err
	}

	if cfg.Journal.Path == "" {
		cfg.Journal.Path = filepath.Join(m.configDir, "history.db")
	}

	return cfg, cfg.Validate()
}

// Save 保存配置
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureDir(); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	// 配置里可能有 remote 密钥
	if err := os.WriteFile(m.configFile, data, 0600); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// Clear 清除配置
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configFile); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(m.configFile)
}

// GetConfigDir 获取配置目录
func (m *Manager) GetConfigDir() string {
	return m.configDir
}

// GetConfigFile 获取配置文件路径
func (m *Manager) GetConfigFile() string {
	return m.configFile
}

// Exists 检查配置文件是否存在
func (m *Manager) Exists() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, err := os.Stat(m.configFile)
	return err == nil
}

// LoadDotEnv 加载 .env 文件到进程环境；文件不存在时忽略
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("加载 .env 失败: %w", err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

// applyEnv 用 GACHAMCP_* 环境变量覆盖配置
func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("环境变量 %s%s 不是布尔值: %q", EnvPrefix, key, v)
		}
		*dst = b
		return nil
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("环境变量 %s%s 不是整数: %q", EnvPrefix, key, v)
		}
		*dst = n
		return nil
	}

	str("SCREENSHOTS_DIR", &cfg.ScreenshotsDir)
	str("OCR_ENGINE", &cfg.OCR.Engine)
	str("OCR_ONNX_RUNTIME_PATH", &cfg.OCR.OnnxRuntimePath)
	str("OCR_DET_MODEL_PATH", &cfg.OCR.DetModelPath)
	str("OCR_REC_MODEL_PATH", &cfg.OCR.RecModelPath)
	str("OCR_DICT_PATH", &cfg.OCR.DictPath)
	str("JOURNAL_PATH", &cfg.Journal.Path)
	str("REMOTE_SERVER_URL", &cfg.Remote.ServerURL)
	str("REMOTE_ACCESS_KEY", &cfg.Remote.AccessKey)
	str("REMOTE_SECRET_KEY", &cfg.Remote.SecretKey)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FILE", &cfg.Log.File)

	if v, ok := lookup(EnvPrefix + "OCR_LANGUAGES"); ok {
		cfg.OCR.Languages = splitList(v)
	}

	for _, fn := range []func() error{
		func() error { return boolean("SAVE_SCREENSHOTS", &cfg.SaveScreenshots) },
		func() error { return boolean("ANNOTATE_SCREENSHOTS", &cfg.AnnotateScreenshots) },
		func() error { return boolean("NORMALIZE_HIDPI", &cfg.NormalizeHiDPI) },
		func() error { return boolean("JOURNAL_ENABLED", &cfg.Journal.Enabled) },
		func() error { return integer("CAPTURE_SETTLE_MS", &cfg.CaptureSettleMs) },
		func() error { return integer("CLICK_SETTLE_MS", &cfg.ClickSettleMs) },
	} {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// 全局配置管理器
var defaultManager = NewManager()

// GetDefaultManager 获取默认配置管理器
func GetDefaultManager() *Manager {
	return defaultManager
}

// Load 使用默认管理器加载配置
func Load() (*Config, error) {
	return defaultManager.Load()
}

// Save 使用默认管理器保存配置
func Save(cfg *Config) error {
	return defaultManager.Save(cfg)
}

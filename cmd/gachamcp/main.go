package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/cobra"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/config"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configDir string
	envFile   string
	logLevel  string

	// 由 PersistentPreRunE 加载
	cfg     *config.Config
	manager *config.Manager
)

var rootCmd = &cli.Command{
	Use:           "gachamcp",
	Short:         "游戏窗口自动化 MCP 服务",
	Long:          "GachaMCP 截取游戏窗口，识别画面中的货币、按钮和通知角标，并通过 MCP 工具提供点击和按键能力。",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cli.Command, args []string) error {
		if envFile != "" {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
		} else if err := config.LoadDotEnv(); err != nil {
			logger.Warn("加载 .env 失败: %v", err)
		}

		if configDir != "" {
			manager = config.NewManagerWithDir(configDir)
		} else {
			manager = config.GetDefaultManager()
		}

		loaded, err := manager.Load()
		if err != nil {
			return fmt.Errorf("加载配置失败 (%s): %w", manager.GetConfigFile(), err)
		}
		cfg = loaded

		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		logger.Default().SetLevel(logger.ParseLevel(cfg.Log.Level))
		if cfg.Log.File != "" {
			if err := logger.Default().SetFile(true, cfg.Log.File); err != nil {
				logger.Warn("打开日志文件失败: %v", err)
			}
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config", "", "配置目录 (默认 ~/.gachamcp)")
	flags.StringVar(&envFile, "env-file", "", ".env 文件路径 (默认当前目录的 .env)")
	flags.StringVar(&logLevel, "log-level", "", "日志级别: debug, info, warn, error")
}

func main() {
	err := rootCmd.Execute()
	logger.Default().Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}

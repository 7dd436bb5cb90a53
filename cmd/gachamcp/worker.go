package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/spf13/cobra"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/executor"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/remote"
)

var (
	workerServer    string
	workerAccessKey string
	workerSecretKey string
	workerSave      bool
)

var workerCmd = &cli.Command{
	Use:   "worker",
	Short: "作为远程 worker 连接调度服务端",
	Args:  cli.NoArgs,
	RunE:  Worker,
}

func init() {
	flags := workerCmd.Flags()
	flags.StringVar(&workerServer, "server", "", "服务端地址 (例: localhost:3001)")
	flags.StringVar(&workerAccessKey, "access-key", "", "访问密钥")
	flags.StringVar(&workerSecretKey, "secret-key", "", "秘密密钥")
	flags.BoolVar(&workerSave, "save", false, "保存连接配置到本地")
	rootCmd.AddCommand(workerCmd)
}

func Worker(cmd *cli.Command, args []string) error {
	// 命令行参数优先级高于配置文件
	if workerServer != "" {
		cfg.Remote.ServerURL = workerServer
	}
	if workerAccessKey != "" {
		cfg.Remote.AccessKey = workerAccessKey
	}
	if workerSecretKey != "" {
		cfg.Remote.SecretKey = workerSecretKey
	}

	if cfg.Remote.ServerURL == "" {
		return fmt.Errorf("缺少服务端地址，请使用 --server 参数指定")
	}
	if cfg.Remote.AccessKey == "" || cfg.Remote.SecretKey == "" {
		return fmt.Errorf("缺少认证信息，请使用 --access-key 和 --secret-key 参数")
	}

	if workerSave {
		if err := manager.Save(cfg); err != nil {
			logger.Warn("保存配置失败: %v", err)
		} else {
			logger.Info("配置已保存到 %s", manager.GetConfigFile())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg)
	defer a.Close()

	clientConfig := remote.DefaultConfig()
	clientConfig.ServerURL = cfg.Remote.ServerURL
	clientConfig.AccessKey = cfg.Remote.AccessKey
	clientConfig.SecretKey = cfg.Remote.SecretKey
	clientConfig.AgentVersion = Version

	client := remote.NewClient(clientConfig, a.exec, &remote.DataHandler{
		Windows: a.windows,
		Tools:   executor.ToolNames,
	})
	client.SetStatusCallback(func(status remote.ClientStatus) {
		logger.Info("[STATUS] %s", status)
	})

	logger.Info("GachaMCP Worker v%s, 服务端: %s", Version, cfg.Remote.ServerURL)
	logger.Info("正在连接服务端...")
	if err := client.Run(ctx); err != nil {
		return fmt.Errorf("连接失败: %w", err)
	}
	logger.Info("已退出")
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/spf13/cobra"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/mcpserver"
)

var serveCmd = &cli.Command{
	Use:   "serve",
	Short: "通过 stdio 提供 MCP 工具",
	Args:  cli.NoArgs,
	RunE:  Serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// Serve stdout 归 MCP 协议使用，日志只写 stderr
func Serve(cmd *cli.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg)
	defer a.Close()

	logger.Info("GachaMCP v%s 启动 (stdio)", Version)
	err := mcpserver.New(a.exec, Version).Run(ctx)
	if ctx.Err() != nil {
		logger.Info("已退出")
		return nil
	}
	return err
}

// Package mcpserver 通过 MCP stdio 暴露游戏自动化工具
package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/executor"
)

// ServerName MCP 实现名称
const ServerName = "gachamcp"

type noParams struct{}

// Server MCP 服务
type Server struct {
	exec   *executor.Executor
	server *mcp.Server
}

// New 创建服务并注册全部工具
func New(exec *executor.Executor, version string) *Server {
	s := &Server{
		exec:   exec,
		server: mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil),
	}
	s.registerTools()
	return s
}

// MCP 底层服务
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Run 在 stdio 上运行，直到客户端断开或 ctx 取消
func (s *Server) Run(ctx context.Context) error {
	logger.Info("MCP 服务已启动 (stdio)")
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP 服务异常退出: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        executor.ToolFindGameWindow,
		Description: "Find a game window by (part of) its title and select it as the target for capture and clicks.",
	}, s.findGameWindow)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        executor.ToolAnalyzeGameState,
		Description: "Capture the selected game window and analyze it: screen state, currency, UI elements, notification badges and suggested actions.",
	}, s.analyzeGameState)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        executor.ToolClickAtPosition,
		Description: "Click at a position relative to the selected game window. click_type is left, right or double.",
	}, s.clickAtPosition)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        executor.ToolWaitAndAnalyze,
		Description: "Wait for the given number of seconds (default 2) for the game to update, then analyze the screen.",
	}, s.waitAndAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        executor.ToolCheckCurrencyStatus,
		Description: "Read gems and coins from the top of the screen and estimate how many gacha pulls are affordable.",
	}, s.checkCurrencyStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        executor.ToolFindGachaButton,
		Description: "Locate the most likely gacha/summon button on the current screen.",
	}, s.findGachaButton)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        executor.ToolGetGameSummary,
		Description: "Full summary of the current screen from a single capture: state, currency, gacha affordability, gacha button, notifications and recommendations.",
	}, s.getGameSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        executor.ToolGetAnalysisHistory,
		Description: "List the most recent analyses recorded in the local history database.",
	}, s.getAnalysisHistory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        executor.ToolPressKey,
		Description: "Bring the selected game window to the front and press a key, optionally with modifiers (e.g. esc to close a popup).",
	}, s.pressKey)
}

// toResult 将执行器输出转换为 MCP 结果，失败时设置 IsError
func toResult(tool string, start time.Time, out *executor.Output) (*mcp.CallToolResult, any, error) {
	res := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: out.JSON()}},
		IsError: !out.Success(),
	}
	if len(out.Image) > 0 {
		res.Content = append(res.Content, &mcp.ImageContent{Data: out.Image, MIMEType: "image/png"})
	}
	logger.LogEvent("TOOL", out.Success(), float64(time.Since(start).Milliseconds()), tool)
	return res, nil, nil
}

func wrap(r executor.Response) *executor.Output {
	return &executor.Output{Response: r}
}

func (s *Server) findGameWindow(ctx context.Context, _ *mcp.CallToolRequest, in executor.FindWindowParams) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	return toResult(executor.ToolFindGameWindow, start, wrap(s.exec.FindGameWindow(ctx, in)))
}

func (s *Server) analyzeGameState(ctx context.Context, _ *mcp.CallToolRequest, in executor.AnalyzeParams) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	return toResult(executor.ToolAnalyzeGameState, start, s.exec.AnalyzeGameState(ctx, in))
}

func (s *Server) clickAtPosition(ctx context.Context, _ *mcp.CallToolRequest, in executor.ClickParams) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	return toResult(executor.ToolClickAtPosition, start, wrap(s.exec.ClickAtPosition(ctx, in)))
}

func (s *Server) waitAndAnalyze(ctx context.Context, _ *mcp.CallToolRequest, in executor.WaitParams) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	return toResult(executor.ToolWaitAndAnalyze, start, s.exec.WaitAndAnalyze(ctx, in))
}

func (s *Server) checkCurrencyStatus(ctx context.Context, _ *mcp.CallToolRequest, _ noParams) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	return toResult(executor.ToolCheckCurrencyStatus, start, wrap(s.exec.CheckCurrencyStatus(ctx)))
}

func (s *Server) findGachaButton(ctx context.Context, _ *mcp.CallToolRequest, _ noParams) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	return toResult(executor.ToolFindGachaButton, start, wrap(s.exec.FindGachaButton(ctx)))
}

func (s *Server) getGameSummary(ctx context.Context, _ *mcp.CallToolRequest, in executor.AnalyzeParams) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	return toResult(executor.ToolGetGameSummary, start, s.exec.GetGameSummary(ctx, in))
}

func (s *Server) getAnalysisHistory(ctx context.Context, _ *mcp.CallToolRequest, in executor.HistoryParams) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	return toResult(executor.ToolGetAnalysisHistory, start, wrap(s.exec.GetAnalysisHistory(ctx, in)))
}

func (s *Server) pressKey(ctx context.Context, _ *mcp.CallToolRequest, in executor.KeyParams) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	return toResult(executor.ToolPressKey, start, wrap(s.exec.PressKey(ctx, in)))
}

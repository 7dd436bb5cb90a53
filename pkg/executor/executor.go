package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/errors"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/analysis"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/journal"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/session"
)

// 工具名称
const (
	ToolFindGameWindow      = "find_game_window"
	ToolAnalyzeGameState    = "analyze_game_state"
	ToolClickAtPosition     = "click_at_position"
	ToolWaitAndAnalyze      = "wait_and_analyze"
	ToolCheckCurrencyStatus = "check_currency_status"
	ToolFindGachaButton     = "find_gacha_button"
	ToolGetGameSummary      = "get_game_summary"
	ToolGetAnalysisHistory  = "get_analysis_history"
	ToolPressKey            = "press_key"
)

// ToolNames 全部工具，按注册顺序
var ToolNames = []string{
	ToolFindGameWindow,
	ToolAnalyzeGameState,
	ToolClickAtPosition,
	ToolWaitAndAnalyze,
	ToolCheckCurrencyStatus,
	ToolFindGachaButton,
	ToolGetGameSummary,
	ToolGetAnalysisHistory,
	ToolPressKey,
}

// Response 工具返回的 JSON 对象，总是包含 success
type Response map[string]any

// Output 工具调用结果
type Output struct {
	Response Response
	// Image PNG 截图，仅在请求 include_image 时填充
	Image []byte
}

// JSON 序列化 Response
func (o *Output) JSON() string {
	data, err := json.Marshal(o.Response)
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":%q}`, err.Error())
	}
	return string(data)
}

// Success 调用是否成功
func (o *Output) Success() bool {
	ok, _ := o.Response["success"].(bool)
	return ok
}

// Options 执行器参数
type Options struct {
	ScreenshotsDir      string
	SaveScreenshots     bool
	AnnotateScreenshots bool
}

// TaskInfo 运行中的任务
type TaskInfo struct {
	TaskID    string
	Tool      string
	StartedAt int64
	cancel    context.CancelFunc
}

// Executor 工具执行器
type Executor struct {
	session  *session.Session
	analyzer *analysis.Analyzer
	journal  *journal.Journal
	opts     Options
	now      func() time.Time

	runningTasks map[string]*TaskInfo
	tasksMutex   sync.Mutex
}

// New 创建执行器，journal 为 nil 时不记录分析历史
func New(sess *session.Session, analyzer *analysis.Analyzer, j *journal.Journal, opts Options) *Executor {
	return &Executor{
		session:      sess,
		analyzer:     analyzer,
		journal:      j,
		opts:         opts,
		now:          time.Now,
		runningTasks: make(map[string]*TaskInfo),
	}
}

// CancelTask 取消任务
func (e *Executor) CancelTask(taskID string) bool {
	e.tasksMutex.Lock()
	defer e.tasksMutex.Unlock()

	if info, exists := e.runningTasks[taskID]; exists {
		info.cancel()
		delete(e.runningTasks, taskID)
		return true
	}
	return false
}

// registerTask 登记任务；同一 ID 仍在执行时返回 nil
func (e *Executor) registerTask(ctx context.Context, taskID, tool string) (context.Context, *TaskInfo) {
	e.tasksMutex.Lock()
	defer e.tasksMutex.Unlock()

	if _, exists := e.runningTasks[taskID]; exists {
		return ctx, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	info := &TaskInfo{
		TaskID:    taskID,
		Tool:      tool,
		StartedAt: time.Now().UnixMilli(),
		cancel:    cancel,
	}
	e.runningTasks[taskID] = info
	return ctx, info
}

// unregisterTask 只移除 info 自己的登记项
func (e *Executor) unregisterTask(info *TaskInfo) {
	e.tasksMutex.Lock()
	defer e.tasksMutex.Unlock()

	info.cancel()
	if e.runningTasks[info.TaskID] == info {
		delete(e.runningTasks, info.TaskID)
	}
}

// IsRunning 任务 ID 是否正在执行
func (e *Executor) IsRunning(taskID string) bool {
	e.tasksMutex.Lock()
	defer e.tasksMutex.Unlock()
	_, exists := e.runningTasks[taskID]
	return exists
}

// GetStatus 执行器状态
func (e *Executor) GetStatus() (status string, currentTaskID string, currentTool string, runningCount int) {
	e.tasksMutex.Lock()
	defer e.tasksMutex.Unlock()

	runningCount = len(e.runningTasks)
	if runningCount == 0 {
		return "IDLE", "", "", 0
	}
	for _, info := range e.runningTasks {
		currentTaskID = info.TaskID
		currentTool = info.Tool
		break
	}
	return "BUSY", currentTaskID, currentTool, runningCount
}

// TaskResult 远程任务结果
type TaskResult struct {
	TaskID     string          `json:"task_id"`
	Tool       string          `json:"tool"`
	Success    bool            `json:"success"`
	ErrorCode  string          `json:"error_code,omitempty"`
	Result     json.RawMessage `json:"result"`
	DurationMs int64           `json:"duration_ms"`
}

// Execute 按名称执行工具，payloadJSON 为参数对象
func (e *Executor) Execute(ctx context.Context, taskID, tool, payloadJSON string) *TaskResult {
	startTime := time.Now()

	logger.Info("[Task:%s] 开始执行 tool=%s", taskID, tool)
	logger.Debug("[Task:%s] payload=%s", taskID, truncateString(payloadJSON, 500))

	var out *Output
	ctx, info := e.registerTask(ctx, taskID, tool)
	if info == nil {
		out = output(failure(errors.NewInvalidParameterError("任务 ID 已在执行: %s", taskID)))
	} else {
		defer e.unregisterTask(info)
		out = e.Call(ctx, tool, payloadJSON)
	}

	result := &TaskResult{
		TaskID:     taskID,
		Tool:       tool,
		Success:    out.Success(),
		Result:     json.RawMessage(out.JSON()),
		DurationMs: time.Since(startTime).Milliseconds(),
	}
	if code, ok := out.Response["error_code"].(string); ok {
		result.ErrorCode = code
	}

	if result.Success {
		logger.Info("[Task:%s] 执行成功 duration=%dms", taskID, result.DurationMs)
	} else {
		logger.Error("[Task:%s] 执行失败 code=%s result=%s", taskID, result.ErrorCode, truncateString(out.JSON(), 200))
	}
	return result
}

// Call 按名称调用工具
func (e *Executor) Call(ctx context.Context, tool, payloadJSON string) *Output {
	switch tool {
	case ToolFindGameWindow:
		var p FindWindowParams
		if err := decodePayload(payloadJSON, &p); err != nil {
			return output(failure(err))
		}
		return output(e.FindGameWindow(ctx, p))
	case ToolAnalyzeGameState:
		var p AnalyzeParams
		if err := decodePayload(payloadJSON, &p); err != nil {
			return output(failure(err))
		}
		return e.AnalyzeGameState(ctx, p)
	case ToolClickAtPosition:
		var p ClickParams
		if err := decodePayload(payloadJSON, &p); err != nil {
			return output(failure(err))
		}
		return output(e.ClickAtPosition(ctx, p))
	case ToolWaitAndAnalyze:
		var p WaitParams
		if err := decodePayload(payloadJSON, &p); err != nil {
			return output(failure(err))
		}
		return e.WaitAndAnalyze(ctx, p)
	case ToolCheckCurrencyStatus:
		return output(e.CheckCurrencyStatus(ctx))
	case ToolFindGachaButton:
		return output(e.FindGachaButton(ctx))
	case ToolGetGameSummary:
		var p AnalyzeParams
		if err := decodePayload(payloadJSON, &p); err != nil {
			return output(failure(err))
		}
		return e.GetGameSummary(ctx, p)
	case ToolGetAnalysisHistory:
		var p HistoryParams
		if err := decodePayload(payloadJSON, &p); err != nil {
			return output(failure(err))
		}
		return output(e.GetAnalysisHistory(ctx, p))
	case ToolPressKey:
		var p KeyParams
		if err := decodePayload(payloadJSON, &p); err != nil {
			return output(failure(err))
		}
		return output(e.PressKey(ctx, p))
	default:
		return output(failure(errors.NewInvalidParameterError("未知的工具: %s", tool)))
	}
}

func decodePayload(payloadJSON string, v any) error {
	if payloadJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(payloadJSON), v); err != nil {
		return errors.NewInvalidParameterError("解析参数失败: %v", err)
	}
	return nil
}

func output(r Response) *Output {
	return &Output{Response: r}
}

// failure 生成失败响应
func failure(err error) Response {
	return Response{
		"success":    false,
		"error":      err.Error(),
		"error_code": string(errors.CodeOf(err)),
	}
}

// truncateString 按字节截断，回退到 rune 边界
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

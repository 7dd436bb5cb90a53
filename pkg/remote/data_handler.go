package remote

import (
	"encoding/json"
	"fmt"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto/window"
)

// 数据请求类型
const (
	RequestTypeGetWindows = "GET_WINDOWS"
	RequestTypeGetTools   = "GET_TOOLS"
)

// DataResponseResult 数据响应
type DataResponseResult struct {
	RequestType string
	Success     bool
	Message     string
	PayloadJSON string
}

// DataHandler 处理服务端的数据查询
type DataHandler struct {
	Windows window.Manager
	Tools   []string
}

// Handle 处理数据请求
func (h *DataHandler) Handle(requestType, payloadJSON string) *DataResponseResult {
	switch requestType {
	case RequestTypeGetWindows:
		return h.handleGetWindows(payloadJSON)
	case RequestTypeGetTools:
		return jsonResult(requestType, map[string]any{"tools": h.Tools})
	default:
		return &DataResponseResult{
			RequestType: requestType,
			Success:     false,
			Message:     fmt.Sprintf("未知的请求类型: %s", requestType),
			PayloadJSON: "{}",
		}
	}
}

func (h *DataHandler) handleGetWindows(payloadJSON string) *DataResponseResult {
	var payload struct {
		Title string `json:"title"`
	}
	if payloadJSON != "" {
		_ = json.Unmarshal([]byte(payloadJSON), &payload)
	}

	if h.Windows == nil {
		return errorResult(RequestTypeGetWindows, "窗口管理不可用")
	}
	windows, err := h.Windows.List()
	if err != nil {
		logger.Error("获取窗口列表失败: %v", err)
		return errorResult(RequestTypeGetWindows, err.Error())
	}
	if payload.Title != "" {
		windows = window.MatchTitle(windows, payload.Title)
	}
	if windows == nil {
		windows = []window.WindowInfo{}
	}

	logger.Debug("GET_WINDOWS 返回 %d 个窗口", len(windows))
	return jsonResult(RequestTypeGetWindows, map[string]any{"windows": windows})
}

func jsonResult(requestType string, v any) *DataResponseResult {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(requestType, fmt.Sprintf("序列化失败: %v", err))
	}
	return &DataResponseResult{
		RequestType: requestType,
		Success:     true,
		Message:     "ok",
		PayloadJSON: string(data),
	}
}

func errorResult(requestType, message string) *DataResponseResult {
	return &DataResponseResult{
		RequestType: requestType,
		Success:     false,
		Message:     message,
		PayloadJSON: "{}",
	}
}

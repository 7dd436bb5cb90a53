package remote

import "encoding/json"

// WsConnectMessage 认证消息
type WsConnectMessage struct {
	Type       string      `json:"type"`
	AccessKey  string      `json:"accessKey"`
	SecretKey  string      `json:"secretKey"`
	SystemInfo *SystemInfo `json:"systemInfo,omitempty"`
	Tools      []string    `json:"tools,omitempty"`
}

// WsConnectResponse 认证响应
type WsConnectResponse struct {
	Type      string `json:"type"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	AgentId   string `json:"agentId"`
	AgentName string `json:"agentName"`
}

// WsServerMessage 服务端消息
type WsServerMessage struct {
	MessageId   string         `json:"messageId"`
	Timestamp   int64          `json:"timestamp"`
	ExecuteTask *WsExecuteTask `json:"executeTask,omitempty"`
	CancelTask  *WsCancelTask  `json:"cancelTask,omitempty"`
	Ping        *WsPing        `json:"ping,omitempty"`
	DataRequest *WsDataRequest `json:"dataRequest,omitempty"`
}

// WsExecuteTask 执行工具
type WsExecuteTask struct {
	TaskId      string `json:"taskId"`
	Tool        string `json:"tool"`
	PayloadJson string `json:"payloadJson"`
}

// WsCancelTask 取消任务
type WsCancelTask struct {
	TaskId string `json:"taskId"`
	Reason string `json:"reason"`
}

// WsPing Ping 命令
type WsPing struct {
	Timestamp int64 `json:"timestamp"`
}

// WsDataRequest 数据查询请求
type WsDataRequest struct {
	RequestType string `json:"requestType"`
	PayloadJson string `json:"payloadJson"`
}

// WsWorkerMessage Worker 消息
type WsWorkerMessage struct {
	MessageId    string          `json:"messageId"`
	Timestamp    int64           `json:"timestamp"`
	AgentId      string          `json:"agentId,omitempty"`
	TaskAck      *WsTaskAck      `json:"taskAck,omitempty"`
	TaskResult   *WsTaskResult   `json:"taskResult,omitempty"`
	Pong         *WsPong         `json:"pong,omitempty"`
	DataResponse *WsDataResponse `json:"dataResponse,omitempty"`
	Heartbeat    *WsHeartbeat    `json:"heartbeat,omitempty"`
}

// WsTaskAck 任务确认
type WsTaskAck struct {
	TaskId   string `json:"taskId"`
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}

// WsTaskResult 任务结果
type WsTaskResult struct {
	TaskId     string          `json:"taskId"`
	Tool       string          `json:"tool,omitempty"`
	Success    bool            `json:"success"`
	Cancelled  bool            `json:"cancelled,omitempty"`
	ErrorCode  string          `json:"errorCode,omitempty"`
	Message    string          `json:"message,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	DurationMs int64           `json:"durationMs"`
}

// WsPong Pong 响应
type WsPong struct {
	ClientTimestamp int64 `json:"clientTimestamp"`
	ServerTimestamp int64 `json:"serverTimestamp"`
}

// WsDataResponse 数据响应
type WsDataResponse struct {
	RequestType string `json:"requestType"`
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	PayloadJson string `json:"payloadJson"`
}

// WsHeartbeat 心跳
type WsHeartbeat struct {
	ResourceInfo *WsResourceInfo `json:"resourceInfo,omitempty"`
	AgentStatus  *WsAgentStatus  `json:"agentStatus,omitempty"`
}

// WsResourceInfo 资源信息
type WsResourceInfo struct {
	CpuUsage    float32 `json:"cpuUsage"`
	MemoryUsage float32 `json:"memoryUsage"`
}

// WsAgentStatus Agent 状态
type WsAgentStatus struct {
	Status            string `json:"status"`
	CurrentTaskId     string `json:"currentTaskId,omitempty"`
	CurrentTool       string `json:"currentTool,omitempty"`
	RunningTasksCount int32  `json:"runningTasksCount"`
}

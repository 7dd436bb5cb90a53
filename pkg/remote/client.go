// Package remote 以 WebSocket worker 方式接入远程调度服务
//
// 服务端下发工具调用（与 MCP 工具同名同参数），worker 在本机执行后回传结果。
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/executor"
)

// TaskExecutor 执行远程下发的工具调用
type TaskExecutor interface {
	Execute(ctx context.Context, taskID, tool, payloadJSON string) *executor.TaskResult
	CancelTask(taskID string) bool
	IsRunning(taskID string) bool
	GetStatus() (status string, currentTaskID string, currentTool string, runningCount int)
}

// Client WebSocket 客户端
type Client struct {
	config *ClientConfig
	exec   TaskExecutor
	data   *DataHandler

	conn        *websocket.Conn
	agentID     string
	agentName   string
	isConnected bool

	outgoing chan *WsWorkerMessage
	// resultTimeout 队列满时任务结果最多等待的时长
	resultTimeout time.Duration
	// stopCh 当前连接的停止信号，每次连接重建
	stopCh chan struct{}
	// quit 客户端关闭信号，终止重连
	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup

	taskCtx    context.Context
	taskCancel context.CancelFunc

	onStatusChange StatusCallback

	mu sync.RWMutex
}

// NewClient 创建客户端
func NewClient(config *ClientConfig, exec TaskExecutor, data *DataHandler) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if data == nil {
		data = &DataHandler{}
	}
	taskCtx, taskCancel := context.WithCancel(context.Background())
	return &Client{
		config:     config,
		exec:       exec,
		data:       data,
		outgoing:      make(chan *WsWorkerMessage, 100),
		resultTimeout: 10 * time.Second,
		quit:          make(chan struct{}),
		taskCtx:       taskCtx,
		taskCancel:    taskCancel,
	}
}

// buildWsURL 根据 serverURL 构建 WebSocket URL
//   - localhost:3001 → ws://localhost:3001/ws/agent
//   - http://host → ws://host/ws/agent
//   - https://host → wss://host/ws/agent
//   - wss://host/custom → 原样保留路径
//   - example.com → wss://example.com/ws/agent
func buildWsURL(serverURL string) string {
	const agentPath = "/ws/agent"
	serverURL = strings.TrimRight(strings.TrimSpace(serverURL), "/")

	switch {
	case strings.HasPrefix(serverURL, "ws://"), strings.HasPrefix(serverURL, "wss://"):
		u, err := url.Parse(serverURL)
		if err != nil {
			return serverURL
		}
		if u.Path == "" || u.Path == "/" {
			u.Path = agentPath
		}
		return u.String()
	case strings.HasPrefix(serverURL, "http://"):
		return "ws://" + strings.TrimPrefix(serverURL, "http://") + agentPath
	case strings.HasPrefix(serverURL, "https://"):
		return "wss://" + strings.TrimPrefix(serverURL, "https://") + agentPath
	}

	if isLocalAddress(serverURL) {
		return "ws://" + serverURL + agentPath
	}
	return "wss://" + serverURL + agentPath
}

// isLocalAddress 判断是否为本地地址
func isLocalAddress(addr string) bool {
	host := addr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	host = strings.Trim(host, "[]")
	return host == "localhost" || host == "127.0.0.1" || host == "0.0.0.0" || host == "::1"
}

// Run 连接并保持运行，直到 ctx 取消
func (c *Client) Run(ctx context.Context) error {
	if err := c.Connect(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
	case <-c.quit:
	}
	return c.Disconnect()
}

// Connect 连接到服务端
func (c *Client) Connect() error {
	return c.doConnect()
}

func (c *Client) doConnect() error {
	c.mu.RLock()
	serverURL := c.config.ServerURL
	accessKey := c.config.AccessKey
	secretKey := c.config.SecretKey
	agentVersion := c.config.AgentVersion
	c.mu.RUnlock()

	if serverURL == "" {
		return fmt.Errorf("未配置远程服务地址 (remote.server_url)")
	}

	wsURL := buildWsURL(serverURL)
	logger.Info("正在连接 %s ...", wsURL)
	c.setStatus(StatusConnecting)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		c.setStatus(StatusDisconnected)
		return fmt.Errorf("连接失败: %w", err)
	}

	resp, err := c.handshake(conn, WsConnectMessage{
		Type:       "connect",
		AccessKey:  accessKey,
		SecretKey:  secretKey,
		SystemInfo: GetSystemInfo(agentVersion),
		Tools:      c.data.Tools,
	})
	if err != nil {
		conn.Close()
		c.setStatus(StatusDisconnected)
		return err
	}

	stop := make(chan struct{})
	c.mu.Lock()
	c.conn = conn
	c.agentID = resp.AgentId
	c.agentName = resp.AgentName
	c.isConnected = true
	c.stopCh = stop
	c.mu.Unlock()

	logger.Info("已连接: %s (%s)", resp.AgentName, resp.AgentId)
	c.setStatus(StatusConnected)

	c.wg.Add(3)
	go c.sendLoop(conn, stop)
	go c.receiveLoop(conn, stop)
	go c.heartbeatLoop(stop)
	return nil
}

// handshake 发送认证消息并等待响应
func (c *Client) handshake(conn *websocket.Conn, msg WsConnectMessage) (*WsConnectResponse, error) {
	if err := conn.WriteJSON(msg); err != nil {
		return nil, fmt.Errorf("发送认证消息失败: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	_, data, err := conn.ReadMessage()
	conn.SetReadDeadline(time.Time{})
	if err != nil {
		return nil, fmt.Errorf("读取认证响应失败: %w", err)
	}

	var resp WsConnectResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("解析认证响应失败: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("认证被拒绝: %s", resp.Message)
	}
	return &resp, nil
}

// sendLoop 发送循环，连接上唯一的写入者
func (c *Client) sendLoop(conn *websocket.Conn, stop chan struct{}) {
	defer c.wg.Done()

	for {
		select {
		case <-stop:
			return
		case msg := <-c.outgoing:
			if err := conn.WriteJSON(msg); err != nil {
				logger.Error("发送消息失败: %v", err)
				// 关闭连接让 receiveLoop 触发重连
				conn.Close()
				return
			}
		}
	}
}

// receiveLoop 接收循环
func (c *Client) receiveLoop(conn *websocket.Conn, stop chan struct{}) {
	defer c.wg.Done()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-stop:
			default:
				logger.Error("WebSocket 读取失败: %v", err)
				go c.attemptReconnect(stop)
			}
			return
		}

		var msg WsServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warn("解析服务端消息失败: %v", err)
			continue
		}
		c.handleServerMessage(&msg)
	}
}

func (c *Client) handleServerMessage(msg *WsServerMessage) {
	switch {
	case msg.Ping != nil:
		c.handlePing(msg.MessageId, msg.Ping)
	case msg.ExecuteTask != nil:
		c.handleExecuteTask(msg.ExecuteTask)
	case msg.DataRequest != nil:
		c.handleDataRequest(msg.MessageId, msg.DataRequest)
	case msg.CancelTask != nil:
		c.handleCancelTask(msg.CancelTask)
	}
}

func (c *Client) handlePing(msgID string, ping *WsPing) {
	logger.Debug("收到 ping")
	c.sendMessage(&WsWorkerMessage{
		MessageId: msgID,
		Pong: &WsPong{
			ClientTimestamp: time.Now().UnixMilli(),
			ServerTimestamp: ping.Timestamp,
		},
	})
}

// handleExecuteTask 确认后异步执行，完成时回传结果
func (c *Client) handleExecuteTask(task *WsExecuteTask) {
	logger.Info("收到任务: %s tool=%s", task.TaskId, task.Tool)

	if c.exec == nil {
		c.sendMessage(&WsWorkerMessage{TaskAck: &WsTaskAck{TaskId: task.TaskId, Accepted: false, Message: "执行器不可用"}})
		return
	}
	if c.exec.IsRunning(task.TaskId) {
		logger.Warn("任务 ID 已在执行，拒绝: %s", task.TaskId)
		c.sendMessage(&WsWorkerMessage{TaskAck: &WsTaskAck{TaskId: task.TaskId, Accepted: false, Message: "任务 ID 已在执行"}})
		return
	}
	c.sendMessage(&WsWorkerMessage{TaskAck: &WsTaskAck{TaskId: task.TaskId, Accepted: true, Message: "任务已接收"}})

	go func() {
		res := c.exec.Execute(c.taskCtx, task.TaskId, task.Tool, task.PayloadJson)
		c.sendMessage(&WsWorkerMessage{
			TaskResult: &WsTaskResult{
				TaskId:     res.TaskID,
				Tool:       res.Tool,
				Success:    res.Success,
				ErrorCode:  res.ErrorCode,
				Result:     res.Result,
				DurationMs: res.DurationMs,
			},
		})
	}()
}

func (c *Client) handleDataRequest(msgID string, req *WsDataRequest) {
	logger.Info("收到数据请求: %s", req.RequestType)

	resp := c.data.Handle(req.RequestType, req.PayloadJson)
	c.sendMessage(&WsWorkerMessage{
		MessageId: msgID,
		DataResponse: &WsDataResponse{
			RequestType: resp.RequestType,
			Success:     resp.Success,
			Message:     resp.Message,
			PayloadJson: resp.PayloadJSON,
		},
	})
}

func (c *Client) handleCancelTask(cmd *WsCancelTask) {
	logger.Info("收到取消任务: %s, 原因: %s", cmd.TaskId, cmd.Reason)

	cancelled := c.exec != nil && c.exec.CancelTask(cmd.TaskId)
	if !cancelled {
		logger.Warn("任务不存在或已结束: %s", cmd.TaskId)
	}
	c.sendMessage(&WsWorkerMessage{
		TaskResult: &WsTaskResult{
			TaskId:    cmd.TaskId,
			Success:   false,
			Cancelled: cancelled,
			Message:   cmd.Reason,
		},
	})
}

func (c *Client) heartbeatLoop(stop chan struct{}) {
	defer c.wg.Done()

	c.mu.RLock()
	interval := c.config.HeartbeatInterval
	c.mu.RUnlock()
	if interval <= 0 {
		interval = 5
	}

	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.sendHeartbeat()
		}
	}
}

func (c *Client) sendHeartbeat() {
	status := &WsAgentStatus{Status: "IDLE"}
	if c.exec != nil {
		s, taskID, tool, count := c.exec.GetStatus()
		status = &WsAgentStatus{
			Status:            s,
			CurrentTaskId:     taskID,
			CurrentTool:       tool,
			RunningTasksCount: int32(count),
		}
	}
	c.sendMessage(&WsWorkerMessage{
		Heartbeat: &WsHeartbeat{
			ResourceInfo: getResourceInfo(),
			AgentStatus:  status,
		},
	})
}

// sendMessage 填充消息头并放入发送队列。
// 队列满时任务结果最多等待 resultTimeout，其余消息直接丢弃
func (c *Client) sendMessage(msg *WsWorkerMessage) {
	if msg.MessageId == "" {
		msg.MessageId = uuid.NewString()
	}
	msg.Timestamp = time.Now().UnixMilli()
	c.mu.RLock()
	msg.AgentId = c.agentID
	c.mu.RUnlock()

	select {
	case c.outgoing <- msg:
		return
	default:
	}

	if msg.TaskResult == nil {
		logger.Warn("发送队列已满，丢弃消息: %s", describeMessage(msg))
		return
	}

	timer := time.NewTimer(c.resultTimeout)
	defer timer.Stop()
	select {
	case c.outgoing <- msg:
	case <-timer.C:
		logger.Error("发送队列持续已满，丢弃任务结果: %s", msg.TaskResult.TaskId)
	case <-c.quit:
		logger.Warn("客户端已关闭，丢弃任务结果: %s", msg.TaskResult.TaskId)
	}
}

func describeMessage(msg *WsWorkerMessage) string {
	switch {
	case msg.TaskAck != nil:
		return "taskAck " + msg.TaskAck.TaskId
	case msg.Heartbeat != nil:
		return "heartbeat"
	case msg.DataResponse != nil:
		return "dataResponse " + msg.DataResponse.RequestType
	case msg.Pong != nil:
		return "pong"
	}
	return msg.MessageId
}

// closeConnection 关闭当前连接并等待循环退出；stop 不是当前连接时返回 false
func (c *Client) closeConnection(stop chan struct{}) bool {
	c.mu.Lock()
	if !c.isConnected || c.stopCh != stop {
		c.mu.Unlock()
		return false
	}
	c.isConnected = false
	close(stop)
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	conn.Close()
	c.wg.Wait()
	return true
}

// Disconnect 断开连接并取消所有运行中的任务
func (c *Client) Disconnect() error {
	c.quitOnce.Do(func() { close(c.quit) })
	c.taskCancel()

	c.mu.Lock()
	conn, stop, connected := c.conn, c.stopCh, c.isConnected
	c.mu.Unlock()
	if !connected {
		return nil
	}

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	c.closeConnection(stop)

	c.mu.Lock()
	c.agentID = ""
	c.agentName = ""
	c.mu.Unlock()

	logger.Info("已断开连接")
	c.setStatus(StatusDisconnected)
	return nil
}

// attemptReconnect 按退避序列重连
func (c *Client) attemptReconnect(stop chan struct{}) {
	if !c.closeConnection(stop) {
		return
	}
	select {
	case <-c.quit:
		return
	default:
	}
	c.setStatus(StatusReconnecting)

	c.mu.RLock()
	delays := c.config.ReconnectDelays
	c.mu.RUnlock()

	for i, delay := range delays {
		logger.Info("第 %d/%d 次重连，%d 秒后开始...", i+1, len(delays), delay)
		select {
		case <-c.quit:
			return
		case <-time.After(time.Duration(delay) * time.Second):
		}

		err := c.doConnect()
		if err == nil {
			logger.Info("重连成功")
			return
		}
		logger.Warn("重连失败: %v", err)
	}

	logger.Error("多次重连均失败，放弃")
	c.setStatus(StatusDisconnected)
	c.quitOnce.Do(func() { close(c.quit) })
}

// GetStatus 当前状态
func (c *Client) GetStatus() (ClientStatus, string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isConnected {
		return StatusConnected, c.agentID, c.agentName
	}
	return StatusDisconnected, c.agentID, c.agentName
}

// IsConnected 是否已连接
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

// SetStatusCallback 设置状态变更回调
func (c *Client) SetStatusCallback(callback StatusCallback) {
	c.mu.Lock()
	c.onStatusChange = callback
	c.mu.Unlock()
}

func (c *Client) setStatus(status ClientStatus) {
	c.mu.RLock()
	callback := c.onStatusChange
	c.mu.RUnlock()

	if callback != nil {
		callback(status)
	}
}

package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/errors"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/analysis"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto/window"
)

func windowFields(w window.WindowInfo, activePID int) map[string]any {
	return map[string]any{
		"title":     w.Title,
		"pid":       w.PID,
		"x":         w.Bounds.X,
		"y":         w.Bounds.Y,
		"width":     w.Bounds.Width,
		"height":    w.Bounds.Height,
		"is_active": activePID != 0 && activePID == w.PID,
	}
}

// FindGameWindow 按标题查找并选中游戏窗口
func (e *Executor) FindGameWindow(ctx context.Context, p FindWindowParams) Response {
	found, titles, err := e.session.Find(p.WindowTitle)
	if err != nil {
		resp := failure(err)
		if errors.HasCode(err, errors.ErrorWindowNotFound) {
			resp["available_windows"] = titles
		}
		return resp
	}

	matches := make([]map[string]any, 0, len(found.AllMatches))
	for _, w := range found.AllMatches {
		matches = append(matches, windowFields(w, found.ActivePID))
	}
	return Response{
		"success":     true,
		"window":      windowFields(found.Window, found.ActivePID),
		"total_found": len(found.AllMatches),
		"all_matches": matches,
	}
}

// snapshot 一次截图分析的产物
type snapshot struct {
	report     *analysis.Report
	window     window.WindowInfo
	screenshot string
	takenAt    time.Time
}

func (s *snapshot) Close() {
	if s != nil {
		s.report.Close()
	}
}

// analyzeWindow 截取目标窗口并分析
func (e *Executor) analyzeWindow(ctx context.Context, tool string, saveScreenshot bool) (*snapshot, error) {
	img, w, err := e.session.Capture(ctx)
	if err != nil {
		return nil, err
	}

	report, err := e.analyzer.Analyze(img)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorInternal, err, "分析截图失败")
	}

	snap := &snapshot{report: report, window: w, takenAt: e.now()}
	if saveScreenshot {
		snap.screenshot = e.saveScreenshot(report, snap.takenAt)
	}
	if e.journal != nil {
		if _, err := e.journal.Record(tool, w.Title, report.Result, snap.screenshot); err != nil {
			logger.Warn("记录分析历史失败: %v", err)
		}
	}
	return snap, nil
}

// resultFields 分析结果字段，game_state 为 screen_state 的别名
func resultFields(res analysis.Result, resp Response) {
	resp["screen_state"] = res.ScreenState
	resp["game_state"] = res.ScreenState
	resp["currency"] = res.Currency
	resp["ui_elements"] = res.UIElements
	resp["notifications"] = res.Notifications
	resp["suggested_actions"] = res.SuggestedActions
}

func warnings(report *analysis.Report) []string {
	var out []string
	if report.RecognitionErr != nil {
		out = append(out, errors.NewRecognitionFailedError(report.RecognitionErr).Error())
	}
	if report.DetectionErr != nil {
		out = append(out, fmt.Sprintf("通知角标检测失败: %v", report.DetectionErr))
	}
	return out
}

func (e *Executor) analyzeResponse(snap *snapshot) Response {
	resp := Response{"success": true}
	resultFields(snap.report.Result, resp)
	resp["analysis_timestamp"] = snap.takenAt.Format(time.RFC3339)
	resp["screenshot_saved"] = snap.screenshot
	if w := warnings(snap.report); len(w) > 0 {
		resp["warnings"] = w
	}
	return resp
}

// AnalyzeGameState 截图并分析当前画面
func (e *Executor) AnalyzeGameState(ctx context.Context, p AnalyzeParams) *Output {
	snap, err := e.analyzeWindow(ctx, ToolAnalyzeGameState, e.opts.SaveScreenshots)
	if err != nil {
		return output(failure(err))
	}
	defer snap.Close()

	out := output(e.analyzeResponse(snap))
	if p.IncludeImage {
		out.Image = e.encodeFrame(snap.report)
	}
	return out
}

// ClickAtPosition 在窗口相对坐标处点击
func (e *Executor) ClickAtPosition(ctx context.Context, p ClickParams) Response {
	res, err := e.session.Click(ctx, p.X, p.Y, p.ClickType)
	if err != nil {
		return failure(err)
	}

	logger.Info("点击 %s (%d, %d) %s", res.ClickType, p.X, p.Y, p.Description)
	return Response{
		"success": true,
		"click_info": map[string]any{
			"relative_position": res.Relative,
			"absolute_position": res.Absolute,
			"click_type":        res.ClickType,
			"description":       p.Description,
			"window_title":      res.Window.Title,
		},
		"timestamp": e.now().Format(time.RFC3339),
	}
}

// WaitAndAnalyze 等待画面变化后重新分析
func (e *Executor) WaitAndAnalyze(ctx context.Context, p WaitParams) *Output {
	delay := p.delaySeconds()
	if err := auto.SleepContext(ctx, time.Duration(delay*float64(time.Second))); err != nil {
		return output(failure(errors.Wrap(errors.ErrorInternal, err, "等待被取消")))
	}

	out := e.AnalyzeGameState(ctx, AnalyzeParams{IncludeImage: p.IncludeImage})
	if out.Success() {
		out.Response["delay_applied"] = delay
		out.Response["message"] = fmt.Sprintf("已等待 %g 秒并重新分析游戏画面", delay)
	}
	return out
}

func gachaField(g *analysis.GachaAnalysis) any {
	if g == nil {
		return map[string]any{}
	}
	return g
}

// CheckCurrencyStatus 读取货币并评估抽卡能力
func (e *Executor) CheckCurrencyStatus(ctx context.Context) Response {
	snap, err := e.analyzeWindow(ctx, ToolCheckCurrencyStatus, false)
	if err != nil {
		return failure(err)
	}
	defer snap.Close()

	currency := snap.report.Result.Currency
	return Response{
		"success":        true,
		"currency":       currency,
		"gacha_analysis": gachaField(analysis.AnalyzeGacha(currency)),
		"timestamp":      snap.takenAt.Format(time.RFC3339),
	}
}

// FindGachaButton 查找抽卡按钮
func (e *Executor) FindGachaButton(ctx context.Context) Response {
	snap, err := e.analyzeWindow(ctx, ToolFindGachaButton, false)
	if err != nil {
		return failure(err)
	}
	defer snap.Close()

	elements := snap.report.Result.UIElements
	best, all := analysis.BestGachaButton(elements)
	if best == nil {
		return Response{
			"success":     false,
			"error":       "屏幕上未找到抽卡按钮",
			"all_buttons": analysis.Clickable(elements),
		}
	}
	return Response{
		"success":             true,
		"gacha_button":        best,
		"total_gacha_buttons": len(all),
		"all_gacha_buttons":   all,
	}
}

// GetGameSummary 一次截图生成完整摘要
func (e *Executor) GetGameSummary(ctx context.Context, p AnalyzeParams) *Output {
	snap, err := e.analyzeWindow(ctx, ToolGetGameSummary, e.opts.SaveScreenshots)
	if err != nil {
		return output(failure(err))
	}
	defer snap.Close()

	res := snap.report.Result
	gacha := analysis.AnalyzeGacha(res.Currency)
	button, _ := analysis.BestGachaButton(res.UIElements)

	var buttonField any
	if button != nil {
		buttonField = button
	}

	resp := Response{
		"success":        true,
		"timestamp":      snap.takenAt.Format(time.RFC3339),
		"game_state":     res.ScreenState,
		"currency":       res.Currency,
		"gacha_analysis": gachaField(gacha),
		"gacha_button":   buttonField,
		"notifications": map[string]any{
			"found":   len(res.Notifications) > 0,
			"count":   len(res.Notifications),
			"details": res.Notifications,
		},
		"ui_elements":       res.UIElements,
		"suggested_actions": res.SuggestedActions,
		"screenshot_path":   snap.screenshot,
		"recommendations":   analysis.SummaryRecommendations(res, gacha, button),
	}
	if w := warnings(snap.report); len(w) > 0 {
		resp["warnings"] = w
	}

	out := output(resp)
	if p.IncludeImage {
		out.Image = e.encodeFrame(snap.report)
	}
	return out
}

// GetAnalysisHistory 最近的分析记录
func (e *Executor) GetAnalysisHistory(ctx context.Context, p HistoryParams) Response {
	if e.journal == nil {
		return failure(errors.New(errors.ErrorInvalidParameter, "分析历史未启用，请在配置中设置 journal.enabled"))
	}
	entries, err := e.journal.Recent(p.Limit, p.IncludeResult)
	if err != nil {
		return failure(errors.Wrap(errors.ErrorInternal, err, "读取分析历史失败"))
	}
	return Response{
		"success": true,
		"count":   len(entries),
		"entries": entries,
	}
}

// PressKey 向目标窗口发送按键
func (e *Executor) PressKey(ctx context.Context, p KeyParams) Response {
	w, err := e.session.PressKey(ctx, p.Key, p.Modifiers...)
	if err != nil {
		return failure(err)
	}
	return Response{
		"success":      true,
		"key":          p.Key,
		"modifiers":    p.Modifiers,
		"window_title": w.Title,
		"timestamp":    e.now().Format(time.RFC3339),
	}
}

package executor

import (
	"fmt"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/analysis"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto/screen"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/vision/cv"
)

// screenshotName game_analysis_YYYYMMDD_HHMMSS.png
func screenshotName(t time.Time) string {
	return fmt.Sprintf("game_analysis_%s.png", t.Format("20060102_150405"))
}

// renderFrame 返回需要输出的截图，开启标注时为标注后的副本
func (e *Executor) renderFrame(report *analysis.Report) (gocv.Mat, func()) {
	if !e.opts.AnnotateScreenshots {
		return report.Frame, func() {}
	}
	annotated := cv.Annotate(report.Frame, report.Annotations())
	return annotated, func() { annotated.Close() }
}

// saveScreenshot 保存调试截图，返回绝对路径，失败时返回空字符串
func (e *Executor) saveScreenshot(report *analysis.Report, t time.Time) string {
	dir := e.opts.ScreenshotsDir
	if dir == "" {
		dir = "screenshots"
	}
	path, err := filepath.Abs(filepath.Join(dir, screenshotName(t)))
	if err != nil {
		logger.Warn("解析截图路径失败: %v", err)
		return ""
	}

	frame, release := e.renderFrame(report)
	defer release()

	if err := cv.WriteImage(path, frame); err != nil {
		logger.Warn("保存截图失败: %v", err)
		return ""
	}
	logger.Debug("截图已保存: %s", path)
	return path
}

// encodeFrame 将截图编码为 PNG
func (e *Executor) encodeFrame(report *analysis.Report) []byte {
	frame, release := e.renderFrame(report)
	defer release()

	img, err := cv.MatToImage(frame)
	if err != nil {
		logger.Warn("截图转换失败: %v", err)
		return nil
	}
	data, _, err := screen.Encode(img, "png", 0)
	if err != nil {
		logger.Warn("截图编码失败: %v", err)
		return nil
	}
	return data
}

package analysis

import (
	"fmt"
	"image"
	"time"

	"gocv.io/x/gocv"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/vision/cv"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/vision/ocr"
)

// Build 由识别结果和角标组装分析结果
func Build(regions []ocr.TextRegion, badges []NotificationBadge, width, height int) Result {
	res := Empty()
	res.Currency = ExtractCurrency(regions, width, height)
	res.UIElements = ClassifyElements(regions)
	if badges != nil {
		res.Notifications = badges
	}
	res.ScreenState = ClassifyState(res.UIElements)
	res.SuggestedActions = SuggestActions(res.ScreenState, res.UIElements, res.Currency)
	return res
}

// Report 一次截图分析的产物
type Report struct {
	Result  Result
	Regions []ocr.TextRegion
	// Frame BGR 截图，用于保存调试图
	Frame gocv.Mat
	// RecognitionErr OCR 失败原因，失败时 OCR 相关字段为空
	RecognitionErr error
	// DetectionErr 角标检测失败原因
	DetectionErr error
}

// Close 释放截图
func (r *Report) Close() error {
	if r == nil {
		return nil
	}
	return r.Frame.Close()
}

// Annotations 调试图标注
func (r *Report) Annotations() []cv.Annotation {
	var out []cv.Annotation
	for _, e := range r.Result.UIElements {
		out = append(out, cv.Annotation{Rect: e.Region.Bounds(), Label: string(e.Category), Color: cv.ColorText})
	}
	for name, c := range r.Result.Currency {
		p := c.Position
		out = append(out, cv.Annotation{
			Rect:  image.Rect(p.X()-20, p.Y()-10, p.X()+20, p.Y()+10),
			Label: name + " " + c.DisplayValue,
			Color: cv.ColorMoney,
		})
	}
	for _, b := range r.Result.Notifications {
		half := image.Pt(b.Size[0]/2, b.Size[1]/2)
		center := image.Pt(b.Position.X(), b.Position.Y())
		out = append(out, cv.Annotation{Rect: image.Rectangle{Min: center.Sub(half), Max: center.Add(half)}, Color: cv.ColorBadge})
	}
	return out
}

// Analyzer 截图分析器
type Analyzer struct {
	recognizer ocr.Recognizer
}

// NewAnalyzer 创建分析器，recognizer 为 nil 时只做角标检测
func NewAnalyzer(recognizer ocr.Recognizer) *Analyzer {
	return &Analyzer{recognizer: recognizer}
}

// Analyze 分析一帧截图
//
// 仅当截图本身无法转换时返回错误；OCR 或角标检测失败降级为空结果，原因记录在 Report 中。
func (a *Analyzer) Analyze(frame image.Image) (*Report, error) {
	startTime := time.Now()

	mat, err := cv.FrameToMat(frame)
	if err != nil {
		return nil, fmt.Errorf("截图格式转换失败: %w", err)
	}
	width, height := mat.Cols(), mat.Rows()

	report := &Report{Frame: mat}

	if a.recognizer == nil {
		report.RecognitionErr = fmt.Errorf("未配置 OCR 引擎")
	} else if regions, err := a.recognizer.Recognize(frame); err != nil {
		report.RecognitionErr = err
		logger.Warn("OCR 识别失败，返回空文本结果: %v", err)
	} else {
		report.Regions = regions
	}

	badges, err := DetectBadges(mat)
	if err != nil {
		report.DetectionErr = err
		logger.Warn("通知角标检测失败: %v", err)
	}

	report.Result = Build(report.Regions, badges, width, height)

	elapsed := float64(time.Since(startTime).Milliseconds())
	logger.LogEvent("ANLZ", true, elapsed, fmt.Sprintf("state=%s 元素=%d 角标=%d 货币=%d",
		report.Result.ScreenState, len(report.Result.UIElements),
		len(report.Result.Notifications), len(report.Result.Currency)))

	return report, nil
}

package ocr

import (
	"fmt"
	"image"
	"sync"
	"time"

	goocr "github.com/getcharzp/go-ocr"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
)

// PaddleRecognizer 基于 PaddleOCR ONNX 模型的识别器
type PaddleRecognizer struct {
	engine goocr.Engine
	mu     sync.Mutex
}

// NewPaddleRecognizer 创建 PaddleOCR 识别器
func NewPaddleRecognizer(cfg Config) (*PaddleRecognizer, error) {
	engine, err := goocr.NewPaddleOcrEngine(goocr.Config{
		OnnxRuntimeLibPath: cfg.OnnxRuntimeLibPath,
		DetModelPath:       cfg.DetModelPath,
		RecModelPath:       cfg.RecModelPath,
		DictPath:           cfg.DictPath,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 OCR 引擎失败: %w", err)
	}

	logger.Info("OCR 引擎初始化成功: paddle")
	return &PaddleRecognizer{engine: engine}, nil
}

// Recognize 识别图像中的所有文字
func (r *PaddleRecognizer) Recognize(img image.Image) ([]TextRegion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engine == nil {
		return nil, fmt.Errorf("OCR 引擎已关闭")
	}

	startTime := time.Now()
	results, err := r.engine.RunOCR(img)
	elapsed := float64(time.Since(startTime).Milliseconds())
	if err != nil {
		logger.LogEvent("OCR", false, elapsed, "识别失败")
		return nil, fmt.Errorf("OCR 识别失败: %w", err)
	}

	regions := make([]TextRegion, 0, len(results))
	for _, result := range results {
		regions = append(regions, convertPaddleResult(result))
	}

	logger.LogEvent("OCR", true, elapsed, fmt.Sprintf("识别到 %d 个文本", len(regions)))
	return regions, nil
}

// Close 释放资源
func (r *PaddleRecognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engine != nil {
		r.engine.Destroy()
		r.engine = nil
	}
	return nil
}

// convertPaddleResult go-ocr 的 Box 为 {x1, y1, x2, y2}
func convertPaddleResult(result goocr.RecResult) TextRegion {
	box := result.Box
	return TextRegion{
		Region:     QuadFromRect(image.Rect(box[0], box[1], box[2], box[3])),
		Text:       result.Text,
		Confidence: clampConfidence(float64(result.Score)),
	}
}

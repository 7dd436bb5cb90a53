package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"
	"sync"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
)

// TesseractRecognizer 基于 tesseract 的识别器，按文本行输出
type TesseractRecognizer struct {
	client *gosseract.Client
	mu     sync.Mutex
}

// NewTesseractRecognizer 创建 tesseract 识别器
func NewTesseractRecognizer(cfg Config) (*TesseractRecognizer, error) {
	client := gosseract.NewClient()
	if len(cfg.Languages) > 0 {
		if err := client.SetLanguage(cfg.Languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("设置 tesseract 语言失败: %w", err)
		}
	}

	logger.Info("OCR 引擎初始化成功: tesseract (%s)", strings.Join(cfg.Languages, "+"))
	return &TesseractRecognizer{client: client}, nil
}

// Recognize 识别图像中的所有文字
func (r *TesseractRecognizer) Recognize(img image.Image) ([]TextRegion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil, fmt.Errorf("OCR 引擎已关闭")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码图像失败: %w", err)
	}

	startTime := time.Now()
	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("设置 tesseract 图像失败: %w", err)
	}

	boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	elapsed := float64(time.Since(startTime).Milliseconds())
	if err != nil {
		logger.LogEvent("OCR", false, elapsed, "识别失败")
		return nil, fmt.Errorf("OCR 识别失败: %w", err)
	}

	regions := make([]TextRegion, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		regions = append(regions, TextRegion{
			Region:     QuadFromRect(b.Box),
			Text:       text,
			Confidence: clampConfidence(b.Confidence / 100),
		})
	}

	logger.LogEvent("OCR", true, elapsed, fmt.Sprintf("识别到 %d 个文本", len(regions)))
	return regions, nil
}

// Close 释放资源
func (r *TesseractRecognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

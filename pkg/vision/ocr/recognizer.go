package ocr

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// Recognizer 文字识别能力
type Recognizer interface {
	// Recognize 识别图像中的文字，结果顺序即引擎输出顺序
	Recognize(img image.Image) ([]TextRegion, error)
	Close() error
}

// NewRecognizer 按配置创建识别引擎
func NewRecognizer(cfg Config) (Recognizer, error) {
	cfg = cfg.WithDefaults()
	switch cfg.Engine {
	case EnginePaddle:
		return NewPaddleRecognizer(cfg)
	case EngineTesseract:
		return NewTesseractRecognizer(cfg)
	default:
		return nil, fmt.Errorf("不支持的 OCR 引擎: %s", cfg.Engine)
	}
}

// LoadImage 从文件加载图像
func LoadImage(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("打开图像文件失败: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码图像失败: %w", err)
	}
	return img, nil
}

// clampConfidence 将置信度限制在 [0,1]
func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}

// Package ocr 提供文字识别适配层
//
// 识别引擎输出统一为 TextRegion：四边形区域、文字、[0,1] 置信度。
package ocr

import (
	"image"
	"os"
	"path/filepath"
	"runtime"
)

// Point 二维坐标，JSON 编码为 [x, y]
type Point [2]int

// X 横坐标
func (p Point) X() int { return p[0] }

// Y 纵坐标
func (p Point) Y() int { return p[1] }

// Quad 文字区域四个角点，顺序为左上、右上、右下、左下
type Quad [4]Point

// QuadFromRect 由轴对齐矩形构造四边形
func QuadFromRect(r image.Rectangle) Quad {
	return Quad{
		{r.Min.X, r.Min.Y},
		{r.Max.X, r.Min.Y},
		{r.Max.X, r.Max.Y},
		{r.Min.X, r.Max.Y},
	}
}

// Centroid 四个角点的平均值
func (q Quad) Centroid() (float64, float64) {
	var sx, sy float64
	for _, p := range q {
		sx += float64(p[0])
		sy += float64(p[1])
	}
	return sx / 4, sy / 4
}

// Bounds 轴对齐外接矩形
func (q Quad) Bounds() image.Rectangle {
	r := image.Rect(q[0][0], q[0][1], q[0][0], q[0][1])
	for _, p := range q[1:] {
		r = r.Union(image.Rect(p[0], p[1], p[0], p[1]))
	}
	return r
}

// TextRegion 一条识别结果
type TextRegion struct {
	Region     Quad    `json:"region"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Config OCR 配置
type Config struct {
	// Engine 识别引擎: paddle | tesseract
	Engine string
	// OnnxRuntimeLibPath ONNX Runtime 动态库路径
	OnnxRuntimeLibPath string
	// DetModelPath 检测模型路径
	DetModelPath string
	// RecModelPath 识别模型路径
	RecModelPath string
	// DictPath 字典文件路径
	DictPath string
	// Languages tesseract 语言
	Languages []string
}

const (
	EnginePaddle    = "paddle"
	EngineTesseract = "tesseract"
)

// DefaultConfig 默认配置，模型路径按可执行文件目录和工作目录查找
func DefaultConfig() Config {
	return Config{
		Engine:             EnginePaddle,
		OnnxRuntimeLibPath: defaultOnnxRuntimePath(),
		DetModelPath:       defaultModelPath("det.onnx"),
		RecModelPath:       defaultModelPath("rec.onnx"),
		DictPath:           defaultModelPath("dict.txt"),
		Languages:          []string{"eng"},
	}
}

// WithDefaults 补全未设置的字段
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Engine == "" {
		c.Engine = d.Engine
	}
	if c.OnnxRuntimeLibPath == "" {
		c.OnnxRuntimeLibPath = d.OnnxRuntimeLibPath
	}
	if c.DetModelPath == "" {
		c.DetModelPath = d.DetModelPath
	}
	if c.RecModelPath == "" {
		c.RecModelPath = d.RecModelPath
	}
	if c.DictPath == "" {
		c.DictPath = d.DictPath
	}
	if len(c.Languages) == 0 {
		c.Languages = d.Languages
	}
	return c
}

// PaddleModelsAvailable 检查 paddle 引擎所需文件是否都存在
func (c Config) PaddleModelsAvailable() bool {
	return fileExists(c.OnnxRuntimeLibPath) &&
		fileExists(c.DetModelPath) &&
		fileExists(c.RecModelPath) &&
		fileExists(c.DictPath)
}

func executableDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return "."
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return "."
	}
	return filepath.Dir(execPath)
}

func defaultOnnxRuntimePath() string {
	execDir := executableDir()

	var paths []string
	switch runtime.GOOS {
	case "darwin":
		paths = []string{
			filepath.Join(execDir, "libonnxruntime.dylib"),
			"models/lib/onnxruntime_arm64.dylib",
			"models/lib/onnxruntime_amd64.dylib",
		}
	case "windows":
		paths = []string{
			filepath.Join(execDir, "onnxruntime.dll"),
			"models/lib/onnxruntime.dll",
			"onnxruntime.dll",
		}
	default:
		paths = []string{
			filepath.Join(execDir, "libonnxruntime.so"),
			"models/lib/onnxruntime_arm64.so",
			"models/lib/onnxruntime_amd64.so",
		}
	}

	for _, p := range paths {
		if fileExists(p) {
			return p
		}
	}
	return paths[len(paths)-1]
}

func defaultModelPath(filename string) string {
	paths := []string{
		filepath.Join(executableDir(), "models", "paddle_weights", filename),
		filepath.Join("models", "paddle_weights", filename),
	}
	for _, p := range paths {
		if fileExists(p) {
			return p
		}
	}
	return paths[0]
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

package ocr

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	goocr "github.com/getcharzp/go-ocr"
)

func TestQuadCentroidAndBounds(t *testing.T) {
	q := Quad{{10, 20}, {31, 20}, {31, 41}, {10, 41}}

	cx, cy := q.Centroid()
	if cx != 20.5 || cy != 30.5 {
		t.Errorf("中心点错误: (%v, %v)", cx, cy)
	}

	b := q.Bounds()
	if b != image.Rect(10, 20, 31, 41) {
		t.Errorf("外接矩形错误: %v", b)
	}
}

func TestQuadFromRect(t *testing.T) {
	q := QuadFromRect(image.Rect(1, 2, 5, 9))
	want := Quad{{1, 2}, {5, 2}, {5, 9}, {1, 9}}
	if q != want {
		t.Errorf("四边形错误: %v", q)
	}
}

func TestPointJSON(t *testing.T) {
	data, err := json.Marshal(TextRegion{Region: Quad{{1, 2}, {3, 2}, {3, 4}, {1, 4}}, Text: "Gems", Confidence: 0.9})
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	want := `{"region":[[1,2],[3,2],[3,4],[1,4]],"text":"Gems","confidence":0.9}`
	if string(data) != want {
		t.Errorf("JSON 格式错误:\n  实际 %s\n  期望 %s", data, want)
	}
}

func TestConvertPaddleResult(t *testing.T) {
	r := convertPaddleResult(goocr.RecResult{Box: [4]int{5, 6, 25, 16}, Text: "Summon", Score: 0.93})
	if r.Text != "Summon" {
		t.Errorf("文字错误: %s", r.Text)
	}
	if r.Region != (Quad{{5, 6}, {25, 6}, {25, 16}, {5, 16}}) {
		t.Errorf("区域错误: %v", r.Region)
	}
	if r.Confidence < 0.92 || r.Confidence > 0.94 {
		t.Errorf("置信度错误: %v", r.Confidence)
	}
}

func TestClampConfidence(t *testing.T) {
	if clampConfidence(-0.1) != 0 || clampConfidence(1.7) != 1 || clampConfidence(0.25) != 0.25 {
		t.Error("置信度应限制在 [0,1]")
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{Engine: EngineTesseract}.WithDefaults()
	if cfg.Engine != EngineTesseract {
		t.Errorf("已设置的引擎不应被覆盖: %s", cfg.Engine)
	}
	if cfg.DetModelPath == "" || len(cfg.Languages) == 0 {
		t.Errorf("默认值未补全: %+v", cfg)
	}
}

func TestNewRecognizerUnknownEngine(t *testing.T) {
	if _, err := NewRecognizer(Config{Engine: "easyocr"}); err == nil {
		t.Error("不支持的引擎应报错")
	}
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("创建文件失败: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("编码失败: %v", err)
	}
	f.Close()

	loaded, err := LoadImage(path)
	if err != nil {
		t.Fatalf("加载图像失败: %v", err)
	}
	if loaded.Bounds().Dx() != 4 || loaded.Bounds().Dy() != 3 {
		t.Errorf("图像尺寸错误: %v", loaded.Bounds())
	}

	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("不存在的文件应报错")
	}
}

func TestPaddleRecognize(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.PaddleModelsAvailable() {
		t.Skipf("OCR 模型文件不存在，跳过: %s", cfg.DetModelPath)
	}

	r, err := NewPaddleRecognizer(cfg)
	if err != nil {
		t.Skipf("OCR 引擎初始化失败: %v", err)
	}
	defer r.Close()

	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	regions, err := r.Recognize(img)
	if err != nil {
		t.Fatalf("识别失败: %v", err)
	}
	for _, reg := range regions {
		if reg.Confidence < 0 || reg.Confidence > 1 {
			t.Errorf("置信度超出范围: %+v", reg)
		}
	}
	t.Logf("空白图像识别到 %d 个文本", len(regions))
}

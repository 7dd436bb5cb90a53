package screen

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFitToSizeSameSize(t *testing.T) {
	img := solid(40, 30, color.White)
	if got := FitToSize(img, 40, 30); got != image.Image(img) {
		t.Error("尺寸一致时应原样返回")
	}
}

func TestFitToSizeDownscale(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	img := solid(200, 100, red)

	got := FitToSize(img, 100, 50)
	if got.Bounds().Dx() != 100 || got.Bounds().Dy() != 50 {
		t.Fatalf("缩放后尺寸错误: %v", got.Bounds())
	}
	r, g, b, _ := got.At(50, 25).RGBA()
	if r>>8 < 250 || g>>8 > 5 || b>>8 > 5 {
		t.Errorf("缩放后颜色应保持红色, 实际 (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestFitToSizeOffsetOrigin(t *testing.T) {
	img := solid(60, 60, color.Black).SubImage(image.Rect(10, 10, 50, 40))
	got := FitToSize(img, 40, 30)
	if got.Bounds().Min != (image.Point{}) {
		t.Errorf("结果原点应为 (0,0): %v", got.Bounds())
	}
}

func TestEncode(t *testing.T) {
	img := solid(8, 8, color.White)

	data, mime, err := Encode(img, "png", 0)
	if err != nil || mime != "image/png" || len(data) == 0 {
		t.Fatalf("PNG 编码失败: mime=%s err=%v", mime, err)
	}

	s, err := ImageToBase64(img, "", 0)
	if err != nil {
		t.Fatalf("Base64 编码失败: %v", err)
	}
	if !strings.HasPrefix(s, "data:image/jpeg;base64,") {
		t.Errorf("默认格式应为 jpeg: %.40s", s)
	}

	if _, _, err := Encode(img, "bmp", 0); err == nil {
		t.Error("不支持的格式应报错")
	}
	if _, _, err := Encode(nil, "png", 0); err == nil {
		t.Error("空图像应报错")
	}
}

func TestCaptureRegionInvalid(t *testing.T) {
	if _, err := NewRobotgoGrabber().CaptureRegion(auto.Region{}); err == nil {
		t.Error("空区域应报错")
	}
}

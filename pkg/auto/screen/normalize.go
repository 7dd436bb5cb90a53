package screen

import (
	"image"

	"golang.org/x/image/draw"
)

// FitToSize 将截图缩放到窗口尺寸
//
// macOS Retina 等 HiDPI 屏幕上截图像素是窗口坐标的整数倍，
// 缩放后分析结果中的坐标可直接用于 click_at_position。
// 尺寸一致时原样返回。
func FitToSize(img image.Image, width, height int) image.Image {
	if img == nil || width <= 0 || height <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height && b.Min == (image.Point{}) {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if b.Dx() == width && b.Dy() == height {
		draw.Copy(dst, image.Point{}, img, b, draw.Src, nil)
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

package cv

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Annotation 调试截图上的一个标注框
type Annotation struct {
	Rect  image.Rectangle
	Label string
	Color color.RGBA
}

var (
	ColorText  = color.RGBA{G: 200, A: 255}
	ColorBadge = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	ColorMoney = color.RGBA{R: 255, G: 200, A: 255}
)

// Annotate 在图像副本上绘制标注，返回的 Mat 需调用方 Close
func Annotate(src gocv.Mat, annotations []Annotation) gocv.Mat {
	dst := src.Clone()
	for _, a := range annotations {
		gocv.Rectangle(&dst, a.Rect, a.Color, 2)
		if a.Label == "" {
			continue
		}
		org := image.Pt(a.Rect.Min.X, a.Rect.Min.Y-4)
		if org.Y < 12 {
			org.Y = a.Rect.Max.Y + 14
		}
		gocv.PutText(&dst, a.Label, org, gocv.FontHersheySimplex, 0.45, a.Color, 1)
	}
	return dst
}

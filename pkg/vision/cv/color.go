package cv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// HSVRange HSV 阈值区间（OpenCV 8 位: H 0-180, S/V 0-255），上下限均包含
type HSVRange struct {
	Lower [3]float64
	Upper [3]float64
}

// RedRanges 红色在色相环两端各占一段
var RedRanges = []HSVRange{
	{Lower: [3]float64{0, 50, 50}, Upper: [3]float64{10, 255, 255}},
	{Lower: [3]float64{170, 50, 50}, Upper: [3]float64{180, 255, 255}},
}

// Blob 颜色连通区域
type Blob struct {
	Rect image.Rectangle
	Area float64
}

// FindColorBlobs 在 BGR 图像中查找落在任一 HSV 区间内的外轮廓
func FindColorBlobs(bgr gocv.Mat, ranges []HSVRange) ([]Blob, error) {
	if bgr.Empty() {
		return nil, fmt.Errorf("图像为空")
	}
	if bgr.Channels() != 3 {
		return nil, fmt.Errorf("需要三通道 BGR 图像, 实际 %d 通道", bgr.Channels())
	}
	if len(ranges) == 0 {
		return nil, nil
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), bgr.Rows(), bgr.Cols(), gocv.MatTypeCV8U)
	defer mask.Close()
	part := gocv.NewMat()
	defer part.Close()

	for _, r := range ranges {
		lower := gocv.NewScalar(r.Lower[0], r.Lower[1], r.Lower[2], 0)
		upper := gocv.NewScalar(r.Upper[0], r.Upper[1], r.Upper[2], 0)
		gocv.InRangeWithScalar(hsv, lower, upper, &part)
		gocv.BitwiseOr(mask, part, &mask)
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	blobs := make([]Blob, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		blobs = append(blobs, Blob{
			Rect: gocv.BoundingRect(contour),
			Area: gocv.ContourArea(contour),
		})
	}
	return blobs, nil
}

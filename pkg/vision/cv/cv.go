// Package cv 提供基于 gocv 的图像处理
//
// 截图在进入 OpenCV 前统一转换为 BGR 三通道 Mat，
// 之后的 HSV 转换、轮廓检测和标注都在该格式上进行。
package cv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// FrameToMat 将截图转换为 BGR 三通道 Mat
//
// robotgo、png 解码等来源的像素格式各不相同（RGBA、NRGBA、YCbCr），
// 这里逐像素读取 RGBA 后按 BGR 顺序写入，alpha 丢弃。
func FrameToMat(img image.Image) (gocv.Mat, error) {
	if img == nil {
		return gocv.NewMat(), fmt.Errorf("图像为空")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return gocv.NewMat(), fmt.Errorf("图像尺寸无效: %v", b)
	}

	data := make([]byte, 0, w*h*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			data = append(data, byte(bl>>8), byte(g>>8), byte(r>>8))
		}
	}

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC3, data)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("图像转换失败: %w", err)
	}
	// NewMatFromBytes 与 data 共享内存
	owned := mat.Clone()
	mat.Close()
	return owned, nil
}

// MatToImage 将 gocv.Mat 转换为 image.Image
func MatToImage(mat gocv.Mat) (image.Image, error) {
	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("Mat 转换失败: %w", err)
	}
	return img, nil
}

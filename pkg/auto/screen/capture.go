// Package screen 提供窗口区域截图、尺寸归一化和编码
package screen

import (
	"fmt"
	"image"

	"github.com/go-vgo/robotgo"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto"
)

// Grabber 截图能力
type Grabber interface {
	// CaptureRegion 截取屏幕区域（截图像素坐标）
	CaptureRegion(r auto.Region) (image.Image, error)
}

// RobotgoGrabber 基于 robotgo 的截图实现
type RobotgoGrabber struct{}

// NewRobotgoGrabber 创建截图器
func NewRobotgoGrabber() *RobotgoGrabber {
	return &RobotgoGrabber{}
}

// CaptureRegion 截取屏幕区域
func (g *RobotgoGrabber) CaptureRegion(r auto.Region) (image.Image, error) {
	if r.Empty() {
		return nil, fmt.Errorf("截图区域无效: %s", r)
	}

	x, y, w, h := auto.NormalizeRegionForInput(r.X, r.Y, r.Width, r.Height)
	img, err := robotgo.CaptureImg(x, y, w, h)
	if err != nil {
		return nil, fmt.Errorf("截取区域失败: %w", err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("截取区域失败: 返回空图像 %s", r)
	}
	return img, nil
}

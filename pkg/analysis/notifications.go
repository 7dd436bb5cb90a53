package analysis

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/vision/cv"
)

const (
	badgeMinArea   = 50
	badgeMaxArea   = 2000
	badgeMinAspect = 0.7
	badgeMaxAspect = 1.3
)

// DetectBadges 查找近似圆形的小块红色区域
func DetectBadges(bgr gocv.Mat) ([]NotificationBadge, error) {
	blobs, err := cv.FindColorBlobs(bgr, cv.RedRanges)
	if err != nil {
		return []NotificationBadge{}, fmt.Errorf("红色区域检测失败: %w", err)
	}
	return filterBadges(blobs), nil
}

func filterBadges(blobs []cv.Blob) []NotificationBadge {
	out := []NotificationBadge{}
	for _, b := range blobs {
		if b.Area <= badgeMinArea || b.Area >= badgeMaxArea {
			continue
		}
		w, h := b.Rect.Dx(), b.Rect.Dy()
		if h == 0 {
			continue
		}
		aspect := float64(w) / float64(h)
		if aspect <= badgeMinAspect || aspect >= badgeMaxAspect {
			continue
		}
		x, y := b.Rect.Min.X+w/2, b.Rect.Min.Y+h/2
		out = append(out, NotificationBadge{
			Type:        BadgeType,
			Position:    Point{x, y},
			Size:        [2]int{w, h},
			Description: fmt.Sprintf("Red notification badge at (%d, %d)", x, y),
		})
	}
	return out
}

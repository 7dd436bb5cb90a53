package analysis

import (
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/vision/ocr"
)

const elementMinConfidence = 0.5

// ClassifyElements 将置信度高于 0.5 的文本区域分类为 UI 元素，保持识别顺序
func ClassifyElements(regions []ocr.TextRegion) []UIElement {
	out := []UIElement{}
	for _, r := range regions {
		if r.Confidence <= elementMinConfidence {
			continue
		}
		category, description := categorize(r.Text)
		cx, cy := r.Region.Centroid()
		out = append(out, UIElement{
			Text:        r.Text,
			Category:    category,
			Position:    Point{int(cx), int(cy)},
			Region:      r.Region,
			Confidence:  r.Confidence,
			Description: description,
			Clickable:   true,
		})
	}
	return out
}

// FirstOfCategory 返回第一个指定类别的元素
func FirstOfCategory(elements []UIElement, c Category) (UIElement, bool) {
	for _, e := range elements {
		if e.Category == c {
			return e, true
		}
	}
	return UIElement{}, false
}

// FilterCategory 返回指定类别的全部元素
func FilterCategory(elements []UIElement, c Category) []UIElement {
	out := []UIElement{}
	for _, e := range elements {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

package analysis

import (
	"regexp"
	"strings"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/vision/ocr"
)

const (
	currencyMinConfidence = 0.6
	topBandRatio          = 0.15
	leftSideRatio         = 0.4
	rightSideRatio        = 0.6
)

const (
	CurrencyGems  = "gems"
	CurrencyCoins = "coins"
)

var digitRun = regexp.MustCompile(`[\d,]+`)

// longestNumber 返回最长的数字/逗号串，必须至少含一个数字；等长取先出现者
func longestNumber(text string) (string, bool) {
	best := ""
	for _, run := range digitRun.FindAllString(text, -1) {
		if !strings.ContainsAny(run, "0123456789") {
			continue
		}
		if len(run) > len(best) {
			best = run
		}
	}
	return best, best != ""
}

// currencySlot 按中心点位置判断货币种类
func currencySlot(cx, cy float64, width, height int) (string, bool) {
	if cy >= topBandRatio*float64(height) {
		return "", false
	}
	switch {
	case cx < leftSideRatio*float64(width):
		return CurrencyGems, true
	case cx > rightSideRatio*float64(width):
		return CurrencyCoins, true
	default:
		return "", false
	}
}

// ExtractCurrency 从顶部区域的数字文本中提取货币
//
// 同一货币有多个候选时取置信度最高者，置信度相同保留先出现者。
func ExtractCurrency(regions []ocr.TextRegion, width, height int) map[string]CurrencyEntry {
	out := map[string]CurrencyEntry{}
	best := map[string]float64{}
	if width <= 0 || height <= 0 {
		return out
	}

	for _, r := range regions {
		if r.Confidence <= currencyMinConfidence {
			continue
		}
		display, ok := longestNumber(r.Text)
		if !ok {
			continue
		}
		cx, cy := r.Region.Centroid()
		slot, ok := currencySlot(cx, cy, width, height)
		if !ok {
			continue
		}
		if prev, exists := best[slot]; exists && prev >= r.Confidence {
			continue
		}
		best[slot] = r.Confidence
		out[slot] = CurrencyEntry{
			Value:        strings.ReplaceAll(display, ",", ""),
			DisplayValue: display,
			Position:     Point{int(cx), int(cy)},
		}
	}
	return out
}

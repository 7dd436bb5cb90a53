// Package analysis 将截图和 OCR 结果归纳为游戏画面状态
//
// 流水线：OCR 文本 → 货币提取、UI 元素分类；原始截图 → 通知角标检测；
// UI 元素文本 → 画面状态；状态 + 元素 + 货币 → 建议操作。
// 每次调用都从头计算，不保留跨调用状态。
package analysis

import (
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/vision/ocr"
)

// Point 坐标，JSON 编码为 [x, y]
type Point = ocr.Point

// Quad 四边形区域
type Quad = ocr.Quad

// ScreenState 画面状态
type ScreenState string

const (
	StateMainMenu  ScreenState = "main_menu"
	StateGacha     ScreenState = "gacha_screen"
	StateInventory ScreenState = "inventory_screen"
	StateBattle    ScreenState = "battle_screen"
	StateShop      ScreenState = "shop_screen"
	StateLoading   ScreenState = "loading_screen"
	StateUnknown   ScreenState = "unknown_screen"
)

// Category UI 元素类别
type Category string

const (
	CategoryGacha      Category = "gacha"
	CategoryNavigation Category = "navigation"
	CategoryInventory  Category = "inventory"
	CategoryShop       Category = "shop"
	CategoryUnknown    Category = "unknown"
)

// CurrencyEntry 一种货币的读数
type CurrencyEntry struct {
	// Value 去掉千分位逗号后的数字
	Value        string `json:"value"`
	DisplayValue string `json:"display_value"`
	Position     Point  `json:"position"`
}

// UIElement 可点击的文字元素
type UIElement struct {
	Text        string   `json:"text"`
	Category    Category `json:"type"`
	Position    Point    `json:"position"`
	Region      Quad     `json:"bbox"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
	Clickable   bool     `json:"clickable"`
}

// BadgeType 通知角标类型
const BadgeType = "red_badge"

// NotificationBadge 红色通知角标
type NotificationBadge struct {
	Type        string `json:"type"`
	Position    Point  `json:"position"`
	Size        [2]int `json:"size"`
	Description string `json:"description"`
}

// Result 一次分析的完整结果
type Result struct {
	ScreenState      ScreenState              `json:"screen_state"`
	Currency         map[string]CurrencyEntry `json:"currency"`
	UIElements       []UIElement              `json:"ui_elements"`
	Notifications    []NotificationBadge      `json:"notifications"`
	SuggestedActions []string                 `json:"suggested_actions"`
}

// Empty 所有字段为空的结果，切片和 map 非 nil 以便 JSON 输出 [] 和 {}
func Empty() Result {
	return Result{
		ScreenState:      StateUnknown,
		Currency:         map[string]CurrencyEntry{},
		UIElements:       []UIElement{},
		Notifications:    []NotificationBadge{},
		SuggestedActions: []string{},
	}
}

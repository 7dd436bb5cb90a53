package analysis

import "strings"

// 关键词表按顺序匹配，先命中者生效

type categoryRule struct {
	category Category
	label    string
	keywords []string
}

var categoryRules = []categoryRule{
	{CategoryGacha, "Gacha button", []string{"scout", "gacha", "summon", "pull"}},
	{CategoryNavigation, "Navigation", []string{"menu", "home"}},
	{CategoryInventory, "Inventory", []string{"inventory", "items", "bag"}},
	{CategoryShop, "Shop", []string{"shop", "store", "buy"}},
}

type stateRule struct {
	state    ScreenState
	keywords []string
}

var stateRules = []stateRule{
	{StateMainMenu, []string{"menu", "home"}},
	{StateGacha, []string{"gacha", "scout", "summon"}},
	{StateInventory, []string{"inventory", "items"}},
	{StateBattle, []string{"battle", "fight"}},
	{StateShop, []string{"shop", "store"}},
	{StateLoading, []string{"loading"}},
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// categorize 返回类别和描述
func categorize(text string) (Category, string) {
	lower := strings.ToLower(text)
	for _, r := range categoryRules {
		if containsAny(lower, r.keywords) {
			return r.category, r.label + ": " + text
		}
	}
	return CategoryUnknown, text
}

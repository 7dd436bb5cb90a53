package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/vision/cv"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/vision/ocr"
)

// region 以 (cx, cy) 为中心构造 w×h 的文本区域
func region(text string, conf float64, cx, cy, w, h int) ocr.TextRegion {
	return ocr.TextRegion{
		Region:     ocr.QuadFromRect(image.Rect(cx-w/2, cy-h/2, cx-w/2+w, cy-h/2+h)),
		Text:       text,
		Confidence: conf,
	}
}

func texts(elements []UIElement) []string {
	out := make([]string, len(elements))
	for i, e := range elements {
		out[i] = e.Text
	}
	return out
}

func TestClassifyElementsConfidenceBoundary(t *testing.T) {
	regions := []ocr.TextRegion{
		region("Exactly", 0.5, 100, 100, 40, 20),
		region("Below", 0.4999, 100, 200, 40, 20),
		region("Above", 0.5001, 100, 300, 40, 20),
		region("Low", 0.1, 100, 400, 40, 20),
	}

	got := texts(ClassifyElements(regions))
	if !reflect.DeepEqual(got, []string{"Above"}) {
		t.Errorf("只有置信度 > 0.5 的区域应输出, 实际 %v", got)
	}
}

func TestClassifyElementsCategories(t *testing.T) {
	regions := []ocr.TextRegion{
		region("Scout x10", 0.9, 10, 10, 10, 10),
		region("HOME", 0.9, 20, 20, 10, 10),
		region("Item Bag", 0.9, 30, 30, 10, 10),
		region("Gem Store", 0.9, 40, 40, 10, 10),
		region("Settings", 0.9, 50, 50, 10, 10),
		// gacha 优先于 shop
		region("Buy Summon Tickets", 0.9, 60, 60, 10, 10),
	}
	elements := ClassifyElements(regions)

	want := []struct {
		cat  Category
		desc string
	}{
		{CategoryGacha, "Gacha button: Scout x10"},
		{CategoryNavigation, "Navigation: HOME"},
		{CategoryInventory, "Inventory: Item Bag"},
		{CategoryShop, "Shop: Gem Store"},
		{CategoryUnknown, "Settings"},
		{CategoryGacha, "Gacha button: Buy Summon Tickets"},
	}
	if len(elements) != len(want) {
		t.Fatalf("元素数量错误: %d", len(elements))
	}
	for i, w := range want {
		e := elements[i]
		if e.Category != w.cat || e.Description != w.desc {
			t.Errorf("元素 %d: 期望 %s/%q, 实际 %s/%q", i, w.cat, w.desc, e.Category, e.Description)
		}
		if !e.Clickable {
			t.Errorf("元素 %d 应可点击", i)
		}
	}
	if elements[1].Position != (Point{20, 20}) {
		t.Errorf("位置应为区域中心: %v", elements[1].Position)
	}
}

func TestClassifyElementsKeepsOrder(t *testing.T) {
	regions := []ocr.TextRegion{
		region("zeta", 0.9, 500, 500, 10, 10),
		region("alpha", 0.9, 10, 10, 10, 10),
		region("mid", 0.9, 200, 50, 10, 10),
	}
	got := texts(ClassifyElements(regions))
	if !reflect.DeepEqual(got, []string{"zeta", "alpha", "mid"}) {
		t.Errorf("应保持识别顺序, 实际 %v", got)
	}
}

func TestExtractCurrencyPositions(t *testing.T) {
	const w, h = 1000, 800 // 顶部区域 y < 120，左侧 x < 400，右侧 x > 600
	regions := []ocr.TextRegion{
		region("12,345", 0.9, 100, 40, 80, 20),  // gems
		region("9,876", 0.9, 900, 40, 80, 20),   // coins
		region("5555", 0.9, 500, 40, 80, 20),    // 中间区域
		region("7777", 0.9, 100, 300, 80, 20),   // 不在顶部
		region("8888", 0.9, 100, 120, 80, 20),   // 恰好在 0.15H 边界上
		region("6666", 0.6, 900, 60, 80, 20),    // 置信度不足
	}

	got := ExtractCurrency(regions, w, h)
	if len(got) != 2 {
		t.Fatalf("应只有 gems 和 coins, 实际 %+v", got)
	}
	gems := got[CurrencyGems]
	if gems.Value != "12345" || gems.DisplayValue != "12,345" || gems.Position != (Point{100, 40}) {
		t.Errorf("gems 错误: %+v", gems)
	}
	if coins := got[CurrencyCoins]; coins.Value != "9876" {
		t.Errorf("coins 错误: %+v", coins)
	}
}

func TestExtractCurrencyOutsideWindows(t *testing.T) {
	regions := []ocr.TextRegion{
		region("100", 0.99, 500, 10, 20, 10),
		region("200", 0.99, 100, 500, 20, 10),
		region("300", 0.99, 900, 799, 20, 10),
	}
	if got := ExtractCurrency(regions, 1000, 800); len(got) != 0 {
		t.Errorf("位置窗口外的数字不应填充货币: %+v", got)
	}
}

func TestExtractCurrencyNoDigits(t *testing.T) {
	regions := []ocr.TextRegion{
		region("Gems", 0.95, 100, 20, 40, 20),
		region(",,,", 0.95, 100, 20, 40, 20),
	}
	if got := ExtractCurrency(regions, 1000, 800); len(got) != 0 {
		t.Errorf("无数字文本应跳过: %+v", got)
	}
}

func TestExtractCurrencyLongestRun(t *testing.T) {
	regions := []ocr.TextRegion{region("x2 1,500 +30", 0.9, 100, 20, 60, 20)}
	got := ExtractCurrency(regions, 1000, 800)
	if got[CurrencyGems].DisplayValue != "1,500" {
		t.Errorf("应取最长数字串, 实际 %+v", got[CurrencyGems])
	}

	if run, _ := longestNumber("12 34"); run != "12" {
		t.Errorf("等长时应取先出现者, 实际 %q", run)
	}
}

func TestExtractCurrencyTieBreak(t *testing.T) {
	regions := []ocr.TextRegion{
		region("300", 0.7, 100, 20, 40, 20),
		region("1600", 0.95, 120, 30, 40, 20),
		region("50", 0.8, 140, 40, 40, 20),
	}
	got := ExtractCurrency(regions, 1000, 800)
	if got[CurrencyGems].Value != "1600" {
		t.Errorf("应取置信度最高者, 实际 %+v", got[CurrencyGems])
	}

	// 顺序无关
	reversed := []ocr.TextRegion{regions[2], regions[1], regions[0]}
	if again := ExtractCurrency(reversed, 1000, 800); again[CurrencyGems] != got[CurrencyGems] {
		t.Errorf("结果不应依赖识别顺序: %+v vs %+v", again[CurrencyGems], got[CurrencyGems])
	}

	equal := []ocr.TextRegion{
		region("111", 0.9, 100, 20, 40, 20),
		region("222", 0.9, 120, 30, 40, 20),
	}
	if v := ExtractCurrency(equal, 1000, 800)[CurrencyGems].Value; v != "111" {
		t.Errorf("置信度相同时应保留先出现者, 实际 %s", v)
	}
}

func TestClassifyStatePrecedence(t *testing.T) {
	cases := []struct {
		texts []string
		want  ScreenState
	}{
		{[]string{"Home", "Menu"}, StateMainMenu},
		{[]string{"Summon", "Home"}, StateMainMenu},
		{[]string{"Battle"}, StateBattle},
		{[]string{"Fight", "Shop"}, StateBattle},
		{[]string{"GACHA"}, StateGacha},
		{[]string{"Items"}, StateInventory},
		{[]string{"Store"}, StateShop},
		{[]string{"Loading..."}, StateLoading},
		{[]string{"Settings", "OK"}, StateUnknown},
		{nil, StateUnknown},
	}
	for _, c := range cases {
		var elements []UIElement
		for _, s := range c.texts {
			elements = append(elements, UIElement{Text: s})
		}
		if got := ClassifyState(elements); got != c.want {
			t.Errorf("%v: 期望 %s, 实际 %s", c.texts, c.want, got)
		}
	}
}

func TestClassifyStateIgnoresLowConfidence(t *testing.T) {
	regions := []ocr.TextRegion{
		region("Battle", 0.9, 10, 10, 10, 10),
		region("Menu", 0.3, 20, 20, 10, 10),
	}
	if got := ClassifyState(ClassifyElements(regions)); got != StateBattle {
		t.Errorf("低置信度文本不应参与状态判断, 实际 %s", got)
	}
}

func gems(v string) map[string]CurrencyEntry {
	return map[string]CurrencyEntry{CurrencyGems: {Value: v, DisplayValue: v}}
}

func TestSuggestActionsGems(t *testing.T) {
	got := SuggestActions(StateGacha, nil, gems("1500"))
	if !reflect.DeepEqual(got, []string{"Perform 10x summon (recommended)"}) {
		t.Errorf("1500 宝石应建议十连: %v", got)
	}

	got = SuggestActions(StateGacha, nil, gems("100"))
	if !reflect.DeepEqual(got, []string{"Insufficient gems for summoning"}) {
		t.Errorf("100 宝石应提示不足: %v", got)
	}

	got = SuggestActions(StateGacha, nil, gems("150"))
	if !reflect.DeepEqual(got, []string{"Perform single summon"}) {
		t.Errorf("150 宝石应建议单抽: %v", got)
	}

	if got := SuggestActions(StateGacha, nil, map[string]CurrencyEntry{}); len(got) != 0 {
		t.Errorf("没有宝石读数时不应有货币建议: %v", got)
	}
	if got := SuggestActions(StateShop, nil, gems("5000")); len(got) != 0 {
		t.Errorf("非抽卡画面不应有货币建议: %v", got)
	}
}

func TestSuggestActionsMainMenuAndButton(t *testing.T) {
	elements := []UIElement{
		{Text: "Home", Category: CategoryNavigation, Position: Point{1, 1}},
		{Text: "Summon", Category: CategoryGacha, Position: Point{320, 540}},
		{Text: "Scout", Category: CategoryGacha, Position: Point{10, 10}},
	}
	got := SuggestActions(StateMainMenu, elements, nil)
	want := []string{
		"Click on gacha/scout button to access summoning",
		"Check inventory for items",
		"Look for daily missions or events",
		"Gacha button found at [320, 540]",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("建议错误:\n  实际 %v\n  期望 %v", got, want)
	}
}

func redFrame(w, h int, rects ...image.Rectangle) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.Set(x, y, color.RGBA{R: 235, G: 25, B: 25, A: 255})
			}
		}
	}
	return img
}

func TestDetectBadgesSquare(t *testing.T) {
	// 20×22，中心 (50, 60)
	rep, err := NewAnalyzer(nil).Analyze(redFrame(200, 150, image.Rect(40, 49, 60, 71)))
	if err != nil {
		t.Fatalf("分析失败: %v", err)
	}
	defer rep.Close()

	badges := rep.Result.Notifications
	if len(badges) != 1 {
		t.Fatalf("应检测到 1 个角标, 实际 %d: %+v", len(badges), badges)
	}
	b := badges[0]
	if b.Position != (Point{50, 60}) || b.Size != [2]int{20, 22} {
		t.Errorf("角标位置或尺寸错误: %+v", b)
	}
	if b.Type != BadgeType || b.Description != "Red notification badge at (50, 60)" {
		t.Errorf("角标描述错误: %+v", b)
	}
}

func TestDetectBadgesRejectsShapes(t *testing.T) {
	cases := map[string]image.Rectangle{
		"3:1 长条": image.Rect(32, 54, 68, 66),
		"过大":     image.Rect(10, 10, 80, 80),
		"过小":     image.Rect(10, 10, 16, 16),
	}
	for name, r := range cases {
		rep, err := NewAnalyzer(nil).Analyze(redFrame(200, 150, r))
		if err != nil {
			t.Fatalf("%s: 分析失败: %v", name, err)
		}
		if n := len(rep.Result.Notifications); n != 0 {
			t.Errorf("%s: 不应检测到角标, 实际 %d", name, n)
		}
		rep.Close()
	}
}

func TestFilterBadgesBoundaries(t *testing.T) {
	blob := func(w, h int, area float64) cv.Blob {
		return cv.Blob{Rect: image.Rect(0, 0, w, h), Area: area}
	}
	// 面积和宽高比都是开区间
	cases := []struct {
		name string
		blob cv.Blob
		want int
	}{
		{"面积 50", blob(10, 10, 50), 0},
		{"面积 51", blob(10, 10, 51), 1},
		{"面积 2000", blob(10, 10, 2000), 0},
		{"面积 1999", blob(10, 10, 1999), 1},
		{"宽高比 0.7", blob(7, 10, 60), 0},
		{"宽高比 1.3", blob(13, 10, 60), 0},
		{"宽高比 1.2", blob(12, 10, 60), 1},
		{"高度 0", blob(10, 0, 60), 0},
	}
	for _, c := range cases {
		if got := len(filterBadges([]cv.Blob{c.blob})); got != c.want {
			t.Errorf("%s: 期望 %d 个角标, 实际 %d", c.name, c.want, got)
		}
	}
}

type fakeRecognizer struct {
	regions []ocr.TextRegion
	err     error
	calls   int
}

func (f *fakeRecognizer) Recognize(image.Image) ([]ocr.TextRegion, error) {
	f.calls++
	return f.regions, f.err
}

func (f *fakeRecognizer) Close() error { return nil }

func TestAnalyzeRecognitionFailure(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("model crashed")}
	rep, err := NewAnalyzer(rec).Analyze(redFrame(200, 150, image.Rect(40, 49, 60, 71)))
	if err != nil {
		t.Fatalf("OCR 失败不应中断分析: %v", err)
	}
	defer rep.Close()

	if rep.RecognitionErr == nil {
		t.Error("应记录 OCR 失败原因")
	}
	res := rep.Result
	if res.ScreenState != StateUnknown || len(res.UIElements) != 0 || len(res.Currency) != 0 {
		t.Errorf("OCR 失败时文本相关字段应为空: %+v", res)
	}
	if len(res.Notifications) != 1 {
		t.Errorf("角标检测不依赖 OCR, 应仍检测到 1 个: %+v", res.Notifications)
	}
}

func sampleRegions() []ocr.TextRegion {
	return []ocr.TextRegion{
		region("1,800", 0.93, 120, 30, 60, 20),
		region("45,000", 0.88, 880, 30, 80, 20),
		region("Summon", 0.97, 500, 600, 120, 40),
		region("Scout x10", 0.81, 700, 600, 120, 40),
		region("Shop", 0.52, 100, 700, 60, 30),
		region("noise", 0.2, 10, 10, 10, 10),
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	frame := redFrame(1000, 800, image.Rect(40, 49, 60, 71))
	rec := &fakeRecognizer{regions: sampleRegions()}
	a := NewAnalyzer(rec)

	var outputs [][]byte
	for i := 0; i < 2; i++ {
		rep, err := a.Analyze(frame)
		if err != nil {
			t.Fatalf("分析失败: %v", err)
		}
		data, err := json.Marshal(rep.Result)
		rep.Close()
		if err != nil {
			t.Fatalf("序列化失败: %v", err)
		}
		outputs = append(outputs, data)
	}

	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Errorf("相同输入应得到相同输出:\n%s\n%s", outputs[0], outputs[1])
	}
	if rec.calls != 2 {
		t.Errorf("每次分析都应重新识别, 实际调用 %d 次", rec.calls)
	}
	t.Logf("分析结果: %s", outputs[0])
}

func TestBuildGachaScreen(t *testing.T) {
	res := Build(sampleRegions(), nil, 1000, 800)

	if res.ScreenState != StateGacha {
		t.Errorf("应为 gacha_screen, 实际 %s", res.ScreenState)
	}
	want := []string{"Perform 10x summon (recommended)", "Gacha button found at [500, 600]"}
	if !reflect.DeepEqual(res.SuggestedActions, want) {
		t.Errorf("建议错误: %v", res.SuggestedActions)
	}
	if res.Notifications == nil {
		t.Error("Notifications 不应为 nil")
	}
}

func TestResultJSONRoundTrip(t *testing.T) {
	res := Build(sampleRegions(), []NotificationBadge{{
		Type: BadgeType, Position: Point{50, 60}, Size: [2]int{20, 22},
		Description: "Red notification badge at (50, 60)",
	}}, 1000, 800)

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}

	var back Result
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("反序列化失败: %v", err)
	}
	if !reflect.DeepEqual(res, back) {
		t.Errorf("往返后数据不一致:\n  原始 %+v\n  往返 %+v", res, back)
	}

	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	for _, key := range []string{"screen_state", "currency", "ui_elements", "notifications", "suggested_actions"} {
		if _, ok := shape[key]; !ok {
			t.Errorf("缺少字段 %s", key)
		}
	}

	var elems []map[string]json.RawMessage
	if err := json.Unmarshal(shape["ui_elements"], &elems); err != nil {
		t.Fatalf("解析 ui_elements 失败: %v", err)
	}
	for _, key := range []string{"text", "type", "position", "bbox", "confidence", "description", "clickable"} {
		if _, ok := elems[0][key]; !ok {
			t.Errorf("ui_elements 缺少字段 %s", key)
		}
	}
	if string(elems[0]["position"]) != "[120,30]" {
		t.Errorf("position 应编码为 [x,y], 实际 %s", elems[0]["position"])
	}
}

func TestEmptyResultJSON(t *testing.T) {
	data, err := json.Marshal(Empty())
	if err != nil {
		t.Fatalf("序列化失败: %v", err)
	}
	want := `{"screen_state":"unknown_screen","currency":{},"ui_elements":[],"notifications":[],"suggested_actions":[]}`
	if string(data) != want {
		t.Errorf("空结果格式错误: %s", data)
	}
}

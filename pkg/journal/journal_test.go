package journal

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/analysis"
)

func openTemp(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("打开记录库失败: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenMigrates(t *testing.T) {
	j := openTemp(t)

	v, err := j.Version()
	if err != nil {
		t.Fatal(err)
	}
	if v != len(migrations) {
		t.Errorf("库版本应为 %d, 实际 %d", len(migrations), v)
	}

	// 重复迁移不应报错
	if err := j.migrate(); err != nil {
		t.Errorf("重复迁移失败: %v", err)
	}
	if n, _ := j.Count(); n != 0 {
		t.Errorf("新库应为空, 实际 %d 条", n)
	}
}

func TestRecordAndRecent(t *testing.T) {
	j := openTemp(t)

	res := analysis.Empty()
	res.ScreenState = analysis.StateMainMenu
	res.Currency[analysis.CurrencyGems] = analysis.CurrencyEntry{Value: "1800", DisplayValue: "1,800", Position: analysis.Point{100, 30}}
	res.SuggestedActions = []string{"Can do 10-pull gacha"}

	if _, err := j.Record("analyze_game_state", "BlueStacks", res, "/tmp/a.png"); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	res.ScreenState = analysis.StateGacha
	if _, err := j.Record("get_game_summary", "BlueStacks", res, ""); err != nil {
		t.Fatalf("写入失败: %v", err)
	}

	entries, err := j.Recent(10, true)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("应有 2 条记录, 实际 %d", len(entries))
	}
	if entries[0].Tool != "get_game_summary" || entries[0].ScreenState != "gacha_screen" {
		t.Errorf("记录应按时间倒序: %+v", entries[0])
	}
	if entries[1].Gems != "1800" || entries[1].Coins != "" || entries[1].ScreenshotPath != "/tmp/a.png" {
		t.Errorf("记录字段错误: %+v", entries[1])
	}
	if entries[1].CreatedAt.IsZero() {
		t.Error("创建时间未解析")
	}

	var back analysis.Result
	if err := json.Unmarshal(entries[1].Result, &back); err != nil {
		t.Fatalf("结果 JSON 无法解析: %v", err)
	}
	if back.Currency[analysis.CurrencyGems].DisplayValue != "1,800" {
		t.Errorf("结果 JSON 内容错误: %+v", back)
	}

	limited, err := j.Recent(1, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].Result != nil {
		t.Errorf("limit=1 且不带结果时应只返回摘要: %+v", limited)
	}
}

// Package journal 将每次分析结果记录到本地 SQLite，供 get_analysis_history 查询
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/analysis"
)

// DefaultLimit get_analysis_history 默认条数
const DefaultLimit = 20

// Entry 一条分析记录
type Entry struct {
	ID             int64           `json:"id"`
	Tool           string          `json:"tool"`
	WindowTitle    string          `json:"window_title"`
	ScreenState    string          `json:"screen_state"`
	Gems           string          `json:"gems,omitempty"`
	Coins          string          `json:"coins,omitempty"`
	ElementCount   int             `json:"ui_element_count"`
	BadgeCount     int             `json:"notification_count"`
	ScreenshotPath string          `json:"screenshot_path,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Journal 分析记录库
type Journal struct {
	conn *sql.DB
	path string
}

// Open 打开或创建记录库
func Open(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("创建记录库目录失败: %w", err)
	}

	conn, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("打开记录库失败: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("连接记录库失败: %w", err)
	}

	// SQLite 单连接
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	j := &Journal{conn: conn, path: dbPath}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return j, nil
}

// Close 关闭记录库
func (j *Journal) Close() error {
	if j == nil || j.conn == nil {
		return nil
	}
	return j.conn.Close()
}

// Path 记录库文件路径
func (j *Journal) Path() string {
	return j.path
}

// ExecTx 在事务中执行
func (j *Journal) ExecTx(fn func(*sql.Tx) error) error {
	tx, err := j.conn.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("事务失败: %v, 回滚失败: %w", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// Record 写入一条分析记录
func (j *Journal) Record(tool, windowTitle string, res analysis.Result, screenshotPath string) (int64, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return 0, fmt.Errorf("序列化分析结果失败: %w", err)
	}

	var id int64
	err = j.ExecTx(func(tx *sql.Tx) error {
		r, err := tx.Exec(`INSERT INTO analyses
			(tool, window_title, screen_state, gems, coins, element_count, badge_count, screenshot_path, result, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tool, windowTitle, string(res.ScreenState),
			res.Currency[analysis.CurrencyGems].Value, res.Currency[analysis.CurrencyCoins].Value,
			len(res.UIElements), len(res.Notifications),
			screenshotPath, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
		if err != nil {
			return err
		}
		id, err = r.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("写入分析记录失败: %w", err)
	}
	return id, nil
}

// Recent 最近的分析记录，按时间倒序
func (j *Journal) Recent(limit int, withResult bool) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := j.conn.Query(`SELECT id, tool, window_title, screen_state, gems, coins,
		element_count, badge_count, screenshot_path, result, created_at
		FROM analyses ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("查询分析记录失败: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var result, created string
		if err := rows.Scan(&e.ID, &e.Tool, &e.WindowTitle, &e.ScreenState, &e.Gems, &e.Coins,
			&e.ElementCount, &e.BadgeCount, &e.ScreenshotPath, &result, &created); err != nil {
			return nil, fmt.Errorf("读取分析记录失败: %w", err)
		}
		if withResult {
			e.Result = json.RawMessage(result)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count 记录总数
func (j *Journal) Count() (int, error) {
	var n int
	err := j.conn.QueryRow("SELECT COUNT(*) FROM analyses").Scan(&n)
	return n, err
}

package journal

import (
	"database/sql"
	"fmt"
	"time"
)

type migration struct {
	version     int
	description string
	up          string
}

var migrations = []migration{
	{
		version:     1,
		description: "create analyses table",
		up: `CREATE TABLE IF NOT EXISTS analyses (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			tool            TEXT NOT NULL,
			window_title    TEXT NOT NULL DEFAULT '',
			screen_state    TEXT NOT NULL,
			gems            TEXT NOT NULL DEFAULT '',
			coins           TEXT NOT NULL DEFAULT '',
			element_count   INTEGER NOT NULL DEFAULT 0,
			badge_count     INTEGER NOT NULL DEFAULT 0,
			screenshot_path TEXT NOT NULL DEFAULT '',
			result          TEXT NOT NULL,
			created_at      TEXT NOT NULL
		)`,
	},
	{
		version:     2,
		description: "index analyses by screen state",
		up:          `CREATE INDEX IF NOT EXISTS idx_analyses_state ON analyses(screen_state)`,
	},
}

// migrate 执行未应用的迁移
func (j *Journal) migrate() error {
	if _, err := j.conn.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("创建版本表失败: %w", err)
	}

	current, err := j.Version()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := j.ExecTx(func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.up); err != nil {
				return err
			}
			_, err := tx.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
				m.version, time.Now().UTC().Format(time.RFC3339))
			return err
		})
		if err != nil {
			return fmt.Errorf("迁移 %d (%s) 失败: %w", m.version, m.description, err)
		}
	}
	return nil
}

// Version 当前库结构版本
func (j *Journal) Version() (int, error) {
	var v sql.NullInt64
	if err := j.conn.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("读取库版本失败: %w", err)
	}
	return int(v.Int64), nil
}

package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARN,
		"error":   ERROR,
		"bogus":   INFO,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, 期望 %s", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf)
	l.SetLevel(WARN)

	l.Info("不应输出 %d", 1)
	l.Warn("应该输出 %d", 2)

	out := buf.String()
	if strings.Contains(out, "不应输出") {
		t.Errorf("INFO 日志在 WARN 级别下不应输出: %q", out)
	}
	if !strings.Contains(out, "应该输出 2") {
		t.Errorf("WARN 日志缺失: %q", out)
	}
}

func TestDisabledLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf)
	l.SetEnabled(false)
	l.Error("silent")

	if buf.Len() != 0 {
		t.Errorf("禁用后不应有输出, 实际: %q", buf.String())
	}
}

func TestLogEvent(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf)

	l.LogEvent("OCR", true, 12.5, "识别到 3 个文本")
	l.LogEvent("CAP", false, 1, "截图失败")

	out := buf.String()
	if !strings.Contains(out, "OK") || !strings.Contains(out, "识别到 3 个文本") {
		t.Errorf("成功事件格式错误: %q", out)
	}
	if !strings.Contains(out, "NG") {
		t.Errorf("失败事件应标记 NG: %q", out)
	}
}

func TestFileOutput(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf)
	l.SetConsole(false)

	path := filepath.Join(t.TempDir(), "gachamcp.log")
	if err := l.SetFile(true, path); err != nil {
		t.Fatalf("SetFile 失败: %v", err)
	}
	l.Info("写入文件 %s", "ok")
	if err := l.Close(); err != nil {
		t.Fatalf("Close 失败: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	if !strings.Contains(string(data), "写入文件 ok") {
		t.Errorf("日志文件内容错误: %q", string(data))
	}
	if buf.Len() != 0 {
		t.Errorf("关闭控制台后不应写 stderr: %q", buf.String())
	}
}

func TestLogEventFileAttrs(t *testing.T) {
	l := newWithWriter(&bytes.Buffer{})
	l.SetConsole(false)

	path := filepath.Join(t.TempDir(), "logs", "nested", "events.log")
	if err := l.SetFile(true, path); err != nil {
		t.Fatalf("SetFile 应自动创建目录: %v", err)
	}
	l.LogEvent("TOOL", false, 3.5, "find_game_window")
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	out := string(data)
	for _, want := range []string{"level=ERROR", "category=TOOL", "ok=false", "elapsed_ms=3.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("日志缺少 %q: %q", want, out)
		}
	}
}

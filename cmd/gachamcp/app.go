package main

import (
	"time"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/analysis"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto/input"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto/screen"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/auto/window"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/config"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/executor"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/journal"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/permissions"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/session"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/vision/ocr"
)

// app serve 和 worker 共用的运行时
type app struct {
	windows    *window.RobotgoManager
	recognizer ocr.Recognizer
	journal    *journal.Journal
	exec       *executor.Executor
}

func ocrConfig(c config.OCRConfig) ocr.Config {
	return ocr.Config{
		Engine:             c.Engine,
		OnnxRuntimeLibPath: c.OnnxRuntimePath,
		DetModelPath:       c.DetModelPath,
		RecModelPath:       c.RecModelPath,
		DictPath:           c.DictPath,
		Languages:          c.Languages,
	}.WithDefaults()
}

// newRecognizer OCR 引擎初始化失败时返回 nil，分析降级为只检测角标
func newRecognizer(c config.OCRConfig) ocr.Recognizer {
	rec, err := ocr.NewRecognizer(ocrConfig(c))
	if err != nil {
		logger.Warn("OCR 引擎初始化失败，文字识别不可用: %v", err)
		return nil
	}
	logger.Info("OCR 引擎: %s", c.Engine)
	return rec
}

func newApp(cfg *config.Config) *app {
	if ok, instructions := permissions.Ensure(); !ok {
		logger.Warn("%s", instructions)
	}

	a := &app{
		windows:    window.NewRobotgoManager(),
		recognizer: newRecognizer(cfg.OCR),
	}

	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			logger.Warn("打开分析历史失败，不记录历史: %v", err)
		} else {
			a.journal = j
			logger.Info("分析历史: %s", j.Path())
		}
	}

	sess := session.New(a.windows, screen.NewRobotgoGrabber(), input.NewRobotgoSynthesizer(), session.Options{
		CaptureSettle:  time.Duration(cfg.CaptureSettleMs) * time.Millisecond,
		ClickSettle:    time.Duration(cfg.ClickSettleMs) * time.Millisecond,
		NormalizeHiDPI: cfg.NormalizeHiDPI,
	})

	a.exec = executor.New(sess, analysis.NewAnalyzer(a.recognizer), a.journal, executor.Options{
		ScreenshotsDir:      cfg.ScreenshotsDir,
		SaveScreenshots:     cfg.SaveScreenshots,
		AnnotateScreenshots: cfg.AnnotateScreenshots,
	})
	return a
}

func (a *app) Close() {
	if a.recognizer != nil {
		if err := a.recognizer.Close(); err != nil {
			logger.Warn("关闭 OCR 引擎失败: %v", err)
		}
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			logger.Warn("关闭分析历史失败: %v", err)
		}
	}
}

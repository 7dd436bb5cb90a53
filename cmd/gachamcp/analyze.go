package main

import (
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/spf13/cobra"

	"github.com/NguyenHuynhPhuVinh/GachaMCP/internal/logger"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/analysis"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/vision/cv"
	"github.com/NguyenHuynhPhuVinh/GachaMCP/pkg/vision/ocr"
)

var annotatedPath string

var analyzeCmd = &cli.Command{
	Use:   "analyze <image>",
	Short: "离线分析一张保存的截图",
	Args:  cli.ExactArgs(1),
	RunE:  Analyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&annotatedPath, "save-annotated", "", "保存标注后的调试图到指定路径")
	rootCmd.AddCommand(analyzeCmd)
}

func Analyze(cmd *cli.Command, args []string) error {
	img, err := ocr.LoadImage(args[0])
	if err != nil {
		return err
	}

	rec := newRecognizer(cfg.OCR)
	if rec != nil {
		defer rec.Close()
	}

	report, err := analysis.NewAnalyzer(rec).Analyze(img)
	if err != nil {
		return err
	}
	defer report.Close()

	if report.RecognitionErr != nil {
		logger.Warn("文字识别失败: %v", report.RecognitionErr)
	}

	if annotatedPath != "" {
		annotated := cv.Annotate(report.Frame, report.Annotations())
		err := cv.WriteImage(annotatedPath, annotated)
		annotated.Close()
		if err != nil {
			return fmt.Errorf("保存标注图失败: %w", err)
		}
		logger.Info("标注图已保存: %s", annotatedPath)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report.Result)
}

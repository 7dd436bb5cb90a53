package cv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
)

var writableExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".bmp": true}

// ReadImage 读取图像文件为 BGR Mat，调用方负责 Close
func ReadImage(path string) (gocv.Mat, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("无法读取图像: %s", path)
	}
	return mat, nil
}

// WriteImage 写入 BGR Mat，按扩展名选择格式，目录不存在时创建
func WriteImage(path string, mat gocv.Mat) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !writableExt[ext] {
		return fmt.Errorf("不支持的图像格式 %q: %s", ext, path)
	}
	if mat.Empty() {
		return fmt.Errorf("图像为空: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}
	if !gocv.IMWrite(path, mat) {
		return fmt.Errorf("保存图像失败: %s", path)
	}
	return nil
}

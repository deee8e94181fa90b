package renderer

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/blueprint/fonts"
)

// FallbackFont 是任何字体加载失败时使用的内置字体。
const FallbackFont = "embed:Go-Regular"

// ResolveAsset 将相对路径拼接到 baseDir 上；未指定 baseDir 时拒绝相对路径。
func ResolveAsset(baseDir, path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	if baseDir == "" {
		return "", fmt.Errorf("未指定资源目录时不允许直接使用相对路径：%s", path)
	}
	return filepath.Join(baseDir, path), nil
}

// ReadFont 读取字体数据，src 可以是 embed:<name> 或资源目录下的文件。
func ReadFont(baseDir, src string) ([]byte, error) {
	if src == "" {
		src = FallbackFont
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path, err := ResolveAsset(baseDir, src)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// DecodeImage 读取并解码资源目录下的图片。
func DecodeImage(baseDir, path string) (image.Image, error) {
	full, err := ResolveAsset(baseDir, path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", path, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", path, err)
	}
	return img, nil
}

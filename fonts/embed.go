package fonts

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// builtin 保存随二进制分发的 Go 字体（TTF 字节）。
var builtin = map[string][]byte{
	"Go-Regular": goregular.TTF,
	"Go-Bold":    gobold.TTF,
	"Go-Italic":  goitalic.TTF,
	"Go-Mono":    gomono.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:Go-Regular"、"Go-Regular" 或 "Go-Regular.ttf"。
func Load(name string) ([]byte, error) {
	key := strings.TrimSuffix(strings.TrimPrefix(name, "embed:"), ".ttf")
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字体", name)
	}
	return data, nil
}

// Names lists the built-in font names.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for k := range builtin {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

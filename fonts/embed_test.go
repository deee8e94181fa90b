package fonts

import "testing"

func TestLoadAcceptsPrefixes(t *testing.T) {
	for _, name := range []string{"embed:Go-Regular", "Go-Bold", "Go-Mono.ttf", "embed:Go-Italic.ttf"} {
		data, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q) 失败: %v", name, err)
		}
		if len(data) < 1024 {
			t.Fatalf("Load(%q) 返回的数据过短: %d", name, len(data))
		}
	}
	if _, err := Load("embed:Inter/static/Inter-Regular.ttf"); err == nil {
		t.Fatalf("未知字体应返回错误")
	}
	if got := len(Names()); got != 4 {
		t.Fatalf("内置字体数量期望 4，实际 %d", got)
	}
}

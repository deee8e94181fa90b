package binding

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将脚本文本中的 ${path.to.value} 替换为 data 中的值，
// ${path|默认值} 在路径不存在时使用默认值。
// 没有默认值且路径不存在时保留原占位符。
func Interpolate(text string, data any) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path, def, hasDefault := strings.Cut(groups[1], "|")
		path = strings.TrimSpace(path)
		if path == "" {
			return match
		}
		if val, ok := Lookup(data, path); ok {
			return fmt.Sprint(val)
		}
		if hasDefault {
			return def
		}
		return match
	})
}

// Lookup 按 a.b[0].c 形式的路径取值。
func Lookup(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	return resolvePath(data, path)
}

// Placeholders 返回文本中引用的全部路径（去掉默认值部分），用于校验数据是否齐全。
func Placeholders(text string) []string {
	var out []string
	for _, m := range exprPattern.FindAllStringSubmatch(text, -1) {
		path, _, _ := strings.Cut(m[1], "|")
		if path = strings.TrimSpace(path); path != "" {
			out = append(out, path)
		}
	}
	return out
}

// step 是路径中的一段：map 键或数组下标。
type step struct {
	key   string
	index int
	isIdx bool
}

// parsePath 将 a.b[0].c 拆成 a、b、[0]、c。
func parsePath(path string) ([]step, bool) {
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name := segment
		rest := ""
		if i := strings.IndexByte(segment, '['); i >= 0 {
			name, rest = segment[:i], segment[i:]
		}
		if name != "" {
			steps = append(steps, step{key: name})
		} else if rest == "" {
			return nil, false
		}
		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end < 0 {
				return nil, false
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil || idx < 0 {
				return nil, false
			}
			steps = append(steps, step{index: idx, isIdx: true})
			rest = rest[end+1:]
		}
	}
	return steps, true
}

func resolvePath(data any, path string) (any, bool) {
	steps, ok := parsePath(path)
	if !ok {
		return nil, false
	}
	current := reflect.ValueOf(data)
	for _, st := range steps {
		current = indirect(current)
		if !current.IsValid() {
			return nil, false
		}
		switch {
		case st.isIdx:
			if k := current.Kind(); k != reflect.Slice && k != reflect.Array {
				return nil, false
			}
			if st.index >= current.Len() {
				return nil, false
			}
			current = current.Index(st.index)
		case current.Kind() == reflect.Map && current.Type().Key().Kind() == reflect.String:
			v := current.MapIndex(reflect.ValueOf(st.key).Convert(current.Type().Key()))
			if !v.IsValid() {
				return nil, false
			}
			current = v
		default:
			return nil, false
		}
	}
	current = indirect(current)
	if !current.IsValid() {
		return nil, true
	}
	return current.Interface(), true
}

// indirect 解开 interface 与指针。
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

package editor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Style 是已知展示键的类型化记录；未知键通过 Extra 透传。
// 空字符串表示"未设置"，渲染时使用该类型的默认值。
type Style struct {
	Width           string
	Height          string
	BackgroundColor string
	Color           string
	FontFamily      string
	FontSize        string
	FontWeight      string
	Padding         string
	BorderRadius    string
	Border          string
	BoxShadow       string
	TextAlign       string
	Display         string
	FlexDirection   string
	Gap             string
	AlignItems      string
	JustifyContent  string
	VerticalAlign   string
	ZIndex          string
	Extra           map[string]string
}

type styleField struct {
	key string
	ptr *string
}

// fields maps CSS-style JSON keys onto the typed fields, in output order.
func (s *Style) fields() []styleField {
	return []styleField{
		{"width", &s.Width},
		{"height", &s.Height},
		{"backgroundColor", &s.BackgroundColor},
		{"color", &s.Color},
		{"fontFamily", &s.FontFamily},
		{"fontSize", &s.FontSize},
		{"fontWeight", &s.FontWeight},
		{"padding", &s.Padding},
		{"borderRadius", &s.BorderRadius},
		{"border", &s.Border},
		{"boxShadow", &s.BoxShadow},
		{"textAlign", &s.TextAlign},
		{"display", &s.Display},
		{"flexDirection", &s.FlexDirection},
		{"gap", &s.Gap},
		{"alignItems", &s.AlignItems},
		{"justifyContent", &s.JustifyContent},
		{"verticalAlign", &s.VerticalAlign},
		{"zIndex", &s.ZIndex},
	}
}

// Get returns the value stored under a CSS key, known or passthrough.
func (s Style) Get(key string) string {
	for _, f := range s.fields() {
		if f.key == key {
			return *f.ptr
		}
	}
	return s.Extra[key]
}

// Set stores value under key and returns the updated copy.
func (s Style) Set(key, value string) Style {
	out := s.clone()
	for _, f := range out.fields() {
		if f.key == key {
			*f.ptr = value
			return out
		}
	}
	if out.Extra == nil {
		out.Extra = map[string]string{}
	}
	out.Extra[key] = value
	return out
}

// Merge 逐键合并 patch：非空值覆盖，空值不动，绝不整体替换。
func (s Style) Merge(patch Style) Style {
	out := s.clone()
	dst := out.fields()
	for i, f := range patch.fields() {
		if *f.ptr != "" {
			*dst[i].ptr = *f.ptr
		}
	}
	for k, v := range patch.Extra {
		if out.Extra == nil {
			out.Extra = map[string]string{}
		}
		out.Extra[k] = v
	}
	return out
}

// Entries lists the non-empty keys with their values, known keys first.
func (s Style) Entries() [][2]string {
	var out [][2]string
	for _, f := range s.fields() {
		if *f.ptr != "" {
			out = append(out, [2]string{f.key, *f.ptr})
		}
	}
	keys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, [2]string{k, s.Extra[k]})
	}
	return out
}

// IsZero reports whether no key is set.
func (s Style) IsZero() bool { return len(s.Entries()) == 0 }

func (s Style) clone() Style {
	out := s
	out.Extra = cloneMap(s.Extra)
	return out
}

// MarshalJSON 将已知键与透传键拍平成一个对象。
func (s Style) MarshalJSON() ([]byte, error) {
	return marshalFlat(s.Entries())
}

// UnmarshalJSON accepts string, number and boolean values; unknown keys land in Extra.
func (s *Style) UnmarshalJSON(data []byte) error {
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Style{}
	for k, v := range raw {
		str, err := scalarString(v)
		if err != nil {
			return fmt.Errorf("style %s: %w", k, err)
		}
		out = out.Set(k, str)
	}
	*s = out
	return nil
}

// MarshalJSON flattens Extra next to htmlId/className.
func (a Attributes) MarshalJSON() ([]byte, error) {
	entries := [][2]string{{"htmlId", a.HTMLID}, {"className", a.ClassName}}
	keys := make([]string, 0, len(a.Extra))
	for k := range a.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		entries = append(entries, [2]string{k, a.Extra[k]})
	}
	return marshalFlat(entries)
}

func (a *Attributes) UnmarshalJSON(data []byte) error {
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Attributes{}
	for k, v := range raw {
		str, err := scalarString(v)
		if err != nil {
			return fmt.Errorf("attribute %s: %w", k, err)
		}
		switch k {
		case "htmlId":
			out.HTMLID = str
		case "className":
			out.ClassName = str
		default:
			if out.Extra == nil {
				out.Extra = map[string]string{}
			}
			out.Extra[k] = str
		}
	}
	*a = out
	return nil
}

// marshalFlat writes entries as a JSON object preserving their order.
func marshalFlat(entries [][2]string) ([]byte, error) {
	buf := []byte{'{'}
	for i, e := range entries {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, err := json.Marshal(e[0])
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e[1])
		if err != nil {
			return nil, err
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	return append(buf, '}'), nil
}

func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported value %v", v)
	}
}

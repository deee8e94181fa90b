package script

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ByLCY/blueprint/binding"
	"github.com/ByLCY/blueprint/dsl"
	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/logger"
)

// Runner 将 .blueprint 脚本逐条回放到编辑器上。
// 元素通过 "as 别名" 命名，之后的语句可以用别名、真实 id 或 selected 引用元素。
type Runner struct {
	ed       *editor.Editor
	data     any
	log      logger.Logger
	aliases  map[string]string
	children map[string]childRef
	name     string
}

type childRef struct {
	formID  string
	childID string
}

// Option configures a Runner.
type Option func(*Runner)

// WithData sets the JSON data used to interpolate ${path} placeholders in strings.
func WithData(data any) Option {
	return func(r *Runner) { r.data = data }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates a runner bound to ed.
func New(ed *editor.Editor, opts ...Option) *Runner {
	r := &Runner{
		ed:       ed,
		log:      logger.NewNop(),
		aliases:  map[string]string{},
		children: map[string]childRef{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the name of the last script run.
func (r *Runner) Name() string { return r.name }

// Lookup returns the element id bound to alias.
func (r *Runner) Lookup(alias string) (string, bool) {
	id, ok := r.aliases[alias]
	return id, ok
}

// Aliases returns a copy of the alias table.
func (r *Runner) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// RunReader parses and runs a script.
func (r *Runner) RunReader(in io.Reader) error {
	s, err := dsl.Parse(in)
	if err != nil {
		return fmt.Errorf("解析脚本失败: %w", err)
	}
	return r.Run(s)
}

// RunString parses and runs a script held in memory.
func (r *Runner) RunString(src string) error {
	return r.RunReader(strings.NewReader(src))
}

// Run executes every statement in order and stops at the first error.
func (r *Runner) Run(s *dsl.Script) error {
	if s == nil || s.Body == nil {
		return fmt.Errorf("脚本为空")
	}
	r.name = binding.Interpolate(string(s.Name), r.data)
	for _, st := range s.Body.Statements {
		r.log.Debug("script", "执行语句", map[string]interface{}{
			"verb": st.Verb,
			"line": st.Pos.Line,
			"args": st.Words(),
		})
		if err := r.exec(st); err != nil {
			r.log.Warn("script", "语句执行失败", map[string]interface{}{"line": st.Pos.Line, "error": err})
			return fmt.Errorf("第 %d 行 %s: %w", st.Pos.Line, st.Verb, err)
		}
	}
	r.log.Info("script", "脚本执行完成", map[string]interface{}{
		"name":       r.name,
		"statements": len(s.Body.Statements),
		"revision":   r.ed.Revision(),
	})
	return nil
}

func (r *Runner) exec(st *dsl.Statement) error {
	switch st.Verb {
	case "canvas":
		if word(st, 0) != "background" || st.Arg(1) == nil {
			return fmt.Errorf("用法: canvas background <颜色>")
		}
		r.ed.SetCanvasBackgroundColor(r.text(st.Arg(1).Text()))
	case "drop", "add":
		return r.create(st)
	case "update":
		id, err := r.resolve(word(st, 0))
		if err != nil {
			return err
		}
		u, err := r.update(st.Props)
		if err != nil {
			return err
		}
		r.ed.UpdateElement(id, u)
	case "move":
		return r.move(st)
	case "resize":
		id, err := r.resolve(word(st, 0))
		if err != nil {
			return err
		}
		h, ok := editor.ParseHandle(word(st, 1))
		if !ok || word(st, 2) != "by" {
			return fmt.Errorf("用法: resize <元素> <n|s|e|w|ne|nw|se|sw> by <dx> <dy>")
		}
		dx, dy, err := pair(st, 3)
		if err != nil {
			return err
		}
		r.ed.ResizeElement(id, h, dx, dy)
	case "center":
		id, err := r.resolve(word(st, 0))
		if err != nil {
			return err
		}
		r.ed.CenterElement(id)
	case "remove":
		id, err := r.resolve(word(st, 0))
		if err != nil {
			return err
		}
		r.ed.RemoveElement(id)
		r.forget(id)
	case "select":
		return r.selectStmt(st)
	case "deselect":
		r.ed.Select("")
	case "key":
		if st.Arg(0) == nil {
			return fmt.Errorf("用法: key <按键> [editable]")
		}
		r.ed.HandleKey(editor.KeyEvent{Key: st.Arg(0).Text(), EditableFocus: word(st, 1) == "editable"})
		r.pruneAliases()
	case "preview":
		r.ed.SetMode(editor.ModePreview)
	case "edit":
		r.ed.SetMode(editor.ModeEdit)
	case "toggle":
		r.ed.TogglePreview()
	case "child":
		return r.child(st)
	case "option", "slide":
		return r.listItem(st)
	default:
		return fmt.Errorf("未知指令 %q", st.Verb)
	}
	return nil
}

// create 处理 drop（经过保护区调整）与 add（原样坐标）。
func (r *Runner) create(st *dsl.Statement) error {
	t, ok := editor.ParseElementType(word(st, 0))
	if !ok {
		return fmt.Errorf("未知元素类型 %q", word(st, 0))
	}
	if word(st, 1) != "at" {
		return fmt.Errorf("用法: %s <类型> at <x> <y> [as <别名>]", st.Verb)
	}
	x, y, err := pair(st, 2)
	if err != nil {
		return err
	}
	var id string
	if st.Verb == "drop" {
		id = r.ed.DropNewElement(t, editor.DropPoint{ClientX: x, ClientY: y})
	} else {
		id = r.ed.AddElement(t, x, y)
	}
	if err := r.bindAlias(st, 4, id); err != nil {
		return err
	}
	if st.Props != nil {
		u, err := r.update(st.Props)
		if err != nil {
			return err
		}
		r.ed.UpdateElement(id, u)
	}
	return nil
}

func (r *Runner) move(st *dsl.Statement) error {
	id, err := r.resolve(word(st, 0))
	if err != nil {
		return err
	}
	x, y, err := pair(st, 2)
	if err != nil {
		return err
	}
	switch word(st, 1) {
	case "by":
		r.ed.MoveElementBy(id, x, y)
	case "to":
		r.ed.UpdatePosition(id, x, y)
	default:
		return fmt.Errorf("用法: move <元素> by|to <x> <y>")
	}
	return nil
}

func (r *Runner) selectStmt(st *dsl.Statement) error {
	id, err := r.resolve(word(st, 0))
	if err != nil {
		return err
	}
	if word(st, 1) != "child" {
		r.ed.Select(id)
		return nil
	}
	ref, err := r.resolveChild(id, word(st, 2))
	if err != nil {
		return err
	}
	r.ed.SelectFormChild(id, ref.childID)
	return nil
}

// child 处理表单子项：child <表单> add <类型> [as 别名] | remove <子项> | update <子项> { ... }
func (r *Runner) child(st *dsl.Statement) error {
	formID, err := r.resolve(word(st, 0))
	if err != nil {
		return err
	}
	switch word(st, 1) {
	case "add":
		t, ok := editor.ParseElementType(word(st, 2))
		if !ok {
			return fmt.Errorf("未知元素类型 %q", word(st, 2))
		}
		alias := word(st, 4)
		if st.Arg(3) != nil && (word(st, 3) != "as" || alias == "") {
			return fmt.Errorf("用法: child <表单> add <类型> [as <别名>]")
		}
		node := r.ed.NewFormChild(t)
		r.ed.AddChildToForm(formID, node)
		if alias != "" {
			r.children[alias] = childRef{formID: formID, childID: node.ID}
		}
		if st.Props != nil {
			u, err := r.update(st.Props)
			if err != nil {
				return err
			}
			r.ed.UpdateFormChild(formID, node.ID, u)
		}
	case "remove":
		ref, err := r.resolveChild(formID, word(st, 2))
		if err != nil {
			return err
		}
		r.ed.RemoveChildFromForm(formID, ref.childID)
		delete(r.children, word(st, 2))
	case "update":
		ref, err := r.resolveChild(formID, word(st, 2))
		if err != nil {
			return err
		}
		u, err := r.update(st.Props)
		if err != nil {
			return err
		}
		r.ed.UpdateFormChild(formID, ref.childID, u)
	default:
		return fmt.Errorf("用法: child <表单> add|remove|update ...")
	}
	return nil
}

// listItem 处理 option/slide 的 add 与 remove <索引>。
func (r *Runner) listItem(st *dsl.Statement) error {
	id, err := r.resolve(word(st, 0))
	if err != nil {
		return err
	}
	switch word(st, 1) {
	case "add":
		if st.Verb == "option" {
			r.ed.AddOption(id)
		} else {
			r.ed.AddSlide(id)
		}
	case "remove":
		idx, err := strconv.Atoi(word(st, 2))
		if err != nil {
			return fmt.Errorf("索引 %q 不是整数", word(st, 2))
		}
		if st.Verb == "option" {
			r.ed.RemoveOption(id, idx)
		} else {
			r.ed.RemoveSlide(id, idx)
		}
	default:
		return fmt.Errorf("用法: %s <元素> add | remove <索引>", st.Verb)
	}
	return nil
}

// update 把属性块翻译为 editor.Update；字符串值会先做 ${path} 插值。
func (r *Runner) update(props *dsl.Properties) (editor.Update, error) {
	var u editor.Update
	if props == nil {
		return u, fmt.Errorf("缺少属性块 { ... }")
	}
	for _, p := range props.Entries {
		val := r.text(p.Value.Text())
		switch head := p.Key[0]; {
		case head == "style" && len(p.Key) == 2:
			s := editor.Style{}
			if u.Style != nil {
				s = *u.Style
			}
			u.Style = editor.StylePatch(s.Set(p.Key[1], val))
		case head == "attributes" && len(p.Key) == 2:
			a := editor.Attributes{}
			if u.Attributes != nil {
				a = *u.Attributes
			}
			switch p.Key[1] {
			case "htmlId":
				a.HTMLID = val
			case "className":
				a.ClassName = val
			default:
				a = a.Merge(editor.Attributes{Extra: map[string]string{p.Key[1]: val}})
			}
			u.Attributes = &a
		case len(p.Key) != 1:
			return u, fmt.Errorf("%d:%d: 未知属性 %s", p.Pos.Line, p.Pos.Column, p.Path())
		case head == "content":
			u.Content = editor.String(val)
		case head == "description":
			u.Description = editor.String(val)
		case head == "x" || head == "y":
			f, err := strconv.ParseFloat(strings.TrimSuffix(val, "px"), 64)
			if err != nil {
				return u, fmt.Errorf("%d:%d: %s 不是数值: %q", p.Pos.Line, p.Pos.Column, head, val)
			}
			if head == "x" {
				u.X = editor.Float(f)
			} else {
				u.Y = editor.Float(f)
			}
		case head == "options":
			u.Options = r.texts(p.Value.Strings())
		case head == "slides":
			for _, title := range r.texts(p.Value.Strings()) {
				u.Slides = append(u.Slides, editor.Slide{Title: title})
			}
		case head == "coordinates":
			vals := p.Value.Strings()
			if len(vals) != 2 {
				return u, fmt.Errorf("%d:%d: coordinates 需要 [纬度, 经度]", p.Pos.Line, p.Pos.Column)
			}
			lat, err1 := strconv.ParseFloat(vals[0], 64)
			lng, err2 := strconv.ParseFloat(vals[1], 64)
			if err1 != nil || err2 != nil {
				return u, fmt.Errorf("%d:%d: coordinates 不是数值", p.Pos.Line, p.Pos.Column)
			}
			u.Coordinates = &editor.LatLng{Lat: lat, Lng: lng}
		default:
			return u, fmt.Errorf("%d:%d: 未知属性 %s", p.Pos.Line, p.Pos.Column, p.Path())
		}
	}
	return u, nil
}

// resolve 按别名、真实 id、HTML id、selected 的顺序查找元素。
func (r *Runner) resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("缺少元素引用")
	}
	if id, ok := r.aliases[ref]; ok {
		return id, nil
	}
	if r.ed.Document().Contains(ref) {
		return ref, nil
	}
	for _, el := range r.ed.Elements() {
		if el.Attributes.HTMLID == ref {
			return el.ID, nil
		}
	}
	if ref == "selected" {
		if sel := r.ed.Selection(); !sel.IsEmpty() {
			return sel.ElementID, nil
		}
		return "", fmt.Errorf("当前没有选中的元素")
	}
	return "", fmt.Errorf("未知的元素别名 %q", ref)
}

func (r *Runner) resolveChild(formID, ref string) (childRef, error) {
	if c, ok := r.children[ref]; ok && c.formID == formID {
		return c, nil
	}
	if _, ok := r.ed.Document().FormChild(formID, ref); ok {
		return childRef{formID: formID, childID: ref}, nil
	}
	return childRef{}, fmt.Errorf("表单中没有子项 %q", ref)
}

func (r *Runner) bindAlias(st *dsl.Statement, at int, id string) error {
	switch {
	case st.Arg(at) == nil:
		return nil
	case word(st, at) == "as" && word(st, at+1) != "":
		r.aliases[word(st, at+1)] = id
		return nil
	}
	return fmt.Errorf("用法: ... as <别名>")
}

// forget 删除指向 id 的别名及其子项别名。
func (r *Runner) forget(id string) {
	for alias, v := range r.aliases {
		if v == id {
			delete(r.aliases, alias)
		}
	}
	for alias, c := range r.children {
		if c.formID == id {
			delete(r.children, alias)
		}
	}
}

// pruneAliases 清理因键盘删除而失效的别名。
func (r *Runner) pruneAliases() {
	for _, id := range r.aliases {
		if !r.ed.Document().Contains(id) {
			r.forget(id)
		}
	}
}

func (r *Runner) text(s string) string { return binding.Interpolate(s, r.data) }

func (r *Runner) texts(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = r.text(s)
	}
	return out
}

func word(st *dsl.Statement, i int) string {
	if a := st.Arg(i); a != nil {
		return a.Text()
	}
	return ""
}

func pair(st *dsl.Statement, at int) (float64, float64, error) {
	x, err := st.Arg(at).Float()
	if err != nil {
		return 0, 0, err
	}
	y, err := st.Arg(at + 1).Float()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

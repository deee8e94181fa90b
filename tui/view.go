package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/narration"
)

// 缩略图中每个字符代表 20×40 px，整张画布为 40×25 个字符。
const (
	cellWidth  = 20.0
	cellHeight = 40.0
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#2c3e50")).Padding(0, 1)
	previewStyle  = titleStyle.Copy().Background(lipgloss.Color("#27ae60"))
	frameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7f8c8d"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3498db"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f8c8d"))
	statusStyle   = lipgloss.NewStyle().Italic(true)
	editStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#e67e22")).Padding(0, 1)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	mode := "ÉDITION"
	style := titleStyle
	if m.ed.IsPreview() {
		mode = "APERÇU"
		style = previewStyle
	}
	b.WriteString(style.Render(fmt.Sprintf("Blueprint · %s · palette: %s", mode, m.PaletteType())))
	b.WriteString("\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		frameStyle.Render(m.minimap()),
		"  ",
		m.elementList(),
	)
	b.WriteString(body)
	b.WriteString("\n")

	if m.editing {
		b.WriteString(editStyle.Render("Contenu : " + m.draft + "▏"))
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	if m.opts.Transcript != nil {
		for _, line := range m.opts.Transcript.Lines() {
			b.WriteString(mutedStyle.Render("♪ " + line))
			b.WriteString("\n")
		}
	}
	b.WriteString(mutedStyle.Render("tab sélection · flèches déplacer · +/- taille · c centrer · [ ] palette · a ajouter · e éditer · suppr · p aperçu · s exporter · y copier · n narration · q quitter"))
	return b.String()
}

// minimap 以字符画展示画布：受保护的 logo 区域为 ░，元素以类型首字母填充，选中元素为大写。
func (m Model) minimap() string {
	cols := int(editor.CanvasWidth / cellWidth)
	rows := int(editor.CanvasHeight / cellHeight)
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat("·", cols))
	}
	paint := func(rc editor.Rect, ch rune) {
		c0 := clampInt(int(math.Floor(rc.X/cellWidth)), 0, cols)
		c1 := clampInt(int(math.Ceil((rc.X+rc.Width)/cellWidth)), 0, cols)
		r0 := clampInt(int(math.Floor(rc.Y/cellHeight)), 0, rows)
		r1 := clampInt(int(math.Ceil((rc.Y+rc.Height)/cellHeight)), 0, rows)
		for r := r0; r < r1; r++ {
			for c := c0; c < c1; c++ {
				grid[r][c] = ch
			}
		}
	}
	paint(editor.LogoZone, '░')
	sel := m.ed.Selection().ElementID
	for _, el := range m.ed.Elements() {
		ch := []rune(string(el.Type))[0]
		if el.ID == sel {
			ch = []rune(strings.ToUpper(string(ch)))[0]
		}
		paint(el.Bounds(), ch)
	}

	lines := make([]string, rows)
	for r, row := range grid {
		lines[r] = string(row)
	}
	return strings.Join(lines, "\n")
}

func (m Model) elementList() string {
	sel := m.ed.Selection()
	var lines []string
	for _, el := range m.ed.Elements() {
		line := fmt.Sprintf("%-14s x%4.0f y%4.0f  %s", narration.ElementName(el.Type), el.X, el.Y, editor.AriaLabel(el.Node))
		if el.ID == sel.ElementID {
			lines = append(lines, selectedStyle.Render("› "+line))
		} else {
			lines = append(lines, "  "+line)
		}
		for _, child := range el.Children {
			cl := fmt.Sprintf("    └ %s  %s", narration.ElementName(child.Type), editor.AriaLabel(child))
			if child.ID == sel.ChildID {
				cl = selectedStyle.Render(cl)
			}
			lines = append(lines, cl)
		}
	}
	if len(lines) == 0 {
		lines = append(lines, mutedStyle.Render("(canevas vide)"))
	}
	return strings.Join(lines, "\n")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

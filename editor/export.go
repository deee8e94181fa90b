package editor

import (
	"encoding/json"
	"time"
)

// ExportVersion is the schema version written into meta.version.
const ExportVersion = "1.0"

// ExportMeta is the meta block of the export document.
type ExportMeta struct {
	Version string `json:"version"`
	Date    string `json:"date"`
}

// ExportNode is a node annotated with its accessible label.
type ExportNode struct {
	Node
	AriaLabel string `json:"ariaLabel"`
}

// ExportElement is a top-level element in the export document.
type ExportElement struct {
	ExportNode
	Children []ExportNode `json:"children,omitempty"`
}

// ExportDocument 是对外导出的 JSON 结构，顶层只有 meta、canvas、elements 三个键。
type ExportDocument struct {
	Meta     ExportMeta      `json:"meta"`
	Canvas   CanvasSettings  `json:"canvas"`
	Elements []ExportElement `json:"elements"`
}

// fallbackLabels 是内容为空或类型不适合用内容作标签时的默认无障碍标签。
var fallbackLabels = map[ElementType]string{
	TypeButton:      "Bouton",
	TypeInputNumber: "Champ numérique",
	TypeInputEmail:  "Champ email",
	TypeInputText:   "Champ texte",
	TypeCalendar:    "Calendrier",
	TypeSelect:      "Menu déroulant",
	TypeImage:       "Image",
	TypeVideo:       "Vidéo",
	TypeCard:        "Carte",
	TypeHeader:      "En-tête",
	TypeFooter:      "Pied de page",
	TypeText:        "Texte",
	TypeTitle:       "Titre",
	TypeMap:         "Carte géographique",
	TypeCarousel:    "Carrousel",
	TypeInputForm:   "Formulaire",
	TypeLogo:        "Logo",
}

// labelFromContent lists the types whose content reads as a label.
var labelFromContent = map[ElementType]bool{
	TypeButton: true, TypeCard: true, TypeInputForm: true, TypeTitle: true,
	TypeText: true, TypeHeader: true, TypeFooter: true, TypeMap: true,
}

// AriaLabel computes the accessible label of a node; it is never empty.
func AriaLabel(n Node) string {
	if n.Description != "" {
		return n.Description
	}
	if labelFromContent[n.Type] && n.Content != "" {
		return n.Content
	}
	if l, ok := fallbackLabels[n.Type]; ok {
		return l
	}
	if n.Type != "" {
		return string(n.Type)
	}
	return "Élément"
}

func exportNode(n Node) ExportNode {
	return ExportNode{Node: n, AriaLabel: AriaLabel(n)}
}

// Export projects the document into the export schema without touching it.
func (e *Editor) Export() ExportDocument {
	return e.doc.Export(e.now())
}

// Export projects the document at the given time.
func (d *Document) Export(at time.Time) ExportDocument {
	out := ExportDocument{
		Meta:     ExportMeta{Version: ExportVersion, Date: at.UTC().Format(time.RFC3339)},
		Canvas:   d.canvas,
		Elements: make([]ExportElement, 0, len(d.elements)),
	}
	for _, el := range d.Elements() {
		xe := ExportElement{ExportNode: exportNode(el.Node)}
		for _, child := range el.Children {
			xe.Children = append(xe.Children, exportNode(child))
		}
		out.Elements = append(out.Elements, xe)
	}
	return out
}

// JSON 返回缩进两个空格的导出文档。
func (e *Editor) JSON() ([]byte, error) {
	return json.MarshalIndent(e.Export(), "", "  ")
}

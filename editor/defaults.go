package editor

// ToolbarProfile 描述某类元素在上下文工具栏中可编辑的字段（渲染层使用）。
type ToolbarProfile struct {
	ShowContent    bool     `json:"showContent"`
	ShowStyle      bool     `json:"showStyle"`
	ShowColors     bool     `json:"showColors"`
	ShowFont       bool     `json:"showFont"`
	ShowTechConfig bool     `json:"showTechConfig"`
	ShowRadius     bool     `json:"showRadius"`
	ShowShadow     bool     `json:"showShadow"`
	ShowAlignment  bool     `json:"showAlignment"`
	CustomFields   []string `json:"customFields,omitempty"`
}

// defaultsContext carries what default construction needs from the editor.
type defaultsContext struct {
	newID func() string
	today string
}

// elementProfile is the single default-construction rule and toolbar profile of a type.
// Adding an element type means adding one entry to profiles.
type elementProfile struct {
	toolbar ToolbarProfile
	build   func(n *Element, ctx defaultsContext)
}

var (
	textToolbar = ToolbarProfile{
		ShowContent: true, ShowStyle: true, ShowColors: true, ShowFont: true,
		ShowTechConfig: true, ShowRadius: true, ShowShadow: true, ShowAlignment: true,
	}
	fieldToolbar = ToolbarProfile{
		ShowContent: true, ShowStyle: true, ShowColors: true, ShowFont: true,
		ShowTechConfig: true, ShowRadius: true, ShowShadow: false, ShowAlignment: true,
	}
	mediaToolbar = ToolbarProfile{
		ShowTechConfig: true, ShowRadius: true, ShowShadow: true, CustomFields: []string{"url"},
	}
)

var profiles = map[ElementType]elementProfile{
	TypeText: {toolbar: textToolbar},
	TypeTitle: {
		toolbar: textToolbar,
		build: func(e *Element, _ defaultsContext) {
			e.Content = "Mon Titre"
			e.Style.Color = "#2c3e50"
		},
	},
	TypeButton: {
		toolbar: textToolbar,
		build: func(e *Element, _ defaultsContext) {
			e.Content = "Bouton"
			e.Style.BackgroundColor = "#3498db"
			e.Style.Color = "#ffffff"
			e.Style.BorderRadius = "4px"
			e.Style.Padding = "10px 20px"
		},
	},
	TypeHeader: {
		toolbar: textToolbar,
		build: func(e *Element, _ defaultsContext) {
			e.Content = "Header"
			e.Style.Width = "800px"
			e.Style.Height = "80px"
			e.Style.BackgroundColor = "#2c3e50"
			e.Style.Color = "#ffffff"
		},
	},
	TypeFooter: {
		toolbar: textToolbar,
		build: func(e *Element, _ defaultsContext) {
			e.Content = "Footer"
			e.Style.Width = "800px"
			e.Style.Height = "60px"
			e.Style.BackgroundColor = "#95a5a6"
			e.Style.Color = "#ffffff"
		},
	},
	TypeImage: {
		toolbar: mediaToolbar,
		build: func(e *Element, _ defaultsContext) {
			e.Content = "https://via.placeholder.com/300x200"
			e.Style.Width = "300px"
			e.Style.Height = "auto"
		},
	},
	TypeVideo: {
		toolbar: mediaToolbar,
		build: func(e *Element, _ defaultsContext) {
			e.Content = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
			e.Style.Width = "480px"
			e.Style.Height = "270px"
		},
	},
	TypeCard: {
		toolbar: ToolbarProfile{
			ShowStyle: true, ShowColors: true, ShowFont: true, ShowTechConfig: true,
			ShowRadius: true, ShowShadow: true, ShowAlignment: true, CustomFields: []string{"card"},
		},
		build: func(e *Element, _ defaultsContext) {
			e.Content = "Titre Carte"
			e.Description = "Description..."
			e.Style.Width = "300px"
			e.Style.BackgroundColor = "#ffffff"
			e.Style.Padding = "15px"
		},
	},
	TypeSelect: {
		toolbar: ToolbarProfile{
			ShowStyle: true, ShowColors: true, ShowFont: true, ShowTechConfig: true,
			ShowRadius: true, CustomFields: []string{"options"},
		},
		build: func(e *Element, _ defaultsContext) {
			e.Content = "Option 1"
			e.Options = []string{"Option 1", "Option 2", "Option 3"}
		},
	},
	TypeCalendar: {
		toolbar: fieldToolbar,
		build: func(e *Element, ctx defaultsContext) {
			e.Content = ctx.today
		},
	},
	TypeInputText: {
		toolbar: fieldToolbar,
		build:   func(e *Element, _ defaultsContext) { e.Content = "" },
	},
	TypeInputEmail: {
		toolbar: fieldToolbar,
		build:   func(e *Element, _ defaultsContext) { e.Content = "" },
	},
	TypeInputNumber: {
		toolbar: fieldToolbar,
		build:   func(e *Element, _ defaultsContext) { e.Content = "0" },
	},
	TypeInputForm: {
		toolbar: textToolbar,
		build: func(e *Element, ctx defaultsContext) {
			e.Content = "Mon Formulaire"
			e.Style.Width = "400px"
			e.Style.BackgroundColor = "#f8f9fa"
			e.Style.Padding = "20px"
			e.Children = []Node{
				newFormField(TypeInputEmail, "", ctx),
				newFormField(TypeInputNumber, "0", ctx),
				newFormField(TypeCalendar, ctx.today, ctx),
			}
		},
	},
	TypeMap: {
		toolbar: ToolbarProfile{
			ShowStyle: true, ShowTechConfig: true, ShowRadius: true, ShowShadow: true,
			CustomFields: []string{"location"},
		},
		build: func(e *Element, ctx defaultsContext) {
			e.Content = "Paris"
			e.Description = "Paris"
			e.Style.Width = "400px"
			e.Style.Height = "300px"
			e.Coordinates = &LatLng{Lat: 48.8566, Lng: 2.3522}
			e.Markers = []MapMarker{{ID: ctx.newID(), Lat: 48.8566, Lng: 2.3522, Label: "Paris", Color: "#e74c3c"}}
		},
	},
	TypeCarousel: {
		toolbar: ToolbarProfile{
			ShowStyle: true, ShowColors: true, ShowTechConfig: true, ShowRadius: true,
			ShowShadow: true, CustomFields: []string{"slides"},
		},
		build: func(e *Element, _ defaultsContext) {
			// content 保存当前展示的 slide 下标
			e.Content = "0"
			e.Style.Width = "600px"
			e.Style.Height = "300px"
			e.Slides = []Slide{
				{Title: "Slide 1", Description: "Description 1", ImageURL: "https://via.placeholder.com/600x300"},
				{Title: "Slide 2", Description: "Description 2", ImageURL: "https://via.placeholder.com/600x300"},
				{Title: "Slide 3", Description: "Description 3", ImageURL: "https://via.placeholder.com/600x300"},
			}
		},
	},
	TypeLogo: {
		toolbar: ToolbarProfile{ShowTechConfig: true},
		build: func(e *Element, _ defaultsContext) {
			e.Content = "/assets/logo.png"
			e.Style.Width = "80px"
		},
	},
}

// Toolbar returns the toolbar capability profile of t; unknown types get the text profile.
func Toolbar(t ElementType) ToolbarProfile {
	p, ok := profiles[t]
	if !ok {
		p = profiles[TypeText]
	}
	out := p.toolbar
	out.CustomFields = cloneSlice(p.toolbar.CustomFields)
	return out
}

// newElement 构造带默认内容与样式的新元素，每次调用都生成全新的值。
func newElement(t ElementType, x, y float64, ctx defaultsContext) Element {
	e := Element{Node: Node{
		ID:         ctx.newID(),
		Type:       t,
		Content:    "Texte",
		X:          x,
		Y:          y,
		Style:      Style{FontFamily: "Arial", Color: "#000000"},
		Attributes: Attributes{},
	}}
	if p, ok := profiles[t]; ok && p.build != nil {
		p.build(&e, ctx)
	}
	return e
}

func newFormField(t ElementType, content string, ctx defaultsContext) Node {
	return Node{
		ID:         ctx.newID(),
		Type:       t,
		Content:    content,
		Style:      Style{FontFamily: "Arial"},
		Attributes: Attributes{},
	}
}

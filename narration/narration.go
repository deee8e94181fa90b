// Package narration turns editor events into short French sentences for
// screen-reader style audio description.
package narration

import (
	"fmt"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/ByLCY/blueprint/editor"
	"github.com/ByLCY/blueprint/logger"
)

// Priority 为高时，语音合成应打断正在播报的内容。
type Priority int

const (
	Low Priority = iota
	High
)

// Utterance is one sentence handed to the speech backend.
type Utterance struct {
	Text     string   `json:"text"`
	Lang     string   `json:"lang"`
	Priority Priority `json:"priority"`
}

// Speaker is the speech-synthesis backend.
type Speaker interface {
	Speak(Utterance)
}

// SpeakerFunc adapts a function to Speaker.
type SpeakerFunc func(Utterance)

func (f SpeakerFunc) Speak(u Utterance) { f(u) }

// LogSpeaker writes utterances to the structured log.
type LogSpeaker struct {
	Log logger.Logger
}

func (s LogSpeaker) Speak(u Utterance) {
	s.Log.Info("narration", u.Text, map[string]interface{}{"lang": u.Lang, "priority": u.Priority})
}

var elementNames = map[editor.ElementType]string{
	editor.TypeText:        "texte",
	editor.TypeButton:      "bouton",
	editor.TypeImage:       "image",
	editor.TypeVideo:       "vidéo",
	editor.TypeHeader:      "en-tête",
	editor.TypeFooter:      "pied de page",
	editor.TypeCard:        "carte",
	editor.TypeCarousel:    "carrousel",
	editor.TypeSelect:      "menu déroulant",
	editor.TypeInputNumber: "champ numérique",
	editor.TypeInputEmail:  "champ email",
	editor.TypeInputText:   "champ texte",
	editor.TypeInputForm:   "formulaire",
	editor.TypeCalendar:    "calendrier",
	editor.TypeTitle:       "titre",
	editor.TypeMap:         "carte",
	editor.TypeLogo:        "logo",
}

var propertyNames = map[string]string{
	"backgroundColor": "couleur de fond",
	"color":           "couleur du texte",
	"fontSize":        "taille de police",
	"fontFamily":      "police de caractères",
	"width":           "largeur",
	"height":          "hauteur",
	"padding":         "espacement interne",
	"borderRadius":    "arrondi des coins",
	"htmlId":          "identifiant HTML",
	"className":       "classes CSS",
}

// ElementName returns the spoken name of a type.
func ElementName(t editor.ElementType) string {
	if n, ok := elementNames[t]; ok {
		return n
	}
	return string(t)
}

// MaxContentRunes bounds how much changed content is read aloud.
const MaxContentRunes = 50

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxContentRunes {
		return s
	}
	r := []rune(s)
	return string(r[:MaxContentRunes]) + "..."
}

// Announcer implements editor.Notifier. It is safe for concurrent use.
type Announcer struct {
	mu      sync.Mutex
	speaker Speaker
	lang    string
	enabled bool
}

// NewAnnouncer returns an enabled announcer speaking French.
func NewAnnouncer(s Speaker) *Announcer {
	return &Announcer{speaker: s, lang: "fr-FR", enabled: true}
}

// SetLang overrides the utterance language tag.
func (a *Announcer) SetLang(lang string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lang = lang
}

func (a *Announcer) speak(text string, p Priority) {
	a.mu.Lock()
	enabled, lang := a.enabled, a.lang
	a.mu.Unlock()
	if !enabled || text == "" {
		return
	}
	a.speaker.Speak(Utterance{Text: text, Lang: lang, Priority: p})
}

// Enabled reports whether announcements are spoken.
func (a *Announcer) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// SetEnabled 切换播报；开启后宣布"已激活"，关闭前宣布"已停用"。
func (a *Announcer) SetEnabled(on bool) {
	if on {
		a.mu.Lock()
		a.enabled = true
		a.mu.Unlock()
		a.speak("Audio description activée", High)
		return
	}
	a.speak("Audio description désactivée", High)
	a.mu.Lock()
	a.enabled = false
	a.mu.Unlock()
}

// Toggle flips SetEnabled.
func (a *Announcer) Toggle() { a.SetEnabled(!a.Enabled()) }

// Announce speaks a free-form message with high priority (exports, errors).
func (a *Announcer) Announce(text string) { a.speak(text, High) }

// AnnounceError speaks an error message.
func (a *Announcer) AnnounceError(msg string) { a.speak("Erreur : "+msg, High) }

// Notify implements editor.Notifier.
func (a *Announcer) Notify(ev editor.Event) {
	for _, m := range Describe(ev) {
		a.speak(m.Text, m.Priority)
	}
}

// Message is one sentence produced for an event.
type Message struct {
	Text     string
	Priority Priority
}

// Describe returns the sentences an event produces, in speaking order.
func Describe(ev editor.Event) []Message {
	name := ElementName(ev.Type)
	low := func(format string, args ...any) []Message {
		return []Message{{Text: fmt.Sprintf(format, args...), Priority: Low}}
	}
	switch ev.Kind {
	case editor.EventElementAdded:
		return low("%s ajouté à la position x %d, y %d", name, round(ev.X), round(ev.Y))
	case editor.EventElementMoved:
		return low("%s déplacé à la position x %d, y %d", name, round(ev.X), round(ev.Y))
	case editor.EventElementRemoved:
		return low("%s supprimé", name)
	case editor.EventSelected:
		if ev.ElementID == "" {
			return low("Aucun élément sélectionné")
		}
		if ev.ChildID != "" {
			return low("Champ %s sélectionné", name)
		}
		return low("%s sélectionné", name)
	case editor.EventElementUpdated:
		return describeChanges(name, ev.Changes)
	case editor.EventFormChildAdded:
		return low("Champ %s ajouté au formulaire", name)
	case editor.EventFormChildRemoved:
		return low("Champ %s supprimé du formulaire", name)
	case editor.EventFormChildUpdated:
		var out []Message
		for _, c := range ev.Changes {
			switch c.Property {
			case "content":
				out = append(out, low("contenu du champ %s modifié", name)...)
			case "description":
				out = append(out, low("label du champ %s modifié", name)...)
			}
		}
		return out
	case editor.EventModeChanged:
		mode := "édition"
		if ev.Preview {
			mode = "aperçu"
		}
		return []Message{{Text: fmt.Sprintf("Mode %s activé", mode), Priority: High}}
	case editor.EventCanvasChanged:
		return describeChanges("", ev.Changes)
	case editor.EventOptionAdded:
		return low("Option ajoutée au menu")
	case editor.EventOptionRemoved:
		return low("Option supprimée du menu")
	}
	return nil
}

func describeChanges(name string, changes []editor.Change) []Message {
	var out []Message
	for _, c := range changes {
		var text string
		switch c.Property {
		case "content":
			text = fmt.Sprintf("Contenu de %s modifié : %s", name, truncate(c.Value))
		case "description":
			text = fmt.Sprintf("description modifié : %s", orEmpty(c.Value))
		case "htmlId", "className":
			text = fmt.Sprintf("%s modifié : %s", propertyNames[c.Property], orEmpty(c.Value))
		default:
			p, ok := propertyNames[c.Property]
			if !ok {
				continue
			}
			text = fmt.Sprintf("%s modifié : %s", p, c.Value)
		}
		out = append(out, Message{Text: text, Priority: Low})
	}
	return out
}

func orEmpty(v string) string {
	if v == "" {
		return "vide"
	}
	return v
}

func round(v float64) int { return int(math.Round(v)) }

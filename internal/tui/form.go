package tui

import (
	"slices"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mark3labs/smartagri/internal/farm"
	"github.com/mark3labs/smartagri/internal/i18n"
	"github.com/mark3labs/smartagri/internal/results"
	"github.com/mark3labs/smartagri/internal/tui/theme"
	"github.com/mark3labs/smartagri/internal/wizard"
)

const sliderWidth = 12

// Form edits the fields of one wizard step. Values live in the wizard; the
// form only tracks focus, text inputs, and the last validation errors.
type Form struct {
	fields []farm.Field
	focus  int
	inputs map[farm.Field]*textinput.Model
	errors map[farm.Field]string
	tr     i18n.Translator
}

// NewForm creates a form for the fields of group.
func NewForm(g farm.Group, tr i18n.Translator) *Form {
	f := &Form{
		fields: farm.FieldsIn(g),
		inputs: make(map[farm.Field]*textinput.Model),
		tr:     tr,
	}
	t := theme.Current()
	for _, field := range f.fields {
		spec, _ := farm.Spec(field)
		if spec.Kind != farm.KindText {
			continue
		}
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = f.label(spec)
		input.SetStyles(textinput.Styles{
			Focused: textinput.StyleState{
				Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
				Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			},
			Blurred: textinput.StyleState{
				Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
				Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			},
			Cursor: textinput.CursorStyle{
				Color: lipgloss.Color(t.Primary),
				Shape: tea.CursorBar,
				Blink: true,
			},
		})
		input.SetWidth(30)
		f.inputs[field] = &input
	}
	return f
}

// Fields returns the form's fields in display order.
func (f *Form) Fields() []farm.Field { return f.fields }

// Focused returns the field with keyboard focus.
func (f *Form) Focused() farm.Field { return f.fields[f.focus] }

// FocusNext moves focus down, wrapping at the end.
func (f *Form) FocusNext() tea.Cmd {
	return f.setFocus((f.focus + 1) % len(f.fields))
}

// FocusPrev moves focus up, wrapping at the start.
func (f *Form) FocusPrev() tea.Cmd {
	return f.setFocus((f.focus - 1 + len(f.fields)) % len(f.fields))
}

// FocusFirst moves focus to the first field.
func (f *Form) FocusFirst() tea.Cmd {
	return f.setFocus(0)
}

func (f *Form) setFocus(i int) tea.Cmd {
	if in, ok := f.inputs[f.Focused()]; ok {
		in.Blur()
	}
	f.focus = i
	if in, ok := f.inputs[f.Focused()]; ok {
		return in.Focus()
	}
	return nil
}

// Editing reports whether the focused field takes free text.
func (f *Form) Editing() bool {
	_, ok := f.inputs[f.Focused()]
	return ok
}

// SetErrors replaces the per-field validation errors shown under each field.
func (f *Form) SetErrors(errs map[farm.Field]string) {
	f.errors = errs
	for i, field := range f.fields {
		if _, bad := errs[field]; bad {
			f.setFocus(i)
			return
		}
	}
}

// ClearErrors removes every validation error.
func (f *Form) ClearErrors() { f.errors = nil }

// Sync copies the wizard's text values into the inputs, e.g. after a reset.
func (f *Form) Sync(w *wizard.Wizard) {
	for field, in := range f.inputs {
		v, _ := w.Get(field)
		s, _ := v.(string)
		in.SetValue(s)
	}
}

// Nudge moves the focused range or option control by steps. Text fields are
// left untouched.
func (f *Form) Nudge(w *wizard.Wizard, steps int) error {
	field := f.Focused()
	spec, _ := farm.Spec(field)
	if spec.Kind == farm.KindText {
		return nil
	}
	cur, err := w.Get(field)
	if err != nil {
		return err
	}
	if err := w.Set(field, nudged(spec, cur, steps)); err != nil {
		return err
	}
	delete(f.errors, field)
	return nil
}

// UpdateText forwards msg to the focused text input and writes its value back
// to the wizard.
func (f *Form) UpdateText(w *wizard.Wizard, msg tea.Msg) tea.Cmd {
	field := f.Focused()
	in, ok := f.inputs[field]
	if !ok {
		return nil
	}
	updated, cmd := in.Update(msg)
	*in = updated
	if err := w.Set(field, in.Value()); err == nil {
		delete(f.errors, field)
	}
	return cmd
}

// nudged returns cur moved by steps: numbers by spec.Step within bounds,
// options cyclically.
func nudged(spec farm.FieldSpec, cur any, steps int) any {
	switch spec.Kind {
	case farm.KindNumber:
		v, _ := cur.(float64)
		return spec.Nudge(v, steps)
	case farm.KindEnum:
		n := len(spec.Options)
		if n == 0 {
			return cur
		}
		s, _ := cur.(string)
		idx := slices.Index(spec.Options, s)
		switch {
		case idx >= 0:
			idx = ((idx+steps)%n + n) % n
		case steps >= 0:
			idx = 0
		default:
			idx = n - 1
		}
		return spec.Options[idx]
	}
	return cur
}

func (f *Form) label(spec farm.FieldSpec) string {
	return i18n.Or(f.tr, spec.LabelKey, results.FormatKey(spec.LabelKey))
}

// View renders the form fields with the wizard's current values.
func (f *Form) View(w *wizard.Wizard) string {
	s := theme.Current().S()

	labelWidth := 0
	for _, field := range f.fields {
		spec, _ := farm.Spec(field)
		labelWidth = max(labelWidth, lipgloss.Width(f.label(spec)))
	}

	var b strings.Builder
	for i, field := range f.fields {
		spec, _ := farm.Spec(field)
		focused := i == f.focus

		marker := "  "
		labelStyle := s.Label
		if focused {
			marker = "▸ "
			labelStyle = s.LabelFocused
		}
		label := f.label(spec)
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(label))
		b.WriteString(marker + labelStyle.Render(label) + pad + "  " + f.value(w, spec, focused))
		b.WriteString("\n")

		if reason, bad := f.errors[field]; bad {
			b.WriteString("  " + strings.Repeat(" ", labelWidth+2) + s.Error.Render(reason) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Form) value(w *wizard.Wizard, spec farm.FieldSpec, focused bool) string {
	s := theme.Current().S()
	arrows := func(v string) string {
		if focused {
			return s.LabelFocused.Render("◀ ") + s.Value.Render(v) + s.LabelFocused.Render(" ▶")
		}
		return "  " + s.Value.Render(v) + "  "
	}

	cur, _ := w.Get(spec.Field)
	switch spec.Kind {
	case farm.KindNumber:
		v, _ := cur.(float64)
		out := arrows(strconv.FormatFloat(v, 'f', -1, 64))
		if spec.Unit != "" {
			out += " " + s.Muted.Render(spec.Unit)
		}
		frac := 0.0
		if spec.Max > spec.Min {
			frac = (v - spec.Min) / (spec.Max - spec.Min)
		}
		return out + "  " + s.Muted.Render(results.GaugeBar(results.Gauge{Fraction: frac}, sliderWidth))
	case farm.KindEnum:
		v, _ := cur.(string)
		if v == "" {
			return arrows(s.Muted.Render(i18n.Or(f.tr, "select_state", "Select State")))
		}
		return arrows(v)
	default:
		return f.inputs[spec.Field].View()
	}
}

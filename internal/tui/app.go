// Package tui is the full-screen crop advisory wizard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/smartagri/internal/farm"
	"github.com/mark3labs/smartagri/internal/i18n"
	"github.com/mark3labs/smartagri/internal/logger"
	"github.com/mark3labs/smartagri/internal/recommend"
	"github.com/mark3labs/smartagri/internal/results"
	"github.com/mark3labs/smartagri/internal/tui/theme"
	"github.com/mark3labs/smartagri/internal/wizard"
)

// ResultFunc is called once for every recommendation shown on the results step.
type ResultFunc func(ctx context.Context, req recommend.Request, res *recommend.Result) error

// Option configures a Model.
type Option func(*Model)

// WithTranslator sets the UI language.
func WithTranslator(tr i18n.Translator) Option {
	return func(m *Model) { m.tr = tr }
}

// WithOnResult registers a callback for successful recommendations.
func WithOnResult(fn ResultFunc) Option {
	return func(m *Model) { m.onResult = fn }
}

// WithFields starts the wizard from pre-filled values.
func WithFields(fields *farm.Model) Option {
	return func(m *Model) { m.fields = fields }
}

// Model is the BubbleTea model for the advisory wizard.
type Model struct {
	ctx       context.Context
	submitter wizard.Submitter
	tr        i18n.Translator
	onResult  ResultFunc
	fields    *farm.Model

	wiz       *wizard.Wizard
	forms     map[wizard.Step]*Form
	presenter results.Presenter
	tipCursor int

	spinner  spinner.Model
	viewport viewport.Model

	width     int
	height    int
	cancelled bool
	quitting  bool
}

// New creates the model. ctx bounds every submission.
func New(ctx context.Context, submitter wizard.Submitter, opts ...Option) *Model {
	m := &Model{
		ctx:       ctx,
		submitter: submitter,
		width:     80,
		height:    24,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.wiz = wizard.New(submitter, wizard.WithTranslator(m.tr), wizard.WithFields(m.fields))
	m.forms = map[wizard.Step]*Form{
		wizard.StepLocation: NewForm(farm.GroupLocation, m.tr),
		wizard.StepSoil:     NewForm(farm.GroupSoil, m.tr),
		wizard.StepWeather:  NewForm(farm.GroupWeather, m.tr),
	}
	for _, f := range m.forms {
		f.Sync(m.wiz)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))
	m.spinner = s

	m.viewport = viewport.New(viewport.WithWidth(m.contentWidth()), viewport.WithHeight(m.bodyHeight()))
	return m
}

// Run starts a standalone BubbleTea program and blocks until the user quits.
func Run(ctx context.Context, submitter wizard.Submitter, opts ...Option) error {
	m := New(ctx, submitter, opts...)
	p := tea.NewProgram(m, tea.WithContext(ctx))

	finalModel, err := p.Run()
	m.wiz.Dispose()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("wizard failed: %w", err)
	}
	if fm, ok := finalModel.(*Model); ok && fm.cancelled {
		logger.Debug("Wizard cancelled by user")
	}
	return nil
}

// Wizard exposes the underlying state machine.
func (m *Model) Wizard() *wizard.Wizard { return m.wiz }

// Init focuses the first field.
func (m *Model) Init() tea.Cmd {
	return m.forms[wizard.StepLocation].FocusFirst()
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.SetWidth(m.contentWidth())
		m.viewport.SetHeight(m.bodyHeight())
		m.refreshResults()
		return m, nil

	case spinner.TickMsg:
		if !m.wiz.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SubmissionDoneMsg:
		return m, m.finish(msg)

	case ResultSavedMsg:
		if msg.Err != nil {
			logger.Warn("Failed to save recommendation: %v", msg.Err)
		}
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, m.quit()
		}
		if m.wiz.Step() == wizard.StepResults {
			return m, m.updateResults(msg)
		}
		return m, m.updateForm(msg)
	}
	return m, nil
}

func (m *Model) quit() tea.Cmd {
	m.wiz.Dispose()
	m.quitting = true
	return tea.Quit
}

func (m *Model) updateForm(msg tea.KeyPressMsg) tea.Cmd {
	if m.wiz.Loading() {
		return nil
	}
	form := m.forms[m.wiz.Step()]

	switch msg.String() {
	case "esc":
		if m.wiz.Step() == wizard.StepLocation {
			m.cancelled = true
			return m.quit()
		}
		return m.back()
	case "enter":
		return m.next()
	case "up", "shift+tab":
		return form.FocusPrev()
	case "down", "tab":
		return form.FocusNext()
	}

	if form.Editing() {
		return form.UpdateText(m.wiz, msg)
	}

	steps := 0
	switch msg.String() {
	case "left", "h":
		steps = -1
	case "right", "l":
		steps = 1
	case "shift+left", "H":
		steps = -10
	case "shift+right", "L":
		steps = 10
	}
	if steps != 0 {
		if err := form.Nudge(m.wiz, steps); err != nil {
			logger.Debug("Nudge %s: %v", form.Focused(), err)
		}
	}
	return nil
}

func (m *Model) back() tea.Cmd {
	if err := m.wiz.Back(); err != nil {
		return nil
	}
	return m.forms[m.wiz.Step()].FocusFirst()
}

// next validates the current step. On the weather step it starts the
// submission and returns a command that delivers SubmissionDoneMsg.
func (m *Model) next() tea.Cmd {
	form := m.forms[m.wiz.Step()]

	if m.wiz.Step() == wizard.StepWeather {
		sub, err := m.wiz.Begin()
		if err != nil {
			logger.Debug("Submission not started: %v", err)
			return nil
		}
		form.ClearErrors()
		return tea.Batch(m.spinner.Tick, m.submit(sub))
	}

	if err := m.wiz.Next(m.ctx); err != nil {
		var vf *wizard.ValidationFailedError
		if errors.As(err, &vf) {
			form.SetErrors(vf.Errors)
		}
		return nil
	}
	form.ClearErrors()
	return m.forms[m.wiz.Step()].FocusFirst()
}

func (m *Model) submit(sub *wizard.Submission) tea.Cmd {
	ctx, submitter := m.ctx, m.submitter
	return func() tea.Msg {
		res, err := submitter.Submit(ctx, sub.Request)
		return SubmissionDoneMsg{Submission: sub, Result: res, Err: err}
	}
}

func (m *Model) finish(msg SubmissionDoneMsg) tea.Cmd {
	if !m.wiz.Finish(msg.Submission, msg.Result, msg.Err) {
		logger.Debug("Discarded stale submission outcome")
		return nil
	}
	if m.wiz.Step() != wizard.StepResults {
		return nil
	}

	m.presenter.Load(m.wiz.Result())
	m.tipCursor = 0
	m.refreshResults()
	m.viewport.GotoTop()

	if m.onResult == nil {
		return nil
	}
	ctx, fn, req, res := m.ctx, m.onResult, msg.Submission.Request, m.wiz.Result()
	return func() tea.Msg {
		return ResultSavedMsg{Err: fn(ctx, req, res)}
	}
}

func (m *Model) updateResults(msg tea.KeyPressMsg) tea.Cmd {
	tips := len(m.presenter.Tips())
	key := msg.String()

	switch key {
	case "esc", "q":
		return m.quit()
	case "n", "r":
		m.wiz.Reset()
		m.presenter.Clear()
		for _, f := range m.forms {
			f.ClearErrors()
			f.Sync(m.wiz)
		}
		return m.forms[wizard.StepLocation].FocusFirst()
	case "tab":
		if tips > 0 {
			m.tipCursor = (m.tipCursor + 1) % tips
			m.refreshResults()
		}
		return nil
	case "shift+tab":
		if tips > 0 {
			m.tipCursor = (m.tipCursor - 1 + tips) % tips
			m.refreshResults()
		}
		return nil
	case "enter", "space":
		m.presenter.ToggleTip(m.tipCursor)
		m.refreshResults()
		return nil
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if i < tips {
			m.tipCursor = i
			m.presenter.ToggleTip(i)
			m.refreshResults()
		}
		return nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) refreshResults() {
	m.viewport.SetContent(renderResults(&m.presenter, m.tr, m.contentWidth(), m.tipCursor))
}

func (m *Model) t(key, fallback string) string { return i18n.Or(m.tr, key, fallback) }

// contentWidth is the usable width inside the modal container.
func (m *Model) contentWidth() int {
	return max(min(m.width-10, 90), 40)
}

// bodyHeight is the room left for the results viewport.
func (m *Model) bodyHeight() int {
	return max(m.height-14, 5)
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.quitting {
		view.AltScreen = false
		view.Content = lipgloss.NewLayer("")
		return view
	}

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(m.render()).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	view.BackgroundColor = theme.HexToColor(theme.Current().BgCrust)
	return view
}

// render returns the centered modal for the current step.
func (m *Model) render() string {
	s := theme.Current().S()
	width := m.contentWidth()
	step := m.wiz.Step()

	sections := []string{
		s.Title.Width(width).Render("🌾 " + m.t("crop_advisory", "Crop Advisory")),
		s.Subtitle.Width(width).Render(m.t("crop_advisory_desc", "Get AI-powered crop recommendations for your farm")),
		"",
		lipgloss.PlaceHorizontal(width, lipgloss.Center, m.renderSteps()),
		"",
	}

	var hints string
	if step == wizard.StepResults {
		sections = append(sections, m.viewport.View(), "")
		bar := NewButtonBar([]Button{{Label: m.t("new_analysis", "New Analysis"), State: ButtonFocused}})
		bar.SetWidth(width)
		sections = append(sections, bar.Render())
		hints = renderHintBar("↑↓", "scroll", "tab", "tip", "enter", "expand", "n", "new", "esc", "quit")
	} else {
		sections = append(sections, s.Value.Bold(true).Render(m.stepHeading(step)))
		if step == wizard.StepSoil {
			sections = append(sections, s.Muted.Render(m.t("soil_data_desc", "Enter values from your soil health card, or keep the defaults")))
		}
		sections = append(sections, "", m.forms[step].View(m.wiz))

		if step == wizard.StepWeather && m.wiz.Err() != nil && !m.wiz.Loading() {
			sections = append(sections, "", s.Error.Render("✗ "+m.wiz.ErrorMessage()))
		}

		sections = append(sections, "", m.renderButtons(width))
		hints = renderHintBar("↑↓", "field", "←→", "adjust", "enter", "next", "esc", m.escHint())
	}
	sections = append(sections, "", lipgloss.PlaceHorizontal(width, lipgloss.Center, hints))

	modal := s.ModalContainer.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m *Model) escHint() string {
	if m.wiz.Step() == wizard.StepLocation {
		return "quit"
	}
	return "back"
}

func (m *Model) stepHeading(step wizard.Step) string {
	switch step {
	case wizard.StepLocation:
		return m.t("location_farm_details", "Location & Farm Details")
	case wizard.StepSoil:
		return m.t("soil_data", "Soil Data")
	default:
		return m.t("weather_season", "Weather & Season")
	}
}

func (m *Model) renderSteps() string {
	s := theme.Current().S()
	cur := m.wiz.Step()
	parts := make([]string, 0, len(wizard.Steps))
	for i, st := range wizard.Steps {
		label := fmt.Sprintf("%d %s", i+1, m.t(st.LabelKey(), results.FormatKey(st.String())))
		switch {
		case st == cur:
			parts = append(parts, s.StepActive.Render(label))
		case st < cur:
			parts = append(parts, s.StepDone.Render("✓ "+label))
		default:
			parts = append(parts, s.StepPending.Render(label))
		}
	}
	return strings.Join(parts, s.Muted.Render("›"))
}

func (m *Model) renderButtons(width int) string {
	step := m.wiz.Step()
	nextLabel := m.t("next", "Next") + " →"
	nextEnabled := true
	if step == wizard.StepWeather {
		nextLabel = m.t("get_recommendations", "Get Recommendations")
		if m.wiz.Loading() {
			nextLabel = m.spinner.View() + " " + m.t("analyzing", "Analyzing...")
			nextEnabled = false
		}
	}
	backEnabled := step != wizard.StepLocation && !m.wiz.Loading()

	bar := NewButtonBar(CreateBackNextButtons(m.t("back", "Back"), backEnabled, nextEnabled, nextLabel))
	bar.SetWidth(width)
	return bar.Render()
}

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/timeportal/internal/browser"
	"github.com/matheuskafuri/timeportal/internal/facts"
	"github.com/matheuskafuri/timeportal/internal/history"
	"github.com/matheuskafuri/timeportal/internal/search"
	"github.com/matheuskafuri/timeportal/internal/update"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

// mode is the screen state: idle → searching → resultReady, with help
// reachable from idle and results.
type mode int

const (
	modeIdle mode = iota
	modeSearching
	modeResultReady
	modeFilter
	modeHelp
)

type App struct {
	searcher *search.Searcher
	mode     mode
	prevMode mode
	focus    focusPane

	width  int
	height int

	dateInput textinput.Model
	spinner   spinner.Model
	filterBar filterBar

	// Search state. pendingSeq is the ticket whose result may be shown.
	pendingSeq    uint64
	pendingDate   string
	result        facts.SelectionResult
	resultDate    string
	visible       []facts.EventRecord
	cursor        int
	previewScroll int

	recent        []history.Entry
	checker       *update.Checker
	version       string
	updateVersion string
	openLink      func(string) error
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Searcher *search.Searcher
	Recent   []history.Entry
	Date     string
	Checker  *update.Checker
	Version  string
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD"
	ti.Prompt = datePromptStyle.Render("date › ")
	ti.CharLimit = 10
	ti.Width = 12
	ti.SetValue(opts.Date)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	return &App{
		searcher:  opts.Searcher,
		mode:      modeIdle,
		dateInput: ti,
		spinner:   sp,
		filterBar: newFilterBar(),
		recent:    opts.Recent,
		checker:   opts.Checker,
		version:   opts.Version,
		openLink:  browser.Open,
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}

	if a.checker != nil {
		checker, version := a.checker, a.version
		cmds = append(cmds, func() tea.Msg {
			return updateCheckedMsg{result: checker.Check(context.Background(), version)}
		})
	}

	// A date passed on the command line runs straight away.
	if a.dateInput.Value() != "" {
		cmds = append(cmds, a.submit())
	}

	return tea.Batch(cmds...)
}

// submit starts a search for the current input, superseding any search in
// flight. Invalid input is answered immediately without touching the network.
func (a *App) submit() tea.Cmd {
	input := strings.TrimSpace(a.dateInput.Value())
	ticket := a.searcher.Begin(context.Background())
	a.pendingSeq = ticket.Seq
	a.pendingDate = input

	if _, err := facts.ParseDate(input); err != nil {
		a.applyOutcome(a.searcher.Execute(ticket, input))
		return nil
	}

	a.mode = modeSearching
	a.dateInput.Blur()
	return tea.Batch(a.spinner.Tick, searchCmd(a.searcher, ticket, input))
}

func searchCmd(s *search.Searcher, ticket search.Ticket, input string) tea.Cmd {
	return func() tea.Msg {
		return searchDoneMsg{outcome: s.Execute(ticket, input)}
	}
}

func (a *App) applyOutcome(out search.Outcome) {
	a.result = out.Result
	a.resultDate = a.pendingDate
	a.filterBar.reset()
	a.visible = a.result.Facts
	a.cursor = 0
	a.previewScroll = 0
	a.focus = focusList

	if out.Query.Month != "" {
		a.recordRecent(out)
	}

	if out.Err != nil || len(a.result.Facts) == 0 {
		// Nothing to browse; stay on the prompt and show the message.
		a.mode = modeIdle
		a.dateInput.Focus()
		return
	}
	a.mode = modeResultReady
	a.dateInput.Blur()
}

// recordRecent mirrors what the search just stored so the idle screen stays
// current without re-reading the database.
func (a *App) recordRecent(out search.Outcome) {
	e := history.Entry{
		Date:      out.Query.String(),
		Year:      out.Query.Year,
		Month:     out.Query.Month,
		Day:       out.Query.Day,
		Outcome:   string(out.Result.Outcome),
		Message:   out.Result.Message,
		FactCount: len(out.Result.Facts),
	}
	if out.Err != nil {
		e.Outcome = history.OutcomeError
	}
	a.recent = append([]history.Entry{e}, a.recent...)
}

func openLinkCmd(open func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		if err := open(url); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case searchDoneMsg:
		if msg.outcome.Stale || msg.outcome.Seq != a.pendingSeq {
			return a, nil
		}
		a.applyOutcome(msg.outcome)
		if a.mode == modeIdle {
			return a, textinput.Blink
		}
		return a, nil

	case updateCheckedMsg:
		if msg.result != nil {
			a.updateVersion = msg.result.LatestVersion
		}
		return a, nil

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.mode == modeSearching {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.mode == modeIdle {
		var cmd tea.Cmd
		a.dateInput, cmd = a.dateInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeIdle:
		return a.handleIdleKey(msg)
	case modeSearching:
		return a.handleSearchingKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = a.prevMode
		}
		return a, nil
	}
	return a.handleResultKey(msg)
}

func (a *App) handleIdleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return a, a.submit()
	case "esc":
		if len(a.result.Facts) > 0 {
			a.mode = modeResultReady
			a.dateInput.Blur()
			return a, nil
		}
		return a, tea.Quit
	case "?":
		a.prevMode = modeIdle
		a.mode = modeHelp
		return a, nil
	}

	var cmd tea.Cmd
	a.dateInput, cmd = a.dateInput.Update(msg)
	return a, cmd
}

func (a *App) handleSearchingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.searcher.Cancel()
		a.pendingSeq = 0
		a.mode = modeIdle
		a.dateInput.Focus()
		return a, textinput.Blink
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.visible)-1 {
			a.cursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "g", "home":
		a.cursor = 0
		a.previewScroll = 0
		return a, nil
	case "G", "end":
		a.cursor = max(0, len(a.visible)-1)
		a.previewScroll = 0
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if f := a.selected(); f != nil {
			if link := f.Link(); link != "" {
				return a, openLinkCmd(a.openLink, link)
			}
			a.err = fmt.Errorf("no reference page for this event")
		}
		return a, nil
	case "n", "/", "esc":
		a.mode = modeIdle
		a.dateInput.Focus()
		a.dateInput.CursorEnd()
		return a, textinput.Blink
	case "f":
		a.mode = modeFilter
		a.filterBar.filterMode = true
		return a, nil
	case "?":
		a.prevMode = modeResultReady
		a.mode = modeHelp
		return a, nil
	}
	return a, nil
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeResultReady
		a.filterBar.filterMode = false
		return a, nil
	case "left", "h":
		if a.filterBar.filterCursor > 0 {
			a.filterBar.filterCursor--
		}
		return a, nil
	case "right", "l":
		if a.filterBar.filterCursor < len(a.filterBar.categories)-1 {
			a.filterBar.filterCursor++
		}
		return a, nil
	case " ", "enter":
		a.filterBar.toggleCurrent()
		a.refilter()
		return a, nil
	case "1", "2", "3", "4", "5":
		idx := int(msg.String()[0] - '1')
		if idx < len(a.filterBar.categories) {
			a.filterBar.toggle(a.filterBar.categories[idx])
			a.refilter()
		}
		return a, nil
	}
	return a, nil
}

func (a *App) refilter() {
	a.visible = a.filterBar.apply(a.result.Facts)
	a.cursor = 0
	a.previewScroll = 0
}

func (a *App) selected() *facts.EventRecord {
	if len(a.visible) == 0 || a.cursor >= len(a.visible) {
		return nil
	}
	return &a.visible[a.cursor]
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := renderBottomBar(hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  timeportal")
	}

	switch a.mode {
	case modeIdle:
		var message string
		if len(a.result.Facts) == 0 {
			message = a.result.Message
		}
		if a.err != nil {
			message = a.err.Error()
		}
		hints := "enter search  ? help  esc quit"
		if len(a.result.Facts) > 0 {
			hints = "enter search  esc back to results  ? help"
		}
		return a.withBottomBar(renderIdleScreen(a.width, a.height-1, a.dateInput.View(), message, a.recent, a.updateVersion), hints)
	case modeSearching:
		return a.withBottomBar(renderSearchingScreen(a.width, a.height-1, a.spinner.View(), a.pendingDate), "esc cancel  ctrl+c quit")
	case modeHelp:
		return a.withBottomBar(a.renderHelp(), "? close  q close")
	}

	return a.renderResults()
}

func (a *App) renderResults() string {
	headerHeight := 1
	filterHeight := 1
	messageHeight := 0
	if a.result.Message != "" {
		messageHeight = 1
	}
	statusHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - messageHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.35)
	previewWidth := a.width - listWidth - 1 // gap

	if contentHeight < 3 {
		contentHeight = 3
	}

	// Header
	headerLeft := headerStyle.Render("timeportal")
	headerRight := headerDateStyle.Render(a.resultDate + " ")
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	filter := a.filterBar.render(a.width, categoryCounts(a.result.Facts))

	// List pane
	innerListW := listWidth - 4 // border + padding
	listContent := renderList(a.visible, a.cursor, contentHeight, innerListW)

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	// Preview pane
	innerPreviewW := previewWidth - 4
	previewContent := renderPreview(a.selected(), innerPreviewW, contentHeight, a.previewScroll)

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	status := renderStatusBar(len(a.visible), len(a.result.Facts), a.filterBar.activeLabel(), a.width, a.mode == modeFilter)
	if a.err != nil {
		status = lipgloss.NewStyle().Foreground(colorAccent).Render(a.err.Error())
	}

	rows := []string{header, filter}
	if a.result.Message != "" {
		rows = append(rows, messageStyle.Render(truncateStr(a.result.Message, a.width-2)))
	}
	rows = append(rows, content, status)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("timeportal")
	dim := helpDimStyle

	help := title + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Date Prompt") + "\n" +
		"  YYYY-MM-DD    Type a date\n" +
		"  enter         Search that date\n" +
		"  esc           Back to results / quit\n\n" +
		dim.Render("Results") + "\n" +
		"  j/k, ↑/↓     Navigate events\n" +
		"  g/G           First / last event\n" +
		"  tab           Switch focus between list and preview\n" +
		"  o, enter      Open the reference page in browser\n" +
		"  n, /          Search another date\n" +
		"  f             Filter by category\n\n" +
		dim.Render("Filter Mode") + "\n" +
		"  ←/→, h/l     Move between categories\n" +
		"  space/enter   Toggle category\n" +
		"  1-5           Toggle category by number\n" +
		"  esc, f        Exit filter mode\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

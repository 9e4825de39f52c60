package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sonicmood/sonicmood/internal/formatter"
	"github.com/sonicmood/sonicmood/internal/models"
	"github.com/sonicmood/sonicmood/internal/services"
	"github.com/sonicmood/sonicmood/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	SyncView
	TrackListView
	ConfirmView
	SaveView
	ResultView
)

const (
	// suggestionDebounce is how long the search input must be idle before a
	// suggestion lookup fires.
	suggestionDebounce = 400 * time.Millisecond

	// minQueryLength gates suggestion lookups for very short inputs.
	minQueryLength = 2
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	engine  *tasks.Engine
	weather services.WeatherService
	width   int
	height  int

	input          textinput.Model
	searchSeq      uint64
	suggestions    []models.CitySuggestion
	suggestionList list.Model

	trackList list.Model
	result    *models.SyncResult
	warn      error

	progressChan chan tasks.ProgressUpdate
	doneChan     chan tea.Msg
	progress     tasks.ProgressUpdate

	playlist *services.Playlist
	err      error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.Engine, weather services.WeatherService) *Model {
	input := textinput.New()
	input.Placeholder = "City name (empty = use my location)"
	input.Focus()
	input.CharLimit = 64

	return &Model{
		ctx:            ctx,
		view:           SearchView,
		engine:         engine,
		weather:        weather,
		input:          input,
		suggestionList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		trackList:      list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:           help.New(),
		keys:           newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.suggestionList.Width() == 0 {
			m.suggestionList.SetSize(msg.Width-4, msg.Height-10)
		}
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		default:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
		}
		return m, nil

	case debounceMsg:
		// Only the tick issued for the latest keystroke fires a lookup.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		query := m.input.Value()
		if len(query) < minQueryLength {
			m.suggestions = nil
			m.suggestionList.SetItems(nil)
			return m, nil
		}
		return m, m.fetchSuggestions(msg.seq, query)

	case suggestionsMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		if msg.err != nil {
			// A failed lookup just leaves the suggestion list empty.
			m.suggestions = nil
			m.suggestionList.SetItems(nil)
			return m, nil
		}
		m.suggestions = msg.suggestions
		items := make([]list.Item, len(msg.suggestions))
		for i, s := range msg.suggestions {
			items[i] = suggestionItem{suggestion: s}
		}
		m.suggestionList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-10)
		m.suggestionList.Title = "Suggestions"
		m.suggestionList.SetShowHelp(false)
		return m, nil

	case progressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.drainProgress()
		m.result = msg.result
		if msg.result == nil {
			m.err = msg.err
			m.view = ResultView
			return m, nil
		}
		m.warn = msg.err
		m.setTrackList(msg.result)
		m.view = TrackListView
		return m, nil

	case shuffledMsg:
		if msg.err != nil {
			m.warn = msg.err
			return m, nil
		}
		m.result = msg.result
		m.setTrackList(msg.result)
		return m, nil

	case saveCompleteMsg:
		m.drainProgress()
		m.playlist = msg.playlist
		m.err = msg.err
		m.view = ResultView
		return m, nil
	}

	return m.updateActive(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case SyncView:
		return m.renderProgress("Syncing")
	case TrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case SaveView:
		return m.renderProgress("Saving Playlist")
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit) && msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		var cmd tea.Cmd
		m.suggestionList, cmd = m.suggestionList.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.enter):
		return m, m.startSync(m.selectedLocation())
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != before {
		m.searchSeq++
		seq := m.searchSeq
		return m, tea.Batch(cmd, tea.Tick(suggestionDebounce, func(time.Time) tea.Msg {
			return debounceMsg{seq: seq}
		}))
	}
	return m, cmd
}

// selectedLocation resolves what the user asked to sync: a highlighted
// suggestion wins; then the typed city; an empty input means IP geolocation.
func (m *Model) selectedLocation() tasks.Location {
	if len(m.suggestions) > 0 {
		if item, ok := m.suggestionList.SelectedItem().(suggestionItem); ok {
			return tasks.Location{
				Lat:      item.suggestion.Lat,
				Lon:      item.suggestion.Lon,
				HasCoord: true,
			}
		}
	}
	if city := m.input.Value(); city != "" {
		return tasks.Location{City: city}
	}
	return tasks.Location{}
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.resetSearch()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.shuffle):
		return m, m.doShuffle()
	case key.Matches(msg, m.keys.save):
		if len(m.result.Tracks) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = TrackListView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = SaveView
		return m, m.startSave()
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.resetSearch()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.back):
		if m.result != nil {
			m.err = nil
			m.view = TrackListView
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case SearchView:
		m.input, cmd = m.input.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) resetSearch() {
	m.view = SearchView
	m.input.SetValue("")
	m.input.Focus()
	m.searchSeq++
	m.suggestions = nil
	m.suggestionList.SetItems(nil)
	m.playlist = nil
	m.err = nil
	m.warn = nil
}

func (m *Model) setTrackList(result *models.SyncResult) {
	items := make([]list.Item, len(result.Tracks))
	for i, track := range result.Tracks {
		items[i] = trackItem{track: track}
	}
	m.trackList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-10)
	m.trackList.Title = fmt.Sprintf("SonicMood - %s %s", result.Weather.City, result.Weather.Condition)
	m.trackList.SetShowHelp(false)
}

func (m *Model) fetchSuggestions(seq uint64, query string) tea.Cmd {
	return func() tea.Msg {
		suggestions, err := m.weather.SearchCities(m.ctx, query)
		return suggestionsMsg{seq: seq, suggestions: suggestions, err: err}
	}
}

func (m *Model) startSync(loc tasks.Location) tea.Cmd {
	m.view = SyncView
	m.progress = tasks.ProgressUpdate{}
	ch := make(chan tasks.ProgressUpdate, 16)
	m.progressChan = ch

	done := make(chan tea.Msg, 1)
	go func() {
		result, err := m.engine.Sync(m.ctx, loc, func(u tasks.ProgressUpdate) { ch <- u })
		done <- syncCompleteMsg{result: result, err: err}
		close(ch)
	}()
	m.doneChan = done

	return m.waitForProgress()
}

func (m *Model) startSave() tea.Cmd {
	m.progress = tasks.ProgressUpdate{}
	ch := make(chan tasks.ProgressUpdate, 16)
	m.progressChan = ch

	done := make(chan tea.Msg, 1)
	go func() {
		playlist, err := m.engine.SavePlaylist(m.ctx, func(u tasks.ProgressUpdate) { ch <- u })
		done <- saveCompleteMsg{playlist: playlist, err: err}
		close(ch)
	}()
	m.doneChan = done

	return m.waitForProgress()
}

// doShuffle refetches in the background; the track list stays on screen and
// is swapped in place when the new set arrives.
func (m *Model) doShuffle() tea.Cmd {
	return func() tea.Msg {
		result, err := m.engine.Shuffle(m.ctx, nil)
		return shuffledMsg{result: result, err: err}
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progressChan
		if !ok {
			return <-m.doneChan
		}
		return progressMsg(update)
	}
}

func (m *Model) drainProgress() {
	m.progressChan = nil
	m.doneChan = nil
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("SonicMood")
	prompt := "Where are you?\n\n" + m.input.View()

	var suggestions string
	if len(m.suggestions) > 0 {
		suggestions = "\n\n" + m.suggestionList.View()
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, prompt, suggestions, helpView)
}

func (m *Model) renderProgress(heading string) string {
	title := styles.title.Render(heading)
	phase := m.progress.Phase.String()
	return fmt.Sprintf("%s\n\n%s...\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderTrackList() string {
	header := styles.title.Render(formatter.SnapshotLine(&m.result.Weather))

	var warning string
	if m.warn != nil {
		warning = "\n" + styles.warn.Render(fmt.Sprintf("Note: %v", m.warn))
	}

	helpKeys := []key.Binding{m.keys.shuffle, m.keys.save, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s\n%s\n\n%s", header, warning, m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	name := fmt.Sprintf("SonicMood - %s %s", m.result.Weather.City, m.result.Weather.Condition)
	title := styles.title.Render(fmt.Sprintf("Save %q to your library?", name))
	info := fmt.Sprintf("\nTracks: %d\n", len(m.result.Tracks))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		body := styles.err.Render(fmt.Sprintf("Error: %v", m.err))
		return fmt.Sprintf("%s\n\n%s", body, helpView)
	}

	title := styles.ok.Render("✓ Playlist saved")
	var info string
	if m.playlist != nil {
		info = fmt.Sprintf("\n%s\n%s\n", m.playlist.Name, m.playlist.URL)
	}
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

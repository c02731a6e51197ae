package tui

import (
	"errors"
	"log/slog"

	"github.com/Veraticus/botdetector/internal/common"
	"github.com/Veraticus/botdetector/internal/panel"
	"github.com/Veraticus/botdetector/internal/rsn"
	"github.com/Veraticus/botdetector/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var errNoPredictor = errors.New("no predictor configured")

// inputCharLimit leaves room for markup and padding that sanitizing removes.
const inputCharLimit = rsn.MaxLength + 20

// Model adapts a panel.Panel to bubbletea. All panel mutations happen in
// Update; lookups run as commands and come back as messages.
type Model struct {
	panel    *panel.Panel
	styles   themes.Styles
	config   Config
	status   string
	keymap   KeyMap
	help     help.Model
	input    textinput.Model
	spinner  spinner.Model
	width    int
	height   int
	quitting bool
	showHelp bool
}

// NewModel creates the panel model.
func NewModel(opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(cfg)
}

func newModel(cfg Config) Model {
	styles := cfg.Presentation.Styles()

	input := textinput.New()
	input.Placeholder = "Enter a player name"
	input.CharLimit = inputCharLimit
	input.Prompt = "🔍 "
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return Model{
		panel:    panel.New(cfg.Anonymous),
		styles:   styles,
		config:   cfg,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		input:    input,
		spinner:  s,
		width:    cfg.Width,
		height:   cfg.Height,
		showHelp: cfg.ShowHelp,
	}
}

// Panel returns the underlying panel state machine.
func (m Model) Panel() *panel.Panel {
	return m.panel
}

// Init starts the input cursor, the stats refresh and the upload timer.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.refreshStats()}
	if m.config.StatsRefresh > 0 {
		cmds = append(cmds, statsTick(m.config.StatsRefresh))
	}
	if !m.config.OnlyAtLogout && m.config.Queue != nil {
		cmds = append(cmds, uploadTick(m.config.AutoSend))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if m.config.Recorder != nil {
		m.config.Recorder.RecordState(next, msg)
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case lookupRequestMsg:
		m.input.SetValue(msg.name)
		return m, m.submit(msg.name)

	case predictionResolvedMsg:
		if !m.panel.Resolve(msg.outcome) {
			common.LogDebug("Dropping stale lookup", common.Fields{"name": msg.name, "token": msg.outcome.Token})
			return m, nil
		}
		if msg.outcome.Err != nil {
			slog.Warn("Lookup failed", "name", msg.name, "error", msg.outcome.Err)
		}
		m.input.Focus()
		return m, m.record(msg)

	case spinner.TickMsg:
		if m.panel.State() != panel.StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statsTickMsg:
		return m, tea.Batch(m.refreshStats(), statsTick(m.config.StatsRefresh))

	case statsRefreshedMsg:
		if msg.err != nil {
			slog.Warn("Failed to refresh stats", "error", msg.err)
			return m, nil
		}
		m.panel.RefreshStats(msg.stats)
		return m, nil

	case uploadTickMsg:
		return m, tea.Batch(m.flush(), uploadTick(m.config.AutoSend))

	case namesUploadedMsg:
		m.panel.IncrementNamesUploaded(msg.count)
		if msg.err != nil {
			common.LogError(msg.err, "Failed to upload names", common.Fields{"uploaded": msg.count})
			m.status = "Failed to send names to the detector"
			return m, nil
		}
		if msg.count > 0 {
			common.LogInfo("Uploaded names", common.Fields{"count": msg.count})
		}
		if msg.count > 0 && m.config.StatusNotices {
			m.status = pluralize(msg.count, "name") + " sent to the detector"
		}
		return m, nil

	case historyRecordedMsg:
		if msg.err != nil {
			common.LogError(msg.err, "Failed to record lookup", nil)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		if flush := m.flush(); flush != nil {
			return m, tea.Sequence(flush, tea.Quit)
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Clear):
		m.panel.Clear()
		m.input.SetValue("")
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keymap.Upload):
		return m, m.flush()

	case key.Matches(msg, m.keymap.LookupSelf):
		if m.config.PlayerName == "" {
			m.status = "No player name configured"
			return m, nil
		}
		m.input.SetValue(m.config.PlayerName)
		return m, m.submit(m.config.PlayerName)

	case key.Matches(msg, m.keymap.Submit):
		return m, m.submit(m.input.Value())
	}

	if !m.panel.Snapshot().Editable {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.panel.SetInput(m.input.Value())
	return m, cmd
}

// submit validates raw through the panel and dispatches the lookup.
func (m *Model) submit(raw string) tea.Cmd {
	req, ok, err := m.panel.Submit(raw)
	if err != nil {
		slog.Debug("Rejected name", "input", raw, "error", err)
	}
	if !ok {
		return nil
	}

	m.status = ""
	m.input.SetValue(req.Name.String())
	m.input.Blur()
	return tea.Batch(m.predict(req), m.spinner.Tick)
}

package tui

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Veraticus/botdetector/internal/detector"
	"github.com/Veraticus/botdetector/internal/model"
	"github.com/Veraticus/botdetector/internal/panel"
	"github.com/Veraticus/botdetector/internal/rsn"
	"github.com/Veraticus/botdetector/internal/upload"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	err     error
	records []model.LookupRecord
	mu      sync.Mutex
}

func (f *fakeHistory) RecordLookup(_ context.Context, record *model.LookupRecord) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.records = append(f.records, *record)
	return int64(len(f.records)), nil
}

func newTestModel(t *testing.T, opts ...Option) (Model, *detector.MockClient) {
	t.Helper()
	mock := detector.NewMockClient()
	all := append([]Option{WithClient(mock)}, opts...)
	m := NewModel(all...)
	m.width, m.height = 80, 40
	return m, mock
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestModel_LookupFlow(t *testing.T) {
	m, mock := newTestModel(t)

	m.input.SetValue("Zezima")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	snap := m.panel.Snapshot()
	assert.Equal(t, panel.StateLoading, snap.State)
	assert.Equal(t, panel.IconLoading, snap.Icon)
	assert.False(t, snap.Editable)

	msg := m.predict(snap.Request)()
	resolved, ok := msg.(predictionResolvedMsg)
	require.True(t, ok)
	assert.Equal(t, 1, mock.PredictCount())

	m, _ = update(t, m, resolved)
	snap = m.panel.Snapshot()
	assert.Equal(t, panel.StateDisplayingResult, snap.State)
	require.NotNil(t, snap.Primary)
	assert.Equal(t, "Zezima", snap.Primary.PlayerName)
	assert.True(t, snap.ShowBreakdown())

	view := m.View()
	assert.Contains(t, view, "Primary Prediction")
	assert.Contains(t, view, "Prediction Breakdown")
	assert.Contains(t, view, "Zezima")
}

func TestModel_StaleLookupDropped(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, lookupRequestMsg{name: "Alice"})
	reqA := m.panel.Snapshot().Request
	msgA := m.predict(reqA)()

	m, _ = update(t, m, lookupRequestMsg{name: "Bob"})
	reqB := m.panel.Snapshot().Request
	msgB := m.predict(reqB)()
	require.NotEqual(t, reqA.Token, reqB.Token)

	m, _ = update(t, m, msgB)
	m, cmd := update(t, m, msgA)
	assert.Nil(t, cmd, "stale outcomes are not recorded")

	snap := m.panel.Snapshot()
	assert.Equal(t, panel.StateDisplayingResult, snap.State)
	require.NotNil(t, snap.Primary)
	assert.Equal(t, "Bob", snap.Primary.PlayerName)
}

func TestModel_TooLongFlagsInput(t *testing.T) {
	m, mock := newTestModel(t)

	m.input.SetValue("thisnameiswaytoolong")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Zero(t, mock.PredictCount())
	snap := m.panel.Snapshot()
	assert.Equal(t, panel.StateIdle, snap.State)
	assert.Equal(t, panel.IconError, snap.Icon)
	assert.Contains(t, m.View(), "✗ invalid")
}

func TestModel_EmptyInputIgnored(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, panel.StateIdle, m.panel.State())
	assert.Equal(t, panel.IconSearch, m.panel.Snapshot().Icon)
}

func TestModel_LookupError(t *testing.T) {
	m, mock := newTestModel(t)
	mock.PredictFn = func(context.Context, rsn.Name) (model.Prediction, error) {
		return model.Prediction{}, detector.ErrNetwork
	}

	m, _ = update(t, m, lookupRequestMsg{name: "Zezima"})
	msg := m.predict(m.panel.Snapshot().Request)()
	m, _ = update(t, m, msg)

	snap := m.panel.Snapshot()
	assert.Equal(t, panel.StateError, snap.State)
	assert.Equal(t, panel.IconError, snap.Icon)
	assert.True(t, snap.Editable)
	assert.False(t, snap.ShowBreakdown())
	assert.Contains(t, m.View(), "Lookup failed")
	assert.Equal(t, "0", snap.Stats.NamesUploaded, "errors leave stats alone")
}

func TestModel_RecordsAcceptedLookups(t *testing.T) {
	history := &fakeHistory{}
	m, _ := newTestModel(t, WithHistory(history))

	m, _ = update(t, m, lookupRequestMsg{name: "Zezima"})
	msg := m.predict(m.panel.Snapshot().Request)()
	m, cmd := update(t, m, msg)
	require.NotNil(t, cmd)

	recorded, ok := cmd().(historyRecordedMsg)
	require.True(t, ok)
	require.NoError(t, recorded.err)

	require.Len(t, history.records, 1)
	assert.Equal(t, "Zezima", history.records[0].Name)
	assert.NotEmpty(t, history.records[0].Label)
	assert.False(t, history.records[0].Failed())

	_, _ = update(t, m, historyRecordedMsg{err: errors.New("disk full")})
}

func TestModel_ClearAbandonsLookup(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, lookupRequestMsg{name: "Zezima"})
	msg := m.predict(m.panel.Snapshot().Request)()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, panel.StateIdle, m.panel.State())
	assert.Empty(t, m.input.Value())

	m, _ = update(t, m, msg)
	assert.Equal(t, panel.StateIdle, m.panel.State())
}

func TestModel_LookupSelf(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "No player name configured")

	m, _ = newTestModel(t, WithPlayer("Woox", false))
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	require.NotNil(t, cmd)
	assert.Equal(t, "Woox", m.input.Value())
	assert.Equal(t, panel.StateLoading, m.panel.State())
}

func TestModel_StatsRefresh(t *testing.T) {
	m, mock := newTestModel(t, WithPlayer("Woox", false))
	mock.FetchStatsFn = func(context.Context, rsn.Name) (*model.PlayerStats, error) {
		return &model.PlayerStats{Reports: 3, Bans: 1, PossibleBans: 2}, nil
	}

	cmd := m.refreshStats()
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	snap := m.panel.Snapshot().Stats
	assert.Equal(t, "3", snap.Reports)
	assert.Equal(t, "1", snap.Bans)
	assert.Equal(t, "2", snap.PossibleBans)

	m, _ = update(t, m, statsRefreshedMsg{err: detector.ErrNetwork})
	assert.Equal(t, "3", m.panel.Snapshot().Stats.Reports, "failed refresh keeps last values")

	m, _ = update(t, m, statsRefreshedMsg{})
	assert.Empty(t, m.panel.Snapshot().Stats.Reports)
}

func TestModel_AnonymousMode(t *testing.T) {
	m, _ := newTestModel(t, WithPlayer("Woox", true))

	assert.Nil(t, m.refreshStats())
	assert.Contains(t, m.View(), "Anonymous Reporting Active")

	m, _ = newTestModel(t, WithPlayer("Woox", false))
	assert.NotContains(t, m.View(), "Anonymous Reporting Active")
}

func TestModel_UploadFlush(t *testing.T) {
	q := upload.NewQueue()
	q.Add("Alice", "Bob")
	m, mock := newTestModel(t, WithQueue(q), WithPlayer("Woox", true), WithStatusNotices(true))

	cmd := m.flush()
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, "2", m.panel.Snapshot().Stats.NamesUploaded)
	require.Len(t, mock.UploadCalls, 1)
	assert.Empty(t, mock.UploadCalls[0].Reporter, "anonymous uploads carry no reporter")
	assert.Contains(t, m.View(), "2 names sent")
	assert.Nil(t, m.flush(), "nothing left to send")
}

func TestModel_UploadFailure(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, namesUploadedMsg{count: 1, err: detector.ErrNetwork})

	assert.Equal(t, "1", m.panel.Snapshot().Stats.NamesUploaded)
	assert.Contains(t, m.View(), "Failed to send names")
}

func TestModel_QuitFlushesQueue(t *testing.T) {
	q := upload.NewQueue()
	q.Add("Alice")
	m, _ := newTestModel(t, WithQueue(q), WithUploads(10, true))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestModel_IgnoresTypingWhileLoading(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, lookupRequestMsg{name: "Zezima"})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.Equal(t, "Zezima", m.input.Value())
}

func TestModel_Recorder(t *testing.T) {
	rec, err := NewRecorder(true, filepath.Join(t.TempDir(), "rec"))
	require.NoError(t, err)
	defer rec.Close()

	m, _ := newTestModel(t, WithRecorder(rec))
	_, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Equal(t, 1, rec.Frames())
	assert.FileExists(t, filepath.Join(rec.Dir(), "frame-0001.txt"))
}

func TestRecorder_Disabled(t *testing.T) {
	rec, err := NewRecorder(false, "")
	require.NoError(t, err)

	m, _ := newTestModel(t)
	rec.RecordState(m, nil)
	assert.Zero(t, rec.Frames())
	rec.Close()
}

func TestModel_UploadNoticeDisabled(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, namesUploadedMsg{count: 4})

	assert.Equal(t, "4", m.panel.Snapshot().Stats.NamesUploaded)
	assert.NotContains(t, m.View(), "sent to the detector")
}

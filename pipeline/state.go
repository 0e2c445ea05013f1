package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"yourmovie/config"
	"yourmovie/stylize"
)

// ErrBusy is returned when a job is already running.
var ErrBusy = errors.New("another job is already running")

// Manager holds the studio state with thread-safe access
type Manager struct {
	mu sync.RWMutex

	currentState State
	jobID        string
	progress     Progress
	// editing is set while Exclusive runs; no job may start meanwhile
	editing bool

	lastProcess *stylize.Result
	lastJob     *JobResult

	// Logs (ring buffer)
	logs    []LogEntry
	maxLogs int
	lastErr error
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{
		currentState: StateIdle,
		logs:         make([]LogEntry, 0),
		maxLogs:      config.StatusLogSize,
	}
}

// Begin moves to a busy state unless a job is already running.
func (m *Manager) Begin(state State, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentState.Busy() || m.editing {
		return ErrBusy
	}
	m.currentState = state
	m.jobID = jobID
	m.progress = Progress{}
	m.lastErr = nil
	return nil
}

// Exclusive runs fn while holding off every job. It returns ErrBusy without
// calling fn when a job or another Exclusive call is running.
func (m *Manager) Exclusive(fn func() error) error {
	m.mu.Lock()
	if m.currentState.Busy() || m.editing {
		m.mu.Unlock()
		return ErrBusy
	}
	m.editing = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.editing = false
		m.mu.Unlock()
	}()
	return fn()
}

// AddLog adds a log entry (thread-safe)
func (m *Manager) AddLog(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendLog(message)
}

// appendLog must be called with the lock held
func (m *Manager) appendLog(message string) {
	m.logs = append(m.logs, LogEntry{Timestamp: time.Now(), Message: message})
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}

// GetStatus returns a snapshot of the current state (thread-safe)
func (m *Manager) GetStatus() StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := StatusResponse{
		State:    m.currentState,
		Logs:     append([]LogEntry{}, m.logs...),
		Progress: m.progress,
		JobID:    m.jobID,
	}
	if m.lastProcess != nil {
		r := *m.lastProcess
		resp.LastProcess = &r
	}
	if m.lastJob != nil {
		j := *m.lastJob
		resp.LastJob = &j
	}
	if m.lastErr != nil {
		resp.Error = m.lastErr.Error()
	}
	return resp
}

// SetState sets the current state (thread-safe)
func (m *Manager) SetState(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentState = state
}

// GetState gets the current state (thread-safe)
func (m *Manager) GetState() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState
}

// SetProgress records progress of the running job
func (m *Manager) SetProgress(done, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = Progress{Done: done, Total: total}
}

// SetError sets the error state
func (m *Manager) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentState = StateError
	m.lastErr = err
	m.appendLog(fmt.Sprintf("Error: %v", err))
}

// FinishProcess stores the stylization counts and returns to idle
func (m *Manager) FinishProcess(res stylize.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastProcess = &res
	m.currentState = StateIdle
	m.appendLog(fmt.Sprintf("Processing finished: %d succeeded, %d failed", res.Success, res.Failure))
}

// FinishJob stores the render result and moves to complete
func (m *Manager) FinishJob(res JobResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastJob = &res
	m.currentState = StateComplete
	m.appendLog(fmt.Sprintf("Movie %s is ready", res.JobID))
}

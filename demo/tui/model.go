package tui

import (
	"fmt"
	"time"

	"docreel/types"

	tea "github.com/charmbracelet/bubbletea"
)

// State represents the studio's step in the upload, script, render flow
type State string

const (
	StateIdle        State = "idle"
	StateUploading   State = "uploading"
	StateConfigure   State = "configure"
	StateScripting   State = "scripting"
	StateReview      State = "review"
	StateRendering   State = "rendering"
	StateDownloading State = "downloading"
	StateComplete    State = "complete"
	StateError       State = "error"
)

// Genres and Durations are the choices offered in the configure step
var (
	Genres    = []string{"documentary", "cinematic", "upbeat", "educational"}
	Durations = []string{"30 sec", "1 min"}
)

const maxLogs = 10

// Model represents the studio client state
type Model struct {
	Client    *StudioClient
	DocPath   string
	OutputDir string

	State       State
	Text        string
	GenreIdx    int
	DurationIdx int
	Segments    []types.ScriptSegment
	VideoURL    string
	SavedPath   string
	Logs        []string
	Err         error

	// retry re-issues the request that failed
	retry State
}

// NewModel creates a studio for one document
func NewModel(baseURL, docPath, outputDir string) Model {
	return Model{
		Client:      NewStudioClient(baseURL),
		DocPath:     docPath,
		OutputDir:   outputDir,
		State:       StateIdle,
		DurationIdx: 1,
		Logs:        make([]string, 0),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return nil
}

// Genre is the selected genre
func (m Model) Genre() string { return Genres[m.GenreIdx] }

// Duration is the selected target duration
func (m Model) Duration() string { return Durations[m.DurationIdx] }

// AddLog appends a timestamped activity line, keeping the most recent few
func (m Model) AddLog(msg string) Model {
	m.Logs = append(m.Logs, fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg))
	if len(m.Logs) > maxLogs {
		m.Logs = m.Logs[len(m.Logs)-maxLogs:]
	}
	return m
}

// fail moves to the error state, remembering where to resume
func (m Model) fail(from State, err error) Model {
	m.retry = from
	m.State = StateError
	m.Err = err
	return m.AddLog("Error: " + err.Error())
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	switch m.State {
	case StateIdle:
		return HighlightStyle.Render("👋 Ready to start!") + "\n\n" +
			InfoStyle.Render("Document: "+m.DocPath)
	case StateUploading:
		return StatusStyle.Render("📤 Uploading and extracting text...")
	case StateConfigure:
		return HighlightStyle.Render("🎛  Choose a style")
	case StateScripting:
		return StatusStyle.Render(fmt.Sprintf("✍️  Writing a %s script (%s)...", m.Genre(), m.Duration()))
	case StateReview:
		return HighlightStyle.Render("📜 Script ready")
	case StateRendering:
		return StatusStyle.Render("🎬 Rendering video, this can take a few minutes...")
	case StateDownloading:
		return StatusStyle.Render("⬇️  Downloading video...")
	case StateComplete:
		return HighlightStyle.Render("✅ COMPLETE")
	case StateError:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render(fmt.Sprintf("❌ Error: %v", errMsg))
	default:
		return ""
	}
}

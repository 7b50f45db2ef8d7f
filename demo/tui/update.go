package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case UploadDoneMsg:
		return m.handleUploadDone(msg)
	case ScriptDoneMsg:
		return m.handleScriptDone(msg)
	case VideoDoneMsg:
		return m.handleVideoDone(msg)
	case DownloadDoneMsg:
		return m.handleDownloadDone(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}

	switch m.State {
	case StateIdle:
		if key == "enter" || key == "u" {
			return m.startUpload()
		}
	case StateConfigure:
		switch key {
		case "left", "h":
			m.GenreIdx = (m.GenreIdx + len(Genres) - 1) % len(Genres)
		case "right", "l", "tab":
			m.GenreIdx = (m.GenreIdx + 1) % len(Genres)
		case "up", "down", "k", "j":
			m.DurationIdx = (m.DurationIdx + 1) % len(Durations)
		case "enter":
			return m.startScript()
		}
	case StateReview:
		switch key {
		case "enter":
			return m.startRender()
		case "r":
			return m.startScript()
		case "esc":
			m.State = StateConfigure
		}
	case StateError:
		if key == "r" {
			return m.resume()
		}
	}
	return m, nil
}

func (m Model) startUpload() (tea.Model, tea.Cmd) {
	m.State = StateUploading
	m = m.AddLog("Uploading " + m.DocPath)
	return m, uploadDocument(m.Client, m.DocPath)
}

func (m Model) startScript() (tea.Model, tea.Cmd) {
	m.State = StateScripting
	m = m.AddLog(fmt.Sprintf("Generating %s script for %s", m.Genre(), m.Duration()))
	return m, generateScript(m.Client, m.Text, m.Genre(), m.Duration())
}

func (m Model) startRender() (tea.Model, tea.Cmd) {
	m.State = StateRendering
	m = m.AddLog(fmt.Sprintf("Rendering %d segments", len(m.Segments)))
	return m, createVideo(m.Client, m.Segments, m.Genre())
}

func (m Model) startDownload() (tea.Model, tea.Cmd) {
	m.State = StateDownloading
	return m, downloadVideo(m.Client, m.VideoURL, m.OutputDir)
}

// resume retries the step that failed
func (m Model) resume() (tea.Model, tea.Cmd) {
	m.Err = nil
	switch m.retry {
	case StateUploading:
		return m.startUpload()
	case StateScripting:
		return m.startScript()
	case StateRendering:
		return m.startRender()
	case StateDownloading:
		return m.startDownload()
	}
	m.State = StateIdle
	return m, nil
}

func (m Model) handleUploadDone(msg UploadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.fail(StateUploading, fmt.Errorf("upload failed: %w", msg.Err)), nil
	}
	if strings.TrimSpace(msg.Text) == "" {
		return m.fail(StateUploading, errors.New("no text could be extracted from the document")), nil
	}
	m.Text = msg.Text
	m.State = StateConfigure
	m = m.AddLog(fmt.Sprintf("Extracted %d characters", len([]rune(msg.Text))))
	return m, nil
}

func (m Model) handleScriptDone(msg ScriptDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.fail(StateScripting, msg.Err), nil
	}
	m.Segments = msg.Segments
	m.State = StateReview
	m = m.AddLog(fmt.Sprintf("Script has %d segments", len(msg.Segments)))
	return m, nil
}

func (m Model) handleVideoDone(msg VideoDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.fail(StateRendering, msg.Err), nil
	}
	m.VideoURL = msg.VideoURL
	m = m.AddLog("Video rendered: " + msg.VideoURL)
	return m.startDownload()
}

func (m Model) handleDownloadDone(msg DownloadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.fail(StateDownloading, msg.Err), nil
	}
	m.SavedPath = msg.Path
	m.State = StateComplete
	m = m.AddLog("Saved to " + msg.Path)
	return m, nil
}

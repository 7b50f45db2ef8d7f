package tui

import (
	"docreel/types"

	tea "github.com/charmbracelet/bubbletea"
)

func uploadDocument(client *StudioClient, docPath string) tea.Cmd {
	return func() tea.Msg {
		text, err := client.Upload(docPath)
		return UploadDoneMsg{Text: text, Err: err}
	}
}

func generateScript(client *StudioClient, text, genre, duration string) tea.Cmd {
	return func() tea.Msg {
		segments, err := client.GenerateScript(text, genre, duration)
		return ScriptDoneMsg{Segments: segments, Err: err}
	}
}

func createVideo(client *StudioClient, segments []types.ScriptSegment, genre string) tea.Cmd {
	return func() tea.Msg {
		videoURL, err := client.CreateVideo(segments, genre)
		return VideoDoneMsg{VideoURL: videoURL, Err: err}
	}
}

func downloadVideo(client *StudioClient, videoURL, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := client.Download(videoURL, dir)
		return DownloadDoneMsg{Path: path, Err: err}
	}
}

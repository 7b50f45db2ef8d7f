package tui

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docreel/types"

	tea "github.com/charmbracelet/bubbletea"
)

func newStudioServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, `{"detail":"missing file"}`, http.StatusUnprocessableEntity)
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success", "text": hdr.Filename + ":" + string(body)})
	})
	mux.HandleFunc("/generate-script", func(w http.ResponseWriter, r *http.Request) {
		if r.PostFormValue("genre") == "fail" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"detail":"Script generation failed"}`))
			return
		}
		_ = json.NewEncoder(w).Encode([]types.ScriptSegment{
			{Text: r.PostFormValue("text"), SearchTerm: r.PostFormValue("genre")},
			{Text: r.PostFormValue("duration"), SearchTerm: "sky"},
		})
	})
	mux.HandleFunc("/create-video", func(w http.ResponseWriter, r *http.Request) {
		segments, err := types.ParseScript(r.PostFormValue("script"), "nature")
		if err != nil || len(segments) != 2 {
			http.Error(w, `{"detail":"bad script"}`, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "completed", "video_url": "/download/final_abc.mp4"})
	})
	mux.HandleFunc("/download/final_abc.mp4", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("mp4-bytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStudioClientRoundTrip(t *testing.T) {
	srv := newStudioServer(t)
	c := NewStudioClient(srv.URL + "/")

	doc := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(doc, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := c.Upload(doc)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if text != "notes.txt:hello" {
		t.Errorf("Upload() = %q", text)
	}

	segments, err := c.GenerateScript(text, "upbeat", "30 sec")
	if err != nil {
		t.Fatalf("GenerateScript() error = %v", err)
	}
	if len(segments) != 2 || segments[0].SearchTerm != "upbeat" || segments[1].Text != "30 sec" {
		t.Errorf("GenerateScript() = %+v", segments)
	}

	videoURL, err := c.CreateVideo(segments, "upbeat")
	if err != nil {
		t.Fatalf("CreateVideo() error = %v", err)
	}
	if videoURL != "/download/final_abc.mp4" {
		t.Errorf("CreateVideo() = %q", videoURL)
	}

	out := filepath.Join(t.TempDir(), "videos")
	saved, err := c.Download(videoURL, out)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if saved != filepath.Join(out, "final_abc.mp4") {
		t.Errorf("Download() path = %q", saved)
	}
	data, err := os.ReadFile(saved)
	if err != nil || string(data) != "mp4-bytes" {
		t.Errorf("downloaded content = %q, err = %v", data, err)
	}
}

func TestStudioClientErrorDetail(t *testing.T) {
	srv := newStudioServer(t)
	c := NewStudioClient(srv.URL)

	_, err := c.GenerateScript("text", "fail", "1 min")
	if err == nil || !strings.Contains(err.Error(), "Script generation failed") {
		t.Errorf("GenerateScript() error = %v", err)
	}

	if _, err := c.Download("/download/missing.mp4", t.TempDir()); err == nil {
		t.Error("Download() should fail on 404")
	}
}

func TestModelDefaults(t *testing.T) {
	m := NewModel("http://localhost:8000", "doc.pdf", ".")
	if m.Genre() != "documentary" || m.Duration() != "1 min" {
		t.Errorf("defaults = %s / %s", m.Genre(), m.Duration())
	}
	if m.State != StateIdle {
		t.Errorf("State = %s", m.State)
	}
}

func TestModelAddLogKeepsRecent(t *testing.T) {
	m := NewModel("", "doc.txt", ".")
	for i := 0; i < maxLogs+5; i++ {
		m = m.AddLog("entry")
	}
	if len(m.Logs) != maxLogs {
		t.Errorf("len(Logs) = %d, want %d", len(m.Logs), maxLogs)
	}
}

func TestModelFlow(t *testing.T) {
	m := NewModel("http://localhost:8000", "doc.txt", ".")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.State != StateUploading || cmd == nil {
		t.Fatalf("after enter: state = %s", m.State)
	}

	next, _ = m.Update(UploadDoneMsg{Text: "extracted"})
	m = next.(Model)
	if m.State != StateConfigure || m.Text != "extracted" {
		t.Fatalf("after upload: state = %s", m.State)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.Genre() != "cinematic" || m.Duration() != "30 sec" {
		t.Errorf("selection = %s / %s", m.Genre(), m.Duration())
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.State != StateScripting || cmd == nil {
		t.Fatalf("after configure: state = %s", m.State)
	}

	next, _ = m.Update(ScriptDoneMsg{Err: errors.New("boom")})
	m = next.(Model)
	if m.State != StateError {
		t.Fatalf("after failed script: state = %s", m.State)
	}
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	if m.State != StateScripting || cmd == nil {
		t.Fatalf("retry: state = %s", m.State)
	}

	next, _ = m.Update(ScriptDoneMsg{Segments: []types.ScriptSegment{{Text: "One", SearchTerm: "sky"}}})
	m = next.(Model)
	if m.State != StateReview || !strings.Contains(m.View(), "One") {
		t.Fatalf("after script: state = %s", m.State)
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.State != StateRendering || cmd == nil {
		t.Fatalf("after review: state = %s", m.State)
	}

	next, cmd = m.Update(VideoDoneMsg{VideoURL: "/download/final_x.mp4"})
	m = next.(Model)
	if m.State != StateDownloading || cmd == nil {
		t.Fatalf("after render: state = %s", m.State)
	}

	next, _ = m.Update(DownloadDoneMsg{Path: "final_x.mp4"})
	m = next.(Model)
	if m.State != StateComplete || !strings.Contains(m.View(), "final_x.mp4") {
		t.Errorf("after download: state = %s", m.State)
	}
}

func TestModelRejectsEmptyExtraction(t *testing.T) {
	m := NewModel("", "doc.txt", ".")
	next, _ := m.Update(UploadDoneMsg{Text: "   "})
	if got := next.(Model); got.State != StateError || got.retry != StateUploading {
		t.Errorf("state = %s, retry = %s", got.State, got.retry)
	}
}

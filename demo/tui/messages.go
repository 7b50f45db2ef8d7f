package tui

import "docreel/types"

// Messages for the tea program, one per server round trip

// UploadDoneMsg carries the extracted document text
type UploadDoneMsg struct {
	Text string
	Err  error
}

// ScriptDoneMsg carries a generated script
type ScriptDoneMsg struct {
	Segments []types.ScriptSegment
	Err      error
}

// VideoDoneMsg carries the download URL of a rendered video
type VideoDoneMsg struct {
	VideoURL string
	Err      error
}

// DownloadDoneMsg carries the local path of the saved video
type DownloadDoneMsg struct {
	Path string
	Err  error
}

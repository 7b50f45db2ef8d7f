package tui

// Footer help per state
const (
	TextFooterIdle      = "Press Enter to upload the document | Press 'q' to quit"
	TextFooterConfigure = "←/→ genre | ↑/↓ duration | Enter to write the script | 'q' to quit"
	TextFooterReview    = "Enter to render | 'r' to regenerate | Esc to change style | 'q' to quit"
	TextFooterBusy      = "Working... | Press 'q' or Ctrl+C to quit"
	TextFooterError     = "Press 'r' to retry | Press 'q' to quit"
	TextFooterComplete  = "Press 'q' or Ctrl+C to exit"
)

package tui

import (
	"fmt"
	"strings"
)

const previewChars = 300

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🎞  docreel studio"))
	b.WriteString("\n")
	b.WriteString(m.stepper())
	b.WriteString("\n\n")

	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	switch m.State {
	case StateConfigure:
		b.WriteString(BoxStyle.Render(m.formatChoices()))
		b.WriteString("\n\n")
	case StateReview:
		b.WriteString(BoxStyle.Render(m.formatScript()))
		b.WriteString("\n\n")
	case StateComplete:
		b.WriteString(BoxStyle.Render(fmt.Sprintf("Video URL: %s\nSaved to:  %s", m.VideoURL, m.SavedPath)))
		b.WriteString("\n\n")
	}

	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, logMsg := range m.Logs {
			b.WriteString(InfoStyle.Render("   " + logMsg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(InfoStyle.Render(m.footer()))
	return b.String()
}

// stepper renders the four steps of the flow, marking the active one
func (m Model) stepper() string {
	steps := []string{"1 Upload", "2 Style", "3 Script", "4 Video"}
	active := 0
	switch m.State {
	case StateConfigure, StateScripting:
		active = 1
	case StateReview:
		active = 2
	case StateRendering, StateDownloading, StateComplete:
		active = 3
	case StateError:
		active = -1
	}

	parts := make([]string, len(steps))
	for i, s := range steps {
		if i == active {
			parts[i] = HighlightStyle.Render(s)
		} else {
			parts[i] = InfoStyle.Render(s)
		}
	}
	return strings.Join(parts, InfoStyle.Render(" ─ "))
}

func (m Model) formatChoices() string {
	var b strings.Builder
	preview := []rune(m.Text)
	if len(preview) > previewChars {
		preview = append(preview[:previewChars], []rune("...")...)
	}
	b.WriteString(fmt.Sprintf("Extracted text:\n%s\n\n", InfoStyle.Render(string(preview))))

	b.WriteString("Genre:    ")
	for i, g := range Genres {
		b.WriteString(choice(g, i == m.GenreIdx))
	}
	b.WriteString("\nDuration: ")
	for i, d := range Durations {
		b.WriteString(choice(d, i == m.DurationIdx))
	}
	return b.String()
}

func choice(label string, selected bool) string {
	if selected {
		return SelectedStyle.Render(label) + " "
	}
	return InfoStyle.Render(label) + " "
}

func (m Model) formatScript() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s · %s · %d segments\n\n", m.Genre(), m.Duration(), len(m.Segments)))
	for i, s := range m.Segments {
		b.WriteString(fmt.Sprintf("%2d. %s\n", i+1, s.Text))
		b.WriteString(InfoStyle.Render(fmt.Sprintf("    🎥 %s", s.SearchTerm)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) footer() string {
	switch m.State {
	case StateIdle:
		return TextFooterIdle
	case StateConfigure:
		return TextFooterConfigure
	case StateReview:
		return TextFooterReview
	case StateError:
		return TextFooterError
	case StateComplete:
		return TextFooterComplete
	default:
		return TextFooterBusy
	}
}

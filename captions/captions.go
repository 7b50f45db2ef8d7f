package captions

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strings"

	"docreel/config"
	"docreel/types"
)

// Caption is a group of words shown together on screen.
type Caption struct {
	Text  string
	Start float64
	End   float64
}

// Chunk groups words into captions of size words; the last may be shorter.
// A caption never starts before the previous one ends and never ends
// before it starts.
func Chunk(words []types.WordTimestamp, size int) []Caption {
	if size <= 0 {
		size = config.CaptionWordsPerChunk
	}

	captions := make([]Caption, 0, (len(words)+size-1)/size)
	prevEnd := 0.0
	for i := 0; i < len(words); i += size {
		group := words[i:min(i+size, len(words))]

		parts := make([]string, len(group))
		for j, w := range group {
			parts[j] = strings.TrimSpace(w.Word)
		}

		start := group[0].Start
		end := group[len(group)-1].End
		if len(captions) > 0 && start < prevEnd {
			start = prevEnd
		}
		if end < start {
			end = start
		}

		captions = append(captions, Caption{Text: strings.Join(parts, " "), Start: start, End: end})
		prevEnd = end
	}
	return captions
}

// WriteASS writes captions as an ASS subtitle file sized for a width x
// height frame: bold yellow text with a black outline, centred, wrapping
// inside the middle CaptionWidthRatio of the frame.
func WriteASS(path string, captions []Caption, width, height int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	margin := int(math.Round(float64(width) * (1 - config.CaptionWidthRatio) / 2))

	fmt.Fprintln(w, "[Script Info]")
	fmt.Fprintln(w, "Title: docreel captions")
	fmt.Fprintln(w, "ScriptType: v4.00+")
	fmt.Fprintln(w, "WrapStyle: 0")
	fmt.Fprintf(w, "PlayResX: %d\n", width)
	fmt.Fprintf(w, "PlayResY: %d\n", height)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "[V4+ Styles]")
	fmt.Fprintln(w, "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding")
	// Yellow fill, black outline, middle-centre alignment (5)
	fmt.Fprintf(w, "Style: Default,%s,%d,&H0000FFFF,&H0000FFFF,&H00000000,&H00000000,-1,0,0,0,100,100,0,0,1,%d,0,5,%d,%d,0,1\n",
		config.CaptionFont, config.CaptionFontSize, config.CaptionOutline, margin, margin)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "[Events]")
	fmt.Fprintln(w, "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text")

	for _, c := range captions {
		fmt.Fprintf(w, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatASSTimestamp(c.Start),
			formatASSTimestamp(c.End),
			escapeText(c.Text))
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return file.Close()
}

// formatASSTimestamp converts seconds to ASS timestamp format (h:mm:ss.cc)
func formatASSTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	cs := int64(math.Round(seconds * 100))
	hours := cs / 360000
	minutes := cs / 6000 % 60
	secs := cs / 100 % 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, cs%100)
}

// escapeText keeps words from being read as override blocks or line breaks.
func escapeText(s string) string {
	r := strings.NewReplacer("{", "(", "}", ")", "\\", "/", "\r", " ", "\n", " ")
	return r.Replace(s)
}

package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ScriptSegment is one narrated line of the video and the stock footage
// query that illustrates it. Slice order is playback order.
type ScriptSegment struct {
	Text       string `json:"text"`
	SearchTerm string `json:"search_term"`
}

// ParseScript decodes a client-supplied JSON script. Segments without a
// search term get defaultTerm; an empty script is rejected.
func ParseScript(raw string, defaultTerm string) ([]ScriptSegment, error) {
	var segments []ScriptSegment
	if err := json.Unmarshal([]byte(raw), &segments); err != nil {
		return nil, fmt.Errorf("invalid script JSON: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("script has no segments")
	}

	for i := range segments {
		if strings.TrimSpace(segments[i].SearchTerm) == "" {
			segments[i].SearchTerm = defaultTerm
		}
	}
	return segments, nil
}

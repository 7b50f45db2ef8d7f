package types

// WordTimestamp is a recognised word with its start and end in seconds.
type WordTimestamp struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Shift returns a copy of words moved later by offset seconds.
func Shift(words []WordTimestamp, offset float64) []WordTimestamp {
	out := make([]WordTimestamp, len(words))
	for i, w := range words {
		out[i] = WordTimestamp{Word: w.Word, Start: w.Start + offset, End: w.End + offset}
	}
	return out
}

// Sanitize drops negative times and makes every End at least its Start.
func Sanitize(words []WordTimestamp) []WordTimestamp {
	out := make([]WordTimestamp, 0, len(words))
	for _, w := range words {
		if w.Start < 0 {
			w.Start = 0
		}
		if w.End < w.Start {
			w.End = w.Start
		}
		out = append(out, w)
	}
	return out
}

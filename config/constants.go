package config

import "time"

// Video Output Constants
const (
	// FrameWidth is the output video width (16:9 landscape)
	FrameWidth = 1280

	// FrameHeight is the output video height (16:9 landscape)
	FrameHeight = 720

	// FrameRate is the output frames per second
	FrameRate = 24

	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"

	// RenderThreads is the encoder thread count for the final render
	RenderThreads = 4

	// PlaceholderColor fills segments without stock footage
	PlaceholderColor = "black"
)

// Timeline Constants
const (
	// SegmentPadding is appended to every narration clip in seconds
	SegmentPadding = 0.2

	// MusicVolume is the linear gain applied to background music
	MusicVolume = 0.1
)

// Caption Constants
const (
	// CaptionWordsPerChunk is the number of words shown on screen at once
	CaptionWordsPerChunk = 3

	// CaptionFont must be installed where ffmpeg runs
	CaptionFont = "DejaVu Sans"

	// CaptionFontSize is the caption size in frame pixels
	CaptionFontSize = 60

	// CaptionOutline is the stroke width around caption glyphs
	CaptionOutline = 2

	// CaptionWidthRatio is the share of the frame width captions wrap inside
	CaptionWidthRatio = 0.8
)

// Script Constants
const (
	// MaxSourceChars is the extraction budget handed to the language model
	MaxSourceChars = 4000

	// FallbackSearchTerm is used when the model output is not a JSON script
	FallbackSearchTerm = "abstract background"

	// DefaultSearchTerm is used when a client-supplied segment omits one
	DefaultSearchTerm = "abstract"
)

// Genre Constants
const (
	// DefaultGenre selects the music track for unknown genres
	DefaultGenre = "upbeat"

	// DocumentaryGenre switches narration to the documentary voice
	DocumentaryGenre = "documentary"
)

// Directory Constants
const (
	// TempDir holds uploads, job work directories and final renders
	TempDir = "temp_files"
)

// Server Constants
const (
	// ShutdownTimeout bounds how long in-flight renders may finish after a
	// stop signal
	ShutdownTimeout = 10 * time.Minute
)

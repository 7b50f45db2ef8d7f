package video

import (
	"context"
	"errors"
	"fmt"

	"docreel/captions"
	"docreel/config"
	"docreel/media"
	"docreel/speech"
	"docreel/types"

	"go.uber.org/zap"
)

type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice, dest string) error
}

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) []types.WordTimestamp
}

type FootageFetcher interface {
	Fetch(ctx context.Context, query, dest string) bool
}

type MusicDownloader interface {
	Download(ctx context.Context, genre, dest string) bool
}

// Editor is the media toolbox the assembler drives. *media.FFmpeg
// satisfies it.
type Editor interface {
	Duration(ctx context.Context, path string) (float64, error)
	FitClip(ctx context.Context, spec media.ClipSpec, dest string) error
	SolidClip(ctx context.Context, duration float64, dest string) error
	PadNarration(ctx context.Context, src string, duration float64, dest string) error
	Render(ctx context.Context, plan media.RenderPlan) error
}

// Options tune the final render.
type Options struct {
	Threads           int
	KeepIntermediates bool
}

// Assembler turns a script into a finished video.
type Assembler struct {
	synth   Synthesizer
	voices  speech.Voices
	words   Transcriber
	footage FootageFetcher
	music   MusicDownloader
	editor  Editor
	opts    Options
	log     *zap.Logger
}

func NewAssembler(synth Synthesizer, voices speech.Voices, words Transcriber, footage FootageFetcher,
	music MusicDownloader, editor Editor, opts Options, log *zap.Logger) *Assembler {
	return &Assembler{
		synth:   synth,
		voices:  voices,
		words:   words,
		footage: footage,
		music:   music,
		editor:  editor,
		opts:    opts,
		log:     log,
	}
}

// timeline accumulates the per-segment outputs in playback order.
type timeline struct {
	clips     []string
	narration []string
	words     []types.WordTimestamp
	offset    float64
}

// Create renders segments to job.OutputPath and returns the output file
// name. On error nothing of the job is left on disk.
func (a *Assembler) Create(ctx context.Context, job *types.Job, segments []types.ScriptSegment, genre string) (name string, err error) {
	log := a.log.With(zap.String("job", job.ID), zap.String("genre", genre))

	defer func() {
		if err != nil {
			if derr := job.Discard(); derr != nil {
				log.Warn("failed to discard job files", zap.Error(derr))
			}
			return
		}
		if a.opts.KeepIntermediates {
			log.Debug("keeping intermediates", zap.String("dir", job.WorkDir))
			return
		}
		if cerr := job.Cleanup(); cerr != nil {
			log.Warn("failed to clean up job files", zap.Error(cerr))
		}
	}()

	if len(segments) == 0 {
		return "", errors.New("script has no segments")
	}

	voice := a.voices.ForGenre(genre)
	log.Info("creating video", zap.Int("segments", len(segments)), zap.String("voice", voice))

	tl := &timeline{}
	for i, seg := range segments {
		if err := a.addSegment(ctx, log, job, tl, i, seg, voice); err != nil {
			return "", fmt.Errorf("segment %d: %w", i, err)
		}
	}

	subtitles := job.Path("captions.ass")
	caps := captions.Chunk(tl.words, config.CaptionWordsPerChunk)
	if err := captions.WriteASS(subtitles, caps, config.FrameWidth, config.FrameHeight); err != nil {
		return "", fmt.Errorf("write captions: %w", err)
	}

	musicPath := job.Path("music.mp3")
	if !a.music.Download(ctx, genre, musicPath) {
		log.Info("rendering without background music")
		musicPath = ""
	}

	plan := media.RenderPlan{
		Clips:     tl.clips,
		Narration: tl.narration,
		Subtitles: subtitles,
		Music:     musicPath,
		Duration:  tl.offset,
		Output:    job.OutputPath,
		Threads:   a.opts.Threads,
	}
	if err := a.editor.Render(ctx, plan); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	log.Info("video created",
		zap.String("output", job.OutputName()),
		zap.Float64("duration", tl.offset),
		zap.Int("captions", len(caps)))
	return job.OutputName(), nil
}

func (a *Assembler) addSegment(ctx context.Context, log *zap.Logger, job *types.Job, tl *timeline, i int, seg types.ScriptSegment, voice string) error {
	audio := job.Path(fmt.Sprintf("voice_%d.mp3", i))
	if err := a.synth.Synthesize(ctx, seg.Text, voice, audio); err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	spoken, err := a.editor.Duration(ctx, audio)
	if err != nil {
		return fmt.Errorf("narration duration: %w", err)
	}
	padded := spoken + config.SegmentPadding

	words := a.words.Transcribe(ctx, audio)
	tl.words = append(tl.words, types.Shift(words, tl.offset)...)

	clip := job.Path(fmt.Sprintf("clip_%d.mp4", i))
	if err := a.fitFootage(ctx, log, job, i, seg.SearchTerm, padded, clip); err != nil {
		return err
	}

	narration := job.Path(fmt.Sprintf("narration_%d.wav", i))
	if err := a.editor.PadNarration(ctx, audio, padded, narration); err != nil {
		return fmt.Errorf("pad narration: %w", err)
	}

	log.Debug("segment ready",
		zap.Int("segment", i),
		zap.Float64("start", tl.offset),
		zap.Float64("duration", padded),
		zap.Int("words", len(words)))

	tl.clips = append(tl.clips, clip)
	tl.narration = append(tl.narration, narration)
	tl.offset += padded
	return nil
}

// fitFootage writes a clip of exactly duration seconds to dest, using
// stock footage when available and a solid placeholder otherwise.
func (a *Assembler) fitFootage(ctx context.Context, log *zap.Logger, job *types.Job, i int, query string, duration float64, dest string) error {
	raw := job.Path(fmt.Sprintf("footage_%d.mp4", i))

	if a.footage.Fetch(ctx, query, raw) {
		length, err := a.editor.Duration(ctx, raw)
		if err == nil {
			spec := media.ClipSpec{Source: raw, Duration: duration, Loop: length < duration}
			if err = a.editor.FitClip(ctx, spec, dest); err == nil {
				return nil
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("stock footage unusable, using placeholder",
			zap.Int("segment", i), zap.String("query", query), zap.Error(err))
	} else {
		log.Info("no stock footage, using placeholder", zap.Int("segment", i), zap.String("query", query))
	}

	if err := a.editor.SolidClip(ctx, duration, dest); err != nil {
		return fmt.Errorf("placeholder clip: %w", err)
	}
	return nil
}

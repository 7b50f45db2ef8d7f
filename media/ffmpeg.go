package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"docreel/config"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"
)

// ClipSpec describes one footage clip fitted to a segment.
type ClipSpec struct {
	Source   string
	Duration float64
	// Loop repeats the source until Duration is filled.
	Loop bool
}

// RenderPlan is everything the final composition needs.
type RenderPlan struct {
	Clips     []string
	Narration []string
	Subtitles string
	// Music is optional.
	Music    string
	Duration float64
	Output   string
	Threads  int
}

// FFmpeg edits media by building ffmpeg-go graphs and running them as a
// child process bound to the caller's context.
type FFmpeg struct {
	bin string
	log *zap.Logger
}

func NewFFmpeg(log *zap.Logger) *FFmpeg {
	return &FFmpeg{bin: "ffmpeg", log: log}
}

// Duration returns the container duration of path in seconds.
func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", filepath.Base(path), err)
	}
	return parseProbeDuration(out)
}

// FitClip scales footage to the output frame and loops or trims it to
// spec.Duration. Audio from the footage is dropped.
func (f *FFmpeg) FitClip(ctx context.Context, spec ClipSpec, dest string) error {
	return f.run(ctx, "fit clip", fitClipStream(spec, dest))
}

// SolidClip writes a silent placeholder of the placeholder colour.
func (f *FFmpeg) SolidClip(ctx context.Context, duration float64, dest string) error {
	return f.run(ctx, "solid clip", solidClipStream(duration, dest))
}

// PadNarration extends src with silence, or cuts it, to exactly duration.
func (f *FFmpeg) PadNarration(ctx context.Context, src string, duration float64, dest string) error {
	return f.run(ctx, "pad narration", padNarrationStream(src, duration, dest))
}

// Render concatenates clips and narration, burns in subtitles, mixes the
// optional music bed and encodes the final file.
func (f *FFmpeg) Render(ctx context.Context, plan RenderPlan) error {
	stream, err := renderStream(plan)
	if err != nil {
		return err
	}
	return f.run(ctx, "render", stream)
}

func (f *FFmpeg) run(ctx context.Context, step string, stream *ffmpeg.Stream) error {
	args := stream.GetArgs()
	f.log.Debug("running ffmpeg", zap.String("step", step), zap.Strings("args", args))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.bin, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg %s: %w", step, ctxErr)
		}
		return fmt.Errorf("ffmpeg %s failed: %w: %s", step, err, tail(stderr.String(), 800))
	}
	return nil
}

func fitClipStream(spec ClipSpec, dest string) *ffmpeg.Stream {
	inKw := ffmpeg.KwArgs{}
	if spec.Loop {
		inKw["stream_loop"] = -1
	}

	video := ffmpeg.Input(spec.Source, inKw).Video().
		Filter("scale", ffmpeg.Args{"-2", strconv.Itoa(config.FrameHeight)}).
		Filter("crop", ffmpeg.Args{fmt.Sprintf("min(iw,%d)", config.FrameWidth), strconv.Itoa(config.FrameHeight)}).
		Filter("pad", ffmpeg.Args{
			strconv.Itoa(config.FrameWidth), strconv.Itoa(config.FrameHeight), "(ow-iw)/2", "0",
		}, ffmpeg.KwArgs{"color": config.PlaceholderColor}).
		Filter("setsar", ffmpeg.Args{"1"}).
		Filter("fps", ffmpeg.Args{strconv.Itoa(config.FrameRate)})

	return video.Output(dest, ffmpeg.KwArgs{
		"t":       seconds(spec.Duration),
		"an":      "",
		"c:v":     config.VideoCodec,
		"preset":  config.VideoPreset,
		"pix_fmt": "yuv420p",
	}).OverWriteOutput()
}

func solidClipStream(duration float64, dest string) *ffmpeg.Stream {
	source := fmt.Sprintf("color=c=%s:s=%dx%d:r=%d",
		config.PlaceholderColor, config.FrameWidth, config.FrameHeight, config.FrameRate)

	return ffmpeg.Input(source, ffmpeg.KwArgs{"f": "lavfi", "t": seconds(duration)}).
		Output(dest, ffmpeg.KwArgs{
			"c:v":     config.VideoCodec,
			"preset":  config.VideoPreset,
			"pix_fmt": "yuv420p",
		}).OverWriteOutput()
}

func padNarrationStream(src string, duration float64, dest string) *ffmpeg.Stream {
	audio := ffmpeg.Input(src).Audio().
		Filter("apad", ffmpeg.Args{}).
		Filter("atrim", ffmpeg.Args{}, ffmpeg.KwArgs{"duration": seconds(duration)})

	return audio.Output(dest, ffmpeg.KwArgs{
		"c:a": "pcm_s16le",
		"ar":  44100,
		"ac":  2,
	}).OverWriteOutput()
}

func renderStream(plan RenderPlan) (*ffmpeg.Stream, error) {
	if len(plan.Clips) == 0 {
		return nil, errors.New("render: no clips")
	}
	if len(plan.Narration) == 0 {
		return nil, errors.New("render: no narration")
	}
	threads := plan.Threads
	if threads <= 0 {
		threads = config.RenderThreads
	}

	clips := make([]*ffmpeg.Stream, len(plan.Clips))
	for i, c := range plan.Clips {
		clips[i] = ffmpeg.Input(c).Video()
	}
	video := ffmpeg.Concat(clips, ffmpeg.KwArgs{"v": 1, "a": 0})
	if plan.Subtitles != "" {
		video = video.Filter("ass", ffmpeg.Args{filepath.ToSlash(plan.Subtitles)})
	}

	voices := make([]*ffmpeg.Stream, len(plan.Narration))
	for i, n := range plan.Narration {
		voices[i] = ffmpeg.Input(n).Audio()
	}
	audio := ffmpeg.Concat(voices, ffmpeg.KwArgs{"v": 0, "a": 1})

	if plan.Music != "" {
		bed := ffmpeg.Input(plan.Music, ffmpeg.KwArgs{"stream_loop": -1}).Audio().
			Filter("atrim", ffmpeg.Args{}, ffmpeg.KwArgs{"duration": seconds(plan.Duration)}).
			Filter("volume", ffmpeg.Args{strconv.FormatFloat(config.MusicVolume, 'f', -1, 64)})
		audio = ffmpeg.Filter([]*ffmpeg.Stream{audio, bed}, "amix", ffmpeg.Args{}, ffmpeg.KwArgs{
			"inputs":    2,
			"duration":  "first",
			"normalize": 0,
		})
	}

	return ffmpeg.Output([]*ffmpeg.Stream{video, audio}, plan.Output, ffmpeg.KwArgs{
		"t":       seconds(plan.Duration),
		"c:v":     config.VideoCodec,
		"c:a":     config.AudioCodec,
		"b:a":     config.AudioBitrate,
		"preset":  config.VideoPreset,
		"r":       config.FrameRate,
		"threads": threads,
		"pix_fmt": "yuv420p",
	}).OverWriteOutput(), nil
}

func parseProbeDuration(probe string) (float64, error) {
	var parsed struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(probe), &parsed); err != nil {
		return 0, fmt.Errorf("decode probe output: %w", err)
	}
	if parsed.Format.Duration == "" {
		return 0, errors.New("probe output has no duration")
	}
	d, err := strconv.ParseFloat(parsed.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", parsed.Format.Duration, err)
	}
	return d, nil
}

func seconds(d float64) string {
	return strconv.FormatFloat(d, 'f', 3, 64)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

package video

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docreel/media"
	"docreel/speech"
	"docreel/types"

	"go.uber.org/zap"
)

type fakeSynth struct {
	voices []string
	fail   bool
}

func (f *fakeSynth) Synthesize(ctx context.Context, text, voice, dest string) error {
	if f.fail {
		return errors.New("tts quota exceeded")
	}
	f.voices = append(f.voices, voice)
	return os.WriteFile(dest, []byte(text), 0644)
}

// fakeTranscriber returns words spaced evenly over the narration; the
// narration file holds the segment text.
type fakeTranscriber struct{}

func (fakeTranscriber) Transcribe(ctx context.Context, audioPath string) []types.WordTimestamp {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return []types.WordTimestamp{}
	}
	var out []types.WordTimestamp
	for i, w := range strings.Fields(string(data)) {
		out = append(out, types.WordTimestamp{Word: w, Start: float64(i) * 0.3, End: float64(i)*0.3 + 0.25})
	}
	return out
}

type fakeFootage struct {
	available map[string]bool
}

func (f *fakeFootage) Fetch(ctx context.Context, query, dest string) bool {
	if !f.available[query] {
		return false
	}
	return os.WriteFile(dest, []byte(query), 0644) == nil
}

type fakeMusic struct{ ok bool }

func (f fakeMusic) Download(ctx context.Context, genre, dest string) bool {
	if !f.ok {
		return false
	}
	return os.WriteFile(dest, []byte(genre), 0644) == nil
}

// fakeEditor answers durations by file base name and records every call.
type fakeEditor struct {
	durations map[string]float64
	fits      []media.ClipSpec
	solids    []float64
	pads      []float64
	plan      *media.RenderPlan
	captions  string
	renderErr error
}

func (f *fakeEditor) Duration(ctx context.Context, path string) (float64, error) {
	d, ok := f.durations[filepath.Base(path)]
	if !ok {
		return 0, errors.New("unknown file")
	}
	return d, nil
}

func (f *fakeEditor) FitClip(ctx context.Context, spec media.ClipSpec, dest string) error {
	f.fits = append(f.fits, spec)
	return os.WriteFile(dest, []byte("clip"), 0644)
}

func (f *fakeEditor) SolidClip(ctx context.Context, duration float64, dest string) error {
	f.solids = append(f.solids, duration)
	return os.WriteFile(dest, []byte("solid"), 0644)
}

func (f *fakeEditor) PadNarration(ctx context.Context, src string, duration float64, dest string) error {
	f.pads = append(f.pads, duration)
	return os.WriteFile(dest, []byte("pcm"), 0644)
}

func (f *fakeEditor) Render(ctx context.Context, plan media.RenderPlan) error {
	f.plan = &plan
	if data, err := os.ReadFile(plan.Subtitles); err == nil {
		f.captions = string(data)
	}
	if f.renderErr != nil {
		_ = os.WriteFile(plan.Output, []byte("partial"), 0644)
		return f.renderErr
	}
	return os.WriteFile(plan.Output, []byte("video"), 0644)
}

var testVoices = speech.Voices{Default: "en-US-JennyNeural", Documentary: "en-US-GuyNeural"}

func newTestAssembler(synth *fakeSynth, footage *fakeFootage, music fakeMusic, editor *fakeEditor) *Assembler {
	return NewAssembler(synth, testVoices, fakeTranscriber{}, footage, music, editor, Options{Threads: 4}, zap.NewNop())
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCreateTwoSegments(t *testing.T) {
	job, err := types.NewJob(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	segments := []types.ScriptSegment{
		{Text: "Hello there world", SearchTerm: "nature"},
		{Text: "Goodbye", SearchTerm: "city"},
	}
	editor := &fakeEditor{durations: map[string]float64{
		"voice_0.mp3":   1.0,
		"voice_1.mp3":   2.0,
		"footage_0.mp4": 0.5,
		"footage_1.mp4": 10,
	}}
	synth := &fakeSynth{}
	footage := &fakeFootage{available: map[string]bool{"nature": true, "city": true}}

	name, err := newTestAssembler(synth, footage, fakeMusic{ok: true}, editor).
		Create(context.Background(), job, segments, "upbeat")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if name != job.ID+"_final.mp4" {
		t.Errorf("Create() = %q", name)
	}
	if _, err := os.Stat(job.OutputPath); err != nil {
		t.Errorf("output missing: %v", err)
	}
	if _, err := os.Stat(job.WorkDir); !os.IsNotExist(err) {
		t.Error("intermediates survived a successful job")
	}

	plan := editor.plan
	if plan == nil {
		t.Fatal("Render() not called")
	}
	if !near(plan.Duration, 3.4) {
		t.Errorf("duration = %v, want 3.4", plan.Duration)
	}
	if len(plan.Clips) != 2 || len(plan.Narration) != 2 {
		t.Errorf("plan = %+v", plan)
	}
	if plan.Music == "" {
		t.Error("music should be mixed in")
	}
	if plan.Threads != 4 {
		t.Errorf("threads = %d", plan.Threads)
	}

	if len(editor.fits) != 2 || !editor.fits[0].Loop || editor.fits[1].Loop {
		t.Errorf("loop decisions = %+v", editor.fits)
	}
	if !near(editor.fits[0].Duration, 1.2) || !near(editor.fits[1].Duration, 2.2) {
		t.Errorf("clip durations = %+v", editor.fits)
	}
	if len(editor.pads) != 2 || !near(editor.pads[0], 1.2) || !near(editor.pads[1], 2.2) {
		t.Errorf("narration pads = %v", editor.pads)
	}

	// "Goodbye" is shifted past the first segment's padded duration.
	if !strings.Contains(editor.captions, "Dialogue: 0,0:00:00.00,0:00:00.85,Default,,0,0,0,,Hello there world") {
		t.Errorf("first caption missing\n%s", editor.captions)
	}
	if !strings.Contains(editor.captions, "Dialogue: 0,0:00:01.20,0:00:01.45,Default,,0,0,0,,Goodbye") {
		t.Errorf("second caption not offset\n%s", editor.captions)
	}

	for _, v := range synth.voices {
		if v != "en-US-JennyNeural" {
			t.Errorf("voice = %s", v)
		}
	}
}

func TestCreateUsesPlaceholderWithoutFootage(t *testing.T) {
	job, err := types.NewJob(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	editor := &fakeEditor{durations: map[string]float64{"voice_0.mp3": 1.5, "voice_1.mp3": 1.0, "footage_1.mp4": 4}}
	footage := &fakeFootage{available: map[string]bool{"forest": true}}

	_, err = newTestAssembler(&fakeSynth{}, footage, fakeMusic{}, editor).Create(context.Background(), job,
		[]types.ScriptSegment{{Text: "One", SearchTerm: "unobtainium"}, {Text: "Two", SearchTerm: "forest"}}, "calm")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(editor.solids) != 1 || !near(editor.solids[0], 1.7) {
		t.Errorf("solid clips = %v, want one of 1.7s", editor.solids)
	}
	if len(editor.fits) != 1 {
		t.Errorf("fitted clips = %+v", editor.fits)
	}
	if editor.plan.Music != "" {
		t.Error("music should be skipped when the download fails")
	}
	if len(editor.plan.Clips) != 2 {
		t.Errorf("clips = %v", editor.plan.Clips)
	}
}

func TestCreateDocumentaryVoice(t *testing.T) {
	job, err := types.NewJob(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	synth := &fakeSynth{}
	editor := &fakeEditor{durations: map[string]float64{"voice_0.mp3": 1}}

	if _, err := newTestAssembler(synth, &fakeFootage{}, fakeMusic{}, editor).Create(context.Background(), job,
		[]types.ScriptSegment{{Text: "Deep sea", SearchTerm: "ocean"}}, "documentary"); err != nil {
		t.Fatal(err)
	}
	if len(synth.voices) != 1 || synth.voices[0] != "en-US-GuyNeural" {
		t.Errorf("voices = %v", synth.voices)
	}
}

func TestCreateFailureLeavesNothing(t *testing.T) {
	segments := []types.ScriptSegment{{Text: "One", SearchTerm: "a"}}

	cases := map[string]struct {
		synth  *fakeSynth
		editor *fakeEditor
	}{
		"synthesis fails": {
			synth:  &fakeSynth{fail: true},
			editor: &fakeEditor{durations: map[string]float64{}},
		},
		"probe fails": {
			synth:  &fakeSynth{},
			editor: &fakeEditor{durations: map[string]float64{}},
		},
		"render fails": {
			synth:  &fakeSynth{},
			editor: &fakeEditor{durations: map[string]float64{"voice_0.mp3": 1}, renderErr: errors.New("encoder exploded")},
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			job, err := types.NewJob(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			if _, err := newTestAssembler(c.synth, &fakeFootage{}, fakeMusic{}, c.editor).
				Create(context.Background(), job, segments, "upbeat"); err == nil {
				t.Fatal("Create() should fail")
			}
			if _, err := os.Stat(job.OutputPath); !os.IsNotExist(err) {
				t.Error("partial output left behind")
			}
			if _, err := os.Stat(job.WorkDir); !os.IsNotExist(err) {
				t.Error("work dir left behind")
			}
		})
	}
}

func TestCreateKeepsIntermediatesWhenAsked(t *testing.T) {
	job, err := types.NewJob(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	editor := &fakeEditor{durations: map[string]float64{"voice_0.mp3": 1}}
	a := NewAssembler(&fakeSynth{}, testVoices, fakeTranscriber{}, &fakeFootage{}, fakeMusic{}, editor,
		Options{KeepIntermediates: true}, zap.NewNop())

	if _, err := a.Create(context.Background(), job, []types.ScriptSegment{{Text: "x", SearchTerm: "y"}}, "upbeat"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(job.Path("captions.ass")); err != nil {
		t.Errorf("intermediates removed: %v", err)
	}
}

func TestCreateRejectsEmptyScript(t *testing.T) {
	job, err := types.NewJob(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := newTestAssembler(&fakeSynth{}, &fakeFootage{}, fakeMusic{}, &fakeEditor{})
	if _, err := a.Create(context.Background(), job, nil, "upbeat"); err == nil {
		t.Error("Create() should reject an empty script")
	}
}

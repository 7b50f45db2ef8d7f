package media

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func joined(args []string) string { return strings.Join(args, " ") }

func assertContains(t *testing.T, cmd string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(cmd, want) {
			t.Errorf("command missing %q\n%s", want, cmd)
		}
	}
}

func TestFitClipArgs(t *testing.T) {
	trimmed := joined(fitClipStream(ClipSpec{Source: "in.mp4", Duration: 3.2}, "out.mp4").GetArgs())
	assertContains(t, trimmed,
		"-i in.mp4",
		"scale=-2:720",
		"crop=",
		"pad=1280:720",
		"setsar=1",
		"fps=24",
		"-t 3.200",
		"-an",
		"libx264",
		"yuv420p",
		"out.mp4",
	)
	if strings.Contains(trimmed, "stream_loop") {
		t.Error("trimmed clip should not loop")
	}

	looped := joined(fitClipStream(ClipSpec{Source: "in.mp4", Duration: 9, Loop: true}, "out.mp4").GetArgs())
	assertContains(t, looped, "-stream_loop -1", "-t 9.000")
	if strings.Index(looped, "-stream_loop") > strings.Index(looped, "-i in.mp4") {
		t.Error("-stream_loop must precede its input")
	}
}

func TestSolidClipArgs(t *testing.T) {
	cmd := joined(solidClipStream(2.5, "solid.mp4").GetArgs())
	assertContains(t, cmd,
		"-f lavfi",
		"color=c=black:s=1280x720:r=24",
		"-t 2.500",
		"libx264",
		"solid.mp4",
	)
}

func TestPadNarrationArgs(t *testing.T) {
	cmd := joined(padNarrationStream("0.mp3", 3.4, "0.wav").GetArgs())
	assertContains(t, cmd, "-i 0.mp3", "apad", "atrim=duration=3.400", "pcm_s16le", "0.wav")
}

func TestRenderArgs(t *testing.T) {
	plan := RenderPlan{
		Clips:     []string{"c0.mp4", "c1.mp4"},
		Narration: []string{"n0.wav", "n1.wav"},
		Subtitles: "captions.ass",
		Music:     "music.mp3",
		Duration:  7.5,
		Output:    "job_final.mp4",
		Threads:   4,
	}
	stream, err := renderStream(plan)
	if err != nil {
		t.Fatal(err)
	}
	cmd := joined(stream.GetArgs())

	assertContains(t, cmd,
		"-i c0.mp4", "-i c1.mp4", "-i n0.wav", "-i n1.wav",
		"-stream_loop -1",
		"-i music.mp3",
		"concat=",
		"ass=captions.ass",
		"volume=0.1",
		"amix=",
		"-threads 4",
		"-r 24",
		"-t 7.500",
		"libx264",
		"aac",
		"job_final.mp4",
	)
	if n := strings.Count(cmd, "concat="); n != 2 {
		t.Errorf("expected video and audio concat, got %d\n%s", n, cmd)
	}
}

func TestRenderWithoutMusic(t *testing.T) {
	stream, err := renderStream(RenderPlan{
		Clips:     []string{"c0.mp4"},
		Narration: []string{"n0.wav"},
		Subtitles: "captions.ass",
		Duration:  2,
		Output:    "out.mp4",
	})
	if err != nil {
		t.Fatal(err)
	}
	cmd := joined(stream.GetArgs())
	if strings.Contains(cmd, "amix") || strings.Contains(cmd, "volume") {
		t.Errorf("voice-only render should not mix music\n%s", cmd)
	}
	assertContains(t, cmd, "-threads 4")
}

func TestRenderRejectsEmptyPlan(t *testing.T) {
	if _, err := renderStream(RenderPlan{Narration: []string{"n0.wav"}}); err == nil {
		t.Error("expected error without clips")
	}
	if _, err := renderStream(RenderPlan{Clips: []string{"c0.mp4"}}); err == nil {
		t.Error("expected error without narration")
	}
}

func TestParseProbeDuration(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"ok", `{"streams":[],"format":{"filename":"a.mp3","duration":"3.240000"}}`, 3.24, false},
		{"no duration", `{"format":{}}`, 0, true},
		{"garbage", `not json`, 0, true},
		{"bad number", `{"format":{"duration":"N/A"}}`, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := parseProbeDuration(c.in)
			if (err != nil) != c.wantErr {
				t.Fatalf("parseProbeDuration() error = %v, wantErr %v", err, c.wantErr)
			}
			if got != c.want {
				t.Errorf("parseProbeDuration() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	f := NewFFmpeg(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := f.SolidClip(ctx, 1, "never.mp4"); err == nil {
		t.Error("expected error from cancelled context")
	}
	if _, err := f.Duration(ctx, "never.mp4"); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestTail(t *testing.T) {
	if got := tail("  short  ", 10); got != "short" {
		t.Errorf("tail() = %q", got)
	}
	if got := tail("abcdefghij", 3); got != "...hij" {
		t.Errorf("tail() = %q", got)
	}
}

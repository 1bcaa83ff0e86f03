package renderer

import (
	"bytes"
	"testing"

	"github.com/jtothec67/go-pathtracer/pkg/film"
	"github.com/jtothec67/go-pathtracer/pkg/integrator"
	"github.com/jtothec67/go-pathtracer/pkg/scene"
)

type quietLogger struct{}

func (quietLogger) Printf(format string, args ...interface{}) {}

func renderFrames(t *testing.T, threads, tasks, frames int) *film.Film {
	t.Helper()

	const w, h = 16, 12
	s := scene.NewDefaultScene()
	camera := NewCamera(w, h)
	tracer := integrator.NewPathTracer(s)
	f := film.New(w, h)

	scheduler := NewScheduler(threads, quietLogger{})
	defer scheduler.Stop()

	for i := 0; i < frames; i++ {
		stats := scheduler.RenderFrame(w, h, camera, tracer, f, 3, false, tasks)
		if stats.Strips < 1 {
			t.Fatalf("frame dispatched %d strips", stats.Strips)
		}
	}
	return f
}

func TestScheduler_EveryPixelSampledOncePerFrame(t *testing.T) {
	configs := []struct {
		name            string
		threads, tasks  int
		frames          int
		expectedSamples uint32
	}{
		{"single thread single task", 1, 1, 1, 1},
		{"many threads many tasks", 8, 128, 1, 1},
		{"uneven strip split", 3, 5, 1, 1},
		{"accumulates across frames", 4, 8, 3, 3},
	}

	for _, tt := range configs {
		t.Run(tt.name, func(t *testing.T) {
			f := renderFrames(t, tt.threads, tt.tasks, tt.frames)
			for y := 0; y < f.Height(); y++ {
				for x := 0; x < f.Width(); x++ {
					if got := f.SampleCount(x, y); got != tt.expectedSamples {
						t.Fatalf("pixel (%d, %d): %d samples, want %d", x, y, got, tt.expectedSamples)
					}
				}
			}
		})
	}
}

// In albedo-only mode no RNG is consumed, so any thread/task configuration
// must resolve to the identical image.
func TestScheduler_ThreadCountEquivalence(t *testing.T) {
	const w, h = 24, 16
	s := scene.NewDefaultScene()
	camera := NewCamera(w, h)
	tracer := integrator.NewPathTracer(s)

	render := func(threads, tasks int) []byte {
		f := film.New(w, h)
		scheduler := NewScheduler(threads, quietLogger{})
		defer scheduler.Stop()
		scheduler.RenderFrame(w, h, camera, tracer, f, 3, true, tasks)
		return bytes.Clone(f.Resolve())
	}

	serial := render(1, 1)
	parallel := render(16, 128)

	if !bytes.Equal(serial, parallel) {
		t.Error("albedo-only frames differ across scheduler configurations")
	}
}

func TestScheduler_SetThreadCountRestartsPool(t *testing.T) {
	const w, h = 8, 8
	s := scene.NewDefaultScene()
	camera := NewCamera(w, h)
	tracer := integrator.NewPathTracer(s)
	f := film.New(w, h)

	scheduler := NewScheduler(2, quietLogger{})
	defer scheduler.Stop()

	scheduler.RenderFrame(w, h, camera, tracer, f, 2, false, 4)

	scheduler.SetThreadCount(5)
	if got := scheduler.ThreadCount(); got != 5 {
		t.Fatalf("thread count after set: got %d", got)
	}

	scheduler.RenderFrame(w, h, camera, tracer, f, 2, false, 4)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if got := f.SampleCount(x, y); got != 2 {
				t.Fatalf("pixel (%d, %d): %d samples after restart, want 2", x, y, got)
			}
		}
	}
}

func TestScheduler_ClampsConfiguration(t *testing.T) {
	scheduler := NewScheduler(0, quietLogger{})
	defer scheduler.Stop()

	if scheduler.ThreadCount() < 1 || scheduler.ThreadCount() > MaxThreads {
		t.Errorf("auto thread count out of range: %d", scheduler.ThreadCount())
	}

	scheduler.SetThreadCount(100000)
	if scheduler.ThreadCount() != MaxThreads {
		t.Errorf("thread count not clamped: %d", scheduler.ThreadCount())
	}

	// More tasks than rows still covers each pixel exactly once
	const w, h = 6, 4
	s := scene.NewDefaultScene()
	f := film.New(w, h)
	scheduler.RenderFrame(w, h, NewCamera(w, h), integrator.NewPathTracer(s), f, 1, false, 1000)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if got := f.SampleCount(x, y); got != 1 {
				t.Fatalf("pixel (%d, %d): %d samples, want 1", x, y, got)
			}
		}
	}
}

func TestScheduler_StatsReportFrameShape(t *testing.T) {
	const w, h = 10, 10
	s := scene.NewDefaultScene()
	f := film.New(w, h)
	scheduler := NewScheduler(2, quietLogger{})
	defer scheduler.Stop()

	stats := scheduler.RenderFrame(w, h, NewCamera(w, h), integrator.NewPathTracer(s), f, 2, false, 4)
	if stats.Width != w || stats.Height != h {
		t.Errorf("stats shape: got %dx%d", stats.Width, stats.Height)
	}
	if stats.Strips < 1 || stats.Strips > 4 {
		t.Errorf("strips: got %d, want 1..4", stats.Strips)
	}
}

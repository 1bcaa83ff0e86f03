// Package renderer contains the pinhole camera and the parallel scheduler
// that drives the integrator across the image.
package renderer

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/jtothec67/go-pathtracer/pkg/core"
	"github.com/jtothec67/go-pathtracer/pkg/film"
	"github.com/jtothec67/go-pathtracer/pkg/integrator"
)

const (
	// MaxThreads bounds the worker pool size
	MaxThreads = 128
	// MaxDepth bounds the configurable ray depth
	MaxDepth = 10
	// DefaultTaskCount is the number of row strips a frame is split into
	DefaultTaskCount = 128
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// stripTask renders rows [y0, y1) of a w*h frame
type stripTask struct {
	y0, y1 int
	width  int
	height int

	camera     *Camera
	integrator *integrator.PathTracer
	film       *film.Film
	depth      int
	albedoOnly bool

	done chan<- stripResult
}

type stripResult struct {
	rows int
}

// RenderStats summarises one dispatched frame
type RenderStats struct {
	Width, Height int
	Strips        int
	Duration      time.Duration
}

// Scheduler owns a pool of worker goroutines and dispatches contiguous row
// strips of each frame across them, blocking at the frame boundary until
// every strip completes. Each worker carries its own RNG stream seeded from
// its identity, so streams are reproducible per worker but pixel assignment
// shifts with the thread count.
type Scheduler struct {
	numThreads int
	tasks      chan stripTask
	wg         sync.WaitGroup
	running    bool
	logger     core.Logger
}

// NewScheduler creates a scheduler with numThreads workers (0 selects the
// CPU count). Workers start on the first frame.
func NewScheduler(numThreads int, logger core.Logger) *Scheduler {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	s := &Scheduler{logger: logger}
	s.numThreads = clampThreads(numThreads)
	return s
}

func clampThreads(n int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return max(1, min(n, MaxThreads))
}

// ThreadCount returns the configured worker count
func (s *Scheduler) ThreadCount() int { return s.numThreads }

// SetThreadCount resizes the pool. The current pool is shut down cleanly and
// restarted with the new size; must only be called between frames.
func (s *Scheduler) SetThreadCount(n int) {
	n = clampThreads(n)
	if n == s.numThreads && s.running {
		return
	}
	s.Stop()
	s.numThreads = n
}

// Stop shuts the worker pool down, waiting for in-flight tasks to finish
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	close(s.tasks)
	s.wg.Wait()
	s.running = false
}

func (s *Scheduler) start() {
	s.tasks = make(chan stripTask, DefaultTaskCount)
	for id := 0; id < s.numThreads; id++ {
		s.wg.Add(1)
		go s.worker(id)
	}
	s.running = true
}

// worker is the render loop of one pool thread. The RNG stream is derived
// from the worker identity with a splitmix-style constant.
func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	seed := (int64(id) + 1) * -0x61c8864680b583eb // 0x9E3779B97F4A7C15 as int64
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))

	for task := range s.tasks {
		for y := task.y0; y < task.y1; y++ {
			for x := 0; x < task.width; x++ {
				ray := task.camera.GetRay(x, y, task.width, task.height)
				colour := task.integrator.TraceRay(ray, task.depth, task.albedoOnly, sampler)
				task.film.AddSample(x, y, colour)
			}
		}
		task.done <- stripResult{rows: task.y1 - task.y0}
	}
}

// RenderFrame adds one sample per pixel to the film: the image rows are
// partitioned into contiguous strips of ceil(height/numTasks) rows (at most
// numTasks strips, the last one truncated), dispatched to the pool, and the
// call blocks until every strip has completed.
func (s *Scheduler) RenderFrame(width, height int, camera *Camera, tracer *integrator.PathTracer, f *film.Film, depth int, albedoOnly bool, numTasks int) RenderStats {
	if !s.running {
		s.start()
	}

	depth = max(1, min(depth, MaxDepth))
	numTasks = max(1, min(numTasks, height))
	rowsPerStrip := (height + numTasks - 1) / numTasks

	start := time.Now()
	done := make(chan stripResult, numTasks)

	strips := 0
	for y0 := 0; y0 < height; y0 += rowsPerStrip {
		y1 := min(y0+rowsPerStrip, height)
		s.tasks <- stripTask{
			y0: y0, y1: y1,
			width: width, height: height,
			camera:     camera,
			integrator: tracer,
			film:       f,
			depth:      depth,
			albedoOnly: albedoOnly,
			done:       done,
		}
		strips++
	}

	// Barrier: the frame is complete only once every strip has reported
	for i := 0; i < strips; i++ {
		<-done
	}

	return RenderStats{
		Width:    width,
		Height:   height,
		Strips:   strips,
		Duration: time.Since(start),
	}
}

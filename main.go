package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/jtothec67/go-pathtracer/pkg/core"
	"github.com/jtothec67/go-pathtracer/pkg/film"
	"github.com/jtothec67/go-pathtracer/pkg/integrator"
	"github.com/jtothec67/go-pathtracer/pkg/renderer"
	"github.com/jtothec67/go-pathtracer/pkg/scene"
)

func main() {
	sceneType := flag.String("scene", "default", "Scene type: 'default' or 'cornell'")
	width := flag.Int("width", 800, "Image width")
	height := flag.Int("height", 600, "Image height")
	samples := flag.Int("samples", 64, "Samples per pixel (frames to accumulate)")
	depth := flag.Int("depth", 5, "Maximum ray depth (1-10)")
	threads := flag.Int("threads", 0, "Worker threads (0 = CPU count)")
	tasks := flag.Int("tasks", renderer.DefaultTaskCount, "Row strips per frame")
	albedoOnly := flag.Bool("albedo-only", false, "Render distance-darkened albedo without bouncing")
	toneMap := flag.String("tonemap", "reinhard", "Tone map: 'none' or 'reinhard'")
	colourSpace := flag.String("colourspace", "srgb", "Output colour space: 'linear' or 'srgb'")
	output := flag.String("out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	flag.Parse()

	logger := renderer.NewDefaultLogger()

	var selectedScene *scene.Scene
	var camera *renderer.Camera

	switch *sceneType {
	case "cornell":
		selectedScene = scene.NewCornellScene()
		camera = renderer.NewCameraAt(core.NewVec3(0, 0, -3.2), core.NewVec3(0, 0, 0), *width, *height)
	case "default":
		selectedScene = scene.NewDefaultScene()
		camera = renderer.NewCamera(*width, *height)
	default:
		logger.Printf("Unknown scene type: %s. Using default scene.\n", *sceneType)
		selectedScene = scene.NewDefaultScene()
		camera = renderer.NewCamera(*width, *height)
		*sceneType = "default"
	}

	logger.Printf("Rendering %q at %dx%d, %d samples, depth %d, forward %v\n",
		*sceneType, *width, *height, *samples, *depth, camera.Forward())

	f := film.New(*width, *height)
	switch *toneMap {
	case "none":
		f.SetToneMap(film.ToneMapNone)
	default:
		f.SetToneMap(film.ToneMapReinhard)
	}
	switch *colourSpace {
	case "linear":
		f.SetColourSpace(film.ColourSpaceLinear)
	default:
		f.SetColourSpace(film.ColourSpaceSRGB)
	}

	tracer := integrator.NewPathTracer(selectedScene)
	scheduler := renderer.NewScheduler(*threads, logger)
	defer scheduler.Stop()

	startTime := time.Now()
	for frame := 1; frame <= *samples; frame++ {
		stats := scheduler.RenderFrame(*width, *height, camera, tracer, f, *depth, *albedoOnly, *tasks)
		if frame == 1 || frame%16 == 0 || frame == *samples {
			logger.Printf("Frame %d/%d (%d strips, %v)\n", frame, *samples, stats.Strips, stats.Duration)
		}
	}
	logger.Printf("Render completed in %v\n", time.Since(startTime))

	filename := *output
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join("output", *sceneType, fmt.Sprintf("render_%s.png", timestamp))
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("Error creating output directory: %v\n", err)
			return
		}
	}

	if err := writePNG(filename, f); err != nil {
		fmt.Printf("Error saving PNG: %v\n", err)
		return
	}
	logger.Printf("Render saved as %s\n", filename)
}

// writePNG encodes the resolved film, flipping rows so the file is not
// upside-down (the film's row 0 is the bottom of the view).
func writePNG(filename string, f *film.Film) error {
	buffer := f.Resolve()
	w, h := f.Width(), f.Height()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := buffer[y*w*4 : (y+1)*w*4]
		dst := img.Pix[(h-1-y)*img.Stride:]
		copy(dst[:w*4], src)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

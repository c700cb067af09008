package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"img2worksheet/batch"
	"img2worksheet/config"
	"img2worksheet/imageio"
	"img2worksheet/pipeline"
	"img2worksheet/session"
	"img2worksheet/videoframes"
	"img2worksheet/worksheet"
)

func main() {
	configFile := flag.String("config", "", "path to config.json")
	input := flag.String("input", "", "input image or video path")
	output := flag.String("output", "", "output session file path (default worksheet.json)")
	preview := flag.String("preview", "", "optional raster preview WebP path")
	maxColors := flag.Int("colors", 0, "palette size ceiling (default 48)")
	strategy := flag.String("strategy", "", "quantize strategy: kmeans, libkmeans, mediancut")
	workers := flag.Int("workers", 0, "worker count for video batch mode (default 4)")
	artist := flag.String("artist", "", "artist name recorded in the session document")
	video := flag.Bool("video", false, "treat input as a video and extract frames")
	fps := flag.Int("fps", 1, "frames per second to sample in video mode")
	frameWidth := flag.Int("framewidth", 256, "max frame width in video mode")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		InputPath:        *input,
		OutputPath:       *output,
		MaxColors:        *maxColors,
		QuantizeStrategy: *strategy,
		Workers:          *workers,
		PreviewPath:      *preview,
		ArtistName:       *artist,
	})

	if cfg.InputPath == "" {
		fmt.Fprintln(os.Stderr, "error: -input is required")
		flag.Usage()
		os.Exit(1)
	}

	opts := worksheet.Options{MaxColors: cfg.MaxColors, QuantizeStrategy: cfg.QuantizeStrategy}
	ctx := context.Background()

	start := time.Now()

	if *video {
		if err := runVideo(ctx, cfg, opts, *fps, *frameWidth); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := runImage(ctx, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("done in %.1fs\n", time.Since(start).Seconds())
}

func runImage(ctx context.Context, cfg config.Config, opts worksheet.Options) error {
	decoded, err := imageio.Load(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.InputPath, err)
	}

	img, err := pipeline.Process(ctx, decoded.Pixels, decoded.Width, decoded.Height, opts)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	if cfg.PreviewPath != "" {
		if err := imageio.SavePreview(cfg.PreviewPath, img); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		fmt.Printf("preview: %s\n", cfg.PreviewPath)
	}

	doc := session.New(img, cfg.ArtistName, time.Now().UnixMilli(), "", nil, "light", json.RawMessage(`{}`))
	return writeSession(cfg.OutputPath, doc)
}

func runVideo(ctx context.Context, cfg config.Config, opts worksheet.Options, fps, frameWidth int) error {
	frames, err := videoframes.Extract(ctx, cfg.InputPath, fps, frameWidth)
	if err != nil {
		return fmt.Errorf("extract frames: %w", err)
	}
	fmt.Printf("extracted %d frames\n", len(frames))

	items := make([]batch.Item, len(frames))
	for i, f := range frames {
		items[i] = batch.Item{Name: fmt.Sprintf("frame-%04d", f.Index), Pixels: f.Pixels}
	}

	results := batch.Run(ctx, batch.Config{Workers: cfg.Workers, Opts: opts}, items)

	outDir := cfg.OutputPath
	if outDir == "" {
		outDir = "worksheets"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", outDir, err)
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			fmt.Fprintf(os.Stderr, "  %s: %s\n", r.Name, r.Error)
			continue
		}
		doc := session.New(r.Image, cfg.ArtistName, time.Now().UnixMilli(), "", nil, "light", json.RawMessage(`{}`))
		path := filepath.Join(outDir, r.Name+".wks")
		if err := writeSession(path, doc); err != nil {
			return err
		}
	}
	fmt.Printf("processed %d/%d frames\n", len(results)-failed, len(results))
	return nil
}

func writeSession(path string, doc session.Document) error {
	if path == "" {
		path = "worksheet.json"
	}
	encoded, err := session.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("session: %s\n", path)
	return nil
}

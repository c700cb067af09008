// Package batch runs pipeline.Process over many images concurrently, using
// the same fixed worker-pool-plus-progress-ticker shape as
// mu-bmd-renderer/internal/batch.Run.
package batch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"img2worksheet/imageio"
	"img2worksheet/pipeline"
	"img2worksheet/worksheet"
)

// Item is one image submitted for worksheet processing.
type Item struct {
	Name   string
	Pixels imageio.Decoded
}

// Result holds the outcome of processing one item.
type Result struct {
	Name    string
	Image   *worksheet.Image
	Error   string
	Success bool
}

// Config holds the resources shared across a batch run.
type Config struct {
	Workers int
	Opts    worksheet.Options
}

// Run processes items using a fixed-size worker pool, reporting throughput
// on a ticker the way mu-bmd-renderer's batch runner does.
func Run(ctx context.Context, cfg Config, items []Item) []Result {
	total := len(items)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f images/sec\n", p, total, rate)
				}
			}
		}
	}()

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	itemChan := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range itemChan {
				results[idx] = processItem(ctx, cfg.Opts, items[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range items {
		itemChan <- i
	}
	close(itemChan)

	wg.Wait()
	close(done)

	return results
}

func processItem(ctx context.Context, opts worksheet.Options, item Item) Result {
	img, err := pipeline.Process(ctx, item.Pixels.Pixels, item.Pixels.Width, item.Pixels.Height, opts)
	if err != nil {
		return Result{Name: item.Name, Error: err.Error()}
	}
	return Result{Name: item.Name, Image: img, Success: true}
}

// Package videoframes extracts frames from a video file as decoded images,
// one per worksheet the batch pipeline will process. Adapted directly from
// video2color.ExtractFrames in the teacher repo: same ffmpeg pipe-to-stdout
// approach, generalized from a PNG-only feed into imageio's multi-format
// Decoded buffers.
package videoframes

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"img2worksheet/imageio"
)

// Frame is one decoded video frame paired with its ordinal index.
type Frame struct {
	Index  int
	Pixels imageio.Decoded
}

// Extract runs ffmpeg against videoPath, sampling fps frames per second and
// scaling to maxWidth (height proportional, ffmpeg's -1 convention), and
// decodes every frame from the piped PNG stream. fps <= 0 defaults to 1.
func Extract(ctx context.Context, videoPath string, fps, maxWidth int) ([]Frame, error) {
	if fps <= 0 {
		fps = 1
	}

	r, w := io.Pipe()

	cmd := ffmpeg.Input(videoPath).
		Output("pipe:1", ffmpeg.KwArgs{
			"format": "image2pipe",
			"vcodec": "png",
			"r":      strconv.Itoa(fps),
			"vf":     fmt.Sprintf("scale=%d:-1", maxWidth),
		}).
		WithOutput(w).
		WithErrorOutput(os.Stderr)
	cmd.Context = ctx

	runErr := make(chan error, 1)
	go func() {
		runErr <- cmd.Run()
		w.Close()
	}()

	var frames []Frame
	reader := bufio.NewReader(r)
	index := 0
	for {
		img, _, err := image.Decode(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("videoframes: decode frame %d: %w", index, err)
		}
		frames = append(frames, Frame{Index: index, Pixels: imageio.FromImage(img)})
		index++
	}

	if err := <-runErr; err != nil {
		return nil, fmt.Errorf("videoframes: ffmpeg: %w", err)
	}
	if len(frames) == 0 {
		return nil, errors.New("videoframes: no frames extracted")
	}
	return frames, nil
}

// probeResult mirrors the subset of ffprobe's JSON output TotalFrames cares
// about: just the streams' codec type and frame-count hints.
type probeResult struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		NbFrames     string `json:"nb_frames"`
		AvgFrameRate string `json:"avg_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
}

// TotalFrames estimates a video's frame count via ffprobe, for sizing a
// batch run's progress reporting before extraction completes. It prefers
// the container's reported nb_frames and falls back to
// avg_frame_rate * duration when that's absent, same two-step fallback as
// the teacher's getTotalFrames.
func TotalFrames(videoPath string) (int, error) {
	probeStr, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return 0, fmt.Errorf("videoframes: probe: %w", err)
	}

	var probe probeResult
	if err := json.Unmarshal([]byte(probeStr), &probe); err != nil {
		return 0, fmt.Errorf("videoframes: parse probe output: %w", err)
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		if stream.NbFrames != "" && stream.NbFrames != "0" {
			if n, err := strconv.Atoi(stream.NbFrames); err == nil {
				return n, nil
			}
		}
		if stream.AvgFrameRate != "" && stream.AvgFrameRate != "0/0" {
			parts := strings.Split(stream.AvgFrameRate, "/")
			if len(parts) == 2 {
				num, _ := strconv.ParseFloat(parts[0], 64)
				den, _ := strconv.ParseFloat(parts[1], 64)
				dur, err := strconv.ParseFloat(stream.Duration, 64)
				if den != 0 && err == nil {
					return int(num / den * dur), nil
				}
			}
		}
	}
	return 0, errors.New("videoframes: no video stream found or frame count undeterminable")
}

package main

import (
	"context"
	"math"
	"time"
)

const (
	// DefaultAnimationSteps is the number of frames for a full route traversal
	DefaultAnimationSteps = 90

	// DefaultFrameInterval paces streamed frames at roughly 60 per second
	DefaultFrameInterval = 16 * time.Millisecond
)

// Frames returns the positions of a dot moving along points, one per step
// Frame i sits at progress i/totalSteps, so the last frame stops just short
// of the destination
func Frames(points Polyline, totalSteps int) []Point {
	if len(points) == 0 || totalSteps <= 0 {
		return []Point{}
	}
	if len(points) == 1 {
		frames := make([]Point, totalSteps)
		for i := range frames {
			frames[i] = points[0]
		}
		return frames
	}

	segmentCount := len(points) - 1
	frames := make([]Point, 0, totalSteps)
	for step := 0; step < totalSteps; step++ {
		progress := float64(step) / float64(totalSteps)
		scaled := progress * float64(segmentCount)
		segmentIndex := min(int(math.Floor(scaled)), segmentCount-1)
		segmentProgress := scaled - float64(segmentIndex)

		frames = append(frames, points[segmentIndex].Lerp(points[segmentIndex+1], segmentProgress))
	}
	return frames
}

// Animate emits one frame per interval on the returned channel and closes
// it when the frames run out or ctx is done
func Animate(ctx context.Context, points Polyline, totalSteps int, interval time.Duration) <-chan Point {
	frames := Frames(points, totalSteps)
	out := make(chan Point)

	go func() {
		defer close(out)
		if len(frames) == 0 {
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for _, frame := range frames {
			select {
			case <-ctx.Done():
				return
			case out <- frame:
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

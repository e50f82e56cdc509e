package wavslice

import (
	"math"
	"time"
)

func framesDuration(frames, sampleRate int) time.Duration {
	if sampleRate == 0 {
		return 0
	}

	return time.Duration(frames) * time.Second / time.Duration(math.Abs(float64(sampleRate)))
}

func samplesNumFromDuration(dur time.Duration, sampleRate int) int {
	if sampleRate == 0 {
		return 0
	}

	return int(math.Floor(dur.Seconds() * math.Abs(float64(sampleRate))))
}

func sampleDuration(sampleRate int) time.Duration {
	if sampleRate == 0 {
		return 0
	}

	return time.Second / time.Duration(math.Abs(float64(sampleRate)))
}

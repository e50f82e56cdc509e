package wavslice

import (
	"encoding/binary"
	"math"

	"github.com/go-audio/audio"
)

const (
	maxPCMInt8Unsigned = 255
	scalePCMInt16      = 32768.0
	scalePCMInt24      = 8388608.0
	scalePCMInt32      = 2147483648.0
	floatPCM8Scale     = 127.5
	maxPCMInt16        = 32767
	maxPCMInt24        = 8388607
	maxPCMInt32        = 2147483647
)

// PCM16Buffer wraps little-endian 16-bit frame bytes into an int buffer.
// A trailing odd byte is ignored.
func PCM16Buffer(frames []byte, format *audio.Format) *audio.IntBuffer {
	buf := &audio.IntBuffer{
		Format:         format,
		SourceBitDepth: 16,
		Data:           make([]int, len(frames)/2),
	}

	for i := range buf.Data {
		buf.Data[i] = int(int16(binary.LittleEndian.Uint16(frames[2*i:])))
	}

	return buf
}

func clampFloat32(value, min, max float32) float32 {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

func float32ToPCMUint8(value float32) uint8 {
	value = clampFloat32(value, -1, 1)

	scaled := int(math.Round(float64((value + 1.0) * floatPCM8Scale)))
	if scaled < 0 {
		return 0
	}

	if scaled > maxPCMInt8Unsigned {
		return maxPCMInt8Unsigned
	}

	return uint8(scaled)
}

func float32ToPCMInt32(value float32, bitDepth int) int32 {
	value = clampFloat32(value, -1, 1)

	switch bitDepth {
	case 16:
		return clampScaledPCM(value, scalePCMInt16, maxPCMInt16)
	case 24:
		return clampScaledPCM(value, scalePCMInt24, maxPCMInt24)
	case 32:
		return clampScaledPCM(value, scalePCMInt32, maxPCMInt32)
	default:
		return 0
	}
}

func clampScaledPCM(value float32, scale float64, max int64) int32 {
	sample := min(int64(math.Round(float64(value)*scale)), max)

	if low := int64(-scale); sample < low {
		sample = low
	}

	return int32(sample)
}

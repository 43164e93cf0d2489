package synthesis

import "time"

// One MPEG-1 Layer III frame at 128 kbps, 44.1 kHz: 417 bytes covering
// about 26.1 ms. A silent frame is the header followed by zeroed data.
const (
	silentFrameSize = 417
	silentFrameMs   = 26.122
)

var silentFrameHeader = []byte{0xFF, 0xFB, 0x90, 0x64}

// SilentAudio renders silence of roughly the given duration as a valid
// MP3 stream, so degraded units still occupy their slot in the track.
func SilentAudio(duration time.Duration) []byte {
	if duration <= 0 {
		duration = time.Second
	}
	frames := int(float64(duration.Milliseconds())/silentFrameMs) + 1
	out := make([]byte, 0, frames*silentFrameSize)
	frame := make([]byte, silentFrameSize)
	copy(frame, silentFrameHeader)
	for i := 0; i < frames; i++ {
		out = append(out, frame...)
	}
	return out
}

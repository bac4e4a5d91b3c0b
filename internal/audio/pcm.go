package audio

import (
	"io"

	"github.com/gopxl/beep"
)

const bytesPerFrame = 4

// PCMReader adapts a streamer to the signed 16-bit little-endian stereo
// byte stream ebiten's audio player consumes.
type PCMReader struct {
	s   beep.Streamer
	buf [][2]float64
}

// NewPCMReader wraps s.
func NewPCMReader(s beep.Streamer) *PCMReader {
	return &PCMReader{s: s}
}

// Read fills p with whole frames. Once the streamer is drained it returns its
// error, or io.EOF when it has none.
func (r *PCMReader) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	if cap(r.buf) < frames {
		r.buf = make([][2]float64, frames)
	}
	buf := r.buf[:frames]
	n, ok := r.s.Stream(buf)
	for i := 0; i < n; i++ {
		for ch := 0; ch < 2; ch++ {
			v := int16(clampSample(buf[i][ch]) * 32767)
			base := i*bytesPerFrame + ch*2
			p[base] = byte(v)
			p[base+1] = byte(v >> 8)
		}
	}
	if !ok && n == 0 {
		if err := r.s.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}
	return n * bytesPerFrame, nil
}

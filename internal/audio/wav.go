package audio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// Streamer returns a beep.Streamer over the decoded stereo samples, starting
// at the current read offset.
func (d *PCMDecoder) Streamer() beep.Streamer {
	return &pcmStreamer{d: d}
}

// Format returns the beep format of the decoded stream.
func (d *PCMDecoder) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(d.sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
}

// EncodeWAV writes the whole decoded stream to w as a 16-bit stereo WAV file.
func EncodeWAV(w io.WriteSeeker, d *PCMDecoder) error {
	if _, err := d.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := wav.Encode(w, d.Streamer(), d.Format()); err != nil {
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	return nil
}

type pcmStreamer struct {
	d *PCMDecoder
}

func (s *pcmStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	data := s.d.data
	for n < len(samples) && s.d.offset+4 <= int64(len(data)) {
		frame := data[s.d.offset : s.d.offset+4]
		samples[n][0] = float64(int16(binary.LittleEndian.Uint16(frame[0:2]))) / 32768
		samples[n][1] = float64(int16(binary.LittleEndian.Uint16(frame[2:4]))) / 32768
		s.d.offset += 4
		n++
	}
	return n, n > 0
}

func (s *pcmStreamer) Err() error {
	return nil
}

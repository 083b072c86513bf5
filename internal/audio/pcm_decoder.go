// Package audio decodes raw PCM speech returned by the speech synthesis model
// into a stream Ebitengine's audio package can play.
package audio

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"strconv"
	"strings"
)

// DefaultSampleRate is the sample rate of synthesized speech when the MIME
// type does not say otherwise.
const DefaultSampleRate = 24000

// ErrOddLength is returned for 16-bit data with a dangling byte.
var ErrOddLength = errors.New("pcm data length is not a multiple of the sample size")

// Format describes a raw PCM payload.
type Format struct {
	SampleRate int
	Channels   int
}

// ParseFormat reads the sample rate and channel count from a MIME type such as
// "audio/L16;codec=pcm;rate=24000". Missing parameters default to 24kHz mono.
func ParseFormat(mimeType string) (Format, error) {
	f := Format{SampleRate: DefaultSampleRate, Channels: 1}
	if strings.TrimSpace(mimeType) == "" {
		return f, nil
	}
	media, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return Format{}, fmt.Errorf("failed to parse audio mime type %q: %w", mimeType, err)
	}
	if !strings.EqualFold(media, "audio/l16") && !strings.EqualFold(media, "audio/pcm") {
		return Format{}, fmt.Errorf("unsupported audio encoding: %s (only 16-bit linear PCM is supported)", media)
	}
	if v, ok := params["rate"]; ok {
		rate, err := strconv.Atoi(v)
		if err != nil || rate <= 0 {
			return Format{}, fmt.Errorf("invalid sample rate %q", v)
		}
		f.SampleRate = rate
	}
	if v, ok := params["channels"]; ok {
		ch, err := strconv.Atoi(v)
		if err != nil || ch < 1 || ch > 2 {
			return Format{}, fmt.Errorf("unsupported channel count: %q (only 1-2 supported)", v)
		}
		f.Channels = ch
	}
	return f, nil
}

// PCMDecoder serves 16-bit little-endian stereo PCM, the layout Ebitengine's
// audio players consume. Mono input is duplicated into both channels.
type PCMDecoder struct {
	data       []byte // interleaved stereo, 16-bit signed little-endian
	sampleRate int64
	offset     int64
}

// DecodePCM converts raw 16-bit little-endian PCM in format f.
func DecodePCM(raw []byte, f Format) (*PCMDecoder, error) {
	if len(raw)%(2*f.Channels) != 0 {
		return nil, fmt.Errorf("%w: %d bytes for %d channel(s)", ErrOddLength, len(raw), f.Channels)
	}

	var out []byte
	switch f.Channels {
	case 1:
		out = make([]byte, len(raw)*2)
		for i := 0; i+1 < len(raw); i += 2 {
			lo, hi := raw[i], raw[i+1]
			out[i*2] = lo
			out[i*2+1] = hi
			out[i*2+2] = lo
			out[i*2+3] = hi
		}
	case 2:
		out = append([]byte(nil), raw...)
	default:
		return nil, fmt.Errorf("unsupported channel count: %d (only 1-2 supported)", f.Channels)
	}

	return &PCMDecoder{
		data:       out,
		sampleRate: int64(f.SampleRate),
	}, nil
}

// Decode parses mimeType and decodes raw in one step.
func Decode(raw []byte, mimeType string) (*PCMDecoder, error) {
	f, err := ParseFormat(mimeType)
	if err != nil {
		return nil, err
	}
	return DecodePCM(raw, f)
}

// Read reads decoded PCM data into p.
// Implements io.Reader interface.
func (d *PCMDecoder) Read(p []byte) (n int, err error) {
	if d.offset >= int64(len(d.data)) {
		return 0, io.EOF
	}

	n = copy(p, d.data[d.offset:])
	d.offset += int64(n)
	return n, nil
}

// Seek sets the offset for the next Read.
// Implements io.Seeker interface.
func (d *PCMDecoder) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64

	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = d.offset + offset
	case io.SeekEnd:
		newOffset = int64(len(d.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if newOffset < 0 {
		return 0, fmt.Errorf("negative position: %d", newOffset)
	}

	d.offset = newOffset
	return newOffset, nil
}

// Length returns the total length of the decoded stereo data in bytes.
// Required by Ebitengine's audio.Player.
func (d *PCMDecoder) Length() int64 {
	return int64(len(d.data))
}

// SampleRate returns the sample rate of the audio in Hz.
func (d *PCMDecoder) SampleRate() int64 {
	return d.sampleRate
}

// Duration returns the playback length in seconds.
func (d *PCMDecoder) Duration() float64 {
	if d.sampleRate <= 0 {
		return 0
	}
	return float64(len(d.data)) / 4 / float64(d.sampleRate)
}

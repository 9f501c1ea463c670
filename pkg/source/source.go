// Package source wraps the decoder factory behind the C2 Source contract:
// open, decode fixed-size packets of interleaved float32, and seek by
// timestamp.
package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/HIM049/the-player/pkg/decoders"
	"github.com/HIM049/the-player/pkg/sampleconv"
	"github.com/HIM049/the-player/pkg/types"
)

// ErrEndOfStream is returned by NextPacket once the decoder has no more data.
var ErrEndOfStream = errors.New("end of stream")

// floatPCM is implemented by decoders (e.g. pkg/decoders/vorbis) whose
// DecodeSamples writes IEEE-754 float32 despite GetFormat reporting 32 bits
// per sample — formatFor alone cannot distinguish that case from signed
// 32-bit integer PCM.
type floatPCM interface {
	FloatPCM() bool
}

// frameCounter is implemented by decoders that can report a stream's total
// frame count up front (e.g. pkg/decoders/vorbis, backed by
// oggvorbis.Reader.Length()). The shared AudioDecoder interface has no such
// query, so decoders that want to report duration opt in via this marker;
// decoders that don't implement it leave TrackMeta.NFrames at 0 (unknown).
type frameCounter interface {
	NFrames() (frames uint64, ok bool)
}

// packetFrames is the number of frames requested from the decoder per
// NextPacket call. Chosen to keep per-call allocation small while still
// amortizing decoder call overhead; this becomes the Resampler's chunk size
// on the first packet (§4.6 step 7 of the spec this implements).
const packetFrames = 4096

// Source opens one file and yields interleaved f32 packets at the file's
// native sample rate.
type Source struct {
	path     string
	decoder  types.AudioDecoder
	format   sampleconv.Format
	rate     int
	channels int
	nFrames  uint64 // 0 if the decoder can't report a total length

	rawBuf []byte
}

// Open opens path, probes its format via the decoder factory, and selects
// the matching sample conversion format.
func Open(path string) (*Source, error) {
	dec, err := decoders.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrOpen, err)
	}

	rate, channels, bits := dec.GetFormat()
	format, err := formatFor(bits, dec)
	if err != nil {
		dec.Close()
		return nil, fmt.Errorf("%w: %v", types.ErrOpen, err)
	}

	var nFrames uint64
	if fc, ok := dec.(frameCounter); ok {
		nFrames, _ = fc.NFrames()
	}

	return &Source{
		path:     path,
		decoder:  dec,
		format:   format,
		rate:     rate,
		channels: channels,
		nFrames:  nFrames,
	}, nil
}

// formatFor maps a decoder's reported bit depth onto a sampleconv.Format. A
// 32-bit decoder is ambiguous between signed-integer and float32 PCM; dec is
// consulted via the floatPCM marker interface to break the tie.
func formatFor(bitsPerSample int, dec types.AudioDecoder) (sampleconv.Format, error) {
	switch bitsPerSample {
	case 8:
		return sampleconv.U8, nil
	case 16:
		return sampleconv.S16, nil
	case 24:
		return sampleconv.S24, nil
	case 32:
		if fp, ok := dec.(floatPCM); ok && fp.FloatPCM() {
			return sampleconv.F32, nil
		}
		return sampleconv.S32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth: %d", bitsPerSample)
	}
}

// Meta returns the track's immutable parameters. DstSampleRate is left at
// zero; the OutputSink fills it in once a device rate is chosen. NFrames is
// 0 (duration unknown) unless the underlying decoder implements
// frameCounter.
func (s *Source) Meta() types.TrackMeta {
	return types.TrackMeta{
		TimeBase:      types.TimeBase{Numerator: 1, Denominator: uint32(s.rate)},
		NFrames:       s.nFrames,
		Channels:      s.channels,
		SrcSampleRate: s.rate,
	}
}

// NextPacket decodes one fixed-size packet and returns it as interleaved
// f32, converted per the sample conversion contract. Returns ErrEndOfStream
// once the decoder is exhausted.
func (s *Source) NextPacket() ([]float32, error) {
	bps := s.format.BytesPerSample()
	need := packetFrames * s.channels * bps
	if cap(s.rawBuf) < need {
		s.rawBuf = make([]byte, need)
	}
	raw := s.rawBuf[:need]

	n, err := s.decoder.DecodeSamples(packetFrames, raw)
	if n == 0 {
		if err != nil && (errors.Is(err, io.EOF) || err == io.ErrUnexpectedEOF) {
			return nil, ErrEndOfStream
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrCodec, err)
		}
		return nil, ErrEndOfStream
	}

	out := make([]float32, n*s.channels)
	sampleconv.ToF32(raw[:n*s.channels*bps], s.format, out)

	if err != nil && !errors.Is(err, io.EOF) {
		// A mid-stream decode error after a partial read is logged by the
		// caller and treated as end-of-stream on the next call; return what
		// we have now.
		return out, nil
	}
	return out, nil
}

// Seek is best-effort accurate seek: none of the wrapped decoders expose a
// native seek primitive, so Source re-opens the file and decodes-and-discards
// up to the target. actualTs is the frame position actually reached.
func (s *Source) Seek(targetFrames uint64) (actualTs uint64, err error) {
	dec, err := decoders.NewDecoder(s.path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", types.ErrSeek, err)
	}

	s.decoder.Close()
	s.decoder = dec

	bps := s.format.BytesPerSample()
	discardFrames := uint64(2048)
	discard := make([]byte, discardFrames*uint64(s.channels)*uint64(bps))

	remaining := targetFrames
	for remaining > 0 {
		want := discardFrames
		if remaining < want {
			want = remaining
		}
		n, derr := dec.DecodeSamples(int(want), discard)
		remaining -= uint64(n)
		actualTs += uint64(n)
		if n == 0 || derr != nil {
			break
		}
	}
	return actualTs, nil
}

// Channels returns the track's channel count.
func (s *Source) Channels() int { return s.channels }

// SampleRate returns the track's native sample rate.
func (s *Source) SampleRate() int { return s.rate }

// Close releases the underlying decoder.
func (s *Source) Close() error {
	return s.decoder.Close()
}

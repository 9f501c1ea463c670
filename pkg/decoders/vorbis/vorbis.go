// Package vorbis wraps jfreymuth/oggvorbis for decoding Ogg Vorbis audio
// files into the raw-PCM AudioDecoder contract shared by the other backends.
package vorbis

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/jfreymuth/oggvorbis"
)

// Decoder wraps jfreymuth/oggvorbis. oggvorbis decodes natively to
// interleaved float32, so GetFormat reports 32 bits per sample and
// DecodeSamples writes little-endian IEEE-754 float32 frames — the F32
// branch of the sample conversion contract treats this as identity.
type Decoder struct {
	file     *os.File
	reader   *oggvorbis.Reader
	rate     int
	channels int

	scratch []float32
}

// NewDecoder creates a new Ogg Vorbis decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Open opens an Ogg Vorbis file for decoding.
func (d *Decoder) Open(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("failed to open OGG file: %w", err)
	}

	reader, err := oggvorbis.NewReader(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to init Vorbis decoder: %w", err)
	}

	d.file = file
	d.reader = reader
	d.rate = reader.SampleRate()
	d.channels = reader.Channels()
	return nil
}

// Close closes the underlying file.
func (d *Decoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// GetFormat returns the audio format (sample rate, channels, bits per sample).
func (d *Decoder) GetFormat() (rate, channels, bitsPerSample int) {
	return d.rate, d.channels, 32
}

// FloatPCM reports that DecodeSamples writes IEEE-754 float32, not signed
// 32-bit integer PCM, despite GetFormat reporting 32 bits per sample. Source
// type-asserts for this to pick sampleconv.F32 instead of sampleconv.S32.
func (d *Decoder) FloatPCM() bool { return true }

// NFrames reports the stream's total frame count, per oggvorbis.Reader's own
// Length(). ok is false if the reader isn't open. Source type-asserts for
// this to populate TrackMeta.NFrames — unlike the mp3/flac/wav backends,
// whose shared AudioDecoder interface has no total-length query.
func (d *Decoder) NFrames() (frames uint64, ok bool) {
	if d.reader == nil {
		return 0, false
	}
	return uint64(d.reader.Length()), true
}

// DecodeSamples decodes up to 'samples' frames into audio as interleaved
// little-endian float32, 'channels' values per frame.
func (d *Decoder) DecodeSamples(samples int, audio []byte) (int, error) {
	if d.reader == nil {
		return 0, fmt.Errorf("decoder not initialized")
	}

	need := samples * d.channels
	if cap(d.scratch) < need {
		d.scratch = make([]float32, need)
	}
	buf := d.scratch[:need]

	n, err := d.reader.Read(buf)
	if n == 0 {
		return 0, err
	}

	frames := n / d.channels
	for i := 0; i < frames*d.channels; i++ {
		offset := i * 4
		if offset+4 > len(audio) {
			frames = i / d.channels
			break
		}
		binary.LittleEndian.PutUint32(audio[offset:], math.Float32bits(buf[i]))
	}

	if err != nil {
		return frames, err
	}
	return frames, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

// Defaults for provider speech output.
const (
	DefaultSampleRate = 24000
	DefaultChannels   = 1
)

var (
	// ErrNoOutput means no audio player is available.
	ErrNoOutput = errors.New("no audio output available")

	// ErrEmptyAudio means the payload held no complete frame.
	ErrEmptyAudio = errors.New("audio payload has no frames")

	// ErrInvalidFormat means the sample rate or channel count is unusable.
	ErrInvalidFormat = errors.New("invalid audio format")
)

// PlaybackError reports a failure to decode or play audio.
type PlaybackError struct {
	Op  string // "decode", "play"
	Err error
}

// Error implements the error interface.
func (e *PlaybackError) Error() string {
	return fmt.Sprintf("audio %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *PlaybackError) Unwrap() error { return e.Err }

// Buffer holds de-interleaved samples.
type Buffer struct {
	SampleRate int
	// Data[channel][frame]
	Data [][]float32
}

// Channels returns the channel count.
func (b *Buffer) Channels() int { return len(b.Data) }

// Frames returns the number of frames per channel.
func (b *Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns the playback length.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// Decode converts base64 16-bit LE interleaved PCM into a Buffer. Samples
// are divided by 32768. A trailing partial sample or frame is dropped.
func Decode(b64 string, sampleRate, channels int) (*Buffer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, &PlaybackError{Op: "decode", Err: fmt.Errorf("%w: rate=%d channels=%d", ErrInvalidFormat, sampleRate, channels)}
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, &PlaybackError{Op: "decode", Err: err}
	}

	samples := len(raw) / 2
	frames := samples / channels
	if frames == 0 {
		return nil, &PlaybackError{Op: "decode", Err: ErrEmptyAudio}
	}

	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, frames)
	}
	for i := 0; i < frames*channels; i++ {
		s := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		data[i%channels][i/channels] = float32(s) / 32768.0
	}
	return &Buffer{SampleRate: sampleRate, Data: data}, nil
}

// Interleave encodes the buffer as interleaved float32 little-endian bytes.
func (b *Buffer) Interleave() []byte {
	channels, frames := b.Channels(), b.Frames()
	out := make([]byte, 0, channels*frames*4)
	var tmp [4]byte
	for f := 0; f < frames; f++ {
		for ch := 0; ch < channels; ch++ {
			binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(b.Data[ch][f]))
			out = append(out, tmp[:]...)
		}
	}
	return out
}

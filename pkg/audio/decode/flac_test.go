// ABOUTME: Tests for FLAC chunk decoder
// ABOUTME: Round-trips encoded streams and checks downmix and normalization
package decode

import (
	"bytes"
	"testing"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// encodeFLAC builds a self-contained FLAC stream from per-channel
// 16-bit samples. All channels must have the same length.
func encodeFLAC(t *testing.T, sampleRate uint32, channels [][]int32) []byte {
	t.Helper()

	nsamples := len(channels[0])
	info := &meta.StreamInfo{
		BlockSizeMin:  uint16(nsamples),
		BlockSizeMax:  uint16(nsamples),
		SampleRate:    sampleRate,
		NChannels:     uint8(len(channels)),
		BitsPerSample: 16,
		NSamples:      uint64(nsamples),
	}

	var buf bytes.Buffer
	enc, err := flac.NewEncoder(&buf, info)
	if err != nil {
		t.Fatalf("failed to create flac encoder: %v", err)
	}
	enc.EnablePredictionAnalysis(false)

	ch := frame.ChannelsMono
	if len(channels) == 2 {
		ch = frame.ChannelsLR
	}
	f := &frame.Frame{
		Header: frame.Header{
			HasFixedBlockSize: true,
			BlockSize:         uint16(nsamples),
			SampleRate:        sampleRate,
			Channels:          ch,
			BitsPerSample:     16,
		},
	}
	for _, samples := range channels {
		f.Subframes = append(f.Subframes, &frame.Subframe{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			Samples:   samples,
			NSamples:  nsamples,
		})
	}
	if err := enc.WriteFrame(f); err != nil {
		t.Fatalf("failed to encode flac frame: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("failed to close flac encoder: %v", err)
	}
	return buf.Bytes()
}

func newFLACDecoder(t *testing.T) Decoder {
	t.Helper()
	format := sessionFormat()
	format.Codec = "flac"
	decoder, err := NewFLAC(format)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	return decoder
}

func TestFLACDecode_Mono(t *testing.T) {
	decoder := newFLACDecoder(t)

	// FLAC is lossless, so decoded samples match the input exactly.
	// Block sizes below 16 samples are invalid, so pad with a ramp.
	input := []int32{16384, -16384, 32767, -32768, 0, 8192}
	for i := len(input); i < 16; i++ {
		input = append(input, int32(i*1024-8192))
	}
	data := encodeFLAC(t, 24000, [][]int32{input})

	output, err := decoder.Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(output) != len(input) {
		t.Fatalf("expected %d samples, got %d", len(input), len(output))
	}
	for i, s := range input {
		want := float32(s) / 32768
		if output[i] != want {
			t.Errorf("sample %d: expected %f, got %f", i, want, output[i])
		}
	}
}

func TestFLACDecode_StereoDownmix(t *testing.T) {
	decoder := newFLACDecoder(t)

	left := make([]int32, 16)
	right := make([]int32, 16)
	for i := range left {
		left[i] = int32(i*2048 - 16384)
		right[i] = int32(8192 - i*1024)
	}
	data := encodeFLAC(t, 24000, [][]int32{left, right})

	output, err := decoder.Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(output) != len(left) {
		t.Fatalf("expected %d samples, got %d", len(left), len(output))
	}
	for i := range left {
		want := (float32(left[i])/32768 + float32(right[i])/32768) / 2
		if output[i] != want {
			t.Errorf("sample %d: expected %f, got %f", i, want, output[i])
		}
		if output[i] < -1.0 || output[i] > 1.0 {
			t.Errorf("sample %d out of range: %f", i, output[i])
		}
	}
}

func TestFLACDecode_InvalidData(t *testing.T) {
	decoder := newFLACDecoder(t)

	if _, err := decoder.Decode([]byte("not a flac stream")); err == nil {
		t.Fatal("expected error for invalid data, got nil")
	}
}

// ABOUTME: Demo synthesis engine producing voiced tone audio from text
// ABOUTME: Maps text to pitch contours per voice and renders chunked PCM
package synth

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/Speakwire-Audio/speakwire-go/pkg/audio"
)

// Voice is one synthesis voice with its base pitch
type Voice struct {
	Name     string
	BaseFreq float64
}

var voices = map[string]Voice{
	"aria":     {Name: "aria", BaseFreq: 220},
	"ember":    {Name: "ember", BaseFreq: 165},
	"baritone": {Name: "baritone", BaseFreq: 110},
	"chirp":    {Name: "chirp", BaseFreq: 330},
}

// DefaultVoice is used when a request does not name a voice
const DefaultVoice = "aria"

// LookupVoice resolves a voice name. An empty name selects the default.
func LookupVoice(name string) (Voice, error) {
	if name == "" {
		name = DefaultVoice
	}
	v, ok := voices[strings.ToLower(name)]
	if !ok {
		return Voice{}, fmt.Errorf("unknown voice: %s", name)
	}
	return v, nil
}

// VoiceNames returns the available voice names, sorted
func VoiceNames() []string {
	names := make([]string, 0, len(voices))
	for name := range voices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	charDuration  = 60 * time.Millisecond
	wordGap       = 40 * time.Millisecond
	envelopeMs    = 8
	amplitude     = 0.35
)

// Engine renders text into session-format PCM chunks
type Engine struct {
	sampleRate    int
	chunkDuration time.Duration
}

// NewEngine creates an engine producing audio at the session rate
func NewEngine() *Engine {
	return &Engine{
		sampleRate:    audio.SessionSampleRate,
		chunkDuration: 250 * time.Millisecond,
	}
}

// Synthesize renders text with the given voice and speed into a chunk
// sequence. The first chunk is a complete WAV file; the remaining
// chunks are headerless 16-bit PCM continuing the same stream.
func (e *Engine) Synthesize(text string, voice Voice, speed float64) ([][]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty text")
	}
	if speed <= 0 {
		speed = 1.0
	}

	samples := e.render(text, voice, speed)
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(audio.SampleToInt16(s)))
	}

	chunkBytes := int(e.chunkDuration.Seconds()*float64(e.sampleRate)) * 2

	var chunks [][]byte
	for off := 0; off < len(pcm); off += chunkBytes {
		end := off + chunkBytes
		if end > len(pcm) {
			end = len(pcm)
		}
		chunks = append(chunks, pcm[off:end])
	}

	first, err := audio.EncodeWAV(chunks[0], e.sampleRate, audio.SessionChannels, audio.SessionBitDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to build first chunk: %w", err)
	}
	chunks[0] = first

	return chunks, nil
}

// render produces the raw float32 sample stream for the whole utterance
func (e *Engine) render(text string, voice Voice, speed float64) []float32 {
	charSamples := int(float64(e.sampleRate) * charDuration.Seconds() / speed)
	gapSamples := int(float64(e.sampleRate) * wordGap.Seconds() / speed)
	fade := e.sampleRate * envelopeMs / 1000

	var out []float32
	phase := 0.0

	for _, word := range strings.Fields(text) {
		for _, r := range word {
			freq := charFreq(voice, r)
			step := 2 * math.Pi * freq / float64(e.sampleRate)

			for i := 0; i < charSamples; i++ {
				gain := amplitude * envelope(i, charSamples, fade)
				out = append(out, float32(gain*math.Sin(phase)))
				phase += step
			}
		}
		out = append(out, make([]float32, gapSamples)...)
	}

	return out
}

// charFreq maps a character onto a pitch near the voice's base frequency
func charFreq(voice Voice, r rune) float64 {
	r = unicode.ToLower(r)
	// Twelve semitone-ish steps spread across the alphabet
	step := int(r) % 12
	return voice.BaseFreq * math.Pow(2, float64(step)/12)
}

// envelope is a linear attack/release ramp to avoid clicks at
// character boundaries
func envelope(i, total, fade int) float64 {
	if fade < 1 {
		return 1
	}
	if i < fade {
		return float64(i) / float64(fade)
	}
	if rem := total - i; rem < fade {
		return float64(rem) / float64(fade)
	}
	return 1
}

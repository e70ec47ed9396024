// Package audio plays the sound sources placed in a scene.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/axion/internal/engine/render"
	"github.com/Faultbox/axion/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// voice is one playing audio object.
type voice struct {
	source string
	stream beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	volume *effects.Volume
	gain   float64
}

// Player keeps one voice per audio object. Voices start when an object
// appears, pause while it is hidden and stop when it is removed.
type Player struct {
	mu sync.Mutex

	log        *zap.Logger
	sampleRate beep.SampleRate
	mixer      *beep.Mixer
	voices     map[uuid.UUID]*voice
	master     float64

	// speakerOn is set once the mixer is attached to the output device.
	speakerOn bool
	// ReadFile loads a source. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// New creates a player mixing at sampleRate. Nothing is audible until
// Init attaches the mixer to the speaker.
func New(sampleRate beep.SampleRate) *Player {
	return &Player{
		log:        logger.Named("audio"),
		sampleRate: sampleRate,
		mixer:      &beep.Mixer{},
		voices:     make(map[uuid.UUID]*voice),
		master:     1,
		ReadFile:   os.ReadFile,
	}
}

// Init opens the output device and starts the mixer on it.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.speakerOn {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.speakerOn = true
	p.log.Info("audio initialized", zap.Int("sample_rate", int(p.sampleRate)))
	return nil
}

// Mixer returns the stream all voices are mixed into.
func (p *Player) Mixer() beep.Streamer { return p.mixer }

// SetMasterVolume scales every voice; vol is clamped to [0, 1].
func (p *Player) SetMasterVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.master = min(max(vol, 0), 1)
	p.locked(func() {
		for _, v := range p.voices {
			p.applyGain(v, v.gain)
		}
	})
}

// Sync brings the voices in line with the audio objects. Sources that
// fail to load are skipped and reported together.
func (p *Player) Sync(objects []*render.Object) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	seen := make(map[uuid.UUID]bool)
	var errs []error
	for _, o := range objects {
		if o.Kind != render.AudioObject || o.Audio == nil {
			continue
		}
		seen[o.ID] = true

		v := p.voices[o.ID]
		if v != nil && v.source != o.Audio.Source {
			p.stop(o.ID, v)
			v = nil
		}
		if v == nil {
			var err error
			if v, err = p.start(o.Audio); err != nil {
				errs = append(errs, fmt.Errorf("audio object %q: %w", o.Name, err))
				continue
			}
			p.voices[o.ID] = v
			p.log.Debug("voice started", zap.String("object", o.Name), zap.String("source", o.Audio.Source))
		}

		gain, paused := float64(o.Audio.Gain), !o.Visible
		p.locked(func() {
			v.ctrl.Paused = paused
			p.applyGain(v, gain)
		})
	}

	for id, v := range p.voices {
		if !seen[id] {
			p.stop(id, v)
		}
	}
	return errors.Join(errs...)
}

// Playing returns the number of unpaused voices.
func (p *Player) Playing() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	p.locked(func() {
		for _, v := range p.voices {
			if !v.ctrl.Paused && v.ctrl.Streamer != nil {
				n++
			}
		}
	})
	return n
}

// Close stops every voice and detaches from the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, v := range p.voices {
		p.stop(id, v)
	}
	if p.speakerOn {
		speaker.Clear()
		p.speakerOn = false
	}
}

func (p *Player) start(a *render.AudioPayload) (*voice, error) {
	data, err := p.ReadFile(a.Source)
	if err != nil {
		return nil, err
	}
	stream, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	var s beep.Streamer = stream
	if format.SampleRate != p.sampleRate {
		s = beep.Resample(4, format.SampleRate, p.sampleRate, s)
	}
	if a.Loop {
		s = &loopStreamer{seeker: stream, resampled: s}
	}

	v := &voice{source: a.Source, stream: stream}
	v.ctrl = &beep.Ctrl{Streamer: s}
	v.volume = &effects.Volume{Streamer: v.ctrl, Base: 2}
	p.locked(func() { p.mixer.Add(v.volume) })
	return v, nil
}

func (p *Player) stop(id uuid.UUID, v *voice) {
	p.locked(func() { v.ctrl.Streamer = nil })
	v.stream.Close()
	delete(p.voices, id)
}

// applyGain sets the linear gain of v. With base 2 the volume is log2 of
// the amplitude factor.
func (p *Player) applyGain(v *voice, gain float64) {
	v.gain = gain
	g := gain * p.master
	if g <= 0 {
		v.volume.Silent = true
		return
	}
	v.volume.Silent = false
	v.volume.Volume = math.Log2(g)
}

// locked runs fn while the speaker is not pulling samples.
func (p *Player) locked(fn func()) {
	if p.speakerOn {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

// loopStreamer restarts its source when it runs out.
type loopStreamer struct {
	seeker    beep.StreamSeeker
	resampled beep.Streamer
}

func (l *loopStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	filled := 0
	rewound := false
	for filled < len(samples) {
		n, ok := l.resampled.Stream(samples[filled:])
		filled += n
		if ok {
			rewound = false
			continue
		}
		// An empty source would rewind forever.
		if rewound && n == 0 {
			return filled, filled > 0
		}
		if err := l.seeker.Seek(0); err != nil {
			return filled, filled > 0
		}
		rewound = true
	}
	return filled, true
}

func (l *loopStreamer) Err() error { return l.seeker.Err() }

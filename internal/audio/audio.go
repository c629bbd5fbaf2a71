// Package audio loads and plays short sound clips through the system
// speaker. Debug mode swaps in Nop so headless runs make no audio calls.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// ErrUnsupportedFormat is returned for files that are neither WAV nor Ogg Vorbis.
var ErrUnsupportedFormat = errors.New("audio: unsupported format")

// Sound is a loaded clip. Play restarts it from the beginning.
type Sound interface {
	Play()
	Pause()
	Resume()
	Stop()
}

// Loader turns a file path into a playable sound.
type Loader interface {
	Load(path string) (Sound, error)
}

// Nop is a loader whose sounds do nothing.
type Nop struct{}

// Load never touches the filesystem.
func (Nop) Load(path string) (Sound, error) {
	return nopSound{}, nil
}

type nopSound struct{}

func (nopSound) Play()   {}
func (nopSound) Pause()  {}
func (nopSound) Resume() {}
func (nopSound) Stop()   {}

// Player mixes every playing clip into a single speaker stream.
type Player struct {
	mu          sync.Mutex
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer creates a player. Call Init before the first Play.
func NewPlayer(sampleRate int) *Player {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &Player{
		sampleRate: beep.SampleRate(sampleRate),
		mixer:      &beep.Mixer{},
	}
}

// Init opens the speaker with a 100ms buffer and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops every clip and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

// Load decodes a WAV or Ogg Vorbis file fully into memory, resampled to
// the player's rate, so it can be replayed without touching the disk.
func (p *Player) Load(path string) (Sound, error) {
	var decode func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) }
	case ".ogg":
		decode = func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) }
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio: open %s: %w", path, err)
	}
	stream, format, err := decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if format.SampleRate != p.sampleRate {
		src = beep.Resample(4, format.SampleRate, p.sampleRate, stream)
		format.SampleRate = p.sampleRate
	}
	buf := beep.NewBuffer(format)
	buf.Append(src)

	return &clip{player: p, buf: buf}, nil
}

// clip is one buffered sound. Its controller is replaced on every Play.
type clip struct {
	player *Player
	buf    *beep.Buffer
	ctrl   *beep.Ctrl
}

func (c *clip) live() bool {
	c.player.mu.Lock()
	defer c.player.mu.Unlock()
	return c.player.initialized
}

func (c *clip) Play() {
	if !c.live() {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	if c.ctrl != nil {
		c.ctrl.Streamer = nil
	}
	c.ctrl = &beep.Ctrl{Streamer: c.buf.Streamer(0, c.buf.Len())}
	c.player.mixer.Add(c.ctrl)
}

func (c *clip) Pause() {
	c.setPaused(true)
}

func (c *clip) Resume() {
	c.setPaused(false)
}

func (c *clip) setPaused(paused bool) {
	if c.ctrl == nil || !c.live() {
		return
	}
	speaker.Lock()
	c.ctrl.Paused = paused
	speaker.Unlock()
}

// Stop drops the clip from the mixer; a nil streamer ends the stream.
func (c *clip) Stop() {
	if c.ctrl == nil || !c.live() {
		return
	}
	speaker.Lock()
	c.ctrl.Streamer = nil
	c.ctrl = nil
	speaker.Unlock()
}

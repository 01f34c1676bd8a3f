package player

import (
	"errors"
	"sync"

	"github.com/example/anistream/services/site/internal/consumet"
)

var ErrUnknownSource = errors.New("player: source not in current set")

type pendingRestore struct {
	at      float64
	playing bool
}

// Controller applies user actions and media events to a State.
type Controller struct {
	mu      sync.Mutex
	media   Media
	screen  Screen
	sources []consumet.Source
	state   State
	pending *pendingRestore
}

func NewController(media Media, screen Screen, sources []consumet.Source) *Controller {
	c := &Controller{
		media:   media,
		screen:  screen,
		sources: sources,
		state:   InitialState(sources),
	}
	if c.state.SelectedURL != "" {
		media.Load(c.state.SelectedURL)
	}
	return c
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TogglePlay calls pause or play, then flips the flag. A play error is
// returned but the flag still flips; buffering is the media's business.
func (c *Controller) TogglePlay() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	if c.state.Playing {
		c.media.Pause()
	} else {
		err = c.media.Play()
	}
	c.state.Playing = !c.state.Playing
	return err
}

// Seek moves to t, bounded by [0, duration].
func (c *Controller) Seek(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t < 0 {
		t = 0
	}
	if t > c.state.Duration {
		t = c.state.Duration
	}
	c.media.Seek(t)
	c.state.CurrentTime = t
}

// SetVolume sets v in [0,1]. Zero volume means muted.
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v = min(max(v, 0), 1)
	c.media.SetVolume(v)
	c.state.Volume = v
	c.state.Muted = v == 0
	c.media.SetMuted(c.state.Muted)
}

// ToggleMute leaves the volume alone.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Muted = !c.state.Muted
	c.media.SetMuted(c.state.Muted)
}

// ToggleFullscreen asks the platform to change mode. The flag only moves
// when the platform reports the change.
func (c *Controller) ToggleFullscreen() error {
	if c.screen == nil {
		return nil
	}
	if c.screen.IsFullscreen() {
		return c.screen.ExitFullscreen()
	}
	return c.screen.RequestFullscreen()
}

func (c *Controller) ToggleQualityMenu() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.QualityMenuOpen = !c.state.QualityMenuOpen
}

func (c *Controller) SetControlsVisible(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ControlsVisible = v
}

// ChangeQuality switches to url, remembering where playback was. The
// position and play state come back once the new source is ready.
func (c *Controller) ChangeQuality(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.known(url) {
		return ErrUnknownSource
	}
	c.state.QualityMenuOpen = false
	if url == c.state.SelectedURL {
		return nil
	}
	c.pending = &pendingRestore{at: c.media.CurrentTime(), playing: c.state.Playing}
	c.state.SelectedURL = url
	c.media.Load(url)
	return nil
}

func (c *Controller) known(url string) bool {
	for _, s := range c.sources {
		if s.URL == url {
			return true
		}
	}
	return false
}

func (c *Controller) OnTimeUpdate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.CurrentTime = c.media.CurrentTime()
}

// OnSourceReady handles the media's loaded-metadata event.
func (c *Controller) OnSourceReady() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Duration = c.media.Duration()
	p := c.pending
	c.pending = nil
	if p == nil {
		return nil
	}
	at := min(p.at, c.state.Duration)
	c.media.Seek(at)
	c.state.CurrentTime = at
	if p.playing {
		return c.media.Play()
	}
	return nil
}

func (c *Controller) OnFullscreenChange() {
	if c.screen == nil {
		return
	}
	fs := c.screen.IsFullscreen()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Fullscreen = fs
}

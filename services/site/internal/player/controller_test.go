package player

import (
	"errors"
	"math"
	"testing"

	"github.com/example/anistream/services/site/internal/consumet"
	"github.com/example/anistream/services/site/internal/resolver"
)

type fakeMedia struct {
	playing  bool
	time     float64
	duration float64
	volume   float64
	muted    bool
	loaded   []string
	playErr  error
	plays    int
}

func (m *fakeMedia) Play() error {
	m.plays++
	if m.playErr != nil {
		return m.playErr
	}
	m.playing = true
	return nil
}

func (m *fakeMedia) Pause()               { m.playing = false }
func (m *fakeMedia) Seek(t float64)       { m.time = t }
func (m *fakeMedia) SetVolume(v float64)  { m.volume = v }
func (m *fakeMedia) SetMuted(b bool)      { m.muted = b }
func (m *fakeMedia) CurrentTime() float64 { return m.time }
func (m *fakeMedia) Duration() float64    { return m.duration }

func (m *fakeMedia) Load(url string) {
	m.loaded = append(m.loaded, url)
	m.time = 0
	m.playing = false
}

type fakeScreen struct {
	full bool
}

func (s *fakeScreen) RequestFullscreen() error { s.full = true; return nil }
func (s *fakeScreen) ExitFullscreen() error    { s.full = false; return nil }
func (s *fakeScreen) IsFullscreen() bool       { return s.full }

var testSources = []consumet.Source{
	{URL: "https://cdn.example/360.m3u8", Quality: "360p"},
	{URL: "https://cdn.example/master.m3u8", Quality: "default"},
	{URL: "https://cdn.example/1080.m3u8", Quality: "1080p"},
}

func ready(t *testing.T, duration float64) (*Controller, *fakeMedia, *fakeScreen) {
	t.Helper()
	m := &fakeMedia{duration: duration}
	s := &fakeScreen{}
	c := NewController(m, s, testSources)
	if err := c.OnSourceReady(); err != nil {
		t.Fatal(err)
	}
	return c, m, s
}

func TestInitialState(t *testing.T) {
	c, m, _ := ready(t, 1440)
	st := c.Snapshot()
	if st.Playing || st.CurrentTime != 0 || st.Volume != 1 || st.Muted || st.Fullscreen {
		t.Fatalf("unexpected initial state %+v", st)
	}
	if st.SelectedURL != "https://cdn.example/master.m3u8" {
		t.Fatalf("expected the default source, got %q", st.SelectedURL)
	}
	if len(m.loaded) != 1 || m.loaded[0] != st.SelectedURL {
		t.Fatalf("unexpected loads %v", m.loaded)
	}
	if st.Duration != 1440 {
		t.Fatalf("unexpected duration %v", st.Duration)
	}
}

func TestDefaultSource_FallsBackToFirst(t *testing.T) {
	src, ok := DefaultSource([]consumet.Source{{URL: "a", Quality: "720p"}, {URL: "b", Quality: "480p"}})
	if !ok || src.URL != "a" {
		t.Fatalf("unexpected source %+v", src)
	}
	if _, ok := DefaultSource(nil); ok {
		t.Fatal("expected no source for an empty set")
	}
}

func TestTogglePlay(t *testing.T) {
	c, m, _ := ready(t, 100)
	if err := c.TogglePlay(); err != nil {
		t.Fatal(err)
	}
	if !c.Snapshot().Playing || !m.playing {
		t.Fatal("expected playing")
	}
	if err := c.TogglePlay(); err != nil {
		t.Fatal(err)
	}
	if c.Snapshot().Playing || m.playing {
		t.Fatal("expected paused")
	}
}

func TestTogglePlay_PlayErrorStillFlips(t *testing.T) {
	c, m, _ := ready(t, 100)
	m.playErr = errors.New("not allowed")
	if err := c.TogglePlay(); err == nil {
		t.Fatal("expected play error")
	}
	if !c.Snapshot().Playing {
		t.Fatal("flag should flip regardless of the primitive")
	}
}

func TestSeek_Clamped(t *testing.T) {
	c, m, _ := ready(t, 100)
	c.Seek(42)
	if m.time != 42 || c.Snapshot().CurrentTime != 42 {
		t.Fatalf("unexpected time %v", m.time)
	}
	c.Seek(500)
	if m.time != 100 {
		t.Fatalf("expected clamp to duration, got %v", m.time)
	}
	c.Seek(-3)
	if m.time != 0 {
		t.Fatalf("expected clamp to 0, got %v", m.time)
	}
}

func TestSeek_BeforeMetadata(t *testing.T) {
	m := &fakeMedia{}
	c := NewController(m, nil, testSources)
	c.Seek(30)
	if m.time != 0 {
		t.Fatalf("expected 0 without a duration, got %v", m.time)
	}
}

func TestSetVolume(t *testing.T) {
	c, m, _ := ready(t, 100)
	c.SetVolume(0.4)
	if st := c.Snapshot(); st.Volume != 0.4 || st.Muted || m.volume != 0.4 {
		t.Fatalf("unexpected state %+v", st)
	}
	c.SetVolume(0)
	if st := c.Snapshot(); !st.Muted || !m.muted {
		t.Fatalf("zero volume should mute, got %+v", st)
	}
	c.SetVolume(3)
	if st := c.Snapshot(); st.Volume != 1 || st.Muted {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestToggleMute_KeepsVolume(t *testing.T) {
	c, m, _ := ready(t, 100)
	c.SetVolume(0.7)
	c.ToggleMute()
	if st := c.Snapshot(); !st.Muted || st.Volume != 0.7 || !m.muted {
		t.Fatalf("unexpected state %+v", st)
	}
	c.ToggleMute()
	if c.Snapshot().Muted || m.muted {
		t.Fatal("expected unmuted")
	}
}

func TestFullscreen_FollowsPlatform(t *testing.T) {
	c, _, s := ready(t, 100)
	if err := c.ToggleFullscreen(); err != nil {
		t.Fatal(err)
	}
	if c.Snapshot().Fullscreen {
		t.Fatal("flag must wait for the platform notification")
	}
	c.OnFullscreenChange()
	if !c.Snapshot().Fullscreen {
		t.Fatal("expected fullscreen after notification")
	}

	// Exit by an outside gesture, e.g. the Escape key.
	s.full = false
	c.OnFullscreenChange()
	if c.Snapshot().Fullscreen {
		t.Fatal("flag should follow an external exit")
	}
}

func TestChangeQuality_ResumesWhenPlaying(t *testing.T) {
	c, m, _ := ready(t, 1440)
	if err := c.TogglePlay(); err != nil {
		t.Fatal(err)
	}
	m.time = 120.5

	if err := c.ChangeQuality("https://cdn.example/1080.m3u8"); err != nil {
		t.Fatal(err)
	}
	if got := m.loaded[len(m.loaded)-1]; got != "https://cdn.example/1080.m3u8" {
		t.Fatalf("unexpected load %q", got)
	}
	if err := c.OnSourceReady(); err != nil {
		t.Fatal(err)
	}
	st := c.Snapshot()
	if math.Abs(m.time-120.5) > 1e-9 || math.Abs(st.CurrentTime-120.5) > 1e-9 {
		t.Fatalf("expected 120.5, media=%v state=%v", m.time, st.CurrentTime)
	}
	if !m.playing || !st.Playing {
		t.Fatal("expected playback to resume")
	}
	if st.SelectedURL != "https://cdn.example/1080.m3u8" {
		t.Fatalf("unexpected selection %q", st.SelectedURL)
	}
}

func TestChangeQuality_StaysPaused(t *testing.T) {
	c, m, _ := ready(t, 1440)
	m.time = 120.5
	plays := m.plays

	if err := c.ChangeQuality("https://cdn.example/360.m3u8"); err != nil {
		t.Fatal(err)
	}
	if err := c.OnSourceReady(); err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.time-120.5) > 1e-9 {
		t.Fatalf("expected 120.5, got %v", m.time)
	}
	if m.playing || c.Snapshot().Playing || m.plays != plays {
		t.Fatal("paused player must stay paused")
	}
}

func TestChangeQuality_UnknownURL(t *testing.T) {
	c, m, _ := ready(t, 100)
	loads := len(m.loaded)
	if err := c.ChangeQuality("https://elsewhere/x.m3u8"); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
	if len(m.loaded) != loads {
		t.Fatal("unknown source must not load")
	}
}

func TestChangeQuality_ClosesMenu(t *testing.T) {
	c, _, _ := ready(t, 100)
	c.ToggleQualityMenu()
	if !c.Snapshot().QualityMenuOpen {
		t.Fatal("menu should be open")
	}
	if err := c.ChangeQuality("https://cdn.example/360.m3u8"); err != nil {
		t.Fatal(err)
	}
	if c.Snapshot().QualityMenuOpen {
		t.Fatal("menu should close after selection")
	}
}

func TestOnTimeUpdate(t *testing.T) {
	c, m, _ := ready(t, 100)
	m.time = 12.25
	c.OnTimeUpdate()
	if c.Snapshot().CurrentTime != 12.25 {
		t.Fatalf("unexpected time %v", c.Snapshot().CurrentTime)
	}
}

func TestFormatTime(t *testing.T) {
	cases := map[float64]string{0: "0:00", 5.9: "0:05", 65: "1:05", 1440: "24:00", -1: "0:00"}
	for in, want := range cases {
		if got := FormatTime(in); got != want {
			t.Fatalf("FormatTime(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestSelectedQuality(t *testing.T) {
	if got := SelectedQuality(testSources, "https://cdn.example/1080.m3u8"); got != "1080p" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := SelectedQuality(testSources, ""); got != "Auto" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestStatusFor(t *testing.T) {
	if StatusFor(resolver.Result{Sources: testSources}) != StatusReady {
		t.Fatal("expected ready")
	}
	withErr := resolver.Result{Sources: testSources, Err: &resolver.Error{Message: "x"}}
	if StatusFor(withErr) != StatusError {
		t.Fatal("error must win over sources")
	}
	if StatusFor(resolver.Result{}) != StatusLoading {
		t.Fatal("expected loading")
	}
}

// Package player holds the playback state machine. The real media element
// sits behind Media and Screen so the controller runs without one.
package player

// Media is the playback primitive the controller drives.
type Media interface {
	Play() error
	Pause()
	Seek(t float64)
	SetVolume(v float64)
	SetMuted(m bool)
	// Load swaps the source. The media reports readiness through
	// Controller.OnSourceReady.
	Load(url string)
	CurrentTime() float64
	Duration() float64
}

// Screen is the fullscreen API of the platform. Changes are reported back
// through Controller.OnFullscreenChange.
type Screen interface {
	RequestFullscreen() error
	ExitFullscreen() error
	IsFullscreen() bool
}

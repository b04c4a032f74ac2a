package player

// Player loads a waveform file and plays it on the audio device.
type Player interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Load prepares the file for playback, replacing anything loaded before.
	Load(path string) error
	// Play starts playback of the loaded file and returns immediately.
	Play() error
	// IsPlaying reports whether playback is still in progress.
	IsPlaying() bool
}

// Completer is implemented by players that can signal the end of playback.
// Done returns a channel closed when the current playback finishes.
type Completer interface {
	Done() <-chan struct{}
}

// Closer releases process-wide audio resources.
type Closer interface {
	Close() error
}

// Stopper is implemented by players that can abort playback early.
type Stopper interface {
	Stop() error
}

// Failer is implemented by players whose playback can fail after Play
// returned. Err reports the failure of the last finished playback.
type Failer interface {
	Err() error
}

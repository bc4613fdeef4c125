// Package recorder turns a live input device into a validated mono PCM
// recording: it owns the capture session, classifies incoming frames as
// silence or speech in real time, and auto-terminates on prolonged initial
// silence.
package recorder

import (
	"fmt"
	"os"
	"sync"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rs/zerolog"

	"github.com/vocap/vocap/internal/audio"
	"github.com/vocap/vocap/internal/config"
)

const (
	// Controls how smooth/reactive the reported level is. Higher = more
	// responsive but jerky, lower = smoother but slower.
	smoothingFactor = 0.2

	// stopJoinTimeout bounds how long Stop waits for the capture loop before
	// force-releasing the stream and file. Prevents a stuck audio driver from
	// hanging the caller.
	stopJoinTimeout = 2 * time.Second
)

// LevelFunc observes the smoothed 0.0-1.0 input level. It runs synchronously
// inside the engine's locked region on the audio subsystem's cadence and must
// not block.
type LevelFunc func(level float64)

// Recorder captures one input device into a mono 16-bit PCM WAV file.
// Sessions run Idle -> Recording -> {Stopped, AutoStopped} -> Idle; a single
// mutex guards session state plus the stream and file handles.
type Recorder struct {
	host  audio.Host
	cfg   config.Config
	path  string
	level LevelFunc
	log   zerolog.Logger

	mu            sync.Mutex
	active        bool
	autoStopped   bool
	firstSound    bool
	silenceSince  time.Time
	smoothed      float64
	startedAt     time.Time
	file          *os.File
	enc           *wav.Encoder
	stream        audio.Stream
	stopRequested chan struct{}
	done          chan struct{}
}

// New creates a recorder writing to path. level may be nil.
func New(host audio.Host, cfg config.Config, path string, level LevelFunc, log zerolog.Logger) *Recorder {
	return &Recorder{
		host:  host,
		cfg:   cfg,
		path:  path,
		level: level,
		log:   log,
	}
}

// Path returns the output file path.
func (r *Recorder) Path() string {
	return r.path
}

// Start opens the output file and an input stream on the device (nil means
// the system default input) and begins capturing on a dedicated goroutine.
// The stream runs at the device's native channel count; downmixing to mono
// happens in software. An open failure marks the session auto-stopped and
// leaves nothing running.
func (r *Recorder) Start(dev *audio.DeviceInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return fmt.Errorf("recording already in progress")
	}

	target := dev
	if target == nil {
		d, err := r.host.DefaultInputDevice()
		if err != nil {
			r.autoStopped = true
			return fmt.Errorf("failed to resolve default input device: %w", err)
		}
		target = &d
	}
	channels := target.MaxInputChannels
	if channels < 1 {
		channels = 1
	}

	file, err := os.Create(r.path)
	if err != nil {
		r.autoStopped = true
		return fmt.Errorf("failed to open output file: %w", err)
	}
	enc := wav.NewEncoder(file, r.cfg.SampleRate, 16, 1, 1)

	stream, err := r.host.OpenInputStream(*target, r.cfg.SampleRate, channels, r.frameHandler(channels))
	if err != nil {
		enc.Close()
		file.Close()
		r.autoStopped = true
		return fmt.Errorf("failed to open input stream: %w", err)
	}

	r.active = true
	r.autoStopped = false
	r.firstSound = false
	r.silenceSince = time.Time{}
	r.smoothed = 0
	r.startedAt = time.Now()
	r.file = file
	r.enc = enc
	r.stream = stream
	r.stopRequested = make(chan struct{})
	r.done = make(chan struct{})

	if err := stream.Start(); err != nil {
		stream.Close()
		r.stream = nil
		r.closeOutputLocked()
		r.active = false
		r.autoStopped = true
		r.done = nil
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	r.log.Info().
		Str("device", target.Name).
		Int("channels", channels).
		Int("sample_rate", r.cfg.SampleRate).
		Str("file", r.path).
		Msg("Recording started")

	go r.captureLoop(r.stopRequested, r.done)
	return nil
}

// captureLoop owns the stream teardown. It waits for a stop request (from
// Stop, the silence policy, or a write fault) rather than the callback
// aborting the stream itself.
func (r *Recorder) captureLoop(stop, done chan struct{}) {
	defer close(done)

	<-stop

	r.mu.Lock()
	stream := r.stream
	r.stream = nil
	r.mu.Unlock()

	// Stopping outside the lock: the backend waits for in-flight callbacks,
	// which need the lock.
	if stream != nil {
		if err := stream.Stop(); err != nil {
			r.log.Debug().Err(err).Msg("Stream stop error")
		}
		if err := stream.Close(); err != nil {
			r.log.Debug().Err(err).Msg("Stream close error")
		}
	}

	r.mu.Lock()
	r.closeOutputLocked()
	elapsed := time.Since(r.startedAt)
	autoStopped := r.autoStopped
	r.mu.Unlock()

	r.log.Info().Dur("duration", elapsed).Bool("auto_stopped", autoStopped).Msg("Recording stopped")
}

func (r *Recorder) frameHandler(channels int) audio.FrameCallback {
	return func(samples []int16, frameCount int, flags audio.FrameFlags) {
		if flags != 0 {
			r.log.Debug().Uint32("flags", uint32(flags)).Msg("Audio callback status")
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		if !r.active || r.enc == nil {
			return
		}

		rms := frameRMS(samples, channels)

		// Silence is only tracked before the first sound; once sound is
		// heard, tracking stays off for the rest of the session.
		if r.cfg.SilentStartTimeout != nil && !r.firstSound {
			if rms < r.cfg.SilenceThreshold {
				now := time.Now()
				if r.silenceSince.IsZero() {
					r.silenceSince = now
					r.log.Debug().
						Float64("rms", rms).
						Float64("db", rmsToDB(rms)).
						Msg("Initial silence detected")
				} else if now.Sub(r.silenceSince) >= secondsToDuration(*r.cfg.SilentStartTimeout) {
					r.log.Info().
						Float64("rms", rms).
						Float64("timeout_s", *r.cfg.SilentStartTimeout).
						Msg("Stopping after sustained initial silence")
					r.autoStopped = true
					r.active = false
					r.signalStopLocked()
					return
				}
			} else {
				if !r.silenceSince.IsZero() {
					r.log.Debug().Float64("rms", rms).Msg("Sound detected")
				}
				r.firstSound = true
				r.silenceSince = time.Time{}
			}
		}

		r.smoothed = smoothingFactor*levelFromRMS(rms) + (1-smoothingFactor)*r.smoothed
		if r.level != nil {
			r.level(r.smoothed)
		}

		mono := downmixMono(samples, channels)
		buf := &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: 1,
				SampleRate:  r.cfg.SampleRate,
			},
			Data:           make([]int, len(mono)),
			SourceBitDepth: 16,
		}
		for i, s := range mono {
			buf.Data[i] = int(s)
		}
		if err := r.enc.Write(buf); err != nil {
			r.log.Error().Err(err).Msg("Audio write failed, halting session")
			r.active = false
			r.signalStopLocked()
		}
	}
}

// Stop ends the session and waits for the capture loop with a bounded join.
// If the loop does not exit in time the stream and file are force-released so
// the caller never hangs on a stuck driver, at the cost of the last partial
// buffer.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.done == nil {
		r.mu.Unlock()
		return
	}
	r.active = false
	done := r.done
	r.signalStopLocked()
	r.mu.Unlock()

	select {
	case <-done:
	case <-time.After(stopJoinTimeout):
		r.log.Warn().Msg("Recording thread did not stop cleanly, forcing resource release")
		r.mu.Lock()
		if r.stream != nil {
			r.stream.Close()
			r.stream = nil
		}
		r.closeOutputLocked()
		r.mu.Unlock()
	}
}

// WasAutoStopped reports whether the most recent session ended via the
// initial-silence timeout rather than an explicit Stop.
func (r *Recorder) WasAutoStopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.autoStopped
}

// Done is closed when the current session's capture loop has exited. Before
// any session it returns an already-closed channel.
func (r *Recorder) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return r.done
}

func (r *Recorder) signalStopLocked() {
	if r.stopRequested == nil {
		return
	}
	select {
	case <-r.stopRequested:
	default:
		close(r.stopRequested)
	}
}

func (r *Recorder) closeOutputLocked() {
	if r.enc != nil {
		if err := r.enc.Close(); err != nil {
			r.log.Warn().Err(err).Msg("Failed to finalize recording file")
		}
		r.enc = nil
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			r.log.Warn().Err(err).Msg("Failed to close recording file")
		}
		r.file = nil
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

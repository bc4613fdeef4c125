package audio

// FrameFlags carries the audio subsystem's per-buffer status bits.
type FrameFlags uint32

const (
	FlagInputUnderflow FrameFlags = 1 << iota
	FlagInputOverflow
)

// FrameCallback receives one buffer of interleaved samples (frameCount frames
// times the stream's channel count). The subsystem may invoke it from any
// thread, including a realtime-priority one, so implementations must be quick.
type FrameCallback func(samples []int16, frameCount int, flags FrameFlags)

// DeviceInfo is an enumeration-time snapshot of an input-capable device.
// Index is only valid for the current session; it is reassigned across OS
// sessions and driver reloads and must never be persisted.
type DeviceInfo struct {
	Index             int
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
	HostAPI           string
}

// Host is the audio subsystem boundary: device enumeration plus input stream
// creation. Implementations own the backend's lifetime; Close releases it.
type Host interface {
	Devices() ([]DeviceInfo, error)
	DefaultInputDevice() (DeviceInfo, error)
	OpenInputStream(device DeviceInfo, sampleRate, channels int, cb FrameCallback) (Stream, error)
	Close() error
}

// Stream is a live input stream. Stop blocks until no callback is in flight.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

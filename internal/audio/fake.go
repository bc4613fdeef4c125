package audio

import (
	"fmt"
	"sync"
)

// FakeHost is an in-memory Host for tests: a scripted device table plus
// streams whose frames are fed by the test itself.
type FakeHost struct {
	mu         sync.Mutex
	DeviceList []DeviceInfo
	DevicesErr error
	OpenErr    error
	streams    []*FakeStream
}

func (h *FakeHost) Devices() ([]DeviceInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.DevicesErr != nil {
		return nil, h.DevicesErr
	}
	out := make([]DeviceInfo, len(h.DeviceList))
	copy(out, h.DeviceList)
	return out, nil
}

func (h *FakeHost) DefaultInputDevice() (DeviceInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, d := range h.DeviceList {
		if d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return DeviceInfo{}, fmt.Errorf("no input devices")
}

func (h *FakeHost) OpenInputStream(device DeviceInfo, sampleRate, channels int, cb FrameCallback) (Stream, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.OpenErr != nil {
		return nil, h.OpenErr
	}
	s := &FakeStream{
		Device:     device,
		SampleRate: sampleRate,
		Channels:   channels,
		cb:         cb,
	}
	h.streams = append(h.streams, s)
	return s, nil
}

func (h *FakeHost) Close() error { return nil }

// LastStream returns the most recently opened stream, or nil.
func (h *FakeHost) LastStream() *FakeStream {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.streams) == 0 {
		return nil
	}
	return h.streams[len(h.streams)-1]
}

// FakeStream delivers test-supplied buffers through the registered callback.
type FakeStream struct {
	Device     DeviceInfo
	SampleRate int
	Channels   int

	cb FrameCallback

	mu      sync.Mutex
	started bool
	stopped bool
	closed  bool
}

func (s *FakeStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return nil
}

func (s *FakeStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	return nil
}

func (s *FakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FakeStream) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *FakeStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Feed pushes one interleaved buffer through the callback, mimicking the
// subsystem invoking it from its own thread. Buffers fed after Stop are
// dropped, like a real backend that has quiesced its callback.
func (s *FakeStream) Feed(samples []int16) {
	s.mu.Lock()
	if !s.started || s.stopped || s.closed {
		s.mu.Unlock()
		return
	}
	cb := s.cb
	s.mu.Unlock()

	channels := s.Channels
	if channels < 1 {
		channels = 1
	}
	cb(samples, len(samples)/channels, 0)
}

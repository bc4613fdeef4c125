package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 1024

type portAudioHost struct{}

// New creates a PortAudio-backed Host.
func New() (Host, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &portAudioHost{}, nil
}

func (p *portAudioHost) Devices() ([]DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	result := make([]DeviceInfo, 0, len(devices))
	for _, d := range devices {
		// A device with broken metadata is skipped, not fatal.
		if d == nil {
			continue
		}
		result = append(result, toDeviceInfo(d))
	}
	return result, nil
}

func (p *portAudioHost) DefaultInputDevice() (DeviceInfo, error) {
	d, err := portaudio.DefaultInputDevice()
	if err != nil {
		return DeviceInfo{}, fmt.Errorf("failed to get default input device: %w", err)
	}
	return toDeviceInfo(d), nil
}

func (p *portAudioHost) OpenInputStream(device DeviceInfo, sampleRate, channels int, cb FrameCallback) (Stream, error) {
	raw, err := p.lookup(device.Index)
	if err != nil {
		return nil, err
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   raw,
			Channels: channels,
			Latency:  raw.DefaultLowInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: framesPerBuffer,
	}, func(in []int16, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
		cb(in, len(in)/channels, FrameFlags(flags))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}

	return &portAudioStream{stream: stream}, nil
}

func (p *portAudioHost) lookup(index int) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	for _, d := range devices {
		if d != nil && d.Index == index {
			return d, nil
		}
	}
	return nil, fmt.Errorf("device not found: index %d", index)
}

func (p *portAudioHost) Close() error {
	return portaudio.Terminate()
}

func toDeviceInfo(d *portaudio.DeviceInfo) DeviceInfo {
	hostAPI := ""
	if d.HostApi != nil {
		hostAPI = d.HostApi.Name
	}
	return DeviceInfo{
		Index:             d.Index,
		Name:              d.Name,
		MaxInputChannels:  d.MaxInputChannels,
		DefaultSampleRate: d.DefaultSampleRate,
		HostAPI:           hostAPI,
	}
}

type portAudioStream struct {
	stream *portaudio.Stream
}

func (s *portAudioStream) Start() error {
	return s.stream.Start()
}

func (s *portAudioStream) Stop() error {
	return s.stream.Stop()
}

func (s *portAudioStream) Close() error {
	return s.stream.Close()
}

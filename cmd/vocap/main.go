package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/vocap/vocap/internal/audio"
	"github.com/vocap/vocap/internal/config"
	"github.com/vocap/vocap/internal/device"
	"github.com/vocap/vocap/internal/logging"
	"github.com/vocap/vocap/internal/recorder"
	"github.com/vocap/vocap/internal/transcribe"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	listDevices := flag.Bool("list-devices", false, "list input devices grouped by variant and exit")
	output := flag.String("output", "", "recording output path (default: a temp file)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log := logging.NewWithLevel(cfg.LogLevel)
	log.Info().Str("version", Version).Str("commit", Commit).Msg("vocap starting")

	host, err := audio.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio")
	}
	defer host.Close()

	catalog := device.NewCatalog(host, log)

	if *listDevices {
		if err := printDeviceVariants(catalog); err != nil {
			log.Fatal().Err(err).Msg("Failed to list devices")
		}
		return
	}

	// The persisted device reference (legacy index or identifier) is resolved
	// once, here; everything downstream works with a live device or nothing.
	var dev *audio.DeviceInfo
	if id, ok := cfg.Device.Canonical(catalog); ok {
		if d, found := device.NewResolver(catalog).Resolve(id); found {
			dev = &d
			log.Info().Str("device", d.Name).Msg("Resolved saved input device")
		} else {
			log.Warn().Str("device", id.Name).Msg("Saved input device not found, using system default")
		}
	}

	recordingDir := os.TempDir()
	recorder.SweepTempRecordings(recordingDir, log)

	path := *output
	if path == "" {
		path = recorder.TempRecordingPath(recordingDir)
	}

	rec := recorder.New(host, *cfg, path, nil, log)
	if err := rec.Start(dev); err != nil {
		log.Fatal().Err(err).Msg("Failed to start recording")
	}

	log.Info().Msg("Recording... press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("Stopping...")
	case <-rec.Done():
	}
	rec.Stop()

	if rec.WasAutoStopped() {
		log.Info().Msg("Recording stopped automatically after initial silence")
	}

	valid, reason := recorder.Analyze(path, cfg.SilenceThreshold)
	if !valid {
		log.Warn().Str("reason", reason).Str("file", path).Msg("Recording discarded")
		os.Remove(path)
		return
	}
	log.Info().Str("file", path).Msg("Recording validated")

	if transcriber := newTranscriber(); transcriber != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		text, err := transcriber.Transcribe(ctx, path)
		if err != nil {
			log.Error().Err(err).Msg("Transcription failed")
			return
		}
		log.Info().Str("text", text).Msg("Transcribed")
	}
}

// newTranscriber wires the external transcription collaborator consuming
// validated recordings. The capture core ships none.
func newTranscriber() transcribe.Transcriber {
	return nil
}

func printDeviceVariants(catalog *device.Catalog) error {
	groups, err := catalog.Variants()
	if err != nil {
		return err
	}

	defaultIndex := -1
	if d, err := catalog.DefaultInputDevice(); err == nil {
		defaultIndex = d.Index
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Available Input Devices (Grouped):")
	fmt.Println("-----------------------")
	total := 0
	for _, name := range names {
		fmt.Printf("\nDevice: %s\n", name)
		for _, v := range groups[name] {
			marker := ""
			if v.Index == defaultIndex {
				marker = " (Default)"
			}
			fmt.Printf("  ID: %d%s\n", v.Index, marker)
			fmt.Printf("  Channels: %d\n", v.MaxInputChannels)
			fmt.Printf("  Host API: %s\n", v.HostAPI)
			fmt.Printf("  Sample Rate: %g Hz\n", v.DefaultSampleRate)
			fmt.Println("  -----------------------")
		}
		total += len(groups[name])
	}

	fmt.Printf("\nTotal unique devices: %d\n", len(names))
	fmt.Printf("Total variants across all devices: %d\n", total)
	return nil
}

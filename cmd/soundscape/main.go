package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
)

var (
	debugFlag   = flag.Bool("debug", false, "Write logs to logs/soundscape.log and show playback metrics")
	backendFlag = flag.String("backend", "", "Audio backend: auto, speaker, pipe, discard (overrides SOUNDSCAPE_BACKEND)")
	volumeFlag  = flag.Int("volume", -1, "Master volume 0-100 (overrides SOUNDSCAPE_MASTER_VOLUME)")
	rateFlag    = flag.Int("rate", 0, "Sample rate in Hz (overrides SOUNDSCAPE_SAMPLE_RATE)")
	seedFlag    = flag.Int64("seed", 0, "Click generator seed (overrides SOUNDSCAPE_SEED)")
	playFlag    = flag.Bool("play", false, "Start the soundscape immediately")
)

func main() {
	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg := resolveConfig(*backendFlag, *volumeFlag, *rateFlag)
	seed := resolveSeed(*seedFlag)
	log.Printf("host: backend=%s rate=%d volume=%.2f seed=%d", cfg.Backend, cfg.SampleRate, cfg.MasterVolume, seed)

	app, err := NewApp(cfg, seed, *debugFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	// Release the audio device and restore the terminal even on a crash
	defer func() {
		if r := recover(); r != nil {
			app.cleanup()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mSOUNDSCAPE CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if *playFlag {
		app.apply(actSoundscape)
	}
	app.run()
	app.cleanup()
}

package audio

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gopxl/beep"
)

func TestFloatToBytes(t *testing.T) {
	in := [][2]float64{
		{0, 0},
		{0.5, -0.5},
		{2.0, -2.0},
	}
	out := make([]byte, len(in)*4)
	floatToBytes(in, out)

	sample := func(frame, ch int) int16 {
		return int16(binary.LittleEndian.Uint16(out[frame*4+ch*2:]))
	}

	if sample(0, 0) != 0 || sample(0, 1) != 0 {
		t.Errorf("Expected silence to encode as zero")
	}
	if sample(1, 0) != 16383 || sample(1, 1) != -16383 {
		t.Errorf("Expected ±16383 for ±0.5, got %d %d", sample(1, 0), sample(1, 1))
	}
	if sample(2, 0) <= 26213 || sample(2, 0) > 32767 {
		t.Errorf("Expected limited positive peak, got %d", sample(2, 0))
	}
	if sample(2, 1) >= -26213 || sample(2, 1) < -32767 {
		t.Errorf("Expected limited negative peak, got %d", sample(2, 1))
	}
}

// fakeSpeaker mimics the beep driver: a second init fails
type fakeSpeaker struct {
	inits, plays, clears, closes int
	initErr                      error
}

func (f *fakeSpeaker) device() *speakerDevice {
	return &speakerDevice{
		init: func(beep.SampleRate, int) error {
			if f.initErr != nil {
				return f.initErr
			}
			f.inits++
			if f.inits > 1 {
				return errors.New("speaker cannot be initialized more than once")
			}
			return nil
		},
		play:  func(...beep.Streamer) { f.plays++ },
		clear: func() { f.clears++ },
		close: func() { f.closes++ },
	}
}

func TestSpeakerOutputReopens(t *testing.T) {
	f := &fakeSpeaker{}
	d := f.device()

	for i := 0; i < 2; i++ {
		out, err := newSpeakerOutput(d, 8000)
		if err != nil {
			t.Fatalf("Open %d failed: %v", i, err)
		}
		ctx := NewContext(out, &AudioConfig{SampleRate: 8000, MasterVolume: 1.0})
		if err := ctx.Close(); err != nil {
			t.Fatalf("Close %d failed: %v", i, err)
		}
	}

	if f.inits != 1 {
		t.Errorf("Expected one driver init, got %d", f.inits)
	}
	if f.plays != 2 || f.clears != 2 {
		t.Errorf("Expected play and clear per session, got %d plays %d clears", f.plays, f.clears)
	}
	if f.closes != 0 {
		t.Errorf("Expected driver to stay open between sessions, got %d closes", f.closes)
	}

	d.shutdown()
	d.shutdown()
	if f.closes != 1 {
		t.Errorf("Expected one driver close at shutdown, got %d", f.closes)
	}
}

func TestSpeakerOutputInitFailureRetries(t *testing.T) {
	f := &fakeSpeaker{initErr: errors.New("no device")}
	d := f.device()

	if _, err := newSpeakerOutput(d, 8000); !errors.Is(err, ErrNoAudioBackend) {
		t.Fatalf("Expected ErrNoAudioBackend, got %v", err)
	}

	f.initErr = nil
	if _, err := newSpeakerOutput(d, 8000); err != nil {
		t.Errorf("Expected init to be retried after a failure, got %v", err)
	}
}

func TestSpeakerOutputResamplesToDeviceRate(t *testing.T) {
	f := &fakeSpeaker{}
	d := f.device()

	if _, err := newSpeakerOutput(d, 44100); err != nil {
		t.Fatalf("First open failed: %v", err)
	}
	out, err := newSpeakerOutput(d, 8000)
	if err != nil {
		t.Fatalf("Second open failed: %v", err)
	}
	if out.deviceRate != 44100 || out.rate != 8000 {
		t.Errorf("Expected context 8000 on a 44100 device, got %d on %d", out.rate, out.deviceRate)
	}
}

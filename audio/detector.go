package audio

import (
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// pipeCandidate is a CLI player able to read raw s16le stereo from stdin
type pipeCandidate struct {
	backend BackendType
	binary  string
	args    func(rate string) []string
}

// pipeCandidates in priority order: pacat > pw-cat > aplay > play (sox) > ffplay
var pipeCandidates = []pipeCandidate{
	{BackendPulse, "pacat", func(rate string) []string {
		return []string{"--raw", "--format=s16le", "--rate=" + rate, "--channels=2", "--latency-msec=50", "--playback"}
	}},
	{BackendPipeWire, "pw-cat", func(rate string) []string {
		return []string{"--playback", "--format=s16", "--rate=" + rate, "--channels=2", "--latency=50ms", "-"}
	}},
	{BackendALSA, "aplay", func(rate string) []string {
		return []string{"-t", "raw", "-f", "S16_LE", "-r", rate, "-c", "2", "-q"}
	}},
	{BackendSoX, "play", func(rate string) []string {
		return []string{"-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", rate, "-", "-d", "-q"}
	}},
	{BackendFFplay, "ffplay", func(rate string) []string {
		return []string{"-nodisp", "-autoexit", "-f", "s16le", "-ac", "2", "-ar", rate,
			"-probesize", "32", "-analyzeduration", "0", "-i", "pipe:0", "-loglevel", "quiet"}
	}},
}

// DetectBackend searches PATH for a pipe-capable player
// FreeBSD falls back to writing /dev/dsp directly
func DetectBackend(sampleRate int) (*BackendConfig, error) {
	rate := strconv.Itoa(sampleRate)

	for _, c := range pipeCandidates {
		if path, err := exec.LookPath(c.binary); err == nil {
			return &BackendConfig{
				Type: c.backend,
				Name: c.binary,
				Path: path,
				Args: c.args(rate),
			}, nil
		}
	}

	if runtime.GOOS == "freebsd" {
		if _, err := os.Stat("/dev/dsp"); err == nil {
			return &BackendConfig{
				Type: BackendOSS,
				Name: "oss",
				Path: "/dev/dsp",
			}, nil
		}
	}

	return nil, ErrNoAudioBackend
}

package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// CommandPlayer plays audio by writing it to a temp file and running an
// external player on it, for example "mpv --really-quiet" or "afplay".
type CommandPlayer struct {
	Command string
}

// Play blocks until the player exits or ctx is cancelled.
func (p CommandPlayer) Play(ctx context.Context, asset *types.Asset) error {
	fields := strings.Fields(p.Command)
	if len(fields) == 0 {
		return errors.New("no player command configured")
	}
	if asset == nil {
		return errors.New("no audio to play")
	}

	f, err := os.CreateTemp("", "speakboard-*"+extensionFor(asset))
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(asset.Data); err != nil {
		f.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	args := append(fields[1:], f.Name())
	cmd := exec.CommandContext(ctx, fields[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("running %s: %w: %s", fields[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// extensionFor picks a file extension so players that sniff by name work.
func extensionFor(asset *types.Asset) string {
	if m := mimetype.Lookup(asset.MIME); m != nil {
		return m.Extension()
	}
	return mimetype.Detect(asset.Data).Extension()
}

// WriterSynthesizer prints the text it is asked to speak. It stands in for
// a real voice on machines without one.
type WriterSynthesizer struct {
	mu sync.Mutex
	W  io.Writer
}

func (s *WriterSynthesizer) Speak(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.W, "speak: %s\n", text)
	return err
}

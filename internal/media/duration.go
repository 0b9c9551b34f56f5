package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tcolgate/mp3"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// ErrUnsupportedFormat is returned by Duration for audio it cannot measure.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Duration returns the playing time of an MP3 clip by summing its frames.
func Duration(asset *types.Asset) (time.Duration, error) {
	if asset == nil || asset.MIME != "audio/mpeg" {
		return 0, ErrUnsupportedFormat
	}

	var (
		dur     time.Duration
		dec     = mp3.NewDecoder(bytes.NewReader(asset.Data))
		frame   mp3.Frame
		skipped int
	)
	for {
		if err := dec.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("decoding mp3: %w", err)
		}
		dur += frame.Duration()
	}
	return dur, nil
}

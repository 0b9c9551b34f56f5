// Package speech turns a selected card into sound: its recorded clip when it
// has one, synthesized speech of its label otherwise.
package speech

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// Synthesizer speaks text aloud.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// Player plays an audio asset.
type Player interface {
	Play(ctx context.Context, asset *types.Asset) error
}

// Action tells the caller what selecting a card did.
type Action string

// Actions returned by Announce.
const (
	ActionNone  Action = "none"
	ActionOpen  Action = "open"
	ActionPlay  Action = "play"
	ActionSpeak Action = "speak"
)

// Announcer plays or speaks cards in the background. Starting a new
// utterance cancels the one still in progress.
type Announcer struct {
	synth  Synthesizer
	player Player
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAnnouncer returns an Announcer. A nil logger uses slog.Default().
func NewAnnouncer(synth Synthesizer, player Player, logger *slog.Logger) *Announcer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Announcer{synth: synth, player: player, logger: logger}
}

// Announce starts the action for card and returns immediately. Folders are
// opened by the caller and produce no sound. Failures are logged, never
// returned. The work outlives ctx cancellation but keeps its values.
func (a *Announcer) Announce(ctx context.Context, card *types.Card) Action {
	if card == nil {
		return ActionNone
	}
	if card.IsFolder() {
		return ActionOpen
	}

	if card.Audio != nil && a.player != nil {
		clip := card.Audio.Clone()
		a.start(ctx, "play", card.ID, func(ctx context.Context) error {
			return a.player.Play(ctx, clip)
		})
		return ActionPlay
	}

	text := strings.TrimSpace(card.Label)
	if text == "" || a.synth == nil {
		return ActionNone
	}
	a.start(ctx, "speak", card.ID, func(ctx context.Context) error {
		return a.synth.Speak(ctx, text)
	})
	return ActionSpeak
}

// Stop cancels any utterance in progress.
func (a *Announcer) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// Wait blocks until every started utterance has finished.
func (a *Announcer) Wait() {
	a.wg.Wait()
}

func (a *Announcer) start(parent context.Context, op, cardID string, run func(context.Context) error) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	a.cancel = cancel
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer cancel()
		if err := run(ctx); err != nil && ctx.Err() == nil {
			a.logger.Warn("announce failed", "op", op, "card", cardID, "error", err)
		}
	}()
}

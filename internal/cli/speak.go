package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/speakboard/internal/speech"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// newAnnouncer builds the announcer described by the configuration. With
// Cloud Text-to-Speech credentials and a player command, labels are spoken
// aloud; otherwise they are printed to w. The returned func releases the
// synthesizer.
func (a *app) newAnnouncer(ctx context.Context, w io.Writer) (*speech.Announcer, func(), error) {
	var player speech.Player
	if command := a.cfg.GetString(cfgKeyPlayerCommand); command != "" {
		player = speech.CommandPlayer{Command: command}
	}

	credentials := a.cfg.GetString(cfgKeyTTSCredentials)
	useGoogle := credentials != "" || os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != ""
	if !useGoogle || player == nil {
		if useGoogle {
			a.logger.Warn("text-to-speech needs player.command; printing labels instead")
		}
		synth := &speech.WriterSynthesizer{W: w}
		return speech.NewAnnouncer(synth, player, a.logger), func() {}, nil
	}

	synth, err := speech.NewGoogleSynthesizer(ctx, speech.GoogleConfig{
		CredentialsFile: credentials,
		Language:        a.cfg.GetString(cfgKeyTTSLanguage),
		Voice:           a.cfg.GetString(cfgKeyTTSVoice),
		SpeakingRate:    a.cfg.GetFloat64(cfgKeyTTSSpeakingRate),
	}, player)
	if err != nil {
		return nil, nil, systemError(err)
	}
	closeFn := func() {
		if err := synth.Close(); err != nil {
			a.logger.Warn("closing text-to-speech client", "error", err)
		}
	}
	return speech.NewAnnouncer(synth, player, a.logger), closeFn, nil
}

func (a *app) speakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "speak <id>",
		Short: "Select a card as the child would",
		Long:  "Speak plays a card's recorded audio or says its label. Selecting a folder\nprints its contents instead.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(func(board types.Board) error {
				ctx := cmd.Context()
				card, err := board.Get(ctx, args[0])
				if err != nil {
					return err
				}
				announcer, closeFn, err := a.newAnnouncer(ctx, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				defer closeFn()

				switch announcer.Announce(ctx, card) {
				case speech.ActionOpen:
					cards, err := a.childrenOf(ctx, board, card)
					if err != nil {
						return err
					}
					return a.printScope(cmd, types.FolderScope(card.ID), card, cards)
				case speech.ActionNone:
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to say")
				}
				announcer.Wait()
				return nil
			})
		},
	}
}

// childrenOf lists a folder the way a display would.
func (a *app) childrenOf(ctx context.Context, board types.Board, folder *types.Card) ([]types.Card, error) {
	folders, err := board.ListByParentAndType(ctx, &folder.ID, types.CardFolder)
	if err != nil {
		return nil, err
	}
	speakCards, err := board.ListByParentAndType(ctx, &folder.ID, types.CardSpeak)
	if err != nil {
		return nil, err
	}
	return append(folders, speakCards...), nil
}

package speech

import (
	"context"
	"errors"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// Defaults for GoogleConfig.
const (
	DefaultLanguage     = "en-US"
	DefaultSpeakingRate = 0.95
)

// GoogleConfig selects credentials and voice for Cloud Text-to-Speech.
type GoogleConfig struct {
	CredentialsFile string
	Language        string
	Voice           string
	SpeakingRate    float64
}

// GoogleSynthesizer renders speech with Cloud Text-to-Speech and plays the
// returned MP3 through a Player.
type GoogleSynthesizer struct {
	client *texttospeech.Client
	cfg    GoogleConfig
	player Player
}

// NewGoogleSynthesizer connects to Cloud Text-to-Speech. Without a
// credentials file the client uses application default credentials.
func NewGoogleSynthesizer(ctx context.Context, cfg GoogleConfig, player Player) (*GoogleSynthesizer, error) {
	if player == nil {
		return nil, errors.New("google synthesizer needs a player")
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.SpeakingRate <= 0 {
		cfg.SpeakingRate = DefaultSpeakingRate
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating text-to-speech client: %w", err)
	}
	return &GoogleSynthesizer{client: client, cfg: cfg, player: player}, nil
}

// Synthesize returns MP3 audio for text.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text string) (*types.Asset, error) {
	if text == "" {
		return nil, errors.New("text is empty")
	}
	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: g.cfg.Language,
			Name:         g.cfg.Voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			SpeakingRate:  g.cfg.SpeakingRate,
		},
	}
	resp, err := g.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}
	return &types.Asset{Data: resp.AudioContent, MIME: "audio/mpeg"}, nil
}

// Speak synthesizes text and plays it.
func (g *GoogleSynthesizer) Speak(ctx context.Context, text string) error {
	clip, err := g.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return g.player.Play(ctx, clip)
}

// Close releases the client connection.
func (g *GoogleSynthesizer) Close() error {
	return g.client.Close()
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/speakboard/internal/codec"
	"github.com/mesh-intelligence/speakboard/internal/i18n"
	"github.com/mesh-intelligence/speakboard/internal/live"
	"github.com/mesh-intelligence/speakboard/internal/symbols"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// cardTypeValue is a pflag.Value restricted to the known card types.
type cardTypeValue types.CardType

var _ pflag.Value = (*cardTypeValue)(nil)

func (v *cardTypeValue) String() string { return string(*v) }

func (v *cardTypeValue) Set(s string) error {
	t, err := types.ParseCardType(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return err
	}
	*v = cardTypeValue(t)
	return nil
}

func (v *cardTypeValue) Type() string { return "speak|folder" }

// cardFlags are the editable fields shared by add and edit.
type cardFlags struct {
	cardType   cardTypeValue
	label      string
	parent     string
	order      float64
	image      string
	audio      string
	symbol     string
	clearImage bool
	clearAudio bool
}

func (f *cardFlags) register(fs *pflag.FlagSet, edit bool) {
	fs.Var(&f.cardType, "type", "card type: speak or folder")
	fs.StringVar(&f.label, "label", "", "text shown on the card and spoken")
	fs.StringVar(&f.parent, "parent", "", `folder id to place the card in ("root" for top level)`)
	fs.Float64Var(&f.order, "order", 0, "sort key among siblings (default: now in ms)")
	fs.StringVar(&f.image, "image", "", "image file")
	fs.StringVar(&f.audio, "audio", "", "recorded audio file")
	fs.StringVar(&f.symbol, "symbol", "", "library symbol to use as the image")
	if edit {
		fs.BoolVar(&f.clearImage, "clear-image", false, "remove the image")
		fs.BoolVar(&f.clearAudio, "clear-audio", false, "remove the recorded audio")
	}
}

// applyCardFlags copies the flags that were set onto card. A label given on
// the command line must not be blank.
func (a *app) applyCardFlags(cmd *cobra.Command, f *cardFlags, card *types.Card) error {
	fs := cmd.Flags()
	if fs.Changed("type") {
		card.Type = types.CardType(f.cardType)
	}
	if fs.Changed("label") {
		card.Label = strings.TrimSpace(f.label)
	}
	if fs.Changed("parent") {
		card.ParentID = types.ParseScope(f.parent).ParentID()
	}
	if fs.Changed("order") {
		card.Order = f.order
	}
	if f.clearImage {
		card.Image = nil
	}
	if f.clearAudio {
		card.Audio = nil
	}
	if f.image != "" {
		asset, err := readAsset(f.image)
		if err != nil {
			return err
		}
		card.Image = asset
	}
	if f.audio != "" {
		asset, err := readAsset(f.audio)
		if err != nil {
			return err
		}
		card.Audio = asset
	}
	if f.symbol != "" {
		lib, err := a.catalog().Library(cmd.Context())
		if err != nil {
			return err
		}
		sym, err := lib.Get(f.symbol)
		if err != nil {
			return err
		}
		card.Image = sym.Asset()
	}
	if fs.Changed("label") {
		return card.ValidateEdit()
	}
	return nil
}

// readAsset loads a file and sniffs its MIME type.
func readAsset(path string) (*types.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrAssetUnavailable, err)
	}
	return codec.FromBytes(data, ""), nil
}

func (a *app) catalog() *symbols.Catalog {
	return symbols.NewCatalog(a.cfg.GetString(cfgKeySymbolsSource), nil)
}

func (a *app) listCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "list [scope]",
		Short: "List the cards of a scope",
		Long: `List prints the cards shown at the root level or inside a folder, folders
first, each group ascending by order.

Example:
  speakboard list
  speakboard list root
  speakboard list 0190f1c2-... --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := types.RootScope()
			if len(args) == 1 {
				scope = types.ParseScope(args[0])
			}
			return a.withBoard(func(board types.Board) error {
				q := live.New(board, a.logger)
				if watch {
					return a.watchScope(cmd, q, scope)
				}
				ctx := cmd.Context()
				cards, err := q.Children(ctx, scope)
				if err != nil {
					return err
				}
				folder, err := q.ScopeFolder(ctx, scope)
				if err != nil {
					return err
				}
				return a.printScope(cmd, scope, folder, cards)
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep printing the scope as it changes")
	return cmd
}

// watchScope prints the scope each time its content or folder changes,
// until the command context ends.
func (a *app) watchScope(cmd *cobra.Command, q *live.Query, scope types.Scope) error {
	ctx := cmd.Context()
	children := q.WatchChildren(ctx, scope)
	folders := q.WatchScopeFolder(ctx, scope)

	var (
		cards      []types.Card
		folder     *types.Card
		haveCards  bool
		haveFolder bool
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case v, ok := <-children:
			if !ok {
				return nil
			}
			cards, haveCards = v, true
		case v, ok := <-folders:
			if !ok {
				return nil
			}
			folder, haveFolder = v, true
		}
		if haveCards && haveFolder {
			if err := a.printScope(cmd, scope, folder, cards); err != nil {
				return err
			}
		}
	}
}

func (a *app) printScope(cmd *cobra.Command, scope types.Scope, folder *types.Card, cards []types.Card) error {
	out := cmd.OutOrStdout()
	title := a.tr.Title(scope, folder)
	if a.flags.jsonMode {
		return writeJSON(out, map[string]any{
			"scope": scope.String(),
			"title": title,
			"cards": newCardOutputs(cards),
		})
	}
	fmt.Fprintf(out, "%s\n\n", title)
	if len(cards) == 0 {
		fmt.Fprintln(out, a.tr.T(i18n.EmptyTitle))
		return nil
	}
	writeCardTable(out, cards)
	return nil
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display a card with full details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(func(board types.Board) error {
				card, err := board.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), newCardOutput(card))
				}
				writeCardDetail(cmd.OutOrStdout(), card)
				return nil
			})
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	f := &cardFlags{cardType: cardTypeValue(types.CardSpeak)}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a card",
		Long: `Add creates a speak card or a folder.

Example:
  speakboard add --label "I want water" --image water.png
  speakboard add --type folder --label Food
  speakboard add --label Apple --parent <folder-id> --symbol apple`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			card := types.NewCard(types.CardType(f.cardType), "", nil)
			if err := a.applyCardFlags(cmd, f, card); err != nil {
				return err
			}
			return a.withBoard(func(board types.Board) error {
				id, err := board.Add(cmd.Context(), card)
				if err != nil {
					return err
				}
				a.logger.Debug("card added", "id", id, "type", card.Type)
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), newCardOutput(card))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.tr.T(i18n.Added), id)
				return nil
			})
		},
	}
	f.register(cmd.Flags(), false)
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	f := &cardFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a card",
		Long:  "Edit replaces the fields given as flags and keeps the rest.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(func(board types.Board) error {
				ctx := cmd.Context()
				card, err := board.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if err := a.applyCardFlags(cmd, f, card); err != nil {
					return err
				}
				if err := board.Put(ctx, card); err != nil {
					return err
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), newCardOutput(card))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.tr.T(i18n.Updated), card.ID)
				return nil
			})
		},
	}
	f.register(cmd.Flags(), true)
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Long:  "Delete removes a card. A folder must be emptied first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(func(board types.Board) error {
				if err := board.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", a.tr.T(i18n.Deleted), args[0])
				return nil
			})
		},
	}
}

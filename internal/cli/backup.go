package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/speakboard/internal/backup"
	"github.com/mesh-intelligence/speakboard/internal/i18n"
	"github.com/mesh-intelligence/speakboard/internal/paths"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write a backup of every card",
		Long:  "Export writes all cards, with their images and audio, to a JSON backup\nfile in the backup directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := paths.ResolveBackupDir(a.flags.backupDir, a.cfg.GetString(cfgKeyBackupDir))
			if err != nil {
				return systemError(fmt.Errorf("resolving backup dir: %w", err))
			}
			return a.withBoard(func(board types.Board) error {
				saver := &backup.DirSaver{Dir: dir}
				res, err := backup.NewService(board, backup.WithLogger(a.logger)).Export(cmd.Context(), saver)
				if err != nil {
					return systemError(err)
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]any{
						"path": saver.Path, "cards": res.Cards, "bytes": res.Bytes,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%d cards)\n", a.tr.T(i18n.BackupExported), saver.Path, res.Cards)
				return nil
			})
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace every card with the contents of a backup",
		Long:  "Import reads a backup file and replaces the whole board with it. A file\nthat is not a valid backup leaves the board unchanged.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(func(board types.Board) error {
				res, err := backup.NewService(board, backup.WithLogger(a.logger)).
					Import(cmd.Context(), backup.FileReader{Path: args[0]})
				if err != nil {
					if errors.Is(err, types.ErrInvalidBackup) || errors.Is(err, types.ErrImportFailed) {
						return err
					}
					return systemError(err)
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"cards": res.Cards})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d cards)\n", a.tr.T(i18n.BackupImported), res.Cards)
				return nil
			})
		},
	}
}

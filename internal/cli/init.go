package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/speakboard/internal/paths"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize speakboard storage",
		Long:  "Create the configuration and data directories, write a default config.yaml,\nand open the board once so the starter cards are in place.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return systemError(err)
			}
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				return systemError(fmt.Errorf("creating config directory: %w", err))
			}
			configPath := filepath.Join(configDir, configFileExt)
			wrote, err := writeConfigIfMissing(configPath, a.flags.dataDir)
			if err != nil {
				return systemError(err)
			}
			if wrote {
				cfg, err := loadConfig(configDir)
				if err != nil {
					return systemError(err)
				}
				a.cfg = cfg
			}

			return a.withBoard(func(board types.Board) error {
				n, err := board.Count(cmd.Context())
				if err != nil {
					return systemError(err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "config: %s\n", configPath)
				fmt.Fprintf(out, "cards:  %d\n", n)
				fmt.Fprintln(out, "Speakboard initialized successfully")
				return nil
			})
		},
	}
}

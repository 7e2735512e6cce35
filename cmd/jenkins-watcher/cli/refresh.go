package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/davarch/jenkins-watcher/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Ask a running watcher for an immediate poll",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		path := cfg.Poll.RefreshFile
		if path == "" {
			return fmt.Errorf("no refresh_file configured")
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		now := time.Now()
		if err := os.Chtimes(path, now, now); err != nil {
			return err
		}

		fmt.Printf("refresh requested: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

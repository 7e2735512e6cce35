package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/davarch/jenkins-watcher/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var (
	listOnlyEnabled  bool
	listOnlyDisabled bool
	listJSON         bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked jobs from config.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		if len(cfg.Jobs) == 0 {
			fmt.Println("no job allowlist configured; all jobs from the feed are tracked")
			return nil
		}

		items := make([]config.Job, 0, len(cfg.Jobs))
		for _, j := range cfg.Jobs {
			if listOnlyEnabled && !j.Enabled {
				continue
			}
			if listOnlyDisabled && j.Enabled {
				continue
			}
			items = append(items, j)
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tENABLED")
		for _, j := range items {
			name := j.Name
			if name == "" {
				name = "(unnamed)"
			}
			en := "false"
			if j.Enabled {
				en = "true"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\n", name, en)
		}
		_ = w.Flush()
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listOnlyEnabled, "enabled", false, "show only enabled jobs")
	listCmd.Flags().BoolVar(&listOnlyDisabled, "disabled", false, "show only disabled jobs")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")

	listCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if listOnlyEnabled && listOnlyDisabled {
			return fmt.Errorf("flags --enabled and --disabled are mutually exclusive")
		}
		return nil
	}

	rootCmd.AddCommand(listCmd)
}

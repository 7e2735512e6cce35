package cli

import (
	"fmt"

	"github.com/davarch/jenkins-watcher/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <job_name>",
	Short: "Enable a job by name in config.yaml",
	Args:  cobra.MatchAll(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		changed := false
		for i := range cfg.Jobs {
			if cfg.Jobs[i].Name == name {
				if !cfg.Jobs[i].Enabled {
					cfg.Jobs[i].Enabled = true
					changed = true
				}
			}
		}

		if !changed {
			fmt.Printf("no change (job %q already enabled or not found)\n", name)
			return nil
		}

		if err := config.Save(cfgPath, cfg); err != nil {
			return err
		}

		fmt.Printf("enabled: %s\n", name)
		return nil
	},
}

func init() {
	enableCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		out := make([]string, 0, len(cfg.Jobs))
		for _, j := range cfg.Jobs {
			if j.Name == "" {
				continue
			}

			if toComplete == "" || startsWith(j.Name, toComplete) {
				out = append(out, j.Name)
			}
		}

		return out, cobra.ShellCompDirectiveNoFileComp
	}

	rootCmd.AddCommand(enableCmd)
}

func startsWith(s, pref string) bool {
	if len(pref) > len(s) {
		return false
	}

	return s[:len(pref)] == pref
}

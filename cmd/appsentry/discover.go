package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hamed0406/appsentry/internal/discovery"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [repo-root]",
	Short: "Scan a repository for applications and write the app registry",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		_, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		apps, err := discovery.NewScanner(logger).Discover(root)
		if err != nil {
			return err
		}
		if err := discovery.WriteRegistry(root, apps); err != nil {
			return fmt.Errorf("write registry: %w", err)
		}

		fmt.Printf("Discovered %d applications\n", len(apps))
		for _, a := range apps {
			marks := ""
			if a.HasTests {
				marks += " tests"
			}
			if a.HasDocker {
				marks += " docker"
			}
			fmt.Printf("  %-30s %-10s deps=%-3d frameworks=%s%s\n",
				a.Name, a.Complexity, len(a.Dependencies),
				strings.Join(a.Frameworks, ","), marks)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

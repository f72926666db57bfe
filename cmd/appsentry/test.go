package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hamed0406/appsentry/internal/battery"
	"github.com/hamed0406/appsentry/internal/domain"
	"github.com/hamed0406/appsentry/internal/probe"
)

var testCmd = &cobra.Command{
	Use:   "test <app-path>",
	Short: "Run the full test battery for one application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appPath := args[0]

		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		runner := battery.NewRunner(
			logger,
			cfg.Monitoring.ProbeTimeout.Std(),
			cfg.QualityScale(),
			cfg.Recommendations,
		)

		name := filepath.Base(appPath)
		b, err := runner.RunBatch(cmd.Context(), name, probe.Suite(appPath))
		if err != nil {
			return err
		}

		fmt.Printf("\n📊 Test Results for %s\n", b.SubjectID)
		fmt.Printf("Overall Status: %s\n", b.Verdict)
		for _, o := range b.Outcomes {
			fmt.Printf("%s %s: %s\n", statusEmoji(o.Status), o.ProbeName, o.Status)
		}
		if len(b.Recommendations) > 0 {
			fmt.Println("\n💡 Recommendations:")
			for _, rec := range b.Recommendations {
				fmt.Printf("  %s\n", rec)
			}
		}
		return nil
	},
}

func statusEmoji(s domain.Status) string {
	switch s {
	case domain.StatusPassed:
		return "✅"
	case domain.StatusFailed, domain.StatusError:
		return "❌"
	default:
		return "⚠️"
	}
}

func init() {
	rootCmd.AddCommand(testCmd)
}

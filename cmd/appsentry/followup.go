package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hamed0406/appsentry/internal/domain"
	"github.com/hamed0406/appsentry/internal/notify"
	"github.com/hamed0406/appsentry/internal/repo/memory"
	"github.com/hamed0406/appsentry/internal/repo/postgres"
	"github.com/hamed0406/appsentry/internal/tasks"
)

var followupCmd = &cobra.Command{
	Use:   "followup",
	Short: "Create the mandatory follow-up tasks for a deployment",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _ := cmd.Flags().GetString("app")
		deploymentID, _ := cmd.Flags().GetString("deployment-id")
		environment, _ := cmd.Flags().GetString("environment")
		version, _ := cmd.Flags().GetString("version")

		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()

		dep := domain.Deployment{
			ID:          deploymentID,
			App:         app,
			Environment: environment,
			Version:     version,
			Status:      "deployed",
		}
		if dep.ID == "" {
			dep.ID = uuid.NewString()
		}

		var chat notify.Multi
		if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
			chat = append(chat, s)
		}
		integrator := tasks.NewIntegrator(logger, nil, chat, nil)
		if gh := notify.NewGitHub(cfg.GitHub.Token, cfg.GitHub.Owner, cfg.GitHub.Repo); gh != nil {
			integrator.Issuer = gh
		}

		if cfg.DatabaseURL != "" {
			pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			integrator.Store = pg
			if err := pg.AddDeployment(ctx, &dep); err != nil {
				return err
			}
		} else {
			mem := memory.New()
			integrator.Store = mem
			_ = mem.AddDeployment(ctx, &dep)
		}

		created, err := integrator.CreateFollowups(ctx, dep)
		if err != nil {
			return err
		}

		fmt.Printf("✅ Created %d follow-up tasks for %s\n", len(created), app)
		for _, t := range created {
			fmt.Printf("  📋 %s - %s priority\n", t.Title, t.Priority)
		}
		return nil
	},
}

func init() {
	followupCmd.Flags().String("app", "", "application name")
	followupCmd.Flags().String("deployment-id", "", "deployment ID (generated when empty)")
	followupCmd.Flags().String("environment", "staging", "deployment environment")
	followupCmd.Flags().String("version", "", "deployed version")
	_ = followupCmd.MarkFlagRequired("app")
	rootCmd.AddCommand(followupCmd)
}

package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hszk-dev/nextup/internal/domain/model"
	"github.com/hszk-dev/nextup/internal/domain/repository"
	"github.com/hszk-dev/nextup/internal/usecase"
)

func newWarmCommand(ctx *commandContext) *cobra.Command {
	var enqueue bool

	cmd := &cobra.Command{
		Use:   "warm <id-or-slug> <season>",
		Short: "Pre-populate the cache for a season and its episodes",
		Long: "Fetches the season and every episode in it through the cache.\n" +
			"With --enqueue the task is published to the worker queue instead.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := parseShowArg(args[0])
			if err != nil {
				return err
			}
			seasonNum, err := parseNumberArg("season", args[1])
			if err != nil {
				return err
			}
			if err := model.SeasonKey(showID, seasonNum).Validate(); err != nil {
				return err
			}

			task := repository.WarmTask{
				ID:     uuid.New(),
				ShowID: showID,
				Season: seasonNum,
			}
			out := cmd.OutOrStdout()

			if enqueue {
				return ctx.withPublisher(cmd.Context(), func(publisher repository.WarmPublisher) error {
					if err := publisher.PublishWarmTask(cmd.Context(), task); err != nil {
						return fmt.Errorf("publish warm task: %w", err)
					}
					fmt.Fprintf(out, "Queued warm task %s for show %d season %d\n", task.ID, showID, seasonNum)
					return nil
				})
			}

			return ctx.withCatalog(cmd.Context(), func(catalog usecase.CatalogService) error {
				// Surface a missing season here; the worker path drops it silently.
				if _, err := catalog.GetSeason(cmd.Context(), showID, seasonNum); err != nil {
					return err
				}
				warm := usecase.NewWarmService(catalog, nil, usecase.DefaultWarmServiceConfig())
				if err := warm.ProcessTask(cmd.Context(), task); err != nil {
					return err
				}
				fmt.Fprintf(out, "Warmed show %d season %d\n", showID, seasonNum)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "Publish a task for the worker instead of warming in-process")

	return cmd
}

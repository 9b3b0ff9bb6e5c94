package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hszk-dev/nextup/internal/domain/model"
	"github.com/hszk-dev/nextup/internal/usecase"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-or-slug>",
		Short: "Show a TV show through the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := parseShowArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withCatalog(cmd.Context(), func(catalog usecase.CatalogService) error {
				show, err := catalog.GetShow(cmd.Context(), showID)
				if err != nil {
					return err
				}
				if ctx.jsonOutput {
					return writeJSON(cmd, show)
				}

				network := ""
				if n := show.PrimaryNetwork(); n != nil {
					network = n.Name
				}
				rows := [][]string{
					{"ID", strconv.Itoa(show.ID)},
					{"Name", show.Name},
					{"Slug", show.Slug()},
					{"Status", show.Status},
					{"Network", network},
					{"Seasons", strconv.Itoa(show.NumberOfSeasons)},
					{"Episodes", strconv.Itoa(show.NumberOfEpisodes)},
					{"First aired", show.FirstAirDate},
					{"Rating", formatRating(show.VoteAverage)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
}

func newSeasonCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "season <id-or-slug> <season>",
		Short: "List the episodes of a season",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := parseShowArg(args[0])
			if err != nil {
				return err
			}
			seasonNum, err := parseNumberArg("season", args[1])
			if err != nil {
				return err
			}
			return ctx.withCatalog(cmd.Context(), func(catalog usecase.CatalogService) error {
				season, err := catalog.GetSeason(cmd.Context(), showID, seasonNum)
				if err != nil {
					return err
				}
				if ctx.jsonOutput {
					return writeJSON(cmd, season)
				}

				rows := make([][]string, 0, len(season.Episodes))
				for _, ep := range season.Episodes {
					rows = append(rows, []string{
						strconv.Itoa(ep.EpisodeNumber),
						ep.Name,
						ep.AirDate,
						formatRuntime(ep.Runtime),
						formatRating(ep.VoteAverage),
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%d episodes)\n", season.Name, len(season.Episodes))
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Title", "Air date", "Runtime", "Rating"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}
}

func newEpisodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "episode <id-or-slug> <season> <episode>",
		Short: "Show a single episode",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := parseShowArg(args[0])
			if err != nil {
				return err
			}
			seasonNum, err := parseNumberArg("season", args[1])
			if err != nil {
				return err
			}
			episodeNum, err := parseNumberArg("episode", args[2])
			if err != nil {
				return err
			}
			return ctx.withCatalog(cmd.Context(), func(catalog usecase.CatalogService) error {
				ep, err := catalog.GetEpisode(cmd.Context(), showID, seasonNum, episodeNum)
				if err != nil {
					return err
				}
				if ctx.jsonOutput {
					return writeJSON(cmd, ep)
				}

				rows := [][]string{
					{"ID", strconv.Itoa(ep.ID)},
					{"Episode", fmt.Sprintf("S%dE%d", ep.SeasonNumber, ep.EpisodeNumber)},
					{"Title", ep.Name},
					{"Air date", ep.AirDate},
					{"Runtime", formatRuntime(ep.Runtime)},
					{"Rating", formatRating(ep.VoteAverage)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search shows by name (not cached)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withCatalog(cmd.Context(), func(catalog usecase.CatalogService) error {
				shows, err := catalog.SearchShows(cmd.Context(), query)
				if err != nil {
					return err
				}
				if ctx.jsonOutput {
					return writeJSON(cmd, shows)
				}
				if len(shows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No shows found")
					return nil
				}

				rows := make([][]string, 0, len(shows))
				for i := range shows {
					s := &shows[i]
					rows = append(rows, []string{
						strconv.Itoa(s.ID),
						s.Name,
						s.FirstAirDate,
						formatRating(s.VoteAverage),
						s.Slug(),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "First aired", "Rating", "Slug"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

// parseShowArg accepts a numeric id or a page slug such as "1396-breaking-bad".
func parseShowArg(arg string) (int, error) {
	showID, ok := model.ParseShowSlug(strings.TrimSpace(arg))
	if !ok {
		return 0, fmt.Errorf("invalid show %q: want an id or slug like 1396-breaking-bad", arg)
	}
	return showID, nil
}

func parseNumberArg(name, arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, arg)
	}
	return n, nil
}

func formatRating(v float64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dm", minutes)
}

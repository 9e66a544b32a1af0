package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newSeedsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seeds",
		Short: "Show how many fallback seeds are stored",
		Long: `Fallback views draw their numbers from a seed remembered per session and
view. The subcommands forget a session's seeds or prune old ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.svc.SeedCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s stored seeds (kept for %s)\n",
				humanize.Comma(n), a.cfg.Fallback.SeedTTL.Duration())
			return nil
		},
	}

	var session string
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget every seed of a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.svc.ResetSession(cmd.Context(), session)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s seeds of session %s\n", humanize.Comma(n), session)
			return nil
		},
	}
	reset.Flags().StringVar(&session, "session", "", "Session to reset")
	_ = reset.MarkFlagRequired("session")

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Remove seeds older than the configured TTL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			maxAge := a.cfg.Fallback.SeedTTL.Duration()
			if cmd.Flags().Changed("older-than") {
				maxAge = olderThan
			}
			n, err := a.svc.PruneSeeds(cmd.Context(), maxAge)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %s seeds older than %s\n", humanize.Comma(n), maxAge)
			return nil
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 0, "Override the configured seed TTL")

	cmd.AddCommand(reset, prune)
	return cmd
}

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with the domain catalog",
	}

	var output string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the active catalog in catalog file format",
		Long: `Write the active catalog as YAML. The result can be edited and loaded
back with catalog.path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return a.svc.ExportCatalog(cmd.OutOrStdout())
			}
			if err := writeFile(output, func(w io.Writer) error { return a.svc.ExportCatalog(w) }); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote catalog to %s\n", output)
			return nil
		},
	}
	export.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	cmd.AddCommand(export)
	return cmd
}

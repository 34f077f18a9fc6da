package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"workpulse/internal/entrylog"
)

var (
	importEntries string
	importRoster  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a roster (JSON) and/or entries (JSONL) into the configured store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if importEntries == "" && importRoster == "" {
			return fmt.Errorf("nothing to import: pass --entries and/or --roster")
		}
		ctx := commandContext(cmd)
		b, err := openBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		if importRoster != "" {
			roster, err := entrylog.ReadRosterFile(importRoster)
			if err != nil {
				return err
			}
			if err := b.PutRoster(ctx, roster); err != nil {
				return err
			}
			log.Info().Int("users", len(roster.Users)).Int("teams", len(roster.Teams)).Msg("Roster imported")
		}

		if importEntries != "" {
			entries, err := entrylog.ReadEntriesFile(importEntries)
			if err != nil {
				return err
			}
			n, err := b.UpsertEntries(ctx, entries)
			if err != nil {
				return err
			}
			log.Info().Int("entries", n).Str("file", importEntries).Msg("Entries imported")
		}

		return b.Flush()
	},
}

func init() {
	importCmd.Flags().StringVar(&importEntries, "entries", "", "JSONL file with one entry per line")
	importCmd.Flags().StringVar(&importRoster, "roster", "", "JSON file with users and teams")
}

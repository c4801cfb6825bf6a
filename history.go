package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/ibu/internal/config"
	"github.com/xiaot623/gogo/ibu/internal/domain"
	"github.com/xiaot623/gogo/ibu/internal/repository"
)

func newHistoryCmd() *cobra.Command {
	var dsn string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded chat exchanges",
	}
	cmd.PersistentFlags().StringVar(&dsn, "database", "", "SQLite DSN (defaults to DATABASE_URL)")
	cmd.PersistentFlags().IntVar(&limit, "limit", 0, "maximum number of exchanges (0 uses the default)")

	cmd.AddCommand(&cobra.Command{
		Use:   "recent",
		Short: "Print the latest exchanges, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openHistoryStore(dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			exchanges, err := db.RecentExchanges(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return writeExchanges(cmd.OutOrStdout(), exchanges)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "session <session-id>",
		Short: "Print one session's exchanges, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openHistoryStore(dsn)
			if err != nil {
				return err
			}
			defer db.Close()

			exchanges, err := db.SessionHistory(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return writeExchanges(cmd.OutOrStdout(), exchanges)
		},
	})

	return cmd
}

func writeExchanges(w io.Writer, exchanges []domain.ChatExchange) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exchanges)
}

// openHistoryStore opens dsn, or the configured database when dsn is empty.
func openHistoryStore(dsn string) (*store.SQLiteStore, error) {
	if dsn == "" {
		cfg, err := config.LoadStoreConfig()
		if err != nil {
			return nil, err
		}
		dsn = cfg.DatabaseURL
	}
	return store.NewSQLiteStore(dsn)
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"lapse/internal/session"
	"lapse/internal/status"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var baseDir string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the most recent session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			base, err := resolveBaseDir(cfg, baseDir)
			if err != nil {
				return err
			}

			path := filepath.Join(base, session.StatusFileName)
			rec, err := status.Read(path)
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(cmd.OutOrStdout(), "No session has run yet.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("read status file: %w", err)
			}

			if asJSON {
				return writeJSON(cmd, rec)
			}

			rows := [][]string{
				{"Status", string(rec.Status)},
				{"Captured", fmt.Sprintf("%d / %d", rec.Captured, rec.Total)},
				{"Folder", rec.Folder},
			}
			if rec.Video != "" {
				rows = append(rows, []string{"Video", rec.Video})
			}
			if msg := rec.ErrorMessage(); msg != "" {
				rows = append(rows, []string{"Error", msg})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&baseDir, "base-dir", "b", "", "Base directory holding the status file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the raw status record as JSON")
	return cmd
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var baseDir string
	var asJSON bool
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded session outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			base, err := resolveBaseDir(cfg, baseDir)
			if err != nil {
				return err
			}

			entries, err := readHistory(cmd, base, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.SessionID,
					entry.Status,
					strconv.Itoa(entry.Captured) + "/" + strconv.Itoa(entry.Total),
					entry.Video,
					entry.Error,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"Session", "Status", "Frames", "Video", "Error"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&baseDir, "base-dir", "b", "", "Base directory holding the history database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit history entries as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of sessions to list")
	return cmd
}

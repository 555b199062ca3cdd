package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"lapse/internal/history"
)

func isTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// readHistory opens the base directory's history database read-only for the
// duration of the command. A missing database simply means no sessions ran.
func readHistory(cmd *cobra.Command, baseDir string, limit int) ([]history.Entry, error) {
	path := filepath.Join(baseDir, history.DefaultFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Recent(cmd.Context(), limit)
}

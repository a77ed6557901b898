// Package testutil provides common utility functions for testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/amortize/pkg/loans"
)

// FindRow finds the row for a given month in a schedule.
// Returns a pointer to the row if found, nil otherwise.
func FindRow(schedule loans.Schedule, month int) *loans.Row {
	for i := range schedule.Rows {
		if schedule.Rows[i].Month == month {
			return &schedule.Rows[i]
		}
	}
	return nil
}

// WriteConfig writes contents to amortize.yaml in a fresh temporary directory
// and returns its path.
func WriteConfig(t testing.TB, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "amortize.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

package home

import (
	"os"
	"path/filepath"
)

// Home handles the per-user state directory and small file checks
type Home struct{}

// Manager creates a new home directory manager
func Manager() *Home {
	return &Home{}
}

// GetStateDir returns the directory holding kcdutils state
func (m *Home) GetStateDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".kcdutils")
	}
	return filepath.Join(homeDir, ".kcdutils")
}

// GetJournalPath returns the default path of the operation journal
func (m *Home) GetJournalPath() string {
	return filepath.Join(m.GetStateDir(), "history.db")
}

// EnsureDir creates a directory and all parent directories
func (m *Home) EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// FileExists checks if a regular file exists
func (m *Home) FileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && info.Mode().IsRegular()
}

// GetFileSize returns the size of a file, or 0 if it doesn't exist
func (m *Home) GetFileSize(filename string) int64 {
	info, err := os.Stat(filename)
	if err != nil {
		return 0
	}
	return info.Size()
}

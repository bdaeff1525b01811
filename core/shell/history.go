package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// historyDirName is the fixed subfolder under the store root that
	// holds every session's history file.
	historyDirName = "history"

	// historyFilePrefix prefixes every history file name.
	historyFilePrefix = "s-"
)

// HistoryStore persists one flat history file per session prompt path under
// a shared root directory. Every session in a tree shares the store of its
// root, so file names derived from the prompt path keep sessions apart.
type HistoryStore struct {
	fs   afero.Fs
	root string
}

// NewHistoryStore returns a store rooted at root on the given filesystem.
func NewHistoryStore(fs afero.Fs, root string) *HistoryStore {
	return &HistoryStore{fs: fs, root: root}
}

// Path returns the history file path for a prompt path such as
// "root-debug".
func (h *HistoryStore) Path(promptPath string) string {
	return filepath.Join(h.root, historyDirName, historyFilePrefix+promptPath)
}

// Load returns the stored history lines for a prompt path. A missing file
// is not an error; it yields no lines.
func (h *HistoryStore) Load(promptPath string) ([]string, error) {
	raw, err := afero.ReadFile(h.fs, h.Path(promptPath))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	text := strings.TrimSuffix(string(raw), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// Save writes the history lines for a prompt path, replacing any previous
// contents.
func (h *HistoryStore) Save(promptPath string, lines []string) error {
	if err := h.fs.MkdirAll(filepath.Join(h.root, historyDirName), 0700); err != nil {
		return err
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return afero.WriteFile(h.fs, h.Path(promptPath), []byte(b.String()), 0600)
}

// Read returns the raw stored history text for display.
func (h *HistoryStore) Read(promptPath string) (string, error) {
	raw, err := afero.ReadFile(h.fs, h.Path(promptPath))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Clear truncates the history file for one prompt path.
func (h *HistoryStore) Clear(promptPath string) error {
	return h.Save(promptPath, nil)
}

// ClearAll removes the whole store and recreates the empty history
// subfolder. Safe to call repeatedly, and safe while ancestor sessions
// still hold the store; they reload from the (now empty) directory when
// their subshell returns.
func (h *HistoryStore) ClearAll() error {
	if err := h.fs.RemoveAll(h.root); err != nil && !os.IsNotExist(err) {
		return err
	}
	return h.fs.MkdirAll(filepath.Join(h.root, historyDirName), 0700)
}

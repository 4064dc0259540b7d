package output

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/joseph-ayodele/cardscan/constants"
	"github.com/joseph-ayodele/cardscan/internal/common"
)

// Writer appends vCard blocks to a single contacts file.
type Writer struct {
	path string
	f    *os.File
	log  *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Open prepares dir/contacts.vcf according to policy and opens it for append.
func Open(dir string, policy OverwritePolicy, confirm Confirm, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, common.IOError("create output dir", err)
	}
	path := filepath.Join(dir, constants.OutputFileName)

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := resolveExisting(path, policy, confirm, logger); err != nil {
			return nil, err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, common.IOError("stat output file", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, common.IOError("open output file", err)
	}
	logger.Info("output.open.ok", "path", path, "policy", policy.String())
	return &Writer{path: path, f: f, log: logger}, nil
}

func resolveExisting(path string, policy OverwritePolicy, confirm Confirm, logger *slog.Logger) error {
	if policy == PolicyPrompt {
		if confirm == nil {
			return fmt.Errorf("%w: %s (no prompt available)", common.ErrOutputExists, path)
		}
		yes, err := confirm(fmt.Sprintf("%s already exists. Delete it?", path))
		if err != nil {
			return fmt.Errorf("confirm overwrite: %w", err)
		}
		policy = PolicyAppend
		if yes {
			policy = PolicyOverwrite
		}
	}

	switch policy {
	case PolicyAbort:
		return fmt.Errorf("%w: %s", common.ErrOutputExists, path)
	case PolicyOverwrite:
		if err := os.Remove(path); err != nil {
			return common.IOError("remove existing output file", err)
		}
		logger.Info("output.existing.removed", "path", path)
	case PolicyAppend:
		logger.Info("output.existing.retained", "path", path)
	}
	return nil
}

func (w *Writer) Path() string { return w.path }

// Append writes one block followed by a newline and flushes it to disk.
func (w *Writer) Append(block []byte) error {
	buf := make([]byte, 0, len(block)+1)
	buf = append(append(buf, block...), '\n')
	if _, err := w.f.Write(buf); err != nil {
		return common.IOError("append contact", err)
	}
	if err := w.f.Sync(); err != nil {
		return common.IOError("sync output file", err)
	}
	w.log.Debug("output.append.ok", "path", w.path, "bytes", len(buf))
	return nil
}

// Close is safe to call more than once.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		if err := w.f.Close(); err != nil {
			w.closeErr = common.IOError("close output file", err)
		}
	})
	return w.closeErr
}

package output

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultFileMode is the mode of trail files written by FileWriter.
const DefaultFileMode fs.FileMode = 0o644

// Writer is a destination for a rendered trail.
type Writer interface {
	Write(data []byte) error
}

// StreamWriter writes rendered trails to a stream, usually stdout.
type StreamWriter struct {
	out io.Writer
}

// NewStreamWriter returns a StreamWriter for w, or for os.Stdout when w is nil.
func NewStreamWriter(w io.Writer) *StreamWriter {
	if w == nil {
		w = os.Stdout
	}

	return &StreamWriter{out: w}
}

func (sw *StreamWriter) Write(data []byte) error {
	if _, err := sw.out.Write(data); err != nil {
		return fmt.Errorf("writing trail: %w", err)
	}

	return nil
}

// FileWriter replaces a file with a rendered trail. The trail is written to
// a temporary file next to the target and renamed over it, so readers and
// watchers of the file never see a partial trail.
type FileWriter struct {
	path   string
	mode   fs.FileMode
	logger *slog.Logger
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithMode sets the mode of the written file.
func WithMode(mode fs.FileMode) FileWriterOption {
	return func(fw *FileWriter) {
		fw.mode = mode.Perm()
	}
}

// WithLogger sets the logger reporting replaced files.
func WithLogger(logger *slog.Logger) FileWriterOption {
	return func(fw *FileWriter) {
		if logger != nil {
			fw.logger = logger
		}
	}
}

// NewFileWriter returns a FileWriter for path.
func NewFileWriter(path string, opts ...FileWriterOption) *FileWriter {
	fw := &FileWriter{
		path:   path,
		mode:   DefaultFileMode,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// Path returns the target file.
func (fw *FileWriter) Path() string { return fw.path }

// Mode returns the mode the file is written with.
func (fw *FileWriter) Mode() fs.FileMode { return fw.mode }

func (fw *FileWriter) Write(data []byte) (err error) {
	dir := filepath.Dir(fw.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fw.path)+".*")
	if err != nil {
		return fmt.Errorf("writing trail file %s: %w", fw.path, err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing trail file %s: %w", fw.path, err)
	}

	if err := tmp.Chmod(fw.mode); err != nil {
		return fmt.Errorf("setting mode of %s: %w", fw.path, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing trail file %s: %w", fw.path, err)
	}

	if _, statErr := os.Stat(fw.path); statErr == nil {
		fw.logger.Info("replacing trail file", slog.String("path", fw.path))
	}

	if err := os.Rename(tmp.Name(), fw.path); err != nil {
		return fmt.Errorf("replacing %s: %w", fw.path, err)
	}

	return nil
}

// ParseMode parses an octal permission string such as "600" or "0o640".
func ParseMode(s string) (fs.FileMode, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0o"), "0O")

	n, err := strconv.ParseUint(digits, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid file mode %q: must be octal, e.g. 0644", s)
	}

	if n > 0o777 {
		return 0, fmt.Errorf("invalid file mode %q: only permission bits are allowed", s)
	}

	return fs.FileMode(n), nil
}

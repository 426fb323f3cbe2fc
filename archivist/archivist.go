// Package archivist persists dashboard snapshots to the file the dashboard front end reads.
package archivist

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samgozman/fin-dashboard/pkg/errlvl"
	"github.com/samgozman/fin-dashboard/snapshot"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Archivist writes snapshots to a single JSON file.
type Archivist struct {
	path   string
	logger *slog.Logger
}

// NewArchivist creates a new Archivist for the given output path (e.g. "data/dashboard_data.json").
func NewArchivist(path string) (*Archivist, error) {
	if path == "" {
		return nil, newError(errlvl.FATAL, errEmptyPath, nil)
	}

	return &Archivist{
		path:   path,
		logger: slog.Default(),
	}, nil
}

// Path returns the output file path.
func (a *Archivist) Path() string {
	return a.path
}

// Save writes the snapshot as indented JSON. The file is replaced atomically:
// readers see either the previous snapshot or the new one, never a partial write.
func (a *Archivist) Save(ctx context.Context, s *snapshot.Snapshot) error {
	if s == nil {
		return newError(errlvl.ERROR, errNilSnapshot, nil)
	}

	data, err := Encode(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return newError(errlvl.ERROR, errCreateDir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(a.path)+".*.tmp")
	if err != nil {
		return newError(errlvl.ERROR, errWriteTemp, err)
	}
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return newError(errlvl.ERROR, errWriteTemp, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return newError(errlvl.ERROR, errWriteTemp, err)
	}
	if err := tmp.Close(); err != nil {
		return newError(errlvl.ERROR, errWriteTemp, err)
	}

	if err := ctx.Err(); err != nil {
		return newError(errlvl.WARN, errSaveInterrupted, err)
	}

	if err := os.Rename(tmp.Name(), a.path); err != nil {
		return newError(errlvl.ERROR, errReplace, err)
	}

	a.logger.Debug("snapshot saved", "path", a.path, "bytes", len(data))

	return nil
}

// Encode renders the snapshot the way it is stored: two-space indentation,
// non-ASCII and HTML characters kept literal, trailing newline.
func Encode(s *snapshot.Snapshot) ([]byte, error) {
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, newError(errlvl.ERROR, errEncode, err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, newError(errlvl.ERROR, errEncode, err)
	}
	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

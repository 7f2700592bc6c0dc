package snapshot

import (
	"bufio"
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-alpha/internal/logger"
	"github.com/rxtech-lab/argo-alpha/internal/version"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"go.uber.org/zap"
)

const (
	magic     = "ARGOMDL"
	extension = ".mdl"
)

// Filename returns the snapshot file name of model name on day.
func Filename(name string, day time.Time) string {
	return fmt.Sprintf("model_%s_%s%s", name, day.Format("20060102"), extension)
}

// FileStore keeps one snapshot file per model and calendar day in a directory.
//
// File layout: a header line "ARGOMDL <format version>" followed by a zstd
// compressed gob encoding of State.
type FileStore struct {
	dir    string
	name   string
	now    func() time.Time
	logger *logger.Logger
}

// NewFileStore creates a FileStore for model name in dir.
func NewFileStore(dir string, name string, log *logger.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "snapshot directory is required")
	}

	if name == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "model name is required")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &FileStore{
		dir:    dir,
		name:   name,
		now:    time.Now,
		logger: log,
	}, nil
}

// SetClock replaces the clock used to pick today's file.
func (s *FileStore) SetClock(now func() time.Time) {
	s.now = now
}

// Path returns today's snapshot path.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, Filename(s.name, s.now()))
}

// Save writes state to today's file. The file is replaced atomically.
func (s *FileStore) Save(ctx context.Context, state State) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeSnapshotWriteFailed, "snapshot save cancelled", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeSnapshotWriteFailed, err, "failed to create snapshot directory %s", s.dir)
	}

	path := s.Path()

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(errors.ErrCodeSnapshotWriteFailed, err, "failed to create snapshot file in %s", s.dir)
	}

	defer func() {
		// no-op once renamed
		_ = os.Remove(tmp.Name())
	}()

	if err := encode(tmp, state); err != nil {
		_ = tmp.Close()

		return errors.Wrapf(errors.ErrCodeSnapshotWriteFailed, err, "failed to write snapshot %s", path)
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrapf(errors.ErrCodeSnapshotWriteFailed, err, "failed to write snapshot %s", path)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(errors.ErrCodeSnapshotWriteFailed, err, "failed to replace snapshot %s", path)
	}

	s.logger.Info("Saved snapshot",
		zap.String("path", path),
		zap.String("run_id", state.RunID),
		zap.Int("instruments", len(state.Dataset.Symbols())),
	)

	return nil
}

// Load reads today's file. A missing file is None.
func (s *FileStore) Load(ctx context.Context) (optional.Option[State], error) {
	if err := ctx.Err(); err != nil {
		return optional.None[State](), errors.Wrap(errors.ErrCodeSnapshotReadFailed, "snapshot load cancelled", err)
	}

	path := s.Path()

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		s.logger.Debug("No snapshot for today", zap.String("path", path))

		return optional.None[State](), nil
	}

	if err != nil {
		return optional.None[State](), errors.Wrapf(errors.ErrCodeSnapshotReadFailed, err, "failed to open snapshot %s", path)
	}
	defer file.Close()

	state, err := decode(file)
	if err != nil {
		return optional.None[State](), err
	}

	s.logger.Info("Loaded snapshot",
		zap.String("path", path),
		zap.String("run_id", state.RunID),
		zap.Time("created_at", state.CreatedAt),
	)

	return optional.Some(state), nil
}

func encode(w io.Writer, state State) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", magic, FormatVersion); err != nil {
		return err
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}

	if err := gob.NewEncoder(zw).Encode(state); err != nil {
		_ = zw.Close()

		return err
	}

	return zw.Close()
}

func decode(r io.Reader) (State, error) {
	reader := bufio.NewReader(r)

	header, err := reader.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return State{}, errors.Wrap(errors.ErrCodeSnapshotCorrupt, "snapshot header is truncated", err)
	}

	if err != nil {
		return State{}, errors.Wrap(errors.ErrCodeSnapshotReadFailed, "failed to read snapshot header", err)
	}

	stored, ok := strings.CutPrefix(strings.TrimSuffix(header, "\n"), magic+" ")
	if !ok {
		return State{}, errors.New(errors.ErrCodeSnapshotCorrupt, "not a snapshot file")
	}

	if err := version.CheckCompatibility(FormatVersion, stored); err != nil {
		return State{}, err
	}

	zr, err := zstd.NewReader(reader)
	if err != nil {
		return State{}, errors.Wrap(errors.ErrCodeSnapshotCorrupt, "invalid snapshot payload", err)
	}
	defer zr.Close()

	var state State
	if err := gob.NewDecoder(zr).Decode(&state); err != nil {
		return State{}, errors.Wrap(errors.ErrCodeSnapshotCorrupt, "failed to decode snapshot", err)
	}

	return state, nil
}

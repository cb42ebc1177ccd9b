package index

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/meridianads/newsmatch/internal/corpus"
)

var (
	// ErrSnapshotIncomplete indicates a Load where one of the two
	// companion files is missing or unreadable.
	ErrSnapshotIncomplete = errors.New("snapshot incomplete")

	// ErrSnapshotCorrupt indicates companion files that disagree with
	// each other or with the index.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)

// Snapshot file layout. The vector file is binary: magic, version,
// dimension, row count, then float32 little-endian row-major data. The
// metadata file is JSON holding the parallel record list. Pairing is
// positional and must never be reordered independently.
const (
	snapshotMagic   = "NMIX"
	snapshotVersion = 1

	vectorsSuffix = ".vectors"
	metaSuffix    = ".meta.json"
)

type snapshotMeta struct {
	Version int             `json:"version"`
	Records []corpus.Record `json:"records"`
}

// Save writes the index to the two companion files <prefix>.vectors and
// <prefix>.meta.json. Writes go through a temp file and rename so an
// interrupted save never clobbers an existing snapshot.
func (ix *Index) Save(prefix string) error {
	if !ix.built {
		return ErrNotBuilt
	}

	if dir := filepath.Dir(prefix); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	if err := writeAtomic(prefix+vectorsSuffix, ix.encodeVectors()); err != nil {
		return fmt.Errorf("writing vector file: %w", err)
	}

	meta, err := json.Marshal(snapshotMeta{Version: snapshotVersion, Records: ix.records})
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := writeAtomic(prefix+metaSuffix, meta); err != nil {
		return fmt.Errorf("writing metadata file: %w", err)
	}

	ix.logger.Info("snapshot saved",
		zap.String("prefix", prefix),
		zap.Int("records", len(ix.records)),
	)
	return nil
}

// Load restores the index from a snapshot pair. Both companion files
// must exist and agree; on any failure the index state is unchanged and
// never partially populated.
func (ix *Index) Load(prefix string) error {
	vecPath := prefix + vectorsSuffix
	metaPath := prefix + metaSuffix

	vecData, err := os.ReadFile(vecPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSnapshotIncomplete, vecPath, err)
	}
	metaData, err := os.ReadFile(metaPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSnapshotIncomplete, metaPath, err)
	}

	vectors, err := ix.decodeVectors(vecData)
	if err != nil {
		return err
	}

	var meta snapshotMeta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return fmt.Errorf("%w: parsing metadata: %v", ErrSnapshotCorrupt, err)
	}
	if meta.Version != snapshotVersion {
		return fmt.Errorf("%w: metadata version %d, want %d", ErrSnapshotCorrupt, meta.Version, snapshotVersion)
	}
	if len(meta.Records) != len(vectors) {
		return fmt.Errorf("%w: %d records for %d vectors", ErrSnapshotCorrupt, len(meta.Records), len(vectors))
	}

	ix.vectors = vectors
	ix.records = meta.Records
	ix.built = true

	observeCorpusSize(ix.records)
	ix.logger.Info("snapshot loaded",
		zap.String("prefix", prefix),
		zap.Int("records", len(ix.records)),
	)
	return nil
}

func (ix *Index) encodeVectors() []byte {
	header := 4 + 4 + 4 + 4
	buf := make([]byte, header+len(ix.vectors)*ix.dim*4)
	copy(buf, snapshotMagic)
	binary.LittleEndian.PutUint32(buf[4:], snapshotVersion)
	binary.LittleEndian.PutUint32(buf[8:], uint32(ix.dim))
	binary.LittleEndian.PutUint32(buf[12:], uint32(len(ix.vectors)))

	off := header
	for _, row := range ix.vectors {
		for _, x := range row {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(x))
			off += 4
		}
	}
	return buf
}

func (ix *Index) decodeVectors(data []byte) ([][]float32, error) {
	if len(data) < 16 || string(data[:4]) != snapshotMagic {
		return nil, fmt.Errorf("%w: bad vector file header", ErrSnapshotCorrupt)
	}
	version := binary.LittleEndian.Uint32(data[4:])
	if version != snapshotVersion {
		return nil, fmt.Errorf("%w: vector file version %d, want %d", ErrSnapshotCorrupt, version, snapshotVersion)
	}
	dim := int(binary.LittleEndian.Uint32(data[8:]))
	count := int(binary.LittleEndian.Uint32(data[12:]))
	if dim != ix.dim {
		return nil, fmt.Errorf("%w: snapshot dimension %d, index dimension %d", ErrDimensionMismatch, dim, ix.dim)
	}
	if len(data) != 16+count*dim*4 {
		return nil, fmt.Errorf("%w: vector file truncated", ErrSnapshotCorrupt)
	}

	vectors := make([][]float32, count)
	off := 16
	for i := range vectors {
		row := make([]float32, dim)
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors[i] = row
	}
	return vectors, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

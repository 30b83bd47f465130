package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"EclipseCast/internal/domain"
	"EclipseCast/internal/ports"
)

// ChainArchive stores every chain entry in one zstd-compressed CBOR file.
// float64 values are encoded at full width, so samples reload bit-for-bit.
type ChainArchive struct {
	path  string
	level zstd.EncoderLevel
	mode  cbor.EncMode
	dec   cbor.DecMode
}

var _ ports.ChainArchive = (*ChainArchive)(nil)

// maxCBORElements lifts the decoder's default 131072-element cap so long
// chains reload. It is the largest limit the cbor package accepts.
const maxCBORElements = 2147483647

// NewChainArchive binds the archive to path. level is a zstd level name
// ("fastest", "default", "better", "best"); unknown names use the default.
func NewChainArchive(path, level string) (*ChainArchive, error) {
	encLevel := zstd.SpeedDefault
	if level != "" {
		if ok, l := zstd.EncoderLevelFromString(level); ok {
			encLevel = l
		}
	}

	mode, err := cbor.EncOptions{Sort: cbor.SortCanonical}.EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor enc mode: %w", err)
	}
	dec, err := cbor.DecOptions{
		MaxArrayElements: maxCBORElements,
		MaxMapPairs:      maxCBORElements,
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("cbor dec mode: %w", err)
	}

	return &ChainArchive{path: path, level: encLevel, mode: mode, dec: dec}, nil
}

// Path returns the archive location.
func (a *ChainArchive) Path() string {
	return a.path
}

// Load decodes the archive; a missing file yields an empty map.
func (a *ChainArchive) Load(_ context.Context) (map[string]domain.ChainEntry, error) {
	compressed, err := os.ReadFile(a.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]domain.ChainEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.path, err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	raw, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", a.path, err)
	}

	entries := map[string]domain.ChainEntry{}
	if err := a.dec.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", a.path, err)
	}
	return entries, nil
}

// Save overwrites the archive with entries via a temp file and rename.
func (a *ChainArchive) Save(_ context.Context, entries map[string]domain.ChainEntry) error {
	if entries == nil {
		entries = map[string]domain.ChainEntry{}
	}

	raw, err := a.mode.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode chains: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(a.level))
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	compressed := encoder.EncodeAll(raw, nil)
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("close zstd encoder: %w", err)
	}

	return writeFileAtomic(a.path, compressed)
}

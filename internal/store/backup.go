// Copyright (c) 2026 Keymaster Team
// Keywallet - local signing key store
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/keywallet/internal/crypto/keywrap"
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// CompressedSuffix marks zstd backups.
const CompressedSuffix = ".zst"

// WriteBackup writes a serialized store to path, zstd-compressed when the
// path ends in .zst.
func WriteBackup(path string, data []byte) error {
	if strings.HasSuffix(path, CompressedSuffix) {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("could not create zstd writer: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		_ = enc.Close()
	}
	return WriteFileAtomic(path, data)
}

// ReadBackup returns the serialized store held in a backup, decompressing
// zstd frames transparently.
func ReadBackup(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PersistenceError{Op: "read", Path: path, Err: err}
	}
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress backup %s: %v", keywrap.ErrCorruptRecord, path, err)
	}
	return out, nil
}

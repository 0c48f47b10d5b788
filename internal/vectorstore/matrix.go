package vectorstore

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// The raw embedding matrix is persisted alongside the index so it can be
// inspected or re-indexed without re-running the embedding model. Layout:
// uint32 count, uint32 dim, then count*dim little-endian float32 values in
// row-major order. Row i is the embedding of corpus entry i.

// SaveMatrix writes the embedding matrix to path via a temp file renamed
// into place.
func SaveMatrix(path string, vectors [][]float32, dim int) error {
	for i, vec := range vectors {
		if len(vec) != dim {
			return fmt.Errorf("vector %d has dimension %d, expected %d", i, len(vec), dim)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create matrix directory: %w", err)
	}

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create matrix file: %w", err)
	}
	w := bufio.NewWriter(file)

	header := []uint32{uint32(len(vectors)), uint32(dim)}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write matrix header: %w", err)
	}
	for _, vec := range vectors {
		if err := binary.Write(w, binary.LittleEndian, vec); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to write matrix row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to flush matrix file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close matrix file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace matrix file: %w", err)
	}
	return nil
}

// LoadMatrix reads a matrix written by SaveMatrix.
func LoadMatrix(path string) ([][]float32, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open matrix file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	r := bufio.NewReader(file)

	var header [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, 0, fmt.Errorf("failed to read matrix header: %w", err)
	}
	count, dim := int(header[0]), int(header[1])
	if dim <= 0 {
		return nil, 0, fmt.Errorf("matrix file has invalid dimension %d", dim)
	}

	vectors := make([][]float32, count)
	for i := range vectors {
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, 0, fmt.Errorf("failed to read matrix row %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, dim, nil
}

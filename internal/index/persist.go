package index

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/campusqa/prashna/internal/models"
)

// Vector cache format: dimension (4), n (4), corpus digest (32), then n
// vectors of dimension*4 bytes each, little-endian float32. The digest is a
// SHA-256 over every item's embed text, so any corpus edit invalidates the
// cache even when the item count is unchanged.

// SaveVectors persists the index's vectors to path. Directory is created if needed.
func (ix *Index) SaveVectors(path string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if path == "" || len(ix.vectors) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create vector cache dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create vector cache: %w", err)
	}
	defer f.Close()

	dim := uint32(len(ix.vectors[0]))
	if err := binary.Write(f, binary.LittleEndian, dim); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(ix.vectors))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	digest := corpusDigest(ix.items)
	if _, err := f.Write(digest[:]); err != nil {
		return fmt.Errorf("write corpus digest: %w", err)
	}
	for _, vec := range ix.vectors {
		if _, err := f.Write(float32SliceToBytes(vec)); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}
	return nil
}

// LoadVectors reads cached vectors from path and installs them alongside
// items. The cache is rejected (with an error) when its vector count,
// corpus digest, or dimension does not match the items and embedder it is
// being loaded for, so stale vectors are never paired with an edited corpus.
// A missing file returns os.ErrNotExist wrapped.
func (ix *Index) LoadVectors(path string, items []models.KnowledgeItem) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open vector cache: %w", err)
	}
	defer f.Close()

	var dim, n uint32
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return fmt.Errorf("read dimensions: %w", err)
	}
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("read count: %w", err)
	}
	if want := ix.embedder.Dimensions(); int(dim) != want {
		return fmt.Errorf("vector cache stale: dimension %d, embedder has %d", dim, want)
	}
	if int(n) != len(items) {
		return fmt.Errorf("vector cache stale: %d vectors for %d items", n, len(items))
	}
	var stored [sha256.Size]byte
	if _, err := io.ReadFull(f, stored[:]); err != nil {
		return fmt.Errorf("read corpus digest: %w", err)
	}
	if digest := corpusDigest(items); !bytes.Equal(stored[:], digest[:]) {
		return fmt.Errorf("vector cache stale: corpus content changed")
	}

	vectors := make([][]float32, 0, n)
	buf := make([]byte, int(dim)*4)
	for i := uint32(0); i < n; i++ {
		if _, err := io.ReadFull(f, buf); err != nil {
			return fmt.Errorf("read vector: %w", err)
		}
		vectors = append(vectors, bytesToFloat32Slice(buf))
	}

	ix.mu.Lock()
	ix.items = items
	ix.vectors = vectors
	ix.mu.Unlock()
	return nil
}

// corpusDigest hashes every item's embed text in corpus order. Texts are
// length-prefixed so shifting characters between adjacent items cannot
// produce the same digest.
func corpusDigest(items []models.KnowledgeItem) [sha256.Size]byte {
	h := sha256.New()
	var lenBuf [4]byte
	for _, item := range items {
		text := item.EmbedText()
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(text)))
		h.Write(lenBuf[:])
		io.WriteString(h, text)
	}
	var out [sha256.Size]byte
	h.Sum(out[:0])
	return out
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}

package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MasterOfBinary/bucketbatch/bucket"
	"github.com/MasterOfBinary/bucketbatch/instance"
)

// defaultMaxLineSize is the longest line JSONLines accepts when MaxLineSize
// is zero.
const defaultMaxLineSize = 1 << 20

// DecodeFunc turns one line of input into an instance.
type DecodeFunc func(line []byte) (bucket.Instance, error)

// JSONLines is a Source reading one instance per line from a file. Blank
// lines are skipped.
type JSONLines struct {
	// Path is the file to read. It is reopened for every pass.
	Path string

	// Decode converts a line. If nil, instance.DecodeJSON is used.
	Decode DecodeFunc

	// MaxLineSize is the longest accepted line in bytes.
	// If zero or negative, defaultMaxLineSize is used.
	MaxLineSize int
}

// Open implements the bucket.Source interface. The returned reader also
// implements io.Closer and closes the file when the pass ends.
func (s *JSONLines) Open(_ context.Context) (bucket.Reader, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}

	decode := s.Decode
	if decode == nil {
		decode = decodeJSON
	}
	maxLine := s.MaxLineSize
	if maxLine <= 0 {
		maxLine = defaultMaxLineSize
	}

	scanner := bufio.NewScanner(f)
	// The scanner's limit is the larger of maxLine and the buffer capacity.
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)

	return &lineReader{file: f, scanner: scanner, decode: decode}, nil
}

func decodeJSON(line []byte) (bucket.Instance, error) {
	return instance.DecodeJSON(line)
}

type lineReader struct {
	file    io.Closer
	scanner *bufio.Scanner
	decode  DecodeFunc
	line    int
}

func (r *lineReader) Next() (bucket.Instance, error) {
	for r.scanner.Scan() {
		r.line++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		inst, err := r.decode(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		return inst, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", r.line+1, err)
	}
	_ = r.Close()
	return nil, io.EOF
}

// Close closes the underlying file. It is safe to call more than once.
func (r *lineReader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

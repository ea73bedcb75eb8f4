// Package input prepares a schedule file for reading: it undoes snappy
// framing, fingerprints the content and decides which reader applies.
package input

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/spaolacci/murmur3"

	"github.com/arkilian/schedread/internal/database"
	"github.com/arkilian/schedread/internal/errors"
)

// Kind is the input variant.
type Kind int

const (
	KindText Kind = iota
	KindDatabase
)

func (k Kind) String() string {
	if k == KindDatabase {
		return "sqlite"
	}
	return "text"
}

// snappyMagic is the stream identifier chunk of the snappy framing format.
const snappyMagic = "\xff\x06\x00\x00sNaPpY"

// Detect chooses the variant from the leading bytes of the content.
func Detect(header []byte) Kind {
	if bytes.HasPrefix(header, []byte(database.Magic)) {
		return KindDatabase
	}
	return KindText
}

// File is a prepared input. Close removes any temporary file created for it.
type File struct {
	// Path is the file to read, possibly a decompressed temporary copy.
	Path string

	Kind Kind

	// Compressed is set when the source was snappy-framed.
	Compressed bool

	// Fingerprint is the 64-bit murmur3 hash of the uncompressed content.
	Fingerprint uint64

	// Size is the uncompressed size in bytes.
	Size int64

	temp bool
}

// Open returns a reader over the prepared content.
func (f *File) Open() (*os.File, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, errors.NewSourceError(errors.CodeAccessFailed, "failed to open input", err)
	}
	return file, nil
}

// Close removes the temporary decompressed copy, if any.
func (f *File) Close() error {
	if !f.temp {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("input: failed to remove temp file: %w", err)
	}
	return nil
}

// Prepare inspects path. Snappy-framed content is decompressed into a
// temporary file under tempDir; the caller must Close the returned File.
func Prepare(path, tempDir string) (*File, error) {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewSourceError(errors.CodeObjectNotFound, "input not found: "+path, err)
		}
		return nil, errors.NewSourceError(errors.CodeAccessFailed, "failed to open input", err)
	}
	defer src.Close()

	br := bufio.NewReader(src)
	head, err := br.Peek(len(snappyMagic))
	if err != nil && err != io.EOF {
		return nil, errors.NewSourceError(errors.CodeAccessFailed, "failed to read input header", err)
	}
	if len(head) == 0 {
		return nil, errors.New(errors.ErrCategoryFormat, errors.CodeUnknownInput, "input is empty")
	}

	if string(head) == snappyMagic {
		return decompress(br, tempDir)
	}

	f := &File{Path: path}
	if err := f.fingerprint(br); err != nil {
		return nil, err
	}
	return f, nil
}

func decompress(r io.Reader, tempDir string) (*File, error) {
	tmp, err := os.CreateTemp(tempDir, "schedread-*.dat")
	if err != nil {
		return nil, errors.NewSourceError(errors.CodeAccessFailed, "failed to create temp file", err)
	}
	f := &File{Path: tmp.Name(), Compressed: true, temp: true}

	h := murmur3.New64()
	var header bytes.Buffer
	w := io.MultiWriter(tmp, h, &limitedBuffer{buf: &header, max: len(database.Magic)})
	n, err := io.Copy(w, snappy.NewReader(r))
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		f.Close()
		return nil, errors.Wrap(errors.ErrCategoryFormat, errors.CodeUnknownInput, "failed to decompress input", err)
	}

	f.Size = n
	f.Fingerprint = h.Sum64()
	f.Kind = Detect(header.Bytes())
	return f, nil
}

// fingerprint hashes the whole stream and detects the kind from its head.
func (f *File) fingerprint(br *bufio.Reader) error {
	head, _ := br.Peek(len(database.Magic))
	f.Kind = Detect(head)

	h := murmur3.New64()
	n, err := io.Copy(h, br)
	if err != nil {
		return errors.NewSourceError(errors.CodeAccessFailed, "failed to read input", err)
	}
	f.Size = n
	f.Fingerprint = h.Sum64()
	return nil
}

// limitedBuffer keeps the first max bytes written to it.
type limitedBuffer struct {
	buf *bytes.Buffer
	max int
}

func (l *limitedBuffer) Write(p []byte) (int, error) {
	if room := l.max - l.buf.Len(); room > 0 {
		if len(p) < room {
			room = len(p)
		}
		l.buf.Write(p[:room])
	}
	return len(p), nil
}

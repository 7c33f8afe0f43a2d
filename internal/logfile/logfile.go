package logfile

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxSize is the largest accepted upload, in bytes.
const MaxSize = 2 * 1024 * 1024

var (
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
)

var allowedSuffixes = []string{".log", ".txt"}

// ValidateName accepts filenames ending in .log or .txt. The match is case
// sensitive.
func ValidateName(filename string) error {
	for _, s := range allowedSuffixes {
		if strings.HasSuffix(filename, s) {
			return nil
		}
	}
	return ErrInvalidFileType
}

// Read reads r fully, stopping one byte past MaxSize. It returns
// ErrFileTooLarge when the content does not fit.
func Read(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// Decode converts raw bytes to text and never fails. A UTF-8 BOM is
// stripped, UTF-16 with a BOM is transcoded, and anything that is still not
// valid UTF-8 is dropped.
func Decode(raw []byte) string {
	out, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), raw)
	if err != nil {
		out = raw
	}
	return strings.ToValidUTF8(string(out), "")
}

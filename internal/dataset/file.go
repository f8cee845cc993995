package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pierrec/lz4/v4"
)

// ErrTooLarge is returned when a dataset exceeds LoadOptions.MaxSize.
var ErrTooLarge = errors.New("dataset exceeds size limit")

// LoadOptions bounds and checks dataset loading.
type LoadOptions struct {
	// MaxSize caps the decompressed document size in bytes. Zero means unlimited.
	MaxSize uint64
	// ValidateSchema checks the document against the embedded JSON schema
	// before decoding it into a Set.
	ValidateSchema bool
}

// Load reads the dataset at path. The codec follows the extension; a
// trailing ".lz4" selects lz4 frame decompression.
func Load(path string, opts LoadOptions) (*Set, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	var src io.Reader = file
	if IsCompressed(path) {
		src = lz4.NewReader(file)
	}

	data, err := readLimited(src, opts.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}

	return Decode(codec, data, opts.ValidateSchema)
}

// Decode parses an in-memory document with codec, optionally validating it
// against the schema first.
func Decode(codec Codec, data []byte, validateSchema bool) (*Set, error) {
	if validateSchema {
		var doc any

		err := codec.Decode(bytes.NewReader(data), &doc)
		if err != nil {
			return nil, fmt.Errorf("decode dataset: %w", err)
		}

		err = Validate(doc)
		if err != nil {
			return nil, err
		}
	}

	var set Set

	err := codec.Decode(bytes.NewReader(data), &set)
	if err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	return &set, nil
}

func readLimited(r io.Reader, limit uint64) ([]byte, error) {
	if limit == 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	if uint64(len(data)) > limit {
		return nil, fmt.Errorf("%w of %s", ErrTooLarge, humanize.Bytes(limit))
	}

	return data, nil
}

// Save writes set to path, creating or truncating it. The codec and
// compression follow the extension, as in Load.
func Save(path string, set *Set) (err error) {
	codec, err := CodecFor(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}

	defer func() {
		err = errors.Join(err, file.Close())
	}()

	if !IsCompressed(path) {
		return encodeTo(codec, file, set)
	}

	zw := lz4.NewWriter(file)

	err = encodeTo(codec, zw, set)
	if err != nil {
		return err
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("close lz4 frame: %w", err)
	}

	return nil
}

func encodeTo(codec Codec, w io.Writer, set *Set) error {
	err := codec.Encode(w, set)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	return nil
}

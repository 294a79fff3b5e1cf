// Package jsonfile stores domain state as JSON arrays in local files. Every
// save rewrites the whole file through a temp file and a rename.
package jsonfile

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

const indent = 2

// readArray calls fn for every element of the JSON array stored at path.
// A missing file is treated as an empty array.
func readArray(path string, fn func(d *jx.Decoder) error) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	d := jx.DecodeBytes(data)
	if err := d.Arr(fn); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	if d.Next() != jx.Invalid {
		return errors.Errorf("decode %s: unexpected data after array", path)
	}
	return nil
}

// writeArray encodes n elements as a JSON array and replaces the file at
// path with the result.
func writeArray(path string, n int, fn func(e *jx.Encoder, i int)) error {
	var e jx.Encoder
	e.SetIdent(indent)
	e.ArrStart()
	for i := range n {
		fn(&e, i)
	}
	e.ArrEnd()

	data := append(e.Bytes(), '\n')
	return writeFile(path, data)
}

// writeFile writes data to a uniquely named sibling of path and renames it
// over path, so readers never observe a truncated file.
func writeFile(path string, data []byte) (err error) {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "write %s", tmp)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "sync %s", tmp)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp)
	}
	if err = os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "replace %s", path)
	}
	return nil
}

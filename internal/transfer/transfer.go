// Package transfer reads and writes the diary's file formats: the category
// list, the task workbook, the stats workbook and the plain-text listings.
package transfer

import (
	"errors"
	"io"
	"os"

	"diary/internal/errs"
)

// ToFile creates path and hands it to write. Any failure is reported as errs.ErrIO.
func ToFile(path string, write func(io.Writer) error) (err error) {
	const op = "transfer.ToFile"
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(op, errs.ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errs.Wrap(op, errs.ErrIO, cerr)
		}
	}()
	if err := write(f); err != nil {
		if errors.Is(err, errs.ErrIO) {
			return err
		}
		return errs.Wrap(op, errs.ErrIO, err)
	}
	return nil
}

// FromFile opens path and hands it to read. Open failures are errs.ErrIO;
// errors returned by read pass through unchanged.
func FromFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errs.Wrap("transfer.FromFile", errs.ErrIO, err)
	}
	defer f.Close()
	return read(f)
}

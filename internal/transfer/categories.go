package transfer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"diary/internal/errs"
	"diary/internal/models"
)

// WriteCategories writes one category name per line, leaving out the sentinel.
func WriteCategories(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	for _, n := range names {
		if n == models.AllCategories {
			continue
		}
		if _, err := fmt.Fprintln(bw, n); err != nil {
			return errs.Wrap("WriteCategories", errs.ErrIO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return errs.Wrap("WriteCategories", errs.ErrIO, err)
	}
	return nil
}

// ReadCategories returns the trimmed non-empty lines of r, skipping the sentinel.
func ReadCategories(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name == "" || name == models.AllCategories {
			continue
		}
		names = append(names, name)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap("ReadCategories", errs.ErrIO, err)
	}
	return names, nil
}

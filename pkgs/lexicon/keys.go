package lexicon

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gohanzi/ime/pkgs/errcode"
)

// WriteKeys writes keys, one per line, in the order given — callers
// pass SortedKeys() so Load's rebuild sees the same order Write used.
func WriteKeys(w io.Writer, keys []string) error {
	bw := bufio.NewWriter(w)
	for _, k := range keys {
		if _, err := fmt.Fprintln(bw, k); err != nil {
			return errcode.Wrap(err, "write lexicon key list")
		}
	}
	return bw.Flush()
}

// ReadKeys reads back a key list previously written by WriteKeys.
func ReadKeys(r io.Reader) ([]string, error) {
	var keys []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		keys = append(keys, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errcode.Wrap(err, "read lexicon key list")
	}
	return keys, nil
}

// convert-table builds the lexicon artifacts from source text tables:
// one "syllable1 syllable2 ... <tab> text <tab> token <tab> freq" row
// per line, merged into phrase groups keyed by the joined syllable
// sequence.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gohanzi/ime/pkgs/errcode"
	"github.com/gohanzi/ime/pkgs/lexicon"
	"github.com/gohanzi/ime/pkgs/logging"
)

var (
	inputs  []string
	outFST  string
	outRedb string
)

func main() {
	log := logging.New()
	defer log.Sync() //nolint:errcheck

	if err := rootCmd.Execute(); err != nil {
		log.Errorw("convert-table failed", "error", err)
		if errcode.Is(err, errcode.MalformedInput) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "convert-table --inputs <file...> --out_fst <path> --out_redb <path>",
	Short: "Build lexicon artifacts from source phrase tables",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringSliceVar(&inputs, "inputs", nil, "source phrase table files")
	rootCmd.Flags().StringVar(&outFST, "out_fst", "", "output path for the sorted key list")
	rootCmd.Flags().StringVar(&outRedb, "out_redb", "", "output path for the phrase value table")
	_ = rootCmd.MarkFlagRequired("inputs")
	_ = rootCmd.MarkFlagRequired("out_fst")
	_ = rootCmd.MarkFlagRequired("out_redb")
}

// row is one parsed source-table line: syllables joined by spaces, a
// display text, a token id, and a frequency.
type row struct {
	key   string
	entry lexicon.PhraseEntry
}

func run(cmd *cobra.Command, args []string) error {
	groups := make(map[string]lexicon.Group)

	for _, path := range inputs {
		f, err := os.Open(path)
		if err != nil {
			return errcode.Wrapf(errcode.StorageIO, "open %s: %v", path, err)
		}
		if err := parseTable(f, path, groups); err != nil {
			f.Close()
			return err
		}
		f.Close()
	}

	lex, err := lexicon.Build(groups)
	if err != nil {
		return err
	}

	redbFile, err := os.Create(outRedb)
	if err != nil {
		return errcode.Wrapf(errcode.StorageIO, "create %s: %v", outRedb, err)
	}
	defer redbFile.Close()
	if err := lex.Write(redbFile); err != nil {
		return err
	}

	fstFile, err := os.Create(outFST)
	if err != nil {
		return errcode.Wrapf(errcode.StorageIO, "create %s: %v", outFST, err)
	}
	defer fstFile.Close()
	if err := lexicon.WriteKeys(fstFile, lex.SortedKeys()); err != nil {
		return err
	}

	fmt.Printf("wrote %d keys to %s, values to %s\n", len(groups), outFST, outRedb)
	return nil
}

// parseTable reads tab-separated rows "syllables\ttext\ttoken\tfreq"
// from r, merging into groups: duplicate keys merge their groups,
// duplicate (key, text) pairs sum frequencies.
func parseTable(r *os.File, path string, groups map[string]lexicon.Group) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return errcode.Wrapf(errcode.MalformedInput,
				"%s:%d: expected 4 tab-separated fields, got %d", path, lineNo, len(fields))
		}
		key := lexicon.JoinKey(strings.Fields(fields[0]))
		text := fields[1]
		token, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return errcode.Wrapf(errcode.MalformedInput, "%s:%d: bad token id %q: %v", path, lineNo, fields[2], err)
		}
		freq, err := strconv.ParseUint(fields[3], 10, 32)
		if err != nil {
			return errcode.Wrapf(errcode.MalformedInput, "%s:%d: bad frequency %q: %v", path, lineNo, fields[3], err)
		}
		if key == "" || text == "" {
			return errcode.Wrapf(errcode.MalformedInput, "%s:%d: empty key or text", path, lineNo)
		}

		merged := false
		group := groups[key]
		for i, e := range group {
			if e.Text == text {
				group[i].Freq += uint32(freq)
				merged = true
				break
			}
		}
		if !merged {
			group = append(group, lexicon.PhraseEntry{Text: text, Token: uint32(token), Freq: uint32(freq)})
		}
		groups[key] = group
	}
	if err := sc.Err(); err != nil {
		return errcode.Wrapf(errcode.StorageIO, "read %s: %v", path, err)
	}
	return nil
}

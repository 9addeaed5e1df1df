// build-bigram-db builds the bigram counts artifact from tokenized
// corpus files: each input line is a whitespace-separated sequence of
// uint32 token ids (one sentence per line), and every adjacent pair in
// a line contributes one observation to the (prev, next) count.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gohanzi/ime/pkgs/errcode"
	"github.com/gohanzi/ime/pkgs/logging"
	"github.com/gohanzi/ime/pkgs/ngram"
)

var (
	files []string
	out   string
)

func main() {
	log := logging.New()
	defer log.Sync() //nolint:errcheck

	if err := rootCmd.Execute(); err != nil {
		log.Errorw("build-bigram-db failed", "error", err)
		if errcode.Is(err, errcode.MalformedInput) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "build-bigram-db --files <file...> --out <path>",
	Short: "Build the bigram counts artifact from tokenized corpus files",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringSliceVar(&files, "files", nil, "tokenized corpus files, one sentence of token ids per line")
	rootCmd.Flags().StringVar(&out, "out", "", "output path for the bigram artifact")
	_ = rootCmd.MarkFlagRequired("files")
	_ = rootCmd.MarkFlagRequired("out")
}

func run(cmd *cobra.Command, args []string) error {
	b := ngram.NewBiGram()

	read := 0
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "warning: skipping missing input %s\n", path)
				continue
			}
			return errcode.Wrapf(errcode.StorageIO, "open %s: %v", path, err)
		}
		if err := countPairs(f, path, b); err != nil {
			f.Close()
			return err
		}
		f.Close()
		read++
	}
	if read == 0 {
		return errcode.Wrapf(errcode.StorageIO, "none of the %d input files could be read", len(files))
	}

	normalizeTotals(b)

	outFile, err := os.Create(out)
	if err != nil {
		return errcode.Wrapf(errcode.StorageIO, "create %s: %v", out, err)
	}
	defer outFile.Close()
	if err := ngram.WriteBiGram(outFile, b); err != nil {
		return err
	}

	fmt.Printf("wrote bigram counts from %d files to %s\n", read, out)
	return nil
}

// countPairs accumulates adjacent-pair counts from one corpus file.
func countPairs(f *os.File, path string, b *ngram.BiGram) error {
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		tokens := make([]uint32, len(fields))
		for i, fld := range fields {
			v, err := strconv.ParseUint(fld, 10, 32)
			if err != nil {
				return errcode.Wrapf(errcode.MalformedInput, "%s:%d: bad token id %q: %v", path, lineNo, fld, err)
			}
			tokens[i] = uint32(v)
		}
		for i := 0; i+1 < len(tokens); i++ {
			g := b.GetOrCreate(tokens[i])
			next := tokens[i+1]
			if c, ok := g.GetFreq(next); ok {
				g.SetFreq(next, c+1)
			} else {
				g.InsertFreq(next, 1)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return errcode.Wrapf(errcode.StorageIO, "read %s: %v", path, err)
	}
	return nil
}

// normalizeTotals sets each SingleGram's total to the sum of its entry
// counts. The store never maintains totals itself, so the build tool
// fixes them once the full corpus is counted.
func normalizeTotals(b *ngram.BiGram) {
	for _, prev := range b.PrevTokens() {
		g, _ := b.Get(prev)
		var total uint64
		for _, r := range g.RetrieveAll() {
			total += uint64(r.Freq)
		}
		g.SetTotalFreq(total)
	}
}

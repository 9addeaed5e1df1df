// export-userdict dumps the user dictionary as JSON or CSV, to stdout
// or to a file.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gohanzi/ime/pkgs/errcode"
	"github.com/gohanzi/ime/pkgs/logging"
	"github.com/gohanzi/ime/pkgs/userdict"
)

var (
	dbPath     string
	format     string
	outputPath string
	sortByFreq bool
)

func main() {
	log := logging.New()
	defer log.Sync() //nolint:errcheck

	if err := rootCmd.Execute(); err != nil {
		log.Errorw("export-userdict failed", "error", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "export-userdict --db <path> --format {json|csv} [--output <path>] [--sort_by_freq]",
	Short: "Export the user dictionary as JSON or CSV",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&dbPath, "db", "", "user dictionary database path")
	rootCmd.Flags().StringVar(&format, "format", "json", "output format: json or csv")
	rootCmd.Flags().StringVar(&outputPath, "output", "", "output file (default stdout)")
	rootCmd.Flags().BoolVar(&sortByFreq, "sort_by_freq", false, "sort by descending frequency instead of by phrase")
	_ = rootCmd.MarkFlagRequired("db")
}

func run(cmd *cobra.Command, args []string) error {
	if format != "json" && format != "csv" {
		return errcode.Wrapf(errcode.ConfigError, "unknown format %q, expected json or csv", format)
	}

	ud, err := userdict.Open(dbPath, logging.Nop())
	if err != nil {
		return err
	}
	defer ud.Close()

	entries, err := ud.IterAll()
	if err != nil {
		return err
	}
	if sortByFreq {
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].Freq != entries[j].Freq {
				return entries[i].Freq > entries[j].Freq
			}
			return entries[i].Phrase < entries[j].Phrase
		})
	}

	var w io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return errcode.Wrapf(errcode.StorageIO, "create %s: %v", outputPath, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return writeJSON(w, entries)
	default:
		return writeCSV(w, entries)
	}
}

func writeJSON(w io.Writer, entries []userdict.Entry) error {
	type record struct {
		Phrase    string `json:"phrase"`
		Frequency uint64 `json:"frequency"`
	}
	records := make([]record, len(entries))
	for i, e := range entries {
		records[i] = record{Phrase: e.Phrase, Frequency: e.Freq}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return errcode.Wrapf(errcode.StorageIO, "encode json: %v", err)
	}
	return nil
}

// writeCSV writes "phrase,frequency" rows with the phrase double-quoted
// and embedded quotes escaped as "".
func writeCSV(w io.Writer, entries []userdict.Entry) error {
	if _, err := fmt.Fprintln(w, "phrase,frequency"); err != nil {
		return errcode.Wrapf(errcode.StorageIO, "write csv header: %v", err)
	}
	for _, e := range entries {
		quoted := strings.ReplaceAll(e.Phrase, `"`, `""`)
		if _, err := fmt.Fprintf(w, "\"%s\",%d\n", quoted, e.Freq); err != nil {
			return errcode.Wrapf(errcode.StorageIO, "write csv row: %v", err)
		}
	}
	return nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/thep200/github-trending/internal/cleaner"
	"github.com/thep200/github-trending/internal/exporter"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize a raw JSON dump of repositories offline.",
	Long: `clean reads a JSON array (or a single object) of raw repository records,
normalizes each one and writes the canonical records as JSON or CSV.`,
	Example: `  github-trending clean --in raw.json --out clean.csv --format csv
  cat raw.json | github-trending clean --in - --mine-assets`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().String("in", "", "Raw JSON input file, - for stdin")
	cleanCmd.Flags().String("out", "-", "Output file, - for stdout")
	cleanCmd.Flags().String("format", formatJSON, "Output format: json or csv")
	cleanCmd.Flags().Bool("mine-assets", false, "Extract links and images from descriptions")
	_ = cleanCmd.MarkFlagRequired("in")
}

func runClean(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	inPath, _ := flags.GetString("in")
	outPath, _ := flags.GetString("out")
	format, _ := flags.GetString("format")
	mine, _ := flags.GetBool("mine-assets")

	in := cmd.InOrStdin()
	if inPath != "-" {
		f, err := os.Open(inPath)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := cmd.OutOrStdout()
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	return cleanRecords(in, out, format, mine)
}

func cleanRecords(in io.Reader, out io.Writer, format string, mine bool) error {
	if format != formatJSON && format != formatCSV {
		return fmt.Errorf("unsupported format %q", format)
	}

	raws, err := cleaner.DecodeRawRecords(in)
	if err != nil {
		return err
	}

	var opts []cleaner.Option
	if mine {
		opts = append(opts, cleaner.WithAssetMining())
	}
	recs := cleaner.New(opts...).CleanAll(raws)

	if format == formatCSV {
		return (&exporter.CSVExporter{WithAssets: mine}).Write(out, recs)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-text-mcp/internal/capture"
)

var (
	processFile      string
	processNoSmart   bool
	processRegionSep string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Clean OCR text read from a file or stdin",
	Long: `Clean OCR text read from a file or stdin and print the result.

By default the whole input is one region, so words hyphenated across line
breaks are rejoined. With --region-separator the input is split into regions
at each occurrence of the separator; every region is cleaned on its own
before the regions are joined and formatted.

Examples:
  ocr-text-mcp process --file page.txt
  tesseract page.png - -l deu | ocr-text-mcp process
  ocr-text-mcp process --region-separator "---" --no-smart-paragraphs < regions.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if processFile != "" {
			f, err := os.Open(processFile)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		raw, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		cfg := cfgManager.Get()
		p, err := cfg.Pipeline()
		if err != nil {
			return err
		}

		opts := cfg.Processing
		if processNoSmart {
			opts.SmartParagraphDetection = false
		}

		result := capture.ProcessRegionTexts(p, splitRegions(string(raw), processRegionSep), opts)
		logger.Debug("processed input", "regions", len(result.Regions))
		fmt.Fprintln(cmd.OutOrStdout(), result.Text)
		return nil
	},
}

func init() {
	processCmd.Flags().StringVarP(&processFile, "file", "f", "", "read input from file instead of stdin")
	processCmd.Flags().BoolVar(&processNoSmart, "no-smart-paragraphs", false, "skip sentence boundary insertion")
	processCmd.Flags().StringVar(&processRegionSep, "region-separator", "", "string that separates regions in the input (default: one region)")
}

// splitRegions cuts the input into region texts. Blank regions are dropped.
func splitRegions(input, sep string) []string {
	if sep == "" {
		return []string{input}
	}

	var regions []string
	for _, part := range strings.Split(input, sep) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		regions = append(regions, part)
	}
	return regions
}

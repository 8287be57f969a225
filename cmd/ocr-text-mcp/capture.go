package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-text-mcp/internal/capture"
	"github.com/ironsheep/ocr-text-mcp/internal/imaging"
	"github.com/ironsheep/ocr-text-mcp/internal/ocr"
)

var (
	captureRegions  []string
	captureLanguage string
	captureOutput   string
)

var captureCmd = &cobra.Command{
	Use:   "capture IMAGE",
	Short: "Recognize regions of an image and print the cleaned text",
	Long: `Recognize regions of an image with Tesseract and print the cleaned text.

Each --region is "sequence:x1,y1,x2,y2" in pixels, (x1,y1) inclusive and
(x2,y2) exclusive. Regions are read in ascending sequence order regardless of
the order they are given in.

Examples:
  ocr-text-mcp capture page.png --region 1:40,120,620,900 --region 2:640,120,1220,900
  ocr-text-mcp capture page.png --region 1:0,0,800,300 --language deu -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(captureRegions) == 0 {
			return fmt.Errorf("at least one --region is required")
		}
		if captureOutput != "text" && captureOutput != "json" {
			return fmt.Errorf("unknown output format %q (use text or json)", captureOutput)
		}

		regions := make([]capture.Region, 0, len(captureRegions))
		for _, arg := range captureRegions {
			r, err := parseRegion(arg)
			if err != nil {
				return err
			}
			regions = append(regions, r)
		}

		img, err := imaging.NewImageCache().Load(args[0])
		if err != nil {
			return err
		}

		cfg := cfgManager.Get()
		p, err := cfg.Pipeline()
		if err != nil {
			return err
		}

		language := cfg.OCR.Language
		if captureLanguage != "" {
			language = captureLanguage
		}
		rec := ocr.NewTesseract(ocr.Config{
			Language:       language,
			TessdataPrefix: cfg.OCR.TessdataPrefix,
		})

		c := capture.New(rec, p,
			capture.WithLogger(logger),
			capture.WithMinConfidence(cfg.OCR.MinConfidence),
		)
		result, err := c.Run(cmd.Context(), img, regions, cfg.Processing)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if captureOutput == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		fmt.Fprintln(out, result.Text)
		return nil
	},
}

func init() {
	captureCmd.Flags().StringArrayVar(&captureRegions, "region", nil, "region as sequence:x1,y1,x2,y2 (repeatable)")
	captureCmd.Flags().StringVar(&captureLanguage, "language", "", "Tesseract language (default from config)")
	captureCmd.Flags().StringVarP(&captureOutput, "output", "o", "text", "output format: text or json")
}

// parseRegion parses "sequence:x1,y1,x2,y2".
func parseRegion(s string) (capture.Region, error) {
	seqPart, coordPart, ok := strings.Cut(s, ":")
	if !ok {
		return capture.Region{}, fmt.Errorf("region %q: expected sequence:x1,y1,x2,y2", s)
	}

	seq, err := strconv.Atoi(strings.TrimSpace(seqPart))
	if err != nil {
		return capture.Region{}, fmt.Errorf("region %q: bad sequence: %w", s, err)
	}

	fields := strings.Split(coordPart, ",")
	if len(fields) != 4 {
		return capture.Region{}, fmt.Errorf("region %q: expected 4 coordinates, got %d", s, len(fields))
	}
	var coords [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return capture.Region{}, fmt.Errorf("region %q: bad coordinate %q: %w", s, f, err)
		}
		coords[i] = n
	}

	return capture.Region{
		Sequence: seq,
		X1:       coords[0],
		Y1:       coords[1],
		X2:       coords[2],
		Y2:       coords[3],
	}, nil
}

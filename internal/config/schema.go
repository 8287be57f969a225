package config

import "github.com/ironsheep/ocr-text-mcp/internal/textproc"

// Config holds ocr-text configuration.
// Stored at: ./ocr-text.yaml or ~/.ocr-text/ocr-text.yaml
type Config struct {
	LogLevel   string                     `mapstructure:"log_level" yaml:"log_level"` // debug, info, warn, error
	OCR        OCRCfg                     `mapstructure:"ocr" yaml:"ocr"`
	Processing textproc.ProcessingOptions `mapstructure:"processing" yaml:"processing"`
	Rules      RulesCfg                   `mapstructure:"rules" yaml:"rules"`
}

// OCRCfg configures the recognition engine.
type OCRCfg struct {
	Language       string  `mapstructure:"language" yaml:"language"`               // Tesseract language code
	TessdataPrefix string  `mapstructure:"tessdata_prefix" yaml:"tessdata_prefix"` // empty uses Tesseract's default
	MinConfidence  float64 `mapstructure:"min_confidence" yaml:"min_confidence"`   // regions below are flagged (0-1)
}

// RulesCfg extends the built-in rule tables. Entries are appended after the
// built-in ones.
type RulesCfg struct {
	Corrections   []CorrectionCfg `mapstructure:"corrections" yaml:"corrections"`
	SentenceVerbs []string        `mapstructure:"sentence_verbs" yaml:"sentence_verbs"`
}

// CorrectionCfg is one configured correction rule.
type CorrectionCfg struct {
	Pattern     string `mapstructure:"pattern" yaml:"pattern"`
	Replacement string `mapstructure:"replacement" yaml:"replacement"`
	// Literal matches Pattern as plain text instead of a regular expression.
	Literal bool `mapstructure:"literal" yaml:"literal,omitempty"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		OCR: OCRCfg{
			Language:      "deu",
			MinConfidence: 0.6,
		},
		Processing: textproc.DefaultOptions(),
		Rules: RulesCfg{
			Corrections:   []CorrectionCfg{},
			SentenceVerbs: []string{},
		},
	}
}

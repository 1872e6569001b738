package cli

import (
	"fmt"

	"codeberg.org/snonux/handytools/internal/image"
	"codeberg.org/snonux/handytools/internal/speech"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	LogLevel  string
	OutputDir string
	Sink      string
	Overwrite bool
	Archive   bool

	// NATS and S3 sink flags. Credentials come from config or environment.
	NATSURL     string
	NATSBucket  string
	S3Endpoint  string
	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Secure    bool

	// Image flags
	Width        int
	Height       int
	KeepAspect   bool
	Format       FormatValue
	Quality      int
	Threshold    int
	PreviewWidth int
	BatchFile    string

	// Speech flags
	Engine      string
	Voice       string
	Lang        string
	Rate        float64
	Pitch       float64
	Volume      float64
	TextFile    string
	Interactive bool

	// OpenAI flags
	OpenAIModel       string
	OpenAIInstruction string
	ListModels        bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:     "info",
		Sink:         "file",
		NATSURL:      "nats://127.0.0.1:4222",
		NATSBucket:   "handytools",
		S3Region:     "us-east-1",
		S3Secure:     true,
		KeepAspect:   true,
		Format:       FormatValue{Format: image.FormatPNG},
		Threshold:    image.DefaultThreshold,
		PreviewWidth: image.DesktopPreviewWidth,
		Engine:       "espeak",
		Rate:         speech.DefaultRate,
		Pitch:        speech.DefaultPitch,
		Volume:       speech.DefaultVolume,
		Interactive:  true,
		OpenAIModel:  speech.DefaultOpenAIConfig().Model,
	}
}

// FormatValue is a pflag.Value accepting the image output formats
type FormatValue struct {
	image.Format
}

// Set parses s into an encodable format
func (f *FormatValue) Set(s string) error {
	format, err := image.ParseFormat(s)
	if err != nil {
		return err
	}
	if !format.Encodable() {
		return fmt.Errorf("%w: %s can only be read", image.ErrUnsupportedFormat, format)
	}
	f.Format = format
	return nil
}

// Type returns the type name shown in help output
func (f *FormatValue) Type() string {
	return "format"
}

// ValidSinks lists the accepted --sink values
var ValidSinks = []string{"file", "nats", "s3"}

// Validate checks flag combinations that cobra cannot check on its own
func (f *Flags) Validate() error {
	valid := false
	for _, s := range ValidSinks {
		if f.Sink == s {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid sink %q, must be one of %v", f.Sink, ValidSinks)
	}
	if f.Engine != "espeak" && f.Engine != "openai" {
		return fmt.Errorf("invalid speech engine %q, must be espeak or openai", f.Engine)
	}
	if f.Quality < 0 || f.Quality > 100 {
		return fmt.Errorf("quality must be between 0 and 100, got %d", f.Quality)
	}
	return nil
}

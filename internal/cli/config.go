package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configKeys maps config file keys to the flags that override them
var configKeys = map[string]string{
	"log.level":                 "log-level",
	"output.directory":          "output",
	"output.sink":               "sink",
	"output.overwrite":          "overwrite",
	"nats.url":                  "nats-url",
	"nats.bucket":               "nats-bucket",
	"s3.endpoint":               "s3-endpoint",
	"s3.bucket":                 "s3-bucket",
	"s3.region":                 "s3-region",
	"s3.secure":                 "s3-secure",
	"image.format":              "format",
	"image.quality":             "quality",
	"image.threshold":           "threshold",
	"image.preview_width":       "preview-width",
	"speech.engine":             "engine",
	"speech.voice":              "voice",
	"speech.lang":               "lang",
	"speech.rate":               "rate",
	"speech.pitch":              "pitch",
	"speech.volume":             "volume",
	"speech.openai_model":       "openai-model",
	"speech.openai_instruction": "openai-instruction",
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Warn("could not determine home directory", "error", err)
			return
		}

		// Search config in home directory with name ".handytools" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".handytools")
	}

	// HANDYTOOLS_OUTPUT_SINK overrides output.sink and so on
	viper.SetEnvPrefix("HANDYTOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// ApplyConfig binds the flags of the executing command to their config
// keys and copies configured values into flags the user did not set.
// Explicit flags win over the environment, which wins over the config file.
func ApplyConfig(cmd *cobra.Command, flags *Flags) error {
	for key, name := range configKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
		if flag.Changed || !viper.IsSet(key) {
			continue
		}
		if err := flag.Value.Set(viper.GetString(key)); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}

	// Secrets are never taken from the command line
	flags.S3AccessKey = viper.GetString("s3.access_key")
	flags.S3SecretKey = viper.GetString("s3.secret_key")
	return nil
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("speech.openai_key")
}

// SetupLogging sets the level of the default logger
func SetupLogging(level string) error {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	log.SetReportTimestamp(lvl == log.DebugLevel)
	return nil
}

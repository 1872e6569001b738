package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/handytools/internal/image"
)

type call struct {
	action Action
	args   []string
}

func execute(t *testing.T, args ...string) (*Flags, []call, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	var calls []call
	flags := NewFlags()
	root := CreateRootCommand(flags, func(cmd *cobra.Command, action Action, args []string) error {
		if err := ApplyConfig(cmd, flags); err != nil {
			return err
		}
		calls = append(calls, call{action: action, args: args})
		return nil
	})
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return flags, calls, root.Execute()
}

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags, nil)

	if cmd.Use != "handytools" {
		t.Errorf("Expected Use to be 'handytools', got %s", cmd.Use)
	}

	persistent := []string{"config", "log-level", "output", "sink", "overwrite", "nats-url", "nats-bucket", "s3-endpoint", "s3-bucket", "s3-region", "s3-secure"}
	for _, name := range persistent {
		t.Run("flag_"+name, func(t *testing.T) {
			assert.NotNil(t, cmd.PersistentFlags().Lookup(name))
		})
	}
	assert.NotNil(t, cmd.Flags().Lookup("archive"))

	subcommands := map[string][]string{
		"image":  {"width", "height", "keep-aspect", "format", "quality", "threshold", "preview-width", "batch"},
		"speak":  {"engine", "voice", "lang", "rate", "pitch", "volume", "file", "interactive", "openai-model", "openai-instruction"},
		"voices": {"engine", "lang", "list-models"},
	}
	for name, flagNames := range subcommands {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		require.Equal(t, name, sub.Name())

		for _, fn := range flagNames {
			var f *pflag.Flag
			if name == "image" {
				f = sub.PersistentFlags().Lookup(fn)
			} else {
				f = sub.Flags().Lookup(fn)
			}
			assert.NotNil(t, f, "%s --%s", name, fn)
		}
	}
}

func TestSetupFlagsDefaults(t *testing.T) {
	cmd := &cobra.Command{}
	setupFlags(cmd, NewFlags())

	outputFlag := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, outputFlag)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".local", "state", "handytools", "downloads"), outputFlag.DefValue)
	assert.Equal(t, "file", cmd.PersistentFlags().Lookup("sink").DefValue)
}

func TestImageCommands(t *testing.T) {
	tests := []struct {
		args   []string
		action Action
	}{
		{[]string{"image", "resize", "--width", "200", "a.png"}, ActionResize},
		{[]string{"image", "convert", "-f", "jpg", "a.png", "b.png"}, ActionConvert},
		{[]string{"image", "remove-bg", "--threshold", "50", "a.png"}, ActionRemoveBG},
		{[]string{"image", "info", "a.png"}, ActionInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			_, calls, err := execute(t, tt.args...)
			require.NoError(t, err)
			require.Len(t, calls, 1)
			assert.Equal(t, tt.action, calls[0].action)
		})
	}

	flags, calls, err := execute(t, "image", "convert", "-f", "jpg", "a.png", "b.png")
	require.NoError(t, err)
	assert.Equal(t, image.FormatJPEG, flags.Format.Format)
	assert.Equal(t, []string{"a.png", "b.png"}, calls[0].args)

	flags, _, err = execute(t, "image", "resize", "--width", "200", "--keep-aspect=false", "a.png")
	require.NoError(t, err)
	assert.Equal(t, 200, flags.Width)
	assert.False(t, flags.KeepAspect)
}

func TestFormatFlagRejectsWebP(t *testing.T) {
	_, calls, err := execute(t, "image", "convert", "--format", "webp", "a.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can only be read")
	assert.Empty(t, calls)
}

func TestSpeakCommand(t *testing.T) {
	flags, calls, err := execute(t, "speak", "--engine", "openai", "--rate", "1.5", "--voice", "nova", "hello", "world")
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, ActionSpeak, calls[0].action)
	assert.Equal(t, []string{"hello", "world"}, calls[0].args)
	assert.Equal(t, "openai", flags.Engine)
	assert.Equal(t, 1.5, flags.Rate)
	assert.Equal(t, "nova", flags.Voice)
}

func TestArchiveFlag(t *testing.T) {
	_, calls, err := execute(t, "--archive")
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, ActionArchive, calls[0].action)

	// Without --archive the root command only prints help
	_, calls, err = execute(t)
	require.NoError(t, err)
	assert.Empty(t, calls)
}

func TestApplyConfigFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	content := `output:
  sink: nats
nats:
  bucket: pictures
s3:
  access_key: AKIA
  secret_key: secret
speech:
  engine: openai
  rate: 2
`
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0644))
	InitConfig(cfg)

	flags := NewFlags()
	var runErr error
	root := CreateRootCommand(flags, func(cmd *cobra.Command, action Action, args []string) error {
		runErr = ApplyConfig(cmd, flags)
		return runErr
	})
	root.SetArgs([]string{"speak", "--rate", "0.5", "hi"})
	require.NoError(t, root.Execute())
	require.NoError(t, runErr)

	assert.Equal(t, "nats", flags.Sink)
	assert.Equal(t, "pictures", flags.NATSBucket)
	assert.Equal(t, "openai", flags.Engine)
	assert.Equal(t, "AKIA", flags.S3AccessKey)
	assert.Equal(t, "secret", flags.S3SecretKey)
	// An explicit flag wins over the file
	assert.Equal(t, 0.5, flags.Rate)
}

func TestApplyConfigFromEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("HANDYTOOLS_OUTPUT_SINK", "s3")
	t.Setenv("HANDYTOOLS_S3_BUCKET", "images")

	InitConfig(filepath.Join(t.TempDir(), "missing.yaml"))

	flags := NewFlags()
	root := CreateRootCommand(flags, func(cmd *cobra.Command, action Action, args []string) error {
		return ApplyConfig(cmd, flags)
	})
	root.SetArgs([]string{"image", "info", "a.png"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "s3", flags.Sink)
	assert.Equal(t, "images", flags.S3Bucket)
}

func TestGetOpenAIKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("OPENAI_API_KEY", "")
	viper.Set("speech.openai_key", "from-config")
	assert.Equal(t, "from-config", GetOpenAIKey())

	t.Setenv("OPENAI_API_KEY", "from-env")
	assert.Equal(t, "from-env", GetOpenAIKey())
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	require.NoError(t, SetupLogging("DEBUG"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	require.NoError(t, SetupLogging("warn"))
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	err := SetupLogging("loud")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "loud"))
}

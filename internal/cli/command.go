package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/handytools/internal"
)

// Action identifies the leaf command being run
type Action string

// Leaf commands
const (
	ActionArchive  Action = "archive"
	ActionResize   Action = "image-resize"
	ActionConvert  Action = "image-convert"
	ActionRemoveBG Action = "image-remove-bg"
	ActionInfo     Action = "image-info"
	ActionSpeak    Action = "speak"
	ActionVoices   Action = "voices"
)

// RunFunc executes action with the positional arguments of its command
type RunFunc func(cmd *cobra.Command, action Action, args []string) error

// CreateRootCommand creates and configures the root cobra command and all
// of its subcommands. Every command ends up in run.
func CreateRootCommand(flags *Flags, run RunFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "handytools",
		Short: "Image editing and text-to-speech from the terminal",
		Long: `handytools resizes, converts and clears the background of images, and
reads text aloud through espeak-ng or OpenAI speech.

Examples:
  handytools image resize --width 200 photo.jpg   # Scale to 200px wide
  handytools image convert --format jpeg shot.png # Re-encode as JPEG
  handytools image remove-bg logo.png             # Make the background transparent
  handytools speak "Hello there"                  # Read text aloud
  handytools voices --lang en                     # List English voices
  handytools --archive                            # Archive previous downloads`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !flags.Archive {
				return cmd.Help()
			}
			return run(cmd, ActionArchive, args)
		},
	}

	setupFlags(rootCmd, flags)

	imageCmd := &cobra.Command{
		Use:   "image",
		Short: "Resize, convert or clear the background of images",
	}
	setupImageFlags(imageCmd, flags)
	imageCmd.AddCommand(
		leafCommand("resize [file...]", "Resize images to --width or --height", ActionResize, run),
		leafCommand("convert [file...]", "Convert images to --format", ActionConvert, run),
		leafCommand("remove-bg [file...]", "Make the background colour transparent", ActionRemoveBG, run),
		leafCommand("info <file>", "Show format and size of an image", ActionInfo, run),
	)

	speakCmd := leafCommand("speak [text]", "Read text aloud", ActionSpeak, run)
	speakCmd.Args = cobra.ArbitraryArgs
	setupSpeechFlags(speakCmd, flags)
	speakCmd.Flags().StringVar(&flags.TextFile, "file", "", "Read the text from a file ('-' for stdin)")
	speakCmd.Flags().BoolVar(&flags.Interactive, "interactive", flags.Interactive, "Control playback with p(ause), r(esume), s(top), q(uit) lines on stdin")

	voicesCmd := leafCommand("voices", "List the voices of the speech engine", ActionVoices, run)
	voicesCmd.Args = cobra.NoArgs
	setupSpeechFlags(voicesCmd, flags)
	voicesCmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List the available OpenAI speech models instead of voices")

	rootCmd.AddCommand(imageCmd, speakCmd, voicesCmd)

	return rootCmd
}

func leafCommand(use, short string, action Action, run RunFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, action, args)
		},
	}
}

// DefaultOutputDir is where downloads land unless configured otherwise
func DefaultOutputDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "handytools", "downloads")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()

	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.handytools.yaml)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVarP(&flags.OutputDir, "output", "o", DefaultOutputDir(), "Output directory of the file sink")
	pf.StringVar(&flags.Sink, "sink", flags.Sink, "Where downloads are stored: file, nats or s3")
	pf.BoolVar(&flags.Overwrite, "overwrite", false, "Replace existing files in the output directory")

	pf.StringVar(&flags.NATSURL, "nats-url", flags.NATSURL, "NATS server URL for the nats sink")
	pf.StringVar(&flags.NATSBucket, "nats-bucket", flags.NATSBucket, "JetStream object store bucket for the nats sink")
	pf.StringVar(&flags.S3Endpoint, "s3-endpoint", "", "S3 endpoint (host:port) for the s3 sink")
	pf.StringVar(&flags.S3Bucket, "s3-bucket", "", "S3 bucket for the s3 sink")
	pf.StringVar(&flags.S3Region, "s3-region", flags.S3Region, "S3 region")
	pf.BoolVar(&flags.S3Secure, "s3-secure", flags.S3Secure, "Use TLS for the s3 sink")

	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Archive the output directory and start with an empty one")
}

func setupImageFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()

	pf.IntVar(&flags.Width, "width", 0, "Target width in pixels")
	pf.IntVar(&flags.Height, "height", 0, "Target height in pixels")
	pf.BoolVar(&flags.KeepAspect, "keep-aspect", flags.KeepAspect, "Derive the other dimension from the aspect ratio")
	pf.VarP(&flags.Format, "format", "f", "Output format: png, jpeg, gif, bmp, tiff")
	pf.IntVar(&flags.Quality, "quality", 0, "JPEG quality 1-100 (0 uses 92)")
	pf.IntVar(&flags.Threshold, "threshold", flags.Threshold, "Colour distance below which pixels count as background")
	pf.IntVar(&flags.PreviewWidth, "preview-width", flags.PreviewWidth, "Maximum width of previews")
	pf.StringVar(&flags.BatchFile, "batch", "", "Process the image paths listed in a file (one per line)")
}

func setupSpeechFlags(cmd *cobra.Command, flags *Flags) {
	f := cmd.Flags()

	f.StringVar(&flags.Engine, "engine", flags.Engine, "Speech engine: espeak or openai")
	f.StringVar(&flags.Voice, "voice", "", "Voice id or name (default: engine default)")
	f.StringVar(&flags.Lang, "lang", "", "Language prefix, e.g. en or en-GB")
	f.Float64Var(&flags.Rate, "rate", flags.Rate, "Speech rate 0.1 to 10")
	f.Float64Var(&flags.Pitch, "pitch", flags.Pitch, "Pitch 0 to 2")
	f.Float64Var(&flags.Volume, "volume", flags.Volume, "Volume 0 to 1")
	f.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	f.StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for the gpt-4o-mini-tts model")
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/handytools/internal/cli"
	"codeberg.org/snonux/handytools/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	rootCmd := cli.CreateRootCommand(flags, func(cmd *cobra.Command, action cli.Action, args []string) error {
		return runCommand(cmd, action, args, flags)
	})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, action cli.Action, args []string, flags *cli.Flags) error {
	if err := cli.ApplyConfig(cmd, flags); err != nil {
		return err
	}
	if err := cli.SetupLogging(flags.LogLevel); err != nil {
		return err
	}
	if err := flags.Validate(); err != nil {
		return err
	}

	proc := processor.NewProcessor(flags)
	defer proc.Close()

	ctx := cmd.Context()
	log.Debug("running", "action", action, "args", len(args))

	switch action {
	case cli.ActionArchive:
		return proc.Archive()
	case cli.ActionResize, cli.ActionConvert, cli.ActionRemoveBG, cli.ActionInfo:
		return proc.ProcessImages(ctx, action, args)
	case cli.ActionSpeak:
		return proc.Speak(ctx, args)
	case cli.ActionVoices:
		if flags.ListModels {
			return proc.ListModels(ctx)
		}
		return proc.ListVoices(ctx)
	default:
		return fmt.Errorf("unknown command: %s", action)
	}
}

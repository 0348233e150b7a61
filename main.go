package main

import (
	"log"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"Splitter/settings"
)

type options struct {
	configPath string
	splitsPath string
	layoutPath string
	noAudio    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "splitter",
		Short: "A split timer for speedruns.",
		Long: heredoc.Doc(`
			Splitter times speedruns segment by segment and compares every
			split against your personal best.

			Hotkeys are read from the settings file and can be changed from
			the Settings window. Splits and layouts are JSON files; layouts
			may also be written in YAML.
		`),
		Example: heredoc.Doc(`
			$ splitter --splits ~/runs/celeste-any.json
			$ splitter --layout compact.yaml --no-audio
		`),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := NewAppManager(opts)
			if err != nil {
				return err
			}
			a.Run()
			return nil
		},
	}

	defaultConfig, err := settings.DefaultPath()
	if err != nil {
		log.Printf("Could not find the user config directory: %v", err)
		defaultConfig = "settings.json"
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", defaultConfig, "settings file")
	flags.StringVarP(&opts.splitsPath, "splits", "s", "", "splits file to open instead of the last used one")
	flags.StringVarP(&opts.layoutPath, "layout", "l", "", "layout file (.json, .yaml or .yml)")
	flags.BoolVar(&opts.noAudio, "no-audio", false, "disable split and reset sounds")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

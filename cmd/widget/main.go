package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	mode     string
	endpoint string
	profile  string
	logFile  string
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "farmbot",
		Short:         "FarmBot Assistant chat in your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.mode, "mode", "m", "", "reply mode: gradio, backend, ark or keyword (default from REPLY_MODE)")
	flags.StringVarP(&opts.endpoint, "endpoint", "e", "", "override the upstream URL of the gradio or backend mode")
	flags.StringVarP(&opts.profile, "profile", "p", "", "greeting profile id, e.g. en or ta (default from GREETING_PROFILE)")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of discarding them")

	return cmd
}

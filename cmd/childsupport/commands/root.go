package commands

import (
	"github.com/spf13/cobra"

	"github.com/Simplici0/childsupport/internal/logging"
)

var logLevel string

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "childsupport",
		Short:        "Estimate monthly child support under the 2021 schedule",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(cmd.ErrOrStderr(), logLevel, "text")
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error, critical, off)")

	root.AddCommand(calcCmd(), tableCmd())
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

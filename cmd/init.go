package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/promille/internal/logger"
	"github.com/Tiliavir/promille/internal/session"
)

var initCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Write an example session file (.yaml, .yml or .json)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if err := session.WriteTemplate(path); err != nil {
			fail(err)
		}
		logger.Info("session template written", "path", path)
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

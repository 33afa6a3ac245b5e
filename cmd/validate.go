package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/occusim/config"
	"github.com/kilianp07/occusim/core/roster"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and building declaration",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	b, err := roster.Build(cfg.Building)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d offices, %d meeting rooms, %d employees\n",
		len(b.Offices()), len(b.MeetingRooms()), b.NumEmployees())
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := configService(cmd)
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if save, _ := cmd.Flags().GetBool("save"); save {
				if err := svc.Save(cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Config saved to %s\n", svc.Path())
			}
			return printConfig(cmd.OutOrStdout(), svc.Path(), cfg)
		},
	}
	configCmd.Flags().Bool("save", false, "Write the effective configuration to the config file")
	return configCmd
}

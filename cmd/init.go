package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/compass/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize compass configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure compass for your content folder and generates a .compass.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/lorentzian/config"
)

var configOut string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print or write the default configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if configOut != "" {
			return cfg.SaveToFile(configOut)
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func init() {
	configCmd.Flags().StringVarP(&configOut, "out", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(configCmd)
}

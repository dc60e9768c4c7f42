package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starlane-io/starlane/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate star config files",
	}
	cmd.AddCommand(configCheckCmd())
	return cmd
}

func configCheckCmd() *cobra.Command {
	var filePath string
	var soft bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the config validator against a file and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.LoadFile(filePath)
			if err != nil {
				return err
			}

			v := config.NewValidator()
			if soft {
				v.Mode = config.SoftMode
			}
			res := v.Validate(f.Params)

			for _, e := range res.Errors {
				fmt.Printf("error:   %s\n", e.Error())
			}
			for _, w := range res.Warnings {
				fmt.Printf("warning: %s\n", w.Error())
			}
			if res.Valid {
				fmt.Println("config: valid")
				return nil
			}
			return fmt.Errorf("config: %d error(s)", len(res.Errors))
		},
	}
	cmd.Flags().StringVar(&filePath, "file", "", "path to the star config file (required)")
	cmd.Flags().BoolVar(&soft, "soft", false, "downgrade non-structural violations to warnings")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

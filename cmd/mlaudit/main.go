// Package main provides the mlaudit CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "mlaudit",
		Short: "Trustworthiness audits for ML artifacts",
		Long: `mlaudit scores Hugging Face models against a weighted set of quality
metrics, linking them to their datasets and code repositories.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newAuditCmd(),
		newValidateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

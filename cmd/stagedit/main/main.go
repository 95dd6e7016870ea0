package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/stagedit/cmd/stagedit"
	"github.com/arthur-debert/stagedit/pkg/ui/styles"
)

func main() {
	rootCmd := stagedit.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Render("Error", fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

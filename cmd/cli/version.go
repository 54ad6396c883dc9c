package cli

import (
	"fmt"

	"github.com/FaresAlnamla/Email-Spam-Detection-System/internal/version"

	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			fmt.Printf("spam-detector %s\n", info.Version)
			if info.GitCommit != "" {
				fmt.Printf("  commit: %s\n", info.GitCommit)
			}
			if info.BuildDate != "" {
				fmt.Printf("  built:  %s\n", info.BuildDate)
			}
			fmt.Printf("  go:     %s (%s)\n", info.GoVersion, info.Platform)
		},
	}

	return cmd
}

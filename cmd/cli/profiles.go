package cli

import (
	"fmt"

	"github.com/FaresAlnamla/Email-Spam-Detection-System/internal/config"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/domain"

	"github.com/spf13/cobra"
)

func NewProfilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the sensitivity profile catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfiles()
		},
	}

	return cmd
}

func runProfiles() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	registry := domain.NewProfileRegistry(domain.ProfileRegistryDependencies{
		SystemProfile: cfg.SystemProfile,
	})
	resolver := domain.NewThresholdResolver(domain.ThresholdResolverDependencies{
		Registry: registry,
		Override: cfg.ThresholdOverride,
	})

	fmt.Printf("System profile: %s (threshold %.2f)\n\n", registry.Default().Key, resolver.DefaultThreshold())
	for _, p := range registry.Profiles() {
		marker := " "
		if p.Key == registry.Default().Key {
			marker = "*"
		}
		fmt.Printf("%s %-14s %.2f  %s\n", marker, p.Key, p.Threshold, p.Label)
		fmt.Printf("  %s\n", p.Description)
	}

	return nil
}

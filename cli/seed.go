package cli

import (
	"fmt"

	"resume-penelitian/services"

	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "seed",
		Short:        "Create the demo accounts if they are missing",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.authService.SeedDemoUsers(cmd.Context()); err != nil {
				return err
			}
			for _, u := range services.DemoUsers {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", u.Username, u.Role)
			}
			return nil
		},
	}
}

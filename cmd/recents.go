package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-lookup/internal/present"
)

func recentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recents",
		Short: "List recently searched cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), present.NewTerminal(cmd.OutOrStdout()), appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			a.session.Start(cmd.Context())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget all recently searched cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), present.NewTerminal(cmd.OutOrStdout()), appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			a.session.ClearRecents(cmd.Context())
			return nil
		},
	})

	return cmd
}

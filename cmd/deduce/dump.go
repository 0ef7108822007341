package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDumpCmd(c *cli) *cobra.Command {
	var withJournal bool
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every stored fact and rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, cleanup, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if dump := s.Dump(); dump != "" {
				fmt.Fprintln(out, dump)
			}
			if withJournal {
				fmt.Fprintln(out)
				if _, err := s.Journal().WriteTo(out); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withJournal, "journal", false, "Also print the change journal")
	return cmd
}

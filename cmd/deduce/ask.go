package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(c *cli) *cobra.Command {
	var why bool
	cmd := &cobra.Command{
		Use:   "ask <query>",
		Short: "Answer a query against the loaded knowledge",
		Long: `Ask matches a fact pattern against every stored fact and prints one
binding per match, "yes" for a ground match or "no" when nothing matches.

Examples:
  deduce ask -s family.kb "(parentof ada ?X)"
  deduce ask -s family.kb --why "grandparentof(ada, ?X)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, cleanup, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			verb := "ask: "
			if why {
				verb = "why: "
			}
			out, err := s.Exec(verb + strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&why, "why", false, "Print the justification of every answer")
	return cmd
}

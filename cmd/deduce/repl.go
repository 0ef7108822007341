package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/deduce/pkg/deduce"
	"github.com/cognicore/deduce/pkg/deduce/journal"
)

func newReplCmd(c *cli) *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read commands from stdin",
		Long: `Repl reads one command per line:

  fact: (motherof ada bing)
  rule: ((motherof ?x ?y)) -> (parentof ?x ?y)
  ask: (parentof ada ?X)
  why: (parentof ada ?X)
  retract: (motherof ada bing)
  dump
  journal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, cleanup, err := c.session(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			return repl(s, cmd.InOrStdin(), cmd.OutOrStdout(), trace || cfg.Trace)
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "Print knowledge base changes after each command")
	return cmd
}

func repl(s *deduce.Session, in io.Reader, out io.Writer, trace bool) error {
	mark := lastID(s.Journal())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			break
		}

		res, err := s.Exec(line)
		if err != nil {
			fmt.Fprintln(out, "Error:", err)
			continue
		}
		if res != "" {
			fmt.Fprintln(out, res)
		}

		if trace {
			for _, e := range s.Journal().Since(mark) {
				fmt.Fprintln(out, "  "+journal.Format(e))
			}
		}
		mark = lastID(s.Journal())
	}
	fmt.Fprintln(out)
	return scanner.Err()
}

func lastID(j *journal.Journal) string {
	events := j.Events()
	if len(events) == 0 {
		return ""
	}
	return events[len(events)-1].ID
}

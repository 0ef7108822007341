// Package parse reads facts and rules from their textual notation.
//
// Statements are written either as s-expressions or in functional form:
//
//	(motherof ada bing)
//	motherof(ada, bing)
//
// Variables carry a "?" prefix. A line is a rule when it contains "->":
//
//	rule: ((motherof ?x ?y) (parentof ?y ?z)) -> (grandmotherof ?x ?z)
//	(motherof ?x ?y)(parentof ?y ?z) -> (grandmotherof ?x ?z)
//
// The "fact:" and "rule:" prefixes are optional. Lines starting with "#" or
// ";" are comments.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/kb"
	"github.com/cognicore/deduce/pkg/deduce/logic"
)

const arrow = "->"

// Item parses one fact or rule
func Item(line string) (kb.Item, error) {
	text := strings.TrimSpace(line)
	wantKind := kb.Kind(0)
	switch {
	case hasPrefixFold(text, "fact:"):
		wantKind = kb.KindFact
		text = strings.TrimSpace(text[len("fact:"):])
	case hasPrefixFold(text, "rule:"):
		wantKind = kb.KindRule
		text = strings.TrimSpace(text[len("rule:"):])
	}
	if text == "" {
		return nil, invalid("empty statement")
	}

	lhsText, rhsText, isRule := strings.Cut(text, arrow)
	if wantKind == kb.KindFact && isRule {
		return nil, invalid("fact contains %q: %s", arrow, line)
	}
	if wantKind == kb.KindRule && !isRule {
		return nil, invalid("rule is missing %q: %s", arrow, line)
	}

	if !isRule {
		st, err := Statement(text)
		if err != nil {
			return nil, err
		}
		return kb.Fact{Statement: st}, nil
	}

	lhs, err := antecedents(lhsText)
	if err != nil {
		return nil, fmt.Errorf("antecedents: %w", err)
	}
	rhs, err := Statement(rhsText)
	if err != nil {
		return nil, fmt.Errorf("consequent: %w", err)
	}
	return kb.Rule{LHS: lhs, RHS: rhs}, nil
}

// Statement parses a single statement
func Statement(text string) (logic.Statement, error) {
	exprs, err := read(text)
	if err != nil {
		return nil, err
	}
	if len(exprs) != 1 {
		return nil, invalid("expected one statement, got %d: %s", len(exprs), strings.TrimSpace(text))
	}
	return toStatement(exprs[0])
}

// Reader parses every non-blank, non-comment line of r
func Reader(r io.Reader) ([]kb.Item, error) {
	scanner := bufio.NewScanner(r)
	lineNum := 0

	var items []kb.Item
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		item, err := Item(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}

	return items, scanner.Err()
}

// String parses a multi-line block
func String(text string) ([]kb.Item, error) {
	return Reader(strings.NewReader(text))
}

func antecedents(text string) ([]logic.Statement, error) {
	exprs, err := read(text)
	if err != nil {
		return nil, err
	}
	// ((a ?x) (b ?x)) wraps the antecedent list in one extra group
	if len(exprs) == 1 && exprs[0].isList && len(exprs[0].list) > 0 && allLists(exprs[0].list) {
		exprs = exprs[0].list
	}
	if len(exprs) == 0 {
		return nil, invalid("no antecedents")
	}

	out := make([]logic.Statement, 0, len(exprs))
	for _, e := range exprs {
		st, err := toStatement(e)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func toStatement(e expr) (logic.Statement, error) {
	if !e.isList {
		return nil, invalid("expected a parenthesized statement, got %q", e.atom)
	}
	if len(e.list) == 0 {
		return nil, invalid("empty statement")
	}
	st := make(logic.Statement, 0, len(e.list))
	for _, el := range e.list {
		if el.isList {
			return nil, invalid("nested terms are not supported")
		}
		st = append(st, logic.Symbol(el.atom))
	}
	if st[0].IsVariable() {
		return nil, invalid("predicate must be a constant, got %s", st[0])
	}
	return st, nil
}

func allLists(exprs []expr) bool {
	for _, e := range exprs {
		if !e.isList {
			return false
		}
	}
	return true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", internalerr.ErrInvalidInput, fmt.Sprintf(format, args...))
}

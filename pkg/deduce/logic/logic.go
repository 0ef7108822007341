package logic

import (
	"strings"
)

// Kind distinguishes constants from variables
type Kind uint8

const (
	Constant Kind = iota
	Variable
)

// VarPrefix marks a variable in textual notation
const VarPrefix = "?"

// Term is a single symbol in a statement
type Term struct {
	Kind Kind
	Name string
}

// Const returns a constant term
func Const(name string) Term {
	return Term{Kind: Constant, Name: name}
}

// Var returns a variable term. A leading "?" is stripped.
func Var(name string) Term {
	return Term{Kind: Variable, Name: strings.TrimPrefix(name, VarPrefix)}
}

// Symbol parses a single token: "?x" is a variable, anything else a constant
func Symbol(tok string) Term {
	if strings.HasPrefix(tok, VarPrefix) && len(tok) > len(VarPrefix) {
		return Var(tok)
	}
	return Const(tok)
}

// IsVariable reports whether t is a variable
func (t Term) IsVariable() bool {
	return t.Kind == Variable
}

func (t Term) String() string {
	if t.Kind == Variable {
		return VarPrefix + t.Name
	}
	return t.Name
}

// Statement is a predicate application: Statement[0] is the predicate,
// the rest are arguments.
type Statement []Term

// S builds a statement from tokens, e.g. S("parentof", "ada", "?X")
func S(tokens ...string) Statement {
	st := make(Statement, len(tokens))
	for i, tok := range tokens {
		st[i] = Symbol(tok)
	}
	return st
}

// Predicate returns the leading symbol, or the zero Term for an empty statement
func (s Statement) Predicate() Term {
	if len(s) == 0 {
		return Term{}
	}
	return s[0]
}

// Args returns the arguments after the predicate
func (s Statement) Args() []Term {
	if len(s) == 0 {
		return nil
	}
	return s[1:]
}

// Equal reports structural equality
func (s Statement) Equal(o Statement) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Ground reports whether s contains no variables
func (s Statement) Ground() bool {
	for _, t := range s {
		if t.IsVariable() {
			return false
		}
	}
	return true
}

// Variables returns distinct variable names in order of first occurrence
func (s Statement) Variables() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, t := range s {
		if !t.IsVariable() {
			continue
		}
		if _, ok := seen[t.Name]; ok {
			continue
		}
		seen[t.Name] = struct{}{}
		out = append(out, t.Name)
	}
	return out
}

// Clone returns an independent copy
func (s Statement) Clone() Statement {
	if s == nil {
		return nil
	}
	out := make(Statement, len(s))
	copy(out, s)
	return out
}

// String renders "(pred arg1 arg2)"
func (s Statement) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, t := range s {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Key is a canonical string used for dedup lookups. Variables and constants
// never collide because of the kind tag.
func (s Statement) Key() string {
	var b strings.Builder
	for i, t := range s {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		if t.IsVariable() {
			b.WriteByte('v')
		} else {
			b.WriteByte('c')
		}
		b.WriteString(t.Name)
	}
	return b.String()
}

// EqualAll compares two statement sequences pointwise
func EqualAll(a, b []Statement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// CloneAll deep-copies a statement sequence
func CloneAll(sts []Statement) []Statement {
	if sts == nil {
		return nil
	}
	out := make([]Statement, len(sts))
	for i, s := range sts {
		out[i] = s.Clone()
	}
	return out
}

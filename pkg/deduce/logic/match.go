package logic

import "strings"

// Bound is one variable assignment
type Bound struct {
	Var   string
	Value Term
}

// Binding maps variable names to terms. Entries keep the order in which
// the matcher created them.
type Binding struct {
	entries []Bound
}

// Len returns the number of bound variables
func (b Binding) Len() int { return len(b.entries) }

// Empty reports whether nothing is bound (a ground match)
func (b Binding) Empty() bool { return len(b.entries) == 0 }

// Lookup returns the value bound to name
func (b Binding) Lookup(name string) (Term, bool) {
	name = strings.TrimPrefix(name, VarPrefix)
	for _, e := range b.entries {
		if e.Var == name {
			return e.Value, true
		}
	}
	return Term{}, false
}

// Entries returns a copy of the bindings in creation order
func (b Binding) Entries() []Bound {
	out := make([]Bound, len(b.entries))
	copy(out, b.entries)
	return out
}

// Map returns the bindings keyed by variable name (without prefix)
func (b Binding) Map() map[string]string {
	m := make(map[string]string, len(b.entries))
	for _, e := range b.entries {
		m[e.Var] = e.Value.Name
	}
	return m
}

func (b *Binding) add(name string, value Term) {
	b.entries = append(b.entries, Bound{Var: name, Value: value})
}

// Match unifies pattern against target. Pattern variables bind to whatever
// term sits in the same position of target; a repeated variable must bind the
// same value each time. A pattern constant never matches a target variable.
func Match(pattern, target Statement) (Binding, bool) {
	var b Binding
	if len(pattern) != len(target) {
		return b, false
	}
	for i, p := range pattern {
		t := target[i]
		if !p.IsVariable() {
			if t.IsVariable() || p.Name != t.Name {
				return Binding{}, false
			}
			continue
		}
		if prev, ok := b.Lookup(p.Name); ok {
			if prev != t {
				return Binding{}, false
			}
			continue
		}
		b.add(p.Name, t)
	}
	return b, true
}

// Instantiate substitutes bound variables in s. Unbound variables stay as
// they are.
func Instantiate(s Statement, b Binding) Statement {
	out := make(Statement, len(s))
	for i, t := range s {
		if t.IsVariable() {
			if v, ok := b.Lookup(t.Name); ok {
				out[i] = v
				continue
			}
		}
		out[i] = t
	}
	return out
}

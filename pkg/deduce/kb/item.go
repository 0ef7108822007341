package kb

import (
	"strings"

	"github.com/cognicore/deduce/pkg/deduce/logic"
)

// ID is a stable handle to a fact or rule held by a KnowledgeBase.
// IDs are never reused within one KnowledgeBase.
type ID uint64

// Kind tags an item as a fact or a rule
type Kind uint8

const (
	KindFact Kind = iota + 1
	KindRule
)

func (k Kind) String() string {
	switch k {
	case KindFact:
		return "fact"
	case KindRule:
		return "rule"
	default:
		return "unknown"
	}
}

// Item is a fact or rule value passed to Assert, Retract and Ask
type Item interface {
	Kind() Kind
	String() string
}

// Fact is a statement held as true
type Fact struct {
	Statement logic.Statement
}

// NewFact builds a fact from tokens, e.g. NewFact("motherof", "ada", "bing")
func NewFact(tokens ...string) Fact {
	return Fact{Statement: logic.S(tokens...)}
}

func (Fact) Kind() Kind { return KindFact }

func (f Fact) String() string { return f.Statement.String() }

// Rule is a conjunction of antecedents implying a consequent
type Rule struct {
	LHS []logic.Statement
	RHS logic.Statement
}

// NewRule builds a rule from antecedents and a consequent
func NewRule(rhs logic.Statement, lhs ...logic.Statement) Rule {
	return Rule{LHS: lhs, RHS: rhs}
}

func (Rule) Kind() Kind { return KindRule }

func (r Rule) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, s := range r.LHS {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.String())
	}
	b.WriteString(") -> ")
	b.WriteString(r.RHS.String())
	return b.String()
}

// Support is one justification: the fact and rule that together derived an item
type Support struct {
	Fact ID
	Rule ID
}

// References reports whether id is one of the two premises
func (s Support) References(id ID) bool {
	return s.Fact == id || s.Rule == id
}

// Info is a read-only snapshot of a stored item and its support edges
type Info struct {
	ID       ID
	Kind     Kind
	Asserted bool

	Statement logic.Statement   // facts only
	LHS       []logic.Statement // rules only
	RHS       logic.Statement   // rules only

	SupportedBy   []Support
	SupportsFacts []ID
	SupportsRules []ID
}

// Item converts the snapshot back into a value usable with Assert/Retract/Ask
func (i Info) Item() Item {
	if i.Kind == KindRule {
		return Rule{LHS: logic.CloneAll(i.LHS), RHS: i.RHS.Clone()}
	}
	return Fact{Statement: i.Statement.Clone()}
}

// Derived reports whether at least one justification exists
func (i Info) Derived() bool { return len(i.SupportedBy) > 0 }

func (i Info) String() string { return i.Item().String() }

// Answer is one successful match of an Ask query
type Answer struct {
	Binding logic.Binding
	Facts   []Info
}

// itemShape normalizes an Item into its structural parts. ok is false for
// nil, unknown implementations and degenerate items (empty statements,
// rules without antecedents).
func itemShape(item Item) (kind Kind, st logic.Statement, lhs []logic.Statement, rhs logic.Statement, ok bool) {
	switch v := item.(type) {
	case Fact:
		return KindFact, v.Statement, nil, nil, len(v.Statement) > 0
	case *Fact:
		if v == nil {
			return 0, nil, nil, nil, false
		}
		return KindFact, v.Statement, nil, nil, len(v.Statement) > 0
	case Rule:
		return KindRule, nil, v.LHS, v.RHS, validRule(v.LHS, v.RHS)
	case *Rule:
		if v == nil {
			return 0, nil, nil, nil, false
		}
		return KindRule, nil, v.LHS, v.RHS, validRule(v.LHS, v.RHS)
	default:
		return 0, nil, nil, nil, false
	}
}

func validRule(lhs []logic.Statement, rhs logic.Statement) bool {
	if len(lhs) == 0 || len(rhs) == 0 {
		return false
	}
	for _, s := range lhs {
		if len(s) == 0 {
			return false
		}
	}
	return true
}

func factKey(st logic.Statement) string {
	return "f|" + st.Key()
}

func ruleKey(lhs []logic.Statement, rhs logic.Statement) string {
	var b strings.Builder
	b.WriteString("r|")
	for _, s := range lhs {
		b.WriteString(s.Key())
		b.WriteByte('\x1e')
	}
	b.WriteByte('\x1d')
	b.WriteString(rhs.Key())
	return b.String()
}

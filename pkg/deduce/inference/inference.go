package inference

import (
	"github.com/cognicore/deduce/pkg/deduce/logic"
)

// Rule is the shape of a rule as the engine sees it
type Rule struct {
	LHS []logic.Statement // antecedents, conjunctive
	RHS logic.Statement   // consequent
}

// Conclusion is what one forward-chaining step produces: either a new fact
// (Rule is nil) or a new, partially instantiated rule.
type Conclusion struct {
	Fact logic.Statement
	Rule *Rule
}

// IsFact reports whether the step concluded a fact
func (c Conclusion) IsFact() bool { return c.Rule == nil }

// Infer forward-chains fact against rule. Only the first antecedent is
// unified; the remaining ones are carried into a new rule and resolved by
// later steps as further facts arrive.
func Infer(fact logic.Statement, rule Rule) (Conclusion, bool) {
	if len(rule.LHS) == 0 {
		return Conclusion{}, false
	}
	b, ok := logic.Match(rule.LHS[0], fact)
	if !ok {
		return Conclusion{}, false
	}

	first := logic.Instantiate(rule.LHS[0], b)
	rhs := logic.Instantiate(rule.RHS, b)

	if len(rule.LHS) == 1 && first.Equal(fact) {
		return Conclusion{Fact: rhs}, true
	}

	lhs := make([]logic.Statement, 0, len(rule.LHS))
	if !first.Equal(fact) {
		lhs = append(lhs, first)
	}
	for _, ante := range rule.LHS[1:] {
		lhs = append(lhs, logic.Instantiate(ante, b))
	}
	return Conclusion{Rule: &Rule{LHS: lhs, RHS: rhs}}, true
}

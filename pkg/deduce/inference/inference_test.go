package inference

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/deduce/pkg/deduce/logic"
)

var S = logic.S

func statementsEqual(a, b logic.Statement) bool { return a.Equal(b) }

func TestInferSingleAntecedentDerivesFact(t *testing.T) {
	rule := Rule{
		LHS: []logic.Statement{S("motherof", "?x", "?y")},
		RHS: S("parentof", "?x", "?y"),
	}

	c, ok := Infer(S("motherof", "ada", "bing"), rule)
	if !ok {
		t.Fatal("expected a conclusion")
	}
	if !c.IsFact() {
		t.Fatalf("expected a fact, got rule %+v", c.Rule)
	}
	if !c.Fact.Equal(S("parentof", "ada", "bing")) {
		t.Errorf("derived %v", c.Fact)
	}
}

func TestInferNoMatch(t *testing.T) {
	rule := Rule{
		LHS: []logic.Statement{S("motherof", "?x", "?y")},
		RHS: S("parentof", "?x", "?y"),
	}
	if _, ok := Infer(S("fatherof", "ada", "bing"), rule); ok {
		t.Error("fatherof must not fire a motherof rule")
	}
	if _, ok := Infer(S("motherof", "ada"), rule); ok {
		t.Error("arity mismatch must not fire")
	}
}

func TestInferMultiAntecedentDerivesRule(t *testing.T) {
	rule := Rule{
		LHS: []logic.Statement{
			S("parentof", "?x", "?y"),
			S("parentof", "?y", "?z"),
		},
		RHS: S("grandparentof", "?x", "?z"),
	}

	c, ok := Infer(S("parentof", "ada", "bing"), rule)
	if !ok {
		t.Fatal("expected a conclusion")
	}
	if c.IsFact() {
		t.Fatalf("expected a rule, got fact %v", c.Fact)
	}

	want := Rule{
		LHS: []logic.Statement{S("parentof", "bing", "?z")},
		RHS: S("grandparentof", "ada", "?z"),
	}
	if diff := cmp.Diff(want, *c.Rule, cmp.Comparer(statementsEqual)); diff != "" {
		t.Errorf("derived rule mismatch (-want +got):\n%s", diff)
	}
}

func TestInferChainsToFact(t *testing.T) {
	rule := Rule{
		LHS: []logic.Statement{
			S("parentof", "?x", "?y"),
			S("parentof", "?y", "?z"),
		},
		RHS: S("grandparentof", "?x", "?z"),
	}

	c, ok := Infer(S("parentof", "ada", "bing"), rule)
	if !ok || c.IsFact() {
		t.Fatal("first step should produce a rule")
	}
	c2, ok := Infer(S("parentof", "bing", "felix"), *c.Rule)
	if !ok || !c2.IsFact() {
		t.Fatal("second step should produce a fact")
	}
	if !c2.Fact.Equal(S("grandparentof", "ada", "felix")) {
		t.Errorf("derived %v", c2.Fact)
	}
}

func TestInferEmptyRule(t *testing.T) {
	if _, ok := Infer(S("p", "a"), Rule{RHS: S("q", "a")}); ok {
		t.Error("a rule without antecedents never fires")
	}
}

package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/kb"
	"github.com/cognicore/deduce/pkg/deduce/logic"
)

func TestItemFact(t *testing.T) {
	for _, line := range []string{
		"fact: (parentof ada ?X)",
		"(parentof ada ?X)",
		"parentof(ada, ?X)",
		"FACT: parentof(ada ?X)",
	} {
		item, err := Item(line)
		if err != nil {
			t.Fatalf("Item(%q): %v", line, err)
		}
		f, ok := item.(kb.Fact)
		if !ok {
			t.Fatalf("Item(%q) = %T, want kb.Fact", line, item)
		}
		if !f.Statement.Equal(logic.S("parentof", "ada", "?X")) {
			t.Errorf("Item(%q) = %v", line, f.Statement)
		}
	}
}

func TestItemRule(t *testing.T) {
	want := kb.Rule{
		LHS: []logic.Statement{
			logic.S("motherof", "?x", "?y"),
			logic.S("parentof", "?y", "?z"),
		},
		RHS: logic.S("grandmotherof", "?x", "?z"),
	}

	for _, line := range []string{
		"rule: ((motherof ?x ?y) (parentof ?y ?z)) -> (grandmotherof ?x ?z)",
		"(motherof ?x ?y)(parentof ?y ?z) -> (grandmotherof ?x ?z)",
		"motherof(?x, ?y), parentof(?y, ?z) -> grandmotherof(?x, ?z)",
	} {
		item, err := Item(line)
		if err != nil {
			t.Fatalf("Item(%q): %v", line, err)
		}
		r, ok := item.(kb.Rule)
		if !ok {
			t.Fatalf("Item(%q) = %T, want kb.Rule", line, item)
		}
		if !logic.EqualAll(r.LHS, want.LHS) || !r.RHS.Equal(want.RHS) {
			t.Errorf("Item(%q) = %v, want %v", line, r, want)
		}
	}
}

func TestItemSingleAntecedentRule(t *testing.T) {
	item, err := Item("rule: ((motherof ?x ?y)) -> (parentof ?x ?y)")
	if err != nil {
		t.Fatal(err)
	}
	r := item.(kb.Rule)
	if len(r.LHS) != 1 || !r.LHS[0].Equal(logic.S("motherof", "?x", "?y")) {
		t.Errorf("LHS = %v", r.LHS)
	}

	item, err = Item("(motherof ?x ?y) -> (parentof ?x ?y)")
	if err != nil {
		t.Fatal(err)
	}
	if len(item.(kb.Rule).LHS) != 1 {
		t.Error("unwrapped single antecedent should parse the same")
	}
}

func TestItemErrors(t *testing.T) {
	tests := []string{
		"",
		"fact:",
		"fact: (a b) -> (c d)",
		"rule: (a b)",
		"(parentof ada",
		"parentof ada)",
		"()",
		"(p (q a))",
		"(?p a b)",
		"(a b) ->",
		"-> (a b)",
		"bare words",
	}
	for _, line := range tests {
		if _, err := Item(line); err == nil {
			t.Errorf("Item(%q) should fail", line)
		} else if !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("Item(%q) error %v should wrap ErrInvalidInput", line, err)
		}
	}
}

func TestReader(t *testing.T) {
	src := `
# family knowledge
fact: (motherof ada bing)
; another comment style
rule: ((motherof ?x ?y)) -> (parentof ?x ?y)

fatherof(bing, felix)
`
	items, err := String(src)
	if err != nil {
		t.Fatalf("String: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	kinds := []kb.Kind{items[0].Kind(), items[1].Kind(), items[2].Kind()}
	if kinds[0] != kb.KindFact || kinds[1] != kb.KindRule || kinds[2] != kb.KindFact {
		t.Errorf("kinds = %v", kinds)
	}
}

func TestReaderLineNumbers(t *testing.T) {
	src := "fact: (a b)\n\nfact: (broken\n"
	_, err := String(src)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "line 3:") {
		t.Errorf("error should name line 3, got %v", err)
	}
}

func TestUnicodeSymbols(t *testing.T) {
	st, err := Statement("(liebt jürgen zoë)")
	if err != nil {
		t.Fatal(err)
	}
	if st[1].Name != "jürgen" || st[2].Name != "zoë" {
		t.Errorf("Statement = %v", st)
	}
}

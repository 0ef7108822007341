package render

import (
	"strings"
	"testing"

	"github.com/cognicore/deduce/pkg/deduce/kb"
	"github.com/cognicore/deduce/pkg/deduce/logic"
)

func family() *kb.KnowledgeBase {
	k := kb.New()
	k.Assert(kb.NewRule(logic.S("parentof", "?x", "?y"), logic.S("motherof", "?x", "?y")))
	k.Assert(kb.NewFact("motherof", "ada", "bing"))
	return k
}

func TestBinding(t *testing.T) {
	b, _ := logic.Match(logic.S("p", "?X", "?Y"), logic.S("p", "bing", "ada"))
	if got := Binding(b); got != "?X : bing, ?Y : ada" {
		t.Errorf("Binding = %q", got)
	}
	if got := Binding(logic.Binding{}); got != "yes" {
		t.Errorf("empty Binding = %q", got)
	}
}

func TestItem(t *testing.T) {
	r := kb.NewRule(logic.S("gp", "?x", "?z"), logic.S("p", "?x", "?y"), logic.S("p", "?y", "?z"))
	if got := Item(r); got != "rule: ((p ?x ?y) (p ?y ?z)) -> (gp ?x ?z)" {
		t.Errorf("Item(rule) = %q", got)
	}
	if got := Item(kb.NewFact("p", "a")); got != "fact: (p a)" {
		t.Errorf("Item(fact) = %q", got)
	}
}

func TestInfo(t *testing.T) {
	k := family()
	info, _ := k.Lookup(kb.NewFact("parentof", "ada", "bing"))
	if got := Info(info); got != "fact: (parentof ada bing)  [1 justification]" {
		t.Errorf("Info = %q", got)
	}
}

func TestAnswers(t *testing.T) {
	k := family()
	if got := Answers(k.Ask(kb.NewFact("parentof", "ada", "?X"))); got != "?X : bing" {
		t.Errorf("Answers = %q", got)
	}
	if got := Answers(nil); got != "no" {
		t.Errorf("Answers(nil) = %q", got)
	}
}

func TestJustification(t *testing.T) {
	k := family()
	info, _ := k.Lookup(kb.NewFact("parentof", "ada", "bing"))

	var b strings.Builder
	if err := Justification(&b, k, info.ID); err != nil {
		t.Fatal(err)
	}
	want := `Support for
(parentof ada bing)
 support option
  Support for
  (motherof ada bing) (asserted)
  Support for
  ((motherof ?x ?y)) -> (parentof ?x ?y)
`
	if b.String() != want {
		t.Errorf("Justification =\n%s\nwant\n%s", b.String(), want)
	}
}

func TestWhy(t *testing.T) {
	k := family()
	got := Why(k, k.Ask(kb.NewFact("parentof", "ada", "?X")))
	if !strings.HasPrefix(got, "Justification:\n?X : bing\nSupport for") {
		t.Errorf("Why =\n%s", got)
	}
	if got := Why(k, nil); got != "Answer is False, no justification" {
		t.Errorf("Why(nil) = %q", got)
	}
}

type cyclicGraph map[kb.ID]kb.Info

func (g cyclicGraph) Node(id kb.ID) (kb.Info, bool) {
	i, ok := g[id]
	return i, ok
}

func TestJustificationCycle(t *testing.T) {
	g := cyclicGraph{
		1: {ID: 1, Kind: kb.KindFact, Statement: logic.S("p", "a"), SupportedBy: []kb.Support{{Fact: 2, Rule: 3}}},
		2: {ID: 2, Kind: kb.KindFact, Statement: logic.S("q", "a"), SupportedBy: []kb.Support{{Fact: 1, Rule: 4}}},
		3: {ID: 3, Kind: kb.KindRule, LHS: []logic.Statement{logic.S("q", "?x")}, RHS: logic.S("p", "?x"), Asserted: true},
		4: {ID: 4, Kind: kb.KindRule, LHS: []logic.Statement{logic.S("p", "?x")}, RHS: logic.S("q", "?x"), Asserted: true},
	}
	var b strings.Builder
	if err := Justification(&b, g, 1); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "(cycle)") {
		t.Errorf("expected cycle marker in\n%s", b.String())
	}
}

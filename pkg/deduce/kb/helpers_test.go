package kb

import (
	"sort"
	"testing"

	"github.com/cognicore/deduce/pkg/deduce/logic"
)

var S = logic.S

func rule(rhs logic.Statement, lhs ...logic.Statement) Rule { return NewRule(rhs, lhs...) }

// checkInvariants verifies the support graph directly against the arena
func checkInvariants(t *testing.T, kb *KnowledgeBase) {
	t.Helper()
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if len(kb.nodes) != len(kb.facts)+len(kb.rules) {
		t.Fatalf("arena has %d nodes, storage lists hold %d facts + %d rules",
			len(kb.nodes), len(kb.facts), len(kb.rules))
	}
	if len(kb.index) != len(kb.nodes) {
		t.Fatalf("index has %d keys for %d nodes", len(kb.index), len(kb.nodes))
	}

	for _, ids := range [][]ID{kb.facts, kb.rules} {
		for _, id := range ids {
			if _, ok := kb.nodes[id]; !ok {
				t.Fatalf("storage references missing node %d", id)
			}
		}
	}

	// expected back-edges computed from supportedBy
	wantFacts := make(map[ID]map[ID]bool)
	wantRules := make(map[ID]map[ID]bool)
	for id, n := range kb.nodes {
		if kb.index[n.key] != id {
			t.Errorf("index does not point at %d (%s)", id, n.describe())
		}
		if !n.asserted && len(n.supportedBy) == 0 {
			t.Errorf("%s is neither asserted nor supported", n.describe())
		}
		for _, s := range n.supportedBy {
			f, ok := kb.nodes[s.Fact]
			if !ok || f.kind != KindFact {
				t.Errorf("%s has support fact %d that is not a stored fact", n.describe(), s.Fact)
				continue
			}
			r, ok := kb.nodes[s.Rule]
			if !ok || r.kind != KindRule {
				t.Errorf("%s has support rule %d that is not a stored rule", n.describe(), s.Rule)
				continue
			}
			want := wantFacts
			if n.kind == KindRule {
				want = wantRules
			}
			for _, p := range []ID{s.Fact, s.Rule} {
				if want[p] == nil {
					want[p] = make(map[ID]bool)
				}
				want[p][id] = true
			}
		}
	}

	for id, n := range kb.nodes {
		compareEdges(t, n, "supportsFacts", n.supportsFacts, wantFacts[id])
		compareEdges(t, n, "supportsRules", n.supportsRules, wantRules[id])
	}
}

func compareEdges(t *testing.T, n *node, name string, got []ID, want map[ID]bool) {
	t.Helper()
	seen := make(map[ID]bool)
	for _, id := range got {
		if seen[id] {
			t.Errorf("%s.%s lists %d twice", n.describe(), name, id)
		}
		seen[id] = true
		if !want[id] {
			t.Errorf("%s.%s lists %d without a matching support pair", n.describe(), name, id)
		}
	}
	for id := range want {
		if !seen[id] {
			t.Errorf("%s.%s is missing %d", n.describe(), name, id)
		}
	}
}

// answerValues extracts the value bound to v from each answer, in order
func answerValues(answers []Answer, v string) []string {
	out := make([]string, 0, len(answers))
	for _, a := range answers {
		term, _ := a.Binding.Lookup(v)
		out = append(out, term.Name)
	}
	return out
}

func factSet(kb *KnowledgeBase) []string {
	var out []string
	for _, f := range kb.Facts() {
		out = append(out, f.Statement.String())
	}
	sort.Strings(out)
	return out
}

// familyKB loads the family fixture: rules first, then facts.
func familyKB(t *testing.T, opts ...Option) *KnowledgeBase {
	t.Helper()
	kb := New(opts...)
	kb.Assert(rule(S("parentof", "?x", "?y"), S("motherof", "?x", "?y")))
	kb.Assert(rule(S("parentof", "?x", "?y"), S("fatherof", "?x", "?y")))
	kb.Assert(rule(S("grandparentof", "?x", "?z"),
		S("parentof", "?x", "?y"), S("parentof", "?y", "?z")))
	kb.Assert(NewFact("motherof", "ada", "bing"))
	kb.Assert(NewFact("fatherof", "bing", "felix"))
	kb.Assert(NewFact("motherof", "bing", "chen"))
	checkInvariants(t, kb)
	return kb
}

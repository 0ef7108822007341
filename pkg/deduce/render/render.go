package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/deduce/pkg/deduce/kb"
	"github.com/cognicore/deduce/pkg/deduce/logic"
)

// Graph resolves support handles; *kb.KnowledgeBase satisfies it
type Graph interface {
	Node(id kb.ID) (kb.Info, bool)
}

// Binding renders "?X : bing, ?Y : ada". A ground match renders as "yes".
func Binding(b logic.Binding) string {
	if b.Empty() {
		return "yes"
	}
	parts := make([]string, 0, b.Len())
	for _, e := range b.Entries() {
		parts = append(parts, fmt.Sprintf("%s%s : %s", logic.VarPrefix, e.Var, e.Value))
	}
	return strings.Join(parts, ", ")
}

// Item renders a fact or rule in the notation the parser accepts
func Item(item kb.Item) string {
	switch v := item.(type) {
	case kb.Fact:
		return "fact: " + v.Statement.String()
	case kb.Rule:
		return "rule: (" + joinStatements(v.LHS) + ") -> " + v.RHS.String()
	case nil:
		return "<nil>"
	default:
		return item.String()
	}
}

// Info renders a stored item with its status
func Info(i kb.Info) string {
	var status []string
	if i.Asserted {
		status = append(status, "asserted")
	}
	if n := len(i.SupportedBy); n > 0 {
		status = append(status, fmt.Sprintf("%d justification%s", n, plural(n)))
	}
	return fmt.Sprintf("%s  [%s]", Item(i.Item()), strings.Join(status, ", "))
}

// Answers renders query results, one per line
func Answers(answers []kb.Answer) string {
	if len(answers) == 0 {
		return "no"
	}
	var b strings.Builder
	for i, a := range answers {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Binding(a.Binding))
	}
	return b.String()
}

// Justification writes the support tree of id: every "support option" is
// one (fact, rule) pair, expanded recursively.
func Justification(w io.Writer, g Graph, id kb.ID) error {
	return justify(w, g, id, 0, make(map[kb.ID]bool))
}

func justify(w io.Writer, g Graph, id kb.ID, indent int, onPath map[kb.ID]bool) error {
	info, ok := g.Node(id)
	if !ok {
		return nil
	}
	pad := strings.Repeat(" ", indent)
	if _, err := fmt.Fprintf(w, "%sSupport for\n%s%s\n", pad, pad, describe(info)); err != nil {
		return err
	}
	if onPath[id] {
		_, err := fmt.Fprintf(w, "%s (cycle)\n", pad)
		return err
	}
	onPath[id] = true
	defer delete(onPath, id)

	for _, s := range info.SupportedBy {
		if _, err := fmt.Fprintf(w, "%s support option\n", pad); err != nil {
			return err
		}
		for _, premise := range [2]kb.ID{s.Fact, s.Rule} {
			if err := justify(w, g, premise, indent+2, onPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// Why renders each answer's binding followed by the justification of the
// fact it matched
func Why(g Graph, answers []kb.Answer) string {
	if len(answers) == 0 {
		return "Answer is False, no justification"
	}
	var b strings.Builder
	b.WriteString("Justification:\n")
	for _, a := range answers {
		b.WriteString(Binding(a.Binding))
		b.WriteByte('\n')
		for _, f := range a.Facts {
			// strings.Builder never fails
			_ = Justification(&b, g, f.ID)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func describe(i kb.Info) string {
	if i.Kind == kb.KindRule {
		return "(" + joinStatements(i.LHS) + ") -> " + i.RHS.String()
	}
	s := i.Statement.String()
	if i.Asserted {
		s += " (asserted)"
	}
	return s
}

func joinStatements(sts []logic.Statement) string {
	parts := make([]string, len(sts))
	for i, s := range sts {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

package kb

import (
	"go.uber.org/zap"
)

// Retract withdraws a fact or rule.
//
// A fact that is still justified by some derivation is only demoted: it
// stays stored but is no longer marked asserted. A rule is never removed
// while it is asserted or justified. Otherwise the item is removed and every
// dependent left without justification is removed with it. Refused
// retractions are silent no-ops.
func (kb *KnowledgeBase) Retract(item Item) {
	kind, st, lhs, rhs, ok := itemShape(item)
	if !ok {
		kb.log.Warn("ignoring malformed retraction", zap.Any("item", item))
		return
	}
	key := factKey(st)
	if kind == KindRule {
		key = ruleKey(lhs, rhs)
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	id, ok := kb.index[key]
	if !ok {
		kb.log.Debug("retract: not in knowledge base", zap.Stringer("item", item))
		return
	}
	n := kb.nodes[id]

	switch n.kind {
	case KindRule:
		if n.asserted || len(n.supportedBy) > 0 {
			kb.log.Debug("retract refused: rule is asserted or supported",
				zap.String("item", n.describe()),
				zap.Bool("asserted", n.asserted),
				zap.Int("justifications", len(n.supportedBy)))
			kb.emit(EventRefused, n, nil)
			return
		}
	case KindFact:
		if len(n.supportedBy) > 0 {
			if n.asserted {
				n.asserted = false
				kb.log.Debug("retract: fact demoted to derived", zap.String("item", n.describe()))
				kb.emit(EventDemoted, n, nil)
			} else {
				kb.emit(EventRefused, n, nil)
			}
			return
		}
	}

	kb.remove(id)
}

// remove deletes id and cascades to dependents that lose their last
// justification. Uses an explicit stack so cascade depth does not grow the
// call stack.
func (kb *KnowledgeBase) remove(root ID) {
	stack := []ID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, ok := kb.nodes[id]
		if !ok {
			continue
		}

		deps := make([]ID, 0, len(n.supportsFacts)+len(n.supportsRules))
		deps = append(deps, n.supportsFacts...)
		deps = append(deps, n.supportsRules...)
		for _, did := range deps {
			d, ok := kb.nodes[did]
			if !ok {
				continue
			}
			kb.dropSupport(d, id)
			if len(d.supportedBy) == 0 && !d.asserted {
				stack = append(stack, did)
			}
		}

		kb.delete(n)
	}
}

// dropSupport removes every justification of d that references removed and
// the back-edge on the other premise of each such pair, unless another
// surviving pair still references that premise.
func (kb *KnowledgeBase) dropSupport(d *node, removed ID) {
	var kept, dropped []Support
	for _, s := range d.supportedBy {
		if s.References(removed) {
			dropped = append(dropped, s)
			continue
		}
		kept = append(kept, s)
	}
	d.supportedBy = kept

	for _, s := range dropped {
		partner := s.Fact
		if partner == removed {
			partner = s.Rule
		}
		if partner == removed {
			continue
		}
		kb.unlinkIfUnused(partner, d)
	}
}

func (kb *KnowledgeBase) unlinkIfUnused(pid ID, d *node) {
	for _, s := range d.supportedBy {
		if s.References(pid) {
			return
		}
	}
	p, ok := kb.nodes[pid]
	if !ok {
		return
	}
	if d.kind == KindFact {
		p.supportsFacts = removeID(p.supportsFacts, d.id)
	} else {
		p.supportsRules = removeID(p.supportsRules, d.id)
	}
}

func (kb *KnowledgeBase) delete(n *node) {
	delete(kb.nodes, n.id)
	delete(kb.index, n.key)
	if n.kind == KindFact {
		kb.facts = removeID(kb.facts, n.id)
	} else {
		kb.rules = removeID(kb.rules, n.id)
	}
	kb.log.Debug("removed",
		zap.Stringer("kind", n.kind),
		zap.Uint64("id", uint64(n.id)),
		zap.String("item", n.describe()))
	kb.emit(EventRemoved, n, nil)
}

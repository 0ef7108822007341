package kb

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cognicore/deduce/pkg/deduce/inference"
	"github.com/cognicore/deduce/pkg/deduce/logic"
)

// node is the arena entry shared by facts and rules
type node struct {
	id   ID
	kind Kind
	key  string

	statement logic.Statement
	lhs       []logic.Statement
	rhs       logic.Statement

	asserted      bool
	supportedBy   []Support
	supportsFacts []ID
	supportsRules []ID
}

// pending is an insertion waiting in the assert worklist. support is nil
// for a direct assertion.
type pending struct {
	kind      Kind
	key       string
	statement logic.Statement
	lhs       []logic.Statement
	rhs       logic.Statement
	support   *Support
}

// KnowledgeBase stores facts and rules, forward-chains on every insertion
// and keeps a justification graph for truth maintenance on retraction.
// All methods are safe for concurrent use; mutations are serialized.
type KnowledgeBase struct {
	mu      sync.Mutex
	log     *zap.Logger
	observe Observer

	nextID ID
	nodes  map[ID]*node
	index  map[string]ID
	facts  []ID // storage order
	rules  []ID // storage order
}

// Option configures a KnowledgeBase
type Option func(*KnowledgeBase)

// WithLogger sets the logger used for diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(kb *KnowledgeBase) {
		if l != nil {
			kb.log = l
		}
	}
}

// WithObserver registers a change observer
func WithObserver(fn Observer) Option {
	return func(kb *KnowledgeBase) {
		kb.observe = fn
	}
}

// New creates an empty knowledge base
func New(opts ...Option) *KnowledgeBase {
	kb := &KnowledgeBase{
		log:    zap.NewNop(),
		nextID: 1,
		nodes:  make(map[ID]*node),
		index:  make(map[string]ID),
		facts:  []ID{},
		rules:  []ID{},
	}
	for _, opt := range opts {
		opt(kb)
	}
	return kb
}

// Assert adds a fact or rule as directly asserted knowledge and runs forward
// chaining to closure. Asserting something already present only marks it
// asserted; it never creates a duplicate or chains again.
func (kb *KnowledgeBase) Assert(item Item) {
	kind, st, lhs, rhs, ok := itemShape(item)
	if !ok {
		kb.log.Warn("ignoring malformed assertion", zap.Any("item", item))
		return
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	p := pending{kind: kind, statement: st.Clone(), lhs: logic.CloneAll(lhs), rhs: rhs.Clone()}
	if kind == KindFact {
		p.key = factKey(p.statement)
	} else {
		p.key = ruleKey(p.lhs, p.rhs)
	}
	kb.drain([]pending{p})
}

// drain processes the insertion worklist to quiescence. Dedup is checked
// before an item can schedule further work, which bounds the loop by the
// number of distinct derivable items.
func (kb *KnowledgeBase) drain(queue []pending) {
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if id, ok := kb.index[p.key]; ok {
			kb.merge(kb.nodes[id], p)
			continue
		}
		n := kb.store(p)
		queue = kb.chain(n, queue)
	}
}

func (kb *KnowledgeBase) store(p pending) *node {
	n := &node{
		id:        kb.nextID,
		kind:      p.kind,
		key:       p.key,
		statement: p.statement,
		lhs:       p.lhs,
		rhs:       p.rhs,
		asserted:  p.support == nil,
	}
	kb.nextID++

	kb.nodes[n.id] = n
	kb.index[n.key] = n.id
	if n.kind == KindFact {
		kb.facts = append(kb.facts, n.id)
	} else {
		kb.rules = append(kb.rules, n.id)
	}
	if p.support != nil {
		kb.link(n, *p.support)
	}

	kb.log.Debug("stored",
		zap.Stringer("kind", n.kind),
		zap.Uint64("id", uint64(n.id)),
		zap.String("item", n.describe()),
		zap.Bool("asserted", n.asserted))
	kb.emit(EventStored, n, p.support)
	return n
}

// merge folds a re-insertion into the existing node
func (kb *KnowledgeBase) merge(n *node, p pending) {
	if p.support == nil {
		if !n.asserted {
			n.asserted = true
			kb.log.Debug("asserted derived item", zap.String("item", n.describe()))
			kb.emit(EventAsserted, n, nil)
		}
		return
	}

	s := *p.support
	if s.References(n.id) {
		// An item cannot justify itself.
		return
	}
	for _, have := range n.supportedBy {
		if have == s {
			return
		}
	}
	kb.link(n, s)
	kb.log.Debug("merged support",
		zap.String("item", n.describe()),
		zap.Int("justifications", len(n.supportedBy)))
	kb.emit(EventMerged, n, &s)
}

// link records s as a justification of n together with both back-edges
func (kb *KnowledgeBase) link(n *node, s Support) {
	n.supportedBy = append(n.supportedBy, s)
	for _, pid := range [2]ID{s.Fact, s.Rule} {
		p := kb.nodes[pid]
		if n.kind == KindFact {
			p.supportsFacts = appendUnique(p.supportsFacts, n.id)
		} else {
			p.supportsRules = appendUnique(p.supportsRules, n.id)
		}
	}
}

// chain pairs a freshly stored node with every stored node of the opposite
// kind and queues the conclusions.
func (kb *KnowledgeBase) chain(n *node, queue []pending) []pending {
	if n.kind == KindFact {
		for _, rid := range kb.rules {
			queue = kb.infer(n, kb.nodes[rid], queue)
		}
		return queue
	}
	for _, fid := range kb.facts {
		queue = kb.infer(kb.nodes[fid], n, queue)
	}
	return queue
}

func (kb *KnowledgeBase) infer(fact, rule *node, queue []pending) []pending {
	c, ok := inference.Infer(fact.statement, inference.Rule{LHS: rule.lhs, RHS: rule.rhs})
	if !ok {
		return queue
	}
	s := &Support{Fact: fact.id, Rule: rule.id}
	if c.IsFact() {
		return append(queue, pending{
			kind:      KindFact,
			key:       factKey(c.Fact),
			statement: c.Fact,
			support:   s,
		})
	}
	return append(queue, pending{
		kind:    KindRule,
		key:     ruleKey(c.Rule.LHS, c.Rule.RHS),
		lhs:     c.Rule.LHS,
		rhs:     c.Rule.RHS,
		support: s,
	})
}

// Ask matches a fact-shaped query against every stored fact in storage
// order. Anything other than a non-empty fact yields no answers and a
// warning.
func (kb *KnowledgeBase) Ask(query Item) []Answer {
	kind, st, _, _, ok := itemShape(query)
	if !ok || kind != KindFact {
		kb.log.Warn("invalid ask", zap.Any("query", query))
		return []Answer{}
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	answers := []Answer{}
	for _, fid := range kb.facts {
		n := kb.nodes[fid]
		b, ok := logic.Match(st, n.statement)
		if !ok {
			continue
		}
		answers = append(answers, Answer{Binding: b, Facts: []Info{n.info()}})
	}
	kb.log.Debug("ask",
		zap.String("query", st.String()),
		zap.Int("answers", len(answers)))
	return answers
}

// Lookup returns the stored item structurally equal to item
func (kb *KnowledgeBase) Lookup(item Item) (Info, bool) {
	kind, st, lhs, rhs, ok := itemShape(item)
	if !ok {
		return Info{}, false
	}
	key := factKey(st)
	if kind == KindRule {
		key = ruleKey(lhs, rhs)
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	id, ok := kb.index[key]
	if !ok {
		return Info{}, false
	}
	return kb.nodes[id].info(), true
}

// Node returns the item with the given handle
func (kb *KnowledgeBase) Node(id ID) (Info, bool) {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	n, ok := kb.nodes[id]
	if !ok {
		return Info{}, false
	}
	return n.info(), true
}

// Facts returns all stored facts in storage order
func (kb *KnowledgeBase) Facts() []Info {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.snapshot(kb.facts)
}

// Rules returns all stored rules in storage order
func (kb *KnowledgeBase) Rules() []Info {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.snapshot(kb.rules)
}

// Len returns the number of stored facts and rules
func (kb *KnowledgeBase) Len() (facts, rules int) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return len(kb.facts), len(kb.rules)
}

func (kb *KnowledgeBase) snapshot(ids []ID) []Info {
	out := make([]Info, 0, len(ids))
	for _, id := range ids {
		out = append(out, kb.nodes[id].info())
	}
	return out
}

func (kb *KnowledgeBase) emit(kind EventKind, n *node, s *Support) {
	if kb.observe == nil {
		return
	}
	ev := Event{Kind: kind, Node: n.info()}
	if s != nil {
		cp := *s
		ev.Support = &cp
	}
	kb.observe(ev)
}

func (n *node) info() Info {
	return Info{
		ID:            n.id,
		Kind:          n.kind,
		Asserted:      n.asserted,
		Statement:     n.statement.Clone(),
		LHS:           logic.CloneAll(n.lhs),
		RHS:           n.rhs.Clone(),
		SupportedBy:   append([]Support(nil), n.supportedBy...),
		SupportsFacts: append([]ID(nil), n.supportsFacts...),
		SupportsRules: append([]ID(nil), n.supportsRules...),
	}
}

func (n *node) describe() string {
	if n.kind == KindFact {
		return n.statement.String()
	}
	return Rule{LHS: n.lhs, RHS: n.rhs}.String()
}

func appendUnique(ids []ID, id ID) []ID {
	for _, have := range ids {
		if have == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []ID, id ID) []ID {
	for i, have := range ids {
		if have == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

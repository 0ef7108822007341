// Package deduce is a deductive knowledge base: facts and Horn rules,
// forward chaining to closure on assertion and justification-based truth
// maintenance on retraction.
package deduce

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/journal"
	"github.com/cognicore/deduce/pkg/deduce/kb"
	"github.com/cognicore/deduce/pkg/deduce/parse"
	"github.com/cognicore/deduce/pkg/deduce/render"
)

// Session is the main facade: a knowledge base with a change journal and a
// line-oriented command interpreter
type Session struct {
	kb      *kb.KnowledgeBase
	journal *journal.Journal
	log     *zap.Logger
}

// Options configures a Session
type Options struct {
	Logger          *zap.Logger
	JournalCapacity int
}

// New creates a Session with an empty knowledge base
func New(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	j := journal.New(opts.JournalCapacity)
	return &Session{
		kb:      kb.New(kb.WithLogger(log.Named("kb")), kb.WithObserver(j.Observe)),
		journal: j,
		log:     log,
	}
}

// KB returns the underlying knowledge base
func (s *Session) KB() *kb.KnowledgeBase { return s.kb }

// Journal returns the change journal
func (s *Session) Journal() *journal.Journal { return s.journal }

// Load asserts items in order
func (s *Session) Load(items []kb.Item) {
	for _, item := range items {
		s.kb.Assert(item)
	}
	facts, rules := s.kb.Len()
	s.log.Info("loaded knowledge",
		zap.Int("items", len(items)),
		zap.Int("facts", facts),
		zap.Int("rules", rules))
}

// Exec runs one command line and returns its rendered result:
//
//	fact: (motherof ada bing)      assert a fact ("fact:" optional)
//	rule: ((a ?x)) -> (b ?x)       assert a rule ("rule:" optional)
//	ask: (parentof ada ?X)         list bindings
//	why: (parentof ada ?X)         bindings with their justifications
//	retract: (motherof ada bing)   retract a fact or rule
//	dump                           list every fact and rule
//	journal                        list recorded changes
//
// Blank lines and comments produce an empty result.
func (s *Session) Exec(line string) (string, error) {
	text := strings.TrimSpace(line)
	if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, ";") {
		return "", nil
	}

	cmd, rest := command(text)
	switch cmd {
	case "ask":
		query, err := parse.Item(rest)
		if err != nil {
			return "", fmt.Errorf("ask: %w", err)
		}
		return render.Answers(s.kb.Ask(query)), nil

	case "why":
		query, err := parse.Item(rest)
		if err != nil {
			return "", fmt.Errorf("why: %w", err)
		}
		return render.Why(s.kb, s.kb.Ask(query)), nil

	case "retract":
		item, err := parse.Item(rest)
		if err != nil {
			return "", fmt.Errorf("retract: %w", err)
		}
		s.kb.Retract(item)
		if info, ok := s.kb.Lookup(item); ok {
			return "kept " + render.Info(info), nil
		}
		return "ok", nil

	case "dump":
		if rest != "" {
			return "", fmt.Errorf("%w: dump takes no argument", internalerr.ErrInvalidInput)
		}
		return s.Dump(), nil

	case "journal":
		var b strings.Builder
		if _, err := s.journal.WriteTo(&b); err != nil {
			return "", err
		}
		return strings.TrimRight(b.String(), "\n"), nil

	default:
		item, err := parse.Item(text)
		if err != nil {
			return "", err
		}
		s.kb.Assert(item)
		info, _ := s.kb.Lookup(item)
		return render.Info(info), nil
	}
}

// Dump renders every fact then every rule in storage order
func (s *Session) Dump() string {
	var lines []string
	for _, info := range s.kb.Facts() {
		lines = append(lines, render.Info(info))
	}
	for _, info := range s.kb.Rules() {
		lines = append(lines, render.Info(info))
	}
	return strings.Join(lines, "\n")
}

var commands = []string{"ask", "why", "retract", "dump", "journal"}

// command splits "ask: (p ?x)" into "ask" and "(p ?x)". Lines that do not
// start with a command name are assertions and return "".
func command(text string) (string, string) {
	for _, name := range commands {
		if len(text) < len(name) || !strings.EqualFold(text[:len(name)], name) {
			continue
		}
		rest := text[len(name):]
		switch {
		case rest == "":
			return name, ""
		case rest[0] == ':':
			return name, strings.TrimSpace(rest[1:])
		}
	}
	return "", text
}

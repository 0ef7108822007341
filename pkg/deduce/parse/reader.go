package parse

import (
	"unicode"
	"unicode/utf8"
)

type token struct {
	text       string
	start, end int
}

// expr is an atom or a parenthesized list
type expr struct {
	atom   string
	list   []expr
	isList bool
}

func tokenize(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		c, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case separator(c):
			i += size
		case c == '(' || c == ')':
			toks = append(toks, token{text: string(c), start: i, end: i + 1})
			i++
		default:
			start := i
			for i < len(s) {
				c, size := utf8.DecodeRuneInString(s[i:])
				if separator(c) || c == '(' || c == ')' {
					break
				}
				i += size
			}
			toks = append(toks, token{text: s[start:i], start: start, end: i})
		}
	}
	return toks
}

func separator(c rune) bool {
	return unicode.IsSpace(c) || c == ','
}

// read turns text into a sequence of top-level expressions. An atom directly
// followed by "(" opens a functional-form statement: p(a, b) reads as (p a b).
func read(s string) ([]expr, error) {
	r := &reader{toks: tokenize(s)}
	var out []expr
	for r.pos < len(r.toks) {
		e, err := r.next()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

type reader struct {
	toks []token
	pos  int
}

func (r *reader) next() (expr, error) {
	tok := r.toks[r.pos]
	r.pos++

	switch tok.text {
	case ")":
		return expr{}, invalid("unexpected ')' at offset %d", tok.start)
	case "(":
		return r.list(tok.start, nil)
	}

	if r.pos < len(r.toks) && r.toks[r.pos].text == "(" && r.toks[r.pos].start == tok.end {
		open := r.toks[r.pos]
		r.pos++
		return r.list(open.start, &expr{atom: tok.text})
	}
	return expr{atom: tok.text}, nil
}

func (r *reader) list(openedAt int, head *expr) (expr, error) {
	e := expr{isList: true}
	if head != nil {
		e.list = append(e.list, *head)
	}
	for {
		if r.pos >= len(r.toks) {
			return expr{}, invalid("unclosed '(' at offset %d", openedAt)
		}
		if r.toks[r.pos].text == ")" {
			r.pos++
			return e, nil
		}
		el, err := r.next()
		if err != nil {
			return expr{}, err
		}
		e.list = append(e.list, el)
	}
}

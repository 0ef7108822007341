// Package source loads facts and rules from files. Plain files use the
// textual notation of package parse; HTML documents contribute the contents
// of their <pre class="kb"> and <code class="kb"> blocks.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/kb"
	"github.com/cognicore/deduce/pkg/deduce/parse"
)

// BlockClass marks HTML elements that hold knowledge
const BlockClass = "kb"

// ReadFile parses one file, choosing the format by extension
func ReadFile(path string) ([]kb.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, internalerr.ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()

	var items []kb.Item
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		items, err = ReadHTML(f)
	default:
		items, err = parse.Reader(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// ReadHTML extracts statements from knowledge blocks of an HTML document.
// Blocks are parsed in document order.
func ReadHTML(r io.Reader) ([]kb.Item, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}

	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "pre" || n.Data == "code") && hasClass(n, BlockClass) {
			blocks = append(blocks, textOf(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var items []kb.Item
	for i, block := range blocks {
		parsed, err := parse.String(block)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		items = append(items, parsed...)
	}
	return items, nil
}

// LoadAll parses files concurrently and returns their items concatenated in
// argument order, so assertion order stays deterministic.
func LoadAll(ctx context.Context, paths ...string) ([]kb.Item, error) {
	results := make([][]kb.Item, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items, err := ReadFile(path)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []kb.Item
	for _, items := range results {
		out = append(out, items...)
	}
	return out, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

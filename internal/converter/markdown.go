package converter

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// markdownToPlain flattens markdown to plain text by walking the parsed AST
// and collecting text content. Headings, paragraphs and list items become
// newline-separated lines; markup syntax (hashes, emphasis markers, link
// targets) is discarded so it never pollutes chunk text or keyword scoring.
func markdownToPlain(content []byte) string {
	doc := markdown.Parser().Parse(text.NewReader(content))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(content))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeBlock:
			writeBlockLines(&b, n, content)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			writeBlockLines(&b, n, content)
			return ast.WalkSkipChildren, nil
		case *ast.Heading, *ast.Paragraph, *ast.ListItem, *ast.Blockquote:
			breakLine(&b)
		default:
			// Table rows from the table extension get their own lines.
			kind := n.Kind().String()
			if kind == "TableRow" || kind == "TableHeader" {
				breakLine(&b)
			} else if kind == "TableCell" {
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
					b.WriteByte(' ')
				}
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// breakLine ensures the builder ends with exactly one newline before the next
// block's content is appended.
func breakLine(b *strings.Builder) {
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}
}

// writeBlockLines copies a code block's raw lines into the builder.
func writeBlockLines(b *strings.Builder, n ast.Node, content []byte) {
	breakLine(b)
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(content))
	}
}

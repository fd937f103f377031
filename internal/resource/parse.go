package resource

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// frontMatter is the YAML header of a resource markdown file.
type frontMatter struct {
	Title    string    `yaml:"title"`
	Slug     string    `yaml:"slug"`
	Category string    `yaml:"category"`
	Tags     *[]string `yaml:"tags"`
	Summary  string    `yaml:"summary"`
}

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// Parse builds a Resource from a markdown file. relPath is the path relative
// to the content root using forward slashes; its first directory is the
// default category and its base name the default slug.
func Parse(relPath string, src []byte) (Resource, error) {
	header, body, err := splitFrontMatter(src)
	if err != nil {
		return Resource{}, fmt.Errorf("%s: %w", relPath, err)
	}

	var fm frontMatter
	if len(header) > 0 {
		if err := yaml.Unmarshal(header, &fm); err != nil {
			return Resource{}, fmt.Errorf("%s: parsing front matter: %w", relPath, err)
		}
	}

	r := Resource{
		Slug:     strings.TrimSpace(fm.Slug),
		Title:    strings.TrimSpace(fm.Title),
		Category: strings.TrimSpace(fm.Category),
		Summary:  strings.TrimSpace(fm.Summary),
		Path:     relPath,
	}
	if r.Slug == "" {
		r.Slug = strings.TrimSuffix(path.Base(relPath), ".md")
	}
	if r.Category == "" {
		if dir := path.Dir(relPath); dir != "." {
			r.Category = strings.SplitN(dir, "/", 2)[0]
		}
	}
	if fm.Tags != nil {
		r.Tags = NormalizeTags(*fm.Tags)
	}

	doc := markdown.Parser().Parse(text.NewReader(body))
	heading, para := firstHeadingAndParagraph(doc, body)
	if r.Title == "" {
		r.Title = heading
	}
	if r.Title == "" {
		r.Title = r.Slug
	}
	if r.Summary == "" {
		r.Summary = para
	}

	var buf bytes.Buffer
	if err := markdown.Renderer().Render(&buf, body, doc); err != nil {
		return Resource{}, fmt.Errorf("%s: rendering markdown: %w", relPath, err)
	}
	r.HTML = buf.String()

	if r.Category != "" {
		r.ID = MakeID(r.Category, r.Slug)
	}
	if err := r.Validate(); err != nil {
		return Resource{}, err
	}
	return r, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body. Files without one return a nil header.
func splitFrontMatter(src []byte) (header, body []byte, err error) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	if !bytes.HasPrefix(src, []byte("---")) {
		return nil, src, nil
	}
	rest := src[3:]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || strings.TrimSpace(string(rest[:nl])) != "" {
		return nil, src, nil
	}
	rest = rest[nl+1:]

	for offset := 0; offset < len(rest); {
		end := bytes.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		next := len(rest)
		if end >= 0 {
			line = rest[offset : offset+end]
			next = offset + end + 1
		}
		if strings.TrimRight(string(line), " \t\r") == "---" {
			return rest[:offset], rest[next:], nil
		}
		offset = next
	}
	return nil, nil, fmt.Errorf("unterminated front matter")
}

// firstHeadingAndParagraph returns the plain text of the first H1 and of the
// first paragraph in the document.
func firstHeadingAndParagraph(doc ast.Node, src []byte) (heading, para string) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if heading == "" && node.Level == 1 {
				heading = plainText(node, src)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if para == "" {
				para = plainText(node, src)
			}
			return ast.WalkSkipChildren, nil
		}
		if heading != "" && para != "" {
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return heading, para
}

func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// Package report renders a human-readable HTML overview of a database from
// its markdown description and folder statistics.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/skyvault-labs/s5vector/internal/store"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(highlighting.WithStyle("github")),
	),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} - s5vector report</title>
<style>
body { font-family: -apple-system, sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; color: #1f2328; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #d1d9e0; padding: 0.4rem 0.8rem; text-align: left; }
th { background: #f6f8fa; }
code { background: #f6f8fa; padding: 0.1rem 0.3rem; border-radius: 4px; }
</style>
</head>
<body>
{{.Content}}
</body>
</html>
`

var page = template.Must(template.New("report").Parse(pageTemplate))

// Generate renders the database overview to a standalone HTML page.
func Generate(info store.DatabaseInfo, folders []store.FolderInfo) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", info.Name)
	if info.Description != "" {
		sb.WriteString(info.Description)
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Database\n\n")
	fmt.Fprintf(&sb, "| Property | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Dimensions | %d |\n", info.Dimensions)
	fmt.Fprintf(&sb, "| Vectors | %d |\n", info.VectorCount)
	fmt.Fprintf(&sb, "| Storage | %d bytes |\n", info.StorageSize)
	if info.Owner != "" {
		fmt.Fprintf(&sb, "| Owner | %s |\n", info.Owner)
	}
	if !info.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "| Created | %s |\n", info.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
	}

	if len(folders) > 0 {
		sb.WriteString("\n## Folders\n\n")
		fmt.Fprintf(&sb, "| Folder | Vectors |\n|---|---|\n")
		for _, f := range folders {
			fmt.Fprintf(&sb, "| %s | %d |\n", f.Path, f.VectorCount)
		}
	}

	var body bytes.Buffer
	if err := md.Convert([]byte(sb.String()), &body); err != nil {
		return nil, fmt.Errorf("rendering report markdown: %w", err)
	}

	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title   string
		Content template.HTML
	}{
		Title:   info.Name,
		Content: template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering report page: %w", err)
	}
	return out.Bytes(), nil
}

package http

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/rotisserie/eris"

	"sitesensei/app/internal/page"
)

func renderComponent(ctx context.Context, component templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return nil, eris.Wrap(err, "rendering component")
	}
	return buf.Bytes(), nil
}

// exportedDocument reassembles a standalone HTML file from the stored markup
// and its separated script. The script tag goes back in front of </body> when
// one exists so the download behaves like the rendered page.
func exportedDocument(doc *page.ExportDocument) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		html := doc.HTML
		script := strings.TrimSpace(doc.JavaScript)

		if script == "" {
			_, err := io.WriteString(w, html)
			return err
		}

		scriptTag := "<script>\n" + script + "\n</script>"

		lower := strings.ToLower(html)
		if idx := strings.LastIndex(lower, "</body>"); idx >= 0 {
			if _, err := io.WriteString(w, html[:idx]); err != nil {
				return err
			}
			if _, err := io.WriteString(w, scriptTag+"\n"); err != nil {
				return err
			}
			_, err := io.WriteString(w, html[idx:])
			return err
		}

		if _, err := io.WriteString(w, html); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n"+scriptTag)
		return err
	})
}

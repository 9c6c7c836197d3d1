// Package templates holds the HTMX fragments returned by the import pages.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/fooddir/internal/core"
	"github.com/a-h/templ"
)

// ErrorAlert renders a dismissible error box.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert alert-error" role="alert">`)
		fmt.Fprintf(&b, `<p class="alert-message">%s</p>`, templ.EscapeString(message))
		if action != "" {
			fmt.Fprintf(&b, `<p class="alert-action">%s</p>`, templ.EscapeString(action))
		}
		if code != "" {
			fmt.Fprintf(&b, `<p class="alert-code">Code: %s</p>`, templ.EscapeString(code))
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ImportPreview renders the counts and per-row verdicts of a pending upload,
// with the confirm button only when at least one row will be written.
func ImportPreview(p *core.Preview) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="import-preview">`)
		fmt.Fprintf(&b, `<h2>%s</h2>`, templ.EscapeString(p.FileName))
		fmt.Fprintf(&b, `<p class="counts"><span>%d rows</span> <span class="valid">%d valid</span> <span class="invalid">%d invalid</span></p>`,
			p.TotalRows, p.ValidRows, p.InvalidRows)

		b.WriteString(`<table><thead><tr><th>Row</th><th>Title</th><th>Status</th><th>Messages</th></tr></thead><tbody>`)
		for _, vr := range p.Rows {
			status, class := "Valid", "valid"
			if !vr.Verdict.Valid {
				status, class = "Invalid", "invalid"
			}
			fmt.Fprintf(&b, `<tr class="%s"><td>%d</td><td>%s</td><td>%s</td><td>`,
				class, vr.Row.Number, templ.EscapeString(vr.Title()), status)
			writeMessages(&b, vr.Verdict.Errors, "error")
			writeMessages(&b, vr.Verdict.Warnings, "warning")
			b.WriteString(`</td></tr>`)
		}
		b.WriteString(`</tbody></table>`)

		if len(p.Issues) > len(p.Rows) {
			fmt.Fprintf(&b, `<p class="more-issues">%d rows have messages in total.</p>`, len(p.Issues))
		}
		if p.ValidRows > 0 {
			fmt.Fprintf(&b, `<button hx-post="/import/confirm" hx-target="#import-preview" hx-swap="outerHTML">Import %d locations</button>`, p.ValidRows)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ImportSummary renders a finished import run.
func ImportSummary(r *core.ImportResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="import-results">`)
		fmt.Fprintf(&b, `<p class="counts"><span class="valid">%d imported</span> <span class="skipped">%d skipped</span> <span class="invalid">%d failed</span></p>`,
			r.Success, r.Skipped, r.Failed)
		if len(r.Errors) > 0 {
			b.WriteString(`<ul class="row-errors">`)
			for _, e := range r.Errors {
				fmt.Fprintf(&b, `<li>Row %d (%s): %s</li>`,
					e.RowNumber, templ.EscapeString(e.Title), templ.EscapeString(strings.Join(e.Errors, "; ")))
			}
			b.WriteString(`</ul>`)
			b.WriteString(`<a href="/import/report" download>Download error report</a>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeMessages(b *strings.Builder, msgs []string, class string) {
	if len(msgs) == 0 {
		return
	}
	fmt.Fprintf(b, `<ul class="%s">`, class)
	for _, m := range msgs {
		fmt.Fprintf(b, `<li>%s</li>`, templ.EscapeString(m))
	}
	b.WriteString(`</ul>`)
}

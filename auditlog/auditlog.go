// Package auditlog renders applied ChangeSets to Markdown and emits them
// as structured log lines, grounded on veille's pipeline.Pipeline
// converter setup (SPEC_FULL.md §5 "Supplemented Features").
package auditlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"github.com/hazyhaar/domundo/internal/change"
	"github.com/hazyhaar/domundo/internal/domtree"
	"github.com/hazyhaar/domundo/kit"
)

// Logger renders ChangeSets to Markdown for structured audit logging.
type Logger struct {
	log *slog.Logger
	md  *converter.Converter
}

// New builds a Logger. A nil log defaults to slog.Default().
func New(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{
		log: log,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Log renders cs and emits it as one structured log line.
func (l *Logger) Log(cs change.ChangeSet) {
	summary, err := l.Render(cs)
	if err != nil {
		l.log.Error("auditlog: render failed", "error", err)
		return
	}
	l.log.Info("domundo: change applied",
		"id", cs.ID,
		"type", cs.Meta.Type,
		"changes", len(cs.Changes),
		"summary", summary,
	)
}

// LogContext is Log plus the caller identity kit carries on ctx: which
// transport the edit arrived over, the request ID a transport-level
// middleware attached, and, once authenticated, the user ID from the
// validated token. Each falls back to its kit default when ctx carries
// none.
func (l *Logger) LogContext(ctx context.Context, cs change.ChangeSet) {
	summary, err := l.Render(cs)
	if err != nil {
		l.log.Error("auditlog: render failed", "error", err)
		return
	}
	l.log.Info("domundo: change applied",
		"id", cs.ID,
		"type", cs.Meta.Type,
		"changes", len(cs.Changes),
		"summary", summary,
		"transport", kit.GetTransport(ctx),
		"requestID", kit.GetRequestID(ctx),
		"userID", kit.GetUserID(ctx),
	)
}

// Render converts cs into a Markdown summary: one list item per Change,
// inserted/deleted content rendered as the HTML it represents.
func (l *Logger) Render(cs change.ChangeSet) (string, error) {
	var html strings.Builder
	html.WriteString("<ul>\n")
	for _, c := range cs.Changes {
		html.WriteString("<li>")
		html.WriteString(describeChange(c))
		html.WriteString("</li>\n")
	}
	html.WriteString("</ul>\n")

	out, err := l.md.ConvertString(html.String())
	if err != nil {
		return "", fmt.Errorf("auditlog: convert to markdown: %w", err)
	}
	return out, nil
}

func describeChange(c change.Change) string {
	switch c.Kind {
	case change.KindInsert:
		return "insert: " + renderContent(c.Content)
	case change.KindDelete:
		return "delete: " + renderContent(c.Content)
	case change.KindUpdateAttr:
		parts := make([]string, 0, len(c.Attrs))
		for _, a := range c.Attrs {
			parts = append(parts, fmt.Sprintf("%s: %q &rarr; %q", a.Name, a.OldValue, a.NewValue))
		}
		return "attr update: " + strings.Join(parts, ", ")
	case change.KindUpdateRange:
		return "selection update"
	default:
		return "unrecognized change"
	}
}

func renderContent(nodes []change.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(domtree.RenderHTML(change.Materialize(n)))
	}
	return b.String()
}

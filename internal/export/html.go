// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/pocketstudio/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports sessions to a standalone HTML page.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a session to HTML.
func (e *HTMLExporter) Export(s *model.ChatSession) ([]byte, error) {
	if err := validate(s); err != nil {
		return nil, err
	}

	theme := e.options.Theme
	if theme != "dark" {
		theme = "light"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html>\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", html.EscapeString(s.Title))
	sb.WriteString("    <meta name=\"generator\" content=\"pocketstudio\">\n")
	fmt.Fprintf(&sb, "    <meta name=\"date\" content=\"%s\">\n", s.Created().Format(time.RFC3339))
	sb.WriteString(css)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", theme)
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString("        <header class=\"header\">\n")
		fmt.Fprintf(&sb, "            <h1>%s</h1>\n", html.EscapeString(s.Title))
		fmt.Fprintf(&sb, "            <div class=\"metadata\">%s &middot; %d messages</div>\n",
			formatTimestamp(s.Created()), len(s.Messages))
		sb.WriteString("        </header>\n")
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for i := range s.Messages {
		sb.WriteString(e.renderMessage(&s.Messages[i], theme))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	fmt.Fprintf(&sb, "            <p>Exported from <strong>pocketstudio</strong> on %s</p>\n",
		e.options.now().Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string { return ".html" }

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string { return "text/html" }

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderMessage(msg *model.Message, theme string) string {
	var sb strings.Builder

	class := "model-message"
	if msg.Role == model.RoleUser {
		class = "user-message"
	}
	if msg.Failed {
		class += " failed"
	}
	fmt.Fprintf(&sb, "            <div class=\"message %s\">\n", class)
	sb.WriteString("                <div class=\"message-header\">\n")
	fmt.Fprintf(&sb, "                    <span class=\"role-label\">%s</span>\n", msg.Role.DisplayName())
	if e.options.IncludeTimestamps {
		fmt.Fprintf(&sb, "                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Time()))
	}
	sb.WriteString("                </div>\n")

	if msg.HasImage() && strings.HasPrefix(msg.Image, "data:image/") {
		fmt.Fprintf(&sb, "                <img class=\"attachment\" alt=\"attachment\" src=\"%s\">\n", html.EscapeString(msg.Image))
	}

	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(formatContent(msg.Text, theme))
	sb.WriteString("\n                </div>\n")
	sb.WriteString("            </div>\n")
	return sb.String()
}

// =============================================================================
// CONTENT FORMATTING
// =============================================================================

var (
	codeBlockRegex  = regexp.MustCompile("(?s)```([a-zA-Z0-9_+#-]*)\n(.*?)```")
	inlineCodeRegex = regexp.MustCompile("`([^`\n]+)`")
)

// formatContent renders fenced code through chroma and the remaining text
// as escaped paragraphs.
func formatContent(content, theme string) string {
	var out strings.Builder
	rest := content
	for {
		loc := codeBlockRegex.FindStringSubmatchIndex(rest)
		if loc == nil {
			out.WriteString(formatProse(rest))
			break
		}
		out.WriteString(formatProse(rest[:loc[0]]))
		lang := rest[loc[2]:loc[3]]
		code := rest[loc[4]:loc[5]]
		out.WriteString(highlightCode(code, lang, theme))
		rest = rest[loc[1]:]
	}
	return out.String()
}

func formatProse(text string) string {
	var paras []string
	for _, p := range strings.Split(strings.TrimSpace(text), "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = html.EscapeString(p)
		p = inlineCodeRegex.ReplaceAllString(p, "<code class=\"inline-code\">$1</code>")
		p = strings.ReplaceAll(p, "\n", "<br>\n")
		paras = append(paras, "<p>"+p+"</p>")
	}
	return strings.Join(paras, "\n")
}

// highlightCode renders a code block with inline styles. Unknown languages
// are detected from the code, then fall back to plain text.
func highlightCode(code, lang, theme string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	styleName := "github"
	if theme == "dark" {
		styleName = "monokai"
	}
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	label := ""
	if lang != "" {
		label = fmt.Sprintf("<div class=\"code-lang\">%s</div>", html.EscapeString(lang))
	}

	iterator, err := lexer.Tokenise(nil, strings.TrimRight(code, "\n"))
	if err != nil {
		return fmt.Sprintf("<div class=\"code-block\">%s<pre><code>%s</code></pre></div>", label, html.EscapeString(code))
	}
	var buf strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4))
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return fmt.Sprintf("<div class=\"code-block\">%s<pre><code>%s</code></pre></div>", label, html.EscapeString(code))
	}
	return fmt.Sprintf("<div class=\"code-block\">%s%s</div>", label, buf.String())
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const css = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        .light-theme {
            --bg: #f3f4f6; --card: #ffffff; --text: #111827; --muted: #6b7280;
            --user: #2563eb; --user-text: #ffffff; --model: #f9fafb; --border: #e5e7eb;
        }
        .dark-theme {
            --bg: #111827; --card: #1f2937; --text: #f9fafb; --muted: #9ca3af;
            --user: #3b82f6; --user-text: #ffffff; --model: #374151; --border: #4b5563;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
            background: var(--bg); color: var(--text); line-height: 1.6; padding: 20px;
        }
        .container { max-width: 720px; margin: 0 auto; background: var(--card); border-radius: 24px; overflow: hidden; }
        .header { padding: 24px; border-bottom: 1px solid var(--border); }
        .header h1 { font-size: 22px; }
        .metadata { color: var(--muted); font-size: 13px; }
        .conversation { padding: 16px 24px; display: flex; flex-direction: column; gap: 12px; }
        .message { max-width: 85%; padding: 12px 16px; border-radius: 18px; }
        .user-message { align-self: flex-end; background: var(--user); color: var(--user-text); }
        .model-message { align-self: flex-start; background: var(--model); border: 1px solid var(--border); }
        .failed { border: 1px dashed #ef4444; }
        .message-header { display: flex; gap: 8px; font-size: 12px; opacity: 0.8; margin-bottom: 4px; }
        .message-content p { margin: 6px 0; }
        .attachment { max-width: 100%; border-radius: 12px; margin-bottom: 6px; }
        .code-block { margin: 8px 0; border-radius: 8px; overflow-x: auto; font-size: 13px; }
        .code-block pre { padding: 12px; }
        .code-lang { font-size: 11px; color: var(--muted); padding: 4px 12px 0; }
        .inline-code { font-family: monospace; background: rgba(127,127,127,0.15); padding: 1px 4px; border-radius: 4px; }
        .footer { padding: 16px 24px; color: var(--muted); font-size: 12px; text-align: center; border-top: 1px solid var(--border); }
    </style>
`

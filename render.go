package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/decker502/halabi/pkg/genai"
)

// 命令行输出样式
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f59e0b"))
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fbbf24")).
			MarginTop(1)
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ca3af"))
	ctaStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#050505")).
			Background(lipgloss.Color("#f59e0b")).
			Padding(0, 1)
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#f59e0b")).
			Padding(0, 1)
)

// markdownWidth 终端 markdown 换行宽度
const markdownWidth = 80

// renderMarkdown 用 glamour 渲染 markdown，失败时原样返回
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWidth),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}

// formatAd 格式化营销文案
func formatAd(ad *genai.AdSuggestion) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(ad.Headline))
	b.WriteString("\n\n")
	b.WriteString(ad.Body)
	b.WriteString("\n")
	if ad.CTA != "" {
		b.WriteString("\n")
		b.WriteString(ctaStyle.Render(ad.CTA))
		b.WriteString("\n")
	}
	if ad.Platform != "" {
		b.WriteString(mutedStyle.Render("Platform: " + ad.Platform))
		b.WriteString("\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// trendsMarkdown 把趋势文本和来源组合成 markdown
func trendsMarkdown(category string, t *genai.Trends) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Market trends: %s\n\n", category)
	b.WriteString(strings.TrimSpace(t.Text))
	b.WriteString("\n")
	if len(t.Sources) > 0 {
		b.WriteString("\n## Sources\n\n")
		for _, s := range t.Sources {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	return b.String()
}

func printHeading(w io.Writer, text string) {
	fmt.Fprintln(w, headingStyle.Render(text))
}

func printMuted(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

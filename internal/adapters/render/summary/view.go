// Package summary renders the human readable report printed after a distill run
// and the listing of stored chats.
package summary

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/chat-distiller/internal/application"
	"github.com/bnema/chat-distiller/internal/domain"
	"github.com/bnema/chat-distiller/internal/extract"
)

const ratioBarWidth = 24

type RenderOptions struct {
	Now time.Time
}

// Distill describes one finished distill run.
type Distill struct {
	Transcript application.Transcript
	// Output is where the messages were written; "-" for stdout.
	Output string
	Stored *application.StoreResult
}

func RenderDistill(d Distill, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderDistill(d, opts, s)
	})
}

func RenderChats(records []domain.ChatRecord, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderChats(records, opts, s)
	})
}

func renderDistill(d Distill, opts RenderOptions, s styles) string {
	t := d.Transcript
	lines := []string{
		s.success.Render("Conversation distilled"),
	}
	if t.ShareID != "" {
		lines = append(lines, s.header.Render(fmt.Sprintf("share: %s", t.ShareID)))
	}
	if t.PageTitle != "" {
		lines = append(lines, s.chat.Render(t.PageTitle))
	}

	user, assistant := domain.CountRoles(t.Messages)
	details := []string{
		keyValue(s, "source", strategyLabel(t.Strategy)),
		keyValue(s, "messages", messagesLabel(len(t.Messages), t.Total)),
		ratioLine(user, assistant, s),
	}
	if d.Output != "" {
		details = append(details, keyValue(s, "output", outputLabel(d.Output)))
	}
	if d.Stored != nil {
		action := "updated"
		if d.Stored.Created {
			action = "created"
		}
		details = append(details, keyValue(s, "stored", fmt.Sprintf("%s (%s)", d.Stored.Dir, action)))
	}

	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, details...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderChats(records []domain.ChatRecord, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Stored Chats"),
		s.header.Render(fmt.Sprintf("chats: %d", len(records))),
	}

	if len(records) == 0 {
		lines = append(lines, s.empty.Render("No chats stored yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, record := range records {
		lines = append(lines, s.section.Render(renderChat(record, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderChat(record domain.ChatRecord, opts RenderOptions, s styles) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		s.chat.Render(fmt.Sprintf("%s (%s)", record.Title, record.ShareID.ShortID())),
		s.detail.Render(fmt.Sprintf("%d messages", record.MessageCount))+" "+
			s.meta.Render(fmt.Sprintf("(%s)", formatUpdated(record.LastUpdatedAt, opts.Now))),
		s.meta.Render(record.ShareURL),
	)
}

func keyValue(s styles, key, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.key.Render(key+":"), " ", s.detail.Render(value))
}

func strategyLabel(strategy extract.Strategy) string {
	switch strategy {
	case extract.StrategyNextData:
		return "__NEXT_DATA__ script"
	case extract.StrategyStream:
		return "stream chunks"
	default:
		return "unknown"
	}
}

func messagesLabel(shown, total int) string {
	if shown == total {
		return fmt.Sprintf("%d", shown)
	}
	return fmt.Sprintf("%d (last %d of %d)", shown, shown, total)
}

func outputLabel(output string) string {
	if output == "-" {
		return "stdout"
	}
	return output
}

// ratioLine shows the user share of the transcript as a bar.
func ratioLine(user, assistant int, s styles) string {
	total := user + assistant
	percent := 0.0
	if total > 0 {
		percent = 100 * float64(user) / float64(total)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.key.Render("roles:"),
		" ",
		renderProgressBar(percent, ratioBarWidth, s),
		" ",
		s.meta.Render(fmt.Sprintf("user %d / assistant %d", user, assistant)),
	)
}

func renderProgressBar(filledPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(filledPercent) / 100))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatUpdated(updatedAt, now time.Time) string {
	if updatedAt.IsZero() {
		return "never updated"
	}
	if now.IsZero() || updatedAt.After(now) {
		return "updated " + updatedAt.Format("15:04 on 02 Jan 2006")
	}

	elapsed := now.Sub(updatedAt)
	switch {
	case elapsed < time.Minute:
		return "updated just now"
	case elapsed < time.Hour:
		return "updated " + plural(int(elapsed.Minutes()), "minute") + " ago"
	case elapsed < 24*time.Hour:
		return "updated " + plural(int(elapsed.Hours()), "hour") + " ago"
	default:
		return "updated " + plural(int(elapsed.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

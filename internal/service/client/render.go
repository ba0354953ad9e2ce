package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Column widths of the alarm table.
const (
	idWidth     = 4
	timeWidth   = 7
	repeatWidth = 20
	statusWidth = 11
	labelWidth  = 20
)

//nolint:gochecknoglobals // Read-only styles.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nextStyle   = lipgloss.NewStyle().Italic(true)

	statusStyles = map[domain.Status]lipgloss.Style{
		domain.Enabled:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		domain.Disabled:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		domain.Triggered: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		domain.Snoozed:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
)

// RenderList renders the alarm table and the next-alarm line.
func RenderList(alarms []domain.Alarm, next string) string {
	if len(alarms) == 0 {
		return dimStyle.Render("No alarms set") + "\n" + nextStyle.Render(next) + "\n"
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render(row("ID", "TIME", "REPEAT", "STATUS", "LABEL", "MUSIC")))
	b.WriteString("\n")

	for _, a := range alarms {
		b.WriteString(row(
			strconv.Itoa(a.ID),
			domain.FormatTime(a.Hour, a.Minute),
			repeatOf(a),
			statusOf(a),
			a.Label,
			a.MusicName,
		))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(nextStyle.Render(next))
	b.WriteString("\n")

	return b.String()
}

// RenderAlarm renders every field of one alarm, one per line.
func RenderAlarm(a domain.Alarm) string {
	var b strings.Builder

	field := func(name, value string) {
		fmt.Fprintf(&b, "%s %s\n", headerStyle.Render(fmt.Sprintf("%-9s", name+":")), value)
	}

	field("ID", strconv.Itoa(a.ID))
	field("Time", domain.FormatTime(a.Hour, a.Minute))
	field("Repeat", repeatOf(a))
	field("Status", statusOf(a))
	field("Snoozes", fmt.Sprintf("%d/%d (%d min)", a.SnoozeCount, a.MaxSnoozeCount, a.SnoozeMinutes))

	if a.Label != "" {
		field("Label", a.Label)
	}

	if a.MusicName != "" {
		field("Music", a.MusicName)
	}

	return b.String()
}

// row lays out one table line. Status may carry styling and is never truncated.
func row(id, at, repeat, status, label, music string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		cell(truncate(id, idWidth), idWidth),
		cell(truncate(at, timeWidth), timeWidth),
		cell(truncate(repeat, repeatWidth), repeatWidth),
		cell(status, statusWidth),
		cell(truncate(label, labelWidth), labelWidth),
		music,
	)
}

func cell(value string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(value)
}

// truncate shortens value so that it fits width columns with one column of spacing.
func truncate(value string, width int) string {
	runes := []rune(value)
	if len(runes) < width {
		return value
	}

	return string(runes[:width-2]) + "…"
}

func repeatOf(a domain.Alarm) string {
	if a.Repeat == domain.Custom {
		return "custom: " + a.Weekdays.String()
	}

	return a.Repeat.String()
}

func statusOf(a domain.Alarm) string {
	style, ok := statusStyles[a.Status]
	if !ok {
		return a.Status.String()
	}

	return style.Render(a.Status.String())
}

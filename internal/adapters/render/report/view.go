package report

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/clubops/eventwatch/internal/domain"
)

const dateFormat = "2006-01-02 15:04:05 -0700"

// Render produces the line-oriented change report, one block per entry in
// the order the diff produced them.
func Render(entries []domain.ReportEntry) (string, error) {
	s := newStyles()

	if len(entries) == 0 {
		return s.empty.Render("No event changes."), nil
	}

	blocks := make([]string, 0, len(entries))
	for _, entry := range entries {
		block, err := renderEntry(entry, s)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...), nil
}

func renderEntry(entry domain.ReportEntry, s styles) (string, error) {
	event := entry.Event

	start, err := event.StartDate()
	if err != nil {
		return "", err
	}
	end, err := event.EndDate()
	if err != nil {
		return "", err
	}

	typeStyle := s.typeNew
	if entry.Type == domain.ReportUpdate {
		typeStyle = s.typeUpdate
	}

	lines := []string{
		s.separator.Render("=========================="),
		s.name.Render("Name: " + event.Name()),
		typeStyle.Render("TYPE: " + string(entry.Type)),
		s.detail.Render(fmt.Sprintf("ID: %d", event.ID())),
		s.detail.Render("StartDate: " + start.Format(dateFormat)),
		s.detail.Render("EndDate: " + end.Format(dateFormat)),
		s.detail.Render(fmt.Sprintf("Attendees: %d/%s (%d pending)",
			event.ConfirmedCount(), limitLabel(event), event.PendingCount())),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...), nil
}

func limitLabel(event domain.Event) string {
	limit, ok := event.RegistrationsLimit()
	if !ok {
		return "-"
	}
	return strconv.FormatInt(limit, 10)
}

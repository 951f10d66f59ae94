package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
	"github.com/Shivanand-hulikatti/eventdesk/internal/service"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	authorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	avatarStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(lipgloss.Color("8"))
	commentStyle = lipgloss.NewStyle().PaddingLeft(4)
)

const timeLayout = "2006-01-02 15:04"

func renderPhase(phase model.BookingPhase) string {
	switch phase {
	case model.PhaseAvailable:
		return okStyle.Render("[available]")
	case model.PhaseUnavailable:
		return errStyle.Render("[sold out]")
	case model.PhaseConflictPending:
		return warnStyle.Render("[already booked]")
	case model.PhaseReserving:
		return warnStyle.Render("[reserving…]")
	case model.PhaseCancelling:
		return warnStyle.Render("[cancelling…]")
	default:
		return ""
	}
}

func renderTags(e model.Event) string {
	tags := e.VisibleTags()
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = tagStyle.Render("#" + t)
	}
	return strings.Join(parts, " ")
}

// renderEventLine is the one-line summary used in listings.
func renderEventLine(e model.Event, phase model.BookingPhase) string {
	parts := []string{
		faintStyle.Render(fmt.Sprintf("%4s", e.ID)),
		titleStyle.Render(e.Title),
	}
	if counter := e.TicketCounter(); counter != "" {
		parts = append(parts, faintStyle.Render("tickets "+counter))
	}
	if phase != "" {
		parts = append(parts, renderPhase(phase))
	}
	if tags := renderTags(e); tags != "" {
		parts = append(parts, tags)
	}
	return strings.Join(parts, "  ")
}

func renderEventList(events []model.Event, phaseOf func(model.ID) model.BookingPhase) string {
	if len(events) == 0 {
		return faintStyle.Render("No events found.") + "\n"
	}
	var b strings.Builder
	for _, e := range events {
		b.WriteString(renderEventLine(e, phaseOf(e.ID)))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderEventDetail(st service.BookingSnapshot) string {
	e := st.Event
	var b strings.Builder
	b.WriteString(titleStyle.Render(e.Title))
	b.WriteString("  ")
	b.WriteString(renderPhase(st.Phase))
	b.WriteByte('\n')
	if tags := renderTags(e); tags != "" {
		b.WriteString(tags)
		b.WriteByte('\n')
	}
	meta := fmt.Sprintf("views %d", e.ViewsCount)
	if counter := e.TicketCounter(); counter != "" {
		meta += "  tickets " + counter
	}
	if !e.CreatedAt.IsZero() {
		meta += "  " + e.CreatedAt.Local().Format(timeLayout)
	}
	b.WriteString(faintStyle.Render(meta))
	b.WriteByte('\n')
	if e.Text != "" {
		b.WriteByte('\n')
		b.WriteString(e.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func renderAvailability(a model.Availability) string {
	if a.Limit == nil {
		return okStyle.Render("unlimited") + faintStyle.Render(fmt.Sprintf("  booked %d", a.Booked)) + "\n"
	}
	state := okStyle.Render("available")
	if !a.IsAvailable {
		state = errStyle.Render("sold out")
	}
	return fmt.Sprintf("%s  %d of %d left  booked %d\n", state, a.Available, *a.Limit, a.Booked)
}

// renderComment marks the viewer's own comments with "(you)" and comments the
// server lets the viewer change with "(editable)".
func renderComment(c model.Comment, mine, canModify bool) string {
	avatar := avatarStyle.Render(c.AuthorInitial())
	if url := c.AuthorAvatarURL(); url != "" {
		avatar = faintStyle.Render(url)
	}
	author := authorStyle.Render(c.AuthorName())
	if mine {
		author += " " + faintStyle.Render("(you)")
	}
	header := fmt.Sprintf("%s %s  %s", avatar, author, faintStyle.Render("#"+c.ID.String()))
	if !c.CreatedAt.IsZero() {
		header += "  " + faintStyle.Render(c.CreatedAt.Local().Format(timeLayout))
	}
	if canModify {
		header += "  " + faintStyle.Render("(editable)")
	}
	return header + "\n" + commentStyle.Render(c.Body) + "\n"
}

func renderComments(snap service.CommentSnapshot, viewer model.Viewer, canModify func(model.Comment) bool) string {
	switch snap.ListStatus {
	case model.ListLoading:
		return faintStyle.Render("Loading comments…") + "\n"
	case model.ListError:
		return errStyle.Render("Could not load comments.") + "\n"
	}
	if len(snap.Items) == 0 {
		return faintStyle.Render("No comments yet.") + "\n"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Comments (%d)", len(snap.Items))))
	b.WriteByte('\n')
	for _, c := range snap.Items {
		b.WriteString(renderComment(c, viewer.Owns(c), canModify(c)))
	}
	return b.String()
}

func renderOutcome(o service.Outcome, title string) string {
	switch o {
	case service.OutcomeBooked:
		return okStyle.Render("Booked a ticket for "+title) + "\n"
	case service.OutcomeCancelled:
		return okStyle.Render("Reservation for "+title+" cancelled") + "\n"
	case service.OutcomeDismissed:
		return faintStyle.Render("Kept your existing reservation for "+title) + "\n"
	case service.OutcomeConflictPending:
		return warnStyle.Render("You already hold a ticket for "+title) + "\n"
	default:
		return ""
	}
}

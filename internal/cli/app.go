// Package cli is the terminal front end. It parses subcommands, drives the
// comment store and booking controller, and renders their state.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
	"github.com/Shivanand-hulikatti/eventdesk/internal/service"
)

// Gateway is the remote surface the CLI uses directly, on top of what the
// services need.
type Gateway interface {
	service.CommentGateway
	service.BookingGateway
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListEventsByTag(ctx context.Context, tag string) ([]model.Event, error)
	MyTickets(ctx context.Context) ([]model.Event, error)
	Availability(ctx context.Context, eventID model.ID) (*model.Availability, error)
}

// App wires the services to the terminal.
type App struct {
	gw       Gateway
	viewer   model.Viewer
	comments *service.CommentStore
	booking  *service.Controller
	confirm  Confirmer
	out      io.Writer
	status   io.Writer
	log      logrus.FieldLogger
}

// Options configures an App.
type Options struct {
	Viewer  model.Viewer
	Confirm Confirmer
	Out     io.Writer // command output
	Status  io.Writer // progress lines, usually stderr
}

// New constructs an App and subscribes its progress output to the services.
func New(gw Gateway, opts Options, logger logrus.FieldLogger) *App {
	a := &App{
		gw:       gw,
		viewer:   opts.Viewer,
		comments: service.NewCommentStore(gw, opts.Viewer, logger),
		booking:  service.NewController(gw, opts.Viewer, logger),
		confirm:  opts.Confirm,
		out:      opts.Out,
		status:   opts.Status,
		log:      logger.WithField("component", "cli"),
	}
	if a.confirm == nil {
		a.confirm = AutoConfirm(false)
	}
	if a.status == nil {
		a.status = io.Discard
	}
	a.booking.Subscribe(a.bookingProgress)
	a.comments.Subscribe(a.commentProgress)
	return a
}

func (a *App) bookingProgress(s service.BookingSnapshot) {
	switch s.Phase {
	case model.PhaseReserving:
		fmt.Fprintf(a.status, "reserving a ticket for %s…\n", s.EventID)
	case model.PhaseCancelling:
		fmt.Fprintf(a.status, "cancelling reservation for %s…\n", s.EventID)
	}
}

func (a *App) commentProgress(s service.CommentSnapshot) {
	switch {
	case s.Create.Status == model.StatusLoading:
		fmt.Fprintln(a.status, "posting comment…")
	case s.Update.Status == model.StatusLoading:
		fmt.Fprintln(a.status, "saving comment…")
	case s.Delete.Status == model.StatusLoading:
		fmt.Fprintln(a.status, "deleting comment…")
	}
}

type command struct {
	name    string
	usage   string
	summary string
	flags   func(fs *pflag.FlagSet)
	run     func(ctx context.Context, fs *pflag.FlagSet, args []string) error
}

func (a *App) commands() []command {
	return []command{
		{name: "events", usage: "events [--tag TAG]", summary: "list events", flags: func(fs *pflag.FlagSet) {
			fs.String("tag", "", "only events carrying this tag")
		}, run: a.runEvents},
		{name: "show", usage: "show EVENT", summary: "show an event with its comments", run: a.runShow},
		{name: "availability", usage: "availability EVENT", summary: "show ticket availability", run: a.runAvailability},
		{name: "tickets", usage: "tickets", summary: "list events you hold a ticket for", run: a.runTickets},
		{name: "book", usage: "book EVENT [--yes]", summary: "reserve a ticket", flags: yesFlag, run: a.runBook},
		{name: "cancel", usage: "cancel EVENT", summary: "cancel your reservation", run: a.runCancel},
		{name: "comment", usage: "comment add|edit|delete ...", summary: "manage comments", flags: yesFlag, run: a.runComment},
	}
}

func yesFlag(fs *pflag.FlagSet) {
	fs.BoolP("yes", "y", false, "answer yes to confirmation prompts")
}

// Execute dispatches args to a subcommand.
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		a.PrintUsage(a.out)
		return nil
	}
	for _, cmd := range a.commands() {
		if cmd.name != args[0] {
			continue
		}
		fs := pflag.NewFlagSet(cmd.name, pflag.ContinueOnError)
		fs.SetOutput(io.Discard)
		if cmd.flags != nil {
			cmd.flags(fs)
		}
		if err := fs.Parse(args[1:]); err != nil {
			return fmt.Errorf("%s: %w (usage: %s)", cmd.name, err, cmd.usage)
		}
		return cmd.run(ctx, fs, fs.Args())
	}
	return fmt.Errorf("unknown command %q; run 'eventdesk help' for usage", args[0])
}

// PrintUsage writes the command list.
func (a *App) PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: eventdesk [global flags] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range a.commands() {
		fmt.Fprintf(w, "  %-30s %s\n", cmd.usage, cmd.summary)
	}
}

func eventArg(args []string, usage string) (model.ID, error) {
	if len(args) < 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("missing event id (usage: %s)", usage)
	}
	return model.ID(args[0]), nil
}

// ─── Events & tickets ────────────────────────────────────────────────────────

func (a *App) runEvents(ctx context.Context, fs *pflag.FlagSet, _ []string) error {
	tag, _ := fs.GetString("tag")

	var (
		events []model.Event
		err    error
	)
	if tag != "" {
		events, err = a.gw.ListEventsByTag(ctx, strings.TrimPrefix(tag, "#"))
	} else {
		events, err = a.gw.ListEvents(ctx)
	}
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	a.track(events)
	fmt.Fprint(a.out, renderEventList(events, a.phaseOf))
	return nil
}

func (a *App) runTickets(ctx context.Context, _ *pflag.FlagSet, _ []string) error {
	events, err := a.gw.MyTickets(ctx)
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}
	a.track(events)
	fmt.Fprint(a.out, renderEventList(events, a.phaseOf))
	return nil
}

func (a *App) runAvailability(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	eventID, err := eventArg(args, "availability EVENT")
	if err != nil {
		return err
	}
	avail, err := a.gw.Availability(ctx, eventID)
	if err != nil {
		return fmt.Errorf("availability: %w", err)
	}
	fmt.Fprint(a.out, renderAvailability(*avail))
	return nil
}

func (a *App) runShow(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	eventID, err := eventArg(args, "show EVENT")
	if err != nil {
		return err
	}

	// The comment list renders its own error state, so only the event
	// fetch fails the command.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.booking.Reload(gctx, eventID) })
	g.Go(func() error {
		if err := a.comments.LoadComments(gctx, eventID); err != nil {
			a.log.WithError(err).WithField("event_id", eventID).Debug("comments unavailable")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	st, _ := a.booking.State(eventID)
	fmt.Fprint(a.out, renderEventDetail(st))
	fmt.Fprintln(a.out)
	fmt.Fprint(a.out, renderComments(a.comments.Snapshot(), a.viewer, a.comments.CanModify))
	return nil
}

func (a *App) runBook(ctx context.Context, fs *pflag.FlagSet, args []string) error {
	eventID, err := eventArg(args, "book EVENT")
	if err != nil {
		return err
	}
	if err := a.booking.Reload(ctx, eventID); err != nil {
		return err
	}
	title := a.title(eventID)

	outcome, err := a.booking.Reserve(ctx, eventID)
	if err != nil {
		if errors.Is(err, service.ErrSoldOut) {
			fmt.Fprint(a.out, errStyle.Render("No tickets left for "+title)+"\n")
		}
		return err
	}
	fmt.Fprint(a.out, renderOutcome(outcome, title))
	if outcome != service.OutcomeConflictPending {
		return nil
	}

	confirmed, err := a.ask(fs, fmt.Sprintf("You already hold a ticket for %s. Cancel that reservation?", title))
	if err != nil {
		_, _ = a.booking.ResolveConflict(ctx, eventID, false)
		return err
	}
	outcome, err = a.booking.ResolveConflict(ctx, eventID, confirmed)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, renderOutcome(outcome, title))
	return nil
}

func (a *App) runCancel(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	eventID, err := eventArg(args, "cancel EVENT")
	if err != nil {
		return err
	}
	if err := a.booking.Reload(ctx, eventID); err != nil {
		return err
	}
	outcome, err := a.booking.Cancel(ctx, eventID)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, renderOutcome(outcome, a.title(eventID)))
	return nil
}

// ─── Comments ────────────────────────────────────────────────────────────────

func (a *App) runComment(ctx context.Context, fs *pflag.FlagSet, args []string) error {
	const usage = "comment add EVENT TEXT | comment edit EVENT COMMENT TEXT | comment delete EVENT COMMENT"
	if len(args) < 2 {
		return fmt.Errorf("usage: %s", usage)
	}
	sub, eventID := args[0], model.ID(args[1])
	rest := args[2:]

	if err := a.comments.LoadComments(ctx, eventID); err != nil {
		return err
	}
	defer a.comments.Teardown()

	switch sub {
	case "add":
		body := strings.Join(rest, " ")
		a.comments.SetDraft(body)
		if err := a.comments.SubmitCreate(ctx, eventID, body); err != nil {
			return err
		}
		fmt.Fprint(a.out, okStyle.Render("Comment posted")+"\n")

	case "edit":
		if len(rest) < 1 {
			return fmt.Errorf("usage: %s", usage)
		}
		commentID, body := model.ID(rest[0]), strings.Join(rest[1:], " ")
		if err := a.comments.BeginEdit(commentID); err != nil {
			return err
		}
		a.comments.SetEditDraft(body)
		if err := a.comments.SubmitUpdate(ctx, commentID, body); err != nil {
			return err
		}
		fmt.Fprint(a.out, okStyle.Render("Comment updated")+"\n")

	case "delete":
		if len(rest) < 1 {
			return fmt.Errorf("usage: %s", usage)
		}
		commentID := model.ID(rest[0])
		c, ok := a.findComment(commentID)
		if !ok {
			return service.ErrNotFound
		}
		if !a.comments.CanModify(c) {
			return service.ErrNotEditable
		}
		confirmed, err := a.ask(fs, "Delete this comment?")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprint(a.out, faintStyle.Render("Kept the comment")+"\n")
			return nil
		}
		if err := a.comments.SubmitDelete(ctx, commentID); err != nil {
			return err
		}
		fmt.Fprint(a.out, okStyle.Render("Comment deleted")+"\n")

	default:
		return fmt.Errorf("unknown comment action %q (usage: %s)", sub, usage)
	}

	fmt.Fprint(a.out, renderComments(a.comments.Snapshot(), a.viewer, a.comments.CanModify))
	return nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (a *App) ask(fs *pflag.FlagSet, prompt string) (bool, error) {
	if yes, _ := fs.GetBool("yes"); yes {
		return true, nil
	}
	return a.confirm(prompt)
}

func (a *App) track(events []model.Event) {
	for _, e := range events {
		if err := a.booking.Track(e); err != nil {
			a.log.WithError(err).Debug("skip untrackable event")
		}
	}
}

func (a *App) phaseOf(id model.ID) model.BookingPhase {
	st, ok := a.booking.State(id)
	if !ok {
		return ""
	}
	return st.Phase
}

func (a *App) title(id model.ID) string {
	if st, ok := a.booking.State(id); ok && st.Event.Title != "" {
		return fmt.Sprintf("%q", st.Event.Title)
	}
	return "event " + id.String()
}

func (a *App) findComment(id model.ID) (model.Comment, bool) {
	for _, c := range a.comments.Snapshot().Items {
		if c.ID == id {
			return c, true
		}
	}
	return model.Comment{}, false
}

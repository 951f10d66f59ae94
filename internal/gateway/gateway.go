// Package gateway is the HTTP client for the events platform API. It attaches
// the bearer credential, traces every call and decodes platform errors into
// *APIError values.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/Shivanand-hulikatti/eventdesk/internal/model"
)

const maxErrorBody = 64 << 10

// Options configures a Client.
type Options struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	Burst     int

	// HTTPClient overrides the default client (Timeout is ignored when set).
	HTTPClient *http.Client
}

// Client talks to the platform API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	tracer     trace.Tracer
	log        logrus.FieldLogger
}

// New constructs a Client.
func New(opts Options, logger logrus.FieldLogger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("gateway: invalid base url %q: %w", opts.BaseURL, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		baseURL:    base,
		token:      strings.TrimSpace(opts.Token),
		httpClient: httpClient,
		limiter:    limiter,
		tracer:     otel.Tracer("eventdesk/gateway"),
		log:        logger.WithField("component", "gateway"),
	}, nil
}

// ─── Comments ────────────────────────────────────────────────────────────────

// ListComments returns the comments of an event in server order.
func (c *Client) ListComments(ctx context.Context, eventID model.ID) ([]model.Comment, error) {
	var comments []model.Comment
	err := c.do(ctx, call{
		op:      "list_comments",
		method:  http.MethodGet,
		path:    "/comments/post/" + url.PathEscape(eventID.String()),
		eventID: eventID,
	}, &comments)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

// CreateComment posts a new comment and returns the stored copy.
func (c *Client) CreateComment(ctx context.Context, req model.CreateCommentRequest) (*model.Comment, error) {
	var created model.Comment
	err := c.do(ctx, call{
		op:      "create_comment",
		method:  http.MethodPost,
		path:    "/comments/",
		body:    req,
		eventID: req.EventID,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateComment replaces the body of a comment.
func (c *Client) UpdateComment(ctx context.Context, commentID model.ID, req model.UpdateCommentRequest) (*model.Comment, error) {
	var updated model.Comment
	err := c.do(ctx, call{
		op:     "update_comment",
		method: http.MethodPut,
		path:   "/comments/" + url.PathEscape(commentID.String()),
		body:   req,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, commentID model.ID) error {
	return c.do(ctx, call{
		op:     "delete_comment",
		method: http.MethodDelete,
		path:   "/comments/" + url.PathEscape(commentID.String()),
	}, nil)
}

// ─── Events & tickets ────────────────────────────────────────────────────────

// GetEvent returns the authoritative event aggregate.
func (c *Client) GetEvent(ctx context.Context, eventID model.ID) (*model.Event, error) {
	var event model.Event
	err := c.do(ctx, call{
		op:      "get_event",
		method:  http.MethodGet,
		path:    "/posts/" + url.PathEscape(eventID.String()),
		eventID: eventID,
	}, &event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEvents returns all events.
func (c *Client) ListEvents(ctx context.Context) ([]model.Event, error) {
	return c.listEvents(ctx, "list_events", "/posts/")
}

// ListEventsByTag returns events carrying the given tag.
func (c *Client) ListEventsByTag(ctx context.Context, tag string) ([]model.Event, error) {
	return c.listEvents(ctx, "list_events_by_tag", "/posts/tags/"+url.PathEscape(tag))
}

// MyTickets returns the events the viewer holds a reservation for.
func (c *Client) MyTickets(ctx context.Context) ([]model.Event, error) {
	return c.listEvents(ctx, "my_tickets", "/posts/my-tickets/")
}

func (c *Client) listEvents(ctx context.Context, op, path string) ([]model.Event, error) {
	var events []model.Event
	if err := c.do(ctx, call{op: op, method: http.MethodGet, path: path}, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

// Availability returns the ticket summary of an event.
func (c *Client) Availability(ctx context.Context, eventID model.ID) (*model.Availability, error) {
	var a model.Availability
	err := c.do(ctx, call{
		op:      "availability",
		method:  http.MethodGet,
		path:    "/posts/" + url.PathEscape(eventID.String()) + "/availability/",
		eventID: eventID,
	}, &a)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Reserve books one ticket for the viewer.
func (c *Client) Reserve(ctx context.Context, eventID model.ID) error {
	return c.do(ctx, call{
		op:      "reserve",
		method:  http.MethodPost,
		path:    "/posts",
		body:    model.ReserveRequest{EventID: eventID},
		eventID: eventID,
	}, nil)
}

// CancelReservation releases the viewer's ticket.
func (c *Client) CancelReservation(ctx context.Context, eventID model.ID) error {
	return c.do(ctx, call{
		op:      "cancel_reservation",
		method:  http.MethodDelete,
		path:    "/posts",
		query:   url.Values{"post_id": []string{eventID.String()}},
		eventID: eventID,
	}, nil)
}

// ─── Transport ───────────────────────────────────────────────────────────────

type call struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	eventID model.ID
}

func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "gateway."+cl.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", cl.method),
			attribute.String("http.route", cl.path),
		),
	)
	if !cl.eventID.IsZero() {
		span.SetAttributes(attribute.String("event.id", cl.eventID.String()))
	}
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limit: %w", cl.op, err)
		}
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", cl.op, err)
		}
		body = bytes.NewReader(payload)
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", cl.op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{"op": cl.op, "request_id": requestID}).WithError(err).Warn("request failed")
		return fmt.Errorf("%s: %w", cl.op, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.log.WithFields(logrus.Fields{
		"op":         cl.op,
		"method":     cl.method,
		"path":       cl.path,
		"status":     resp.StatusCode,
		"duration":   time.Since(start),
		"request_id": requestID,
	}).Debug("request processed")

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(cl.op, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", cl.op, err)
	}
	return nil
}

func decodeError(op string, resp *http.Response) error {
	apiErr := &APIError{Op: op, Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return apiErr
	}

	var envelope model.ErrorResponse
	if json.Unmarshal(raw, &envelope) == nil {
		apiErr.Detail = envelope.Text()
		apiErr.Code = envelope.Code
		return apiErr
	}

	// Validation failures on some platform versions send a structured detail
	// list; keep the raw text so message matching still sees it.
	apiErr.Detail = strings.TrimSpace(string(raw))
	return apiErr
}

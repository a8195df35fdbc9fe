// Package client provides an HTTP client for the field visits REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/evcraddock/field-visits/internal/catalog"
	"github.com/evcraddock/field-visits/internal/schedule"
	"github.com/evcraddock/field-visits/internal/visit"
)

// Client is a rate-limited HTTP client for the field visits API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit caps outgoing requests at rps per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.rateLimiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a new API client. Requests are unlimited unless
// WithRateLimit is given.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		rateLimiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Error is a non-2xx response from the server.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Visit is a visit as returned by the API, with its display badge.
type Visit struct {
	visit.Visit
	Badge      visit.Badge `json:"badge"`
	BadgeLabel string      `json:"badge_label"`
}

// Elapsed is the live active time of a visit.
type Elapsed struct {
	VisitID        string `json:"visit_id"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	Clock          string `json:"clock"`
	Active         bool   `json:"active"`
}

// Summary is the dashboard response from GET /api/summary.
type Summary struct {
	schedule.Summary
	Date     string   `json:"date"`
	Today    []*Visit `json:"today"`
	Upcoming []*Visit `json:"upcoming"`
}

// ListOptions controls filtering for ListVisits.
type ListOptions struct {
	Status   visit.Status
	Assignee string
	Query    string
}

// Health checks that the server is reachable.
func (c *Client) Health() error {
	return c.get("/health", nil)
}

// ListVisits returns visits in agenda order, optionally filtered.
func (c *Client) ListVisits(opts ListOptions) ([]*Visit, error) {
	params := url.Values{}
	if opts.Status != "" {
		params.Set("status", string(opts.Status))
	}
	if opts.Assignee != "" {
		params.Set("assignee", opts.Assignee)
	}
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}

	var visits []*Visit
	if err := c.get(withQuery("/api/visits", params), &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// GetVisit returns a single visit.
func (c *Client) GetVisit(id string) (*Visit, error) {
	var v Visit
	if err := c.get(visitPath(id, ""), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// AssignVisit creates a planned visit.
func (c *Client) AssignVisit(in visit.NewVisit) (*Visit, error) {
	var v Visit
	if err := c.send(http.MethodPost, "/api/visits", in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// RemoveVisit deletes a visit.
func (c *Client) RemoveVisit(id string) error {
	return c.send(http.MethodDelete, visitPath(id, ""), nil, nil)
}

// Start begins a planned visit.
func (c *Client) Start(id string) (*Visit, error) { return c.action(id, "start") }

// Pause stops the timer of a running visit.
func (c *Client) Pause(id string) (*Visit, error) { return c.action(id, "pause") }

// Resume restarts the timer of a paused visit.
func (c *Client) Resume(id string) (*Visit, error) { return c.action(id, "resume") }

// Finish completes a visit.
func (c *Client) Finish(id string) (*Visit, error) { return c.action(id, "finish") }

func (c *Client) action(id, name string) (*Visit, error) {
	var v Visit
	if err := c.send(http.MethodPost, visitPath(id, name), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ToggleTask flips the completion of one checklist task.
func (c *Client) ToggleTask(id, taskID string) (*Visit, error) {
	var v Visit
	path := visitPath(id, "tasks/"+url.PathEscape(taskID)+"/toggle")
	if err := c.send(http.MethodPost, path, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// EditNotes replaces the notes of a visit.
func (c *Client) EditNotes(id, notes string) (*Visit, error) {
	var v Visit
	body := map[string]string{"notes": notes}
	if err := c.send(http.MethodPut, visitPath(id, "notes"), body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// AddPhotos attaches photo references to a visit.
func (c *Client) AddPhotos(id string, photos ...string) (*Visit, error) {
	var v Visit
	body := map[string][]string{"photos": photos}
	if err := c.send(http.MethodPost, visitPath(id, "photos"), body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Reschedule changes the schedule of a planned visit.
func (c *Client) Reschedule(id string, sch visit.Schedule) (*Visit, error) {
	var v Visit
	if err := c.send(http.MethodPut, visitPath(id, "schedule"), sch, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Elapsed returns the live active time of a visit.
func (c *Client) Elapsed(id string) (*Elapsed, error) {
	var e Elapsed
	if err := c.get(visitPath(id, "elapsed"), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Calendar returns the visits of a day, week, month or agenda view.
// An empty date means today on the server.
func (c *Client) Calendar(view schedule.View, date, assignee string) (*schedule.Period, error) {
	params := url.Values{}
	if view != "" {
		params.Set("view", string(view))
	}
	if date != "" {
		params.Set("date", date)
	}
	if assignee != "" {
		params.Set("assignee", assignee)
	}

	var p schedule.Period
	if err := c.get(withQuery("/api/calendar", params), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Summary returns the dashboard counters and lists.
func (c *Client) Summary(date string) (*Summary, error) {
	params := url.Values{}
	if date != "" {
		params.Set("date", date)
	}

	var s Summary
	if err := c.get(withQuery("/api/summary", params), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListCatalog decodes every entry of one catalog kind into result.
func (c *Client) ListCatalog(kind catalog.Kind, result any) error {
	return c.get("/api/"+string(kind), result)
}

// AddCatalog creates a catalog entry and decodes the stored entry into result.
func (c *Client) AddCatalog(kind catalog.Kind, entry, result any) error {
	return c.send(http.MethodPost, "/api/"+string(kind), entry, result)
}

// DeleteCatalog removes a catalog entry.
func (c *Client) DeleteCatalog(kind catalog.Kind, id int64) error {
	return c.send(http.MethodDelete, fmt.Sprintf("/api/%s/%d", kind, id), nil, nil)
}

func visitPath(id, suffix string) string {
	p := "/api/visits/" + url.PathEscape(id)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func withQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// send performs a request with an optional JSON body and decodes the response.
func (c *Client) send(method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, result)
}

// do executes an HTTP request and handles errors.
func (c *Client) do(req *http.Request, result any) error {
	if err := c.rateLimiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := "server error: " + http.StatusText(resp.StatusCode)
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

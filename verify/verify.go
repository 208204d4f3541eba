// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RegularMember is the membership type allowed to vote
const RegularMember = "R"

// EndDateLayout is the submission timestamp format of the voting form export
const EndDateLayout = "2006-01-02 15:04:05"

var ErrNoEndpoint = errors.New("membership API URL is required")

// Checker decides whether a voter may vote
type Checker interface {
	Validate(ctx context.Context, memberID, studentNumber string) (bool, error)
}

// Columns locates the voter identity fields in a voting form row
type Columns struct {
	MemberID      int
	StudentNumber int
	EndDate       int
}

// Client checks voters against the club membership API
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a Client for the endpoint at baseURL
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, ErrNoEndpoint
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("membership API URL: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type memberResponse struct {
	Status  int `json:"status"`
	Content struct {
		MemType       string     `json:"mem_type"`
		StudentNumber flexString `json:"studentnumber"`
	} `json:"content"`
}

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	*f = flexString(strings.Trim(string(b), `"`))
	return nil
}

// Validate reports whether memberID is a regular member whose recorded
// student number matches. A non-zero API status means no such member.
func (c *Client) Validate(ctx context.Context, memberID, studentNumber string) (bool, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return false, err
	}
	q := u.Query()
	q.Set("id", memberID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("AUTH", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("membership lookup %s: %w", memberID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return false, fmt.Errorf("membership lookup %s: %s (%s)", memberID, resp.Status, strings.TrimSpace(string(b)))
	}

	var m memberResponse
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return false, fmt.Errorf("decode membership response: %w", err)
	}
	if m.Status != 0 {
		return false, nil
	}
	return m.Content.MemType == RegularMember &&
		string(m.Content.StudentNumber) == studentNumber, nil
}

// Latest keeps each voter's most recent submission, in first-seen order.
// Rows missing a member ID are dropped.
func Latest(rows [][]string, cols Columns) [][]string {
	type pick struct {
		row []string
		end string
	}
	var order []string
	best := make(map[string]pick)
	for _, row := range rows {
		id := cell(row, cols.MemberID)
		if id == "" {
			continue
		}
		end := cell(row, cols.EndDate)
		prev, seen := best[id]
		if !seen {
			order = append(order, id)
		}
		if !seen || !before(end, prev.end) {
			best[id] = pick{row: row, end: end}
		}
	}

	out := make([][]string, 0, len(order))
	for _, id := range order {
		out = append(out, best[id].row)
	}
	return out
}

// Filter drops duplicate submissions and those from unverified voters. A
// failed lookup aborts the filter rather than silently discarding a voter.
func Filter(ctx context.Context, rows [][]string, cols Columns, checker Checker, logger *slog.Logger) ([][]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("retrieved responses from election form", "count", len(rows))

	latest := Latest(rows, cols)
	logger.Info("removed duplicate submissions, using the most recent per voter",
		"removed", len(rows)-len(latest))

	verified := latest[:0:0]
	for _, row := range latest {
		ok, err := checker.Validate(ctx, cell(row, cols.MemberID), cell(row, cols.StudentNumber))
		if err != nil {
			return nil, err
		}
		if ok {
			verified = append(verified, row)
		}
	}
	logger.Info("removed submissions with invalid IDs",
		"removed", len(latest)-len(verified), "verified", len(verified))
	return verified, nil
}

// before compares submission times, falling back to text order when either
// value is not a timestamp
func before(a, b string) bool {
	ta, errA := time.Parse(EndDateLayout, a)
	tb, errB := time.Parse(EndDateLayout, b)
	if errA != nil || errB != nil {
		return a < b
	}
	return ta.Before(tb)
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

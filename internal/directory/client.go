package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/procureops/procurement-portal/internal"
)

// Employee is the directory record used to auto-fill member rows.
type Employee struct {
	EmployeeID  string `json:"employee_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Department  string `json:"department,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Designation string `json:"designation,omitempty"`
}

// ErrSuperseded is returned to a lookup whose request was cancelled because a
// newer lookup arrived for the same employee id. Only the latest caller ever
// gets a result applied.
var ErrSuperseded = internal.NewConflictError("lookup superseded by a newer request", internal.ErrCodeDirectoryFailure)

type Config struct {
	BaseURL       string
	APIKey        string
	LookupTimeout time.Duration
	CacheTTL      time.Duration
	MinQueryLen   int
}

type cacheEntry struct {
	employee *Employee
	fetched  time.Time
}

// Client talks to the external HR employee directory. Lookups for the same
// employee id are keyed: a new lookup cancels the previous in-flight request,
// so a stale response can never overwrite fresher input. A short TTL cache
// absorbs repeat lookups for the same id.
type Client struct {
	baseURL       string
	apiKey        string
	lookupTimeout time.Duration
	cacheTTL      time.Duration
	minQueryLen   int
	httpClient    *http.Client
	logger        *slog.Logger

	mu       sync.Mutex
	inflight map[string]*inflightLookup
	cache    map[string]cacheEntry
}

type inflightLookup struct {
	cancel context.CancelFunc
}

func NewClient(config Config, logger *slog.Logger) *Client {
	lookupTimeout := config.LookupTimeout
	if lookupTimeout <= 0 {
		lookupTimeout = 5 * time.Second
	}
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	minQueryLen := config.MinQueryLen
	if minQueryLen <= 0 {
		minQueryLen = 6
	}

	return &Client{
		baseURL:       config.BaseURL,
		apiKey:        config.APIKey,
		lookupTimeout: lookupTimeout,
		cacheTTL:      cacheTTL,
		minQueryLen:   minQueryLen,
		httpClient:    &http.Client{Timeout: lookupTimeout},
		logger:        logger,
		inflight:      make(map[string]*inflightLookup),
		cache:         make(map[string]cacheEntry),
	}
}

// Lookup resolves an employee id against the directory. IDs shorter than the
// configured minimum are rejected without an upstream call.
func (c *Client) Lookup(ctx context.Context, employeeID string) (*Employee, error) {
	if len(employeeID) < c.minQueryLen {
		return nil, internal.NewValidationFieldError("employee_id",
			fmt.Sprintf("employee_id must be at least %d characters", c.minQueryLen),
			internal.ErrCodeValidationFailed)
	}

	if emp := c.cached(employeeID); emp != nil {
		return emp, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	entry := &inflightLookup{cancel: cancel}
	c.mu.Lock()
	if prev, ok := c.inflight[employeeID]; ok {
		prev.cancel()
	}
	c.inflight[employeeID] = entry
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		// only deregister if a newer lookup has not replaced this entry
		if c.inflight[employeeID] == entry {
			delete(c.inflight, employeeID)
		}
		c.mu.Unlock()
	}()

	emp, err := c.fetch(lookupCtx, employeeID)
	if err != nil {
		if lookupCtx.Err() == context.Canceled && ctx.Err() == nil {
			c.logger.Debug("directory lookup superseded", "employee_id", employeeID)
			return nil, ErrSuperseded
		}
		return nil, err
	}

	c.mu.Lock()
	c.cache[employeeID] = cacheEntry{employee: emp, fetched: time.Now()}
	c.mu.Unlock()

	return emp, nil
}

func (c *Client) cached(employeeID string) *Employee {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[employeeID]
	if !ok || time.Since(entry.fetched) > c.cacheTTL {
		return nil
	}
	return entry.employee
}

func (c *Client) fetch(ctx context.Context, employeeID string) (*Employee, error) {
	url := fmt.Sprintf("%s/employees/%s", c.baseURL, employeeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, internal.NewInternalError("failed to build directory request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("directory request failed", "error", err, "employee_id", employeeID)
		return nil, internal.NewExternalError("employee directory unavailable", internal.ErrCodeDirectoryFailure, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Error("directory returned error status", "status", resp.StatusCode, "employee_id", employeeID)
		return nil, internal.NewExternalError(
			fmt.Sprintf("employee directory returned status %d", resp.StatusCode),
			internal.ErrCodeDirectoryFailure, nil)
	}

	var emp Employee
	if err := json.NewDecoder(resp.Body).Decode(&emp); err != nil {
		return nil, internal.NewExternalError("invalid directory response", internal.ErrCodeDirectoryFailure, err)
	}
	if emp.EmployeeID == "" {
		emp.EmployeeID = employeeID
	}

	return &emp, nil
}

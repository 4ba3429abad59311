package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client is the dashboard API HTTP client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	verbose    bool
}

// NewClient creates a new API client.
func NewClient(baseURL string, verbose bool) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 2 * time.Minute, // uploads can be slow
		},
		verbose: verbose,
	}
}

// Get performs a GET request and returns the response body.
func (c *Client) Get(path string) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

// UploadCSV posts a CSV file plus form fields as multipart form data.
func (c *Client) UploadCSV(path, filePath string, fields map[string]string) ([]byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("report", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("build form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.verbose {
		fmt.Printf(">>> %s %s\n", req.Method, req.URL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if c.verbose {
		fmt.Printf("<<< %d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if resp.StatusCode >= 400 {
		return nil, parseAPIError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// APIError represents an error returned by the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func parseAPIError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}

	var parsed struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error.Message != "" {
			apiErr.Code = parsed.Error.Code
			apiErr.Message = parsed.Error.Message
		} else if parsed.Message != "" {
			apiErr.Message = parsed.Message
		}
	}

	if apiErr.Message == "" {
		switch statusCode {
		case 404:
			apiErr.Message = "resource not found"
		case 422:
			apiErr.Message = "validation failed"
		case 429:
			apiErr.Message = "rate limit exceeded, retry shortly"
		default:
			apiErr.Message = fmt.Sprintf("API error: %d %s", statusCode, http.StatusText(statusCode))
		}
	}

	return apiErr
}

// Response types matching server handler structs.

type IngestResponse struct {
	Status        string  `json:"status"`
	Type          string  `json:"type"`
	ScanID        string  `json:"scan_id"`
	StoredAt      string  `json:"stored_at"`
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	WeekIndex     *int    `json:"week_index,omitempty"`
	Department    *string `json:"department,omitempty"`
	DeptID        *string `json:"dept_id,omitempty"`
	RowsProcessed int     `json:"rows_processed"`
	RowsSkipped   int     `json:"rows_skipped"`
}

type ScanItem struct {
	ScanID    string `json:"scan_id"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	WeekIndex *int   `json:"week_index,omitempty"`
	ScanDate  string `json:"scan_date"`
}

type ScanListResponse struct {
	Items []ScanItem `json:"items"`
}

type ScanKPIs struct {
	TotalObservations        int `json:"total_observations"`
	Critical                 int `json:"critical"`
	High                     int `json:"high"`
	HostCount                int `json:"host_count"`
	VulnCount                int `json:"vuln_count"`
	KnownExploitedCount      int `json:"known_exploited_count"`
	RansomwareExploitedCount int `json:"ransomware_exploited_count"`
}

type ScanSummaryResponse struct {
	Scan    ScanItem  `json:"scan"`
	Summary *ScanKPIs `json:"summary"`
}

type FindingItem struct {
	ObsID               string   `json:"obs_id"`
	Severity            int      `json:"severity"`
	CVSS                *float64 `json:"cvss"`
	FirstSeen           string   `json:"first_seen"`
	LastSeen            string   `json:"last_seen"`
	AgeDays             *int     `json:"age_days"`
	IP                  string   `json:"ip"`
	Hostname            *string  `json:"hostname"`
	PluginID            *int     `json:"plugin_id"`
	VulnName            *string  `json:"vuln_name"`
	KnownExploited      bool     `json:"known_exploited"`
	RansomwareExploited bool     `json:"ransomware_exploited"`
}

type FindingListResponse struct {
	Data   []FindingItem `json:"data"`
	Total  int64         `json:"total"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type ReadyResponse struct {
	Status string `json:"status"`
	Checks map[string]struct {
		Status   string `json:"status"`
		Duration string `json:"duration,omitempty"`
		Error    string `json:"error,omitempty"`
	} `json:"checks"`
}

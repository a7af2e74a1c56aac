// Package tabcheck finds tabs whose pages are gone.
package tabcheck

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nikbrunner/tabscope/internal/logging"
	"github.com/nikbrunner/tabscope/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Status is the health of a tab's URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
	Skipped                   // not an http(s) URL
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	case Unreachable:
		return "unreachable"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result holds the check result for a single tab.
type Result struct {
	Tab        model.Tab
	Status     Status
	StatusCode int    // 0 if no response
	Error      string // reason for Unreachable
}

// ProgressFunc is called after each URL is checked.
type ProgressFunc func(completed, total int)

// Params configures Check.
type Params struct {
	Concurrency int
	Timeout     time.Duration
	// ExcludeDomains lists hosts whose 404s usually mean "login required".
	// Subdomains match too.
	ExcludeDomains []string
	OnProgress     ProgressFunc
	Client         *http.Client // optional
	Logger         *zap.Logger
}

// Check requests every tab URL, at most Concurrency at a time. Results keep
// the order of tabs.
func Check(ctx context.Context, tabs []model.Tab, params Params) []Result {
	if len(tabs) == 0 {
		return nil
	}
	logger := logging.OrNop(params.Logger)

	concurrency := params.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	excludeMap := make(map[string]bool)
	for _, domain := range params.ExcludeDomains {
		excludeMap[strings.ToLower(domain)] = true
	}

	client := params.Client
	if client == nil {
		client = &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   params.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
		defer client.CloseIdleConnections()
	}

	results := make([]Result, len(tabs))

	var progressMu sync.Mutex
	completed := 0

	var eg errgroup.Group
	eg.SetLimit(concurrency)
	for i := range tabs {
		i := i
		eg.Go(func() error {
			results[i] = checkTab(ctx, client, tabs[i], excludeMap)
			logger.Debug("Tab checked",
				zap.String("tab", tabs[i].ID),
				zap.Stringer("status", results[i].Status),
				zap.Int("code", results[i].StatusCode))

			if params.OnProgress != nil {
				progressMu.Lock()
				completed++
				params.OnProgress(completed, len(tabs))
				progressMu.Unlock()
			}
			return nil
		})
	}

	// Workers never fail; a bad URL is a Result, not an error
	_ = eg.Wait()
	return results
}

// DeadTabIDs returns the ids of tabs reported Dead.
func DeadTabIDs(results []Result) []string {
	var ids []string
	for _, r := range results {
		if r.Status == Dead {
			ids = append(ids, r.Tab.ID)
		}
	}
	return ids
}

func checkTab(ctx context.Context, client *http.Client, tab model.Tab, excludeMap map[string]bool) Result {
	result := Result{Tab: tab}

	parsed, err := url.Parse(tab.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		result.Status = Skipped
		return result
	}

	// HEAD first, GET for servers that reject it
	resp, err := request(ctx, client, http.MethodHead, tab.URL)
	if err != nil {
		resp, err = request(ctx, client, http.MethodGet, tab.URL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if isExcludedDomain(parsed.Hostname(), excludeMap) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// 5xx, 403 and friends may be temporary
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func request(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

func isExcludedDomain(host string, excludeMap map[string]bool) bool {
	host = strings.ToLower(host)
	if excludeMap[host] {
		return true
	}
	for domain := range excludeMap {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}

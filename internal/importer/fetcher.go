package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/internal/retry"
	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/models"
)

// Fetcher downloads career records published as a JSON array of objects
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	policy     *retry.Policy
}

// NewFetcher creates a fetcher. rps <= 0 disables rate limiting.
func NewFetcher(timeout time.Duration, rps float64, policy *retry.Policy) *Fetcher {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "Mozilla/5.0 (compatible; PlayerStatsBot/1.0)",
		limiter:   rate.NewLimiter(limit, 1),
		policy:    policy,
	}
}

// Fetch retrieves and decodes the records at url
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]models.RawRecord, error) {
	var records []models.RawRecord
	err := f.policy.Execute(ctx, func(ctx context.Context) error {
		if err := f.limiter.Wait(ctx); err != nil {
			return retry.Permanent(err)
		}
		var err error
		records, err = f.fetch(ctx, url)
		return err
	})
	return records, err
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]models.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("stats source error: status=%d, body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	var items []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, retry.Permanent(fmt.Errorf("decoding response: %w", err))
	}

	records := make([]models.RawRecord, 0, len(items))
	for _, item := range items {
		records = append(records, toRaw(item))
	}
	return records, nil
}

// toRaw flattens scalar JSON values to text; nulls and nested values are dropped
func toRaw(item map[string]interface{}) models.RawRecord {
	rec := make(models.RawRecord, len(item))
	for k, v := range item {
		key := strings.TrimSpace(k)
		switch val := v.(type) {
		case string:
			rec[key] = strings.TrimSpace(val)
		case float64:
			rec[key] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			rec[key] = strconv.FormatBool(val)
		}
	}
	return rec
}

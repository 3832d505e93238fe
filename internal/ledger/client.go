// Package ledger provides the client for the external append-only audit
// ledger service. Every call is best-effort: callers submit entries
// fire-and-forget and must tolerate the ledger being absent, slow, or broken.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/haldane/ledgerscope/internal/common"
	"github.com/haldane/ledgerscope/internal/service"
)

// requestTimeout bounds a single ledger call so a hung external service
// cannot starve the fire-and-forget path.
const requestTimeout = 5 * time.Second

// BaseURLCache is a short-lived resolution of the ledger base URL. The
// expiry is explicit and checked by the client on every call; there is no
// module-level cached state.
type BaseURLCache struct {
	Expiry time.Time
	URL    string
}

// Valid reports whether the cached URL can still be used at the given time.
func (c BaseURLCache) Valid(now time.Time) bool {
	return c.URL != "" && now.Before(c.Expiry)
}

// Resolver produces a fresh base-URL cache entry, typically from
// configuration or service discovery.
type Resolver func(ctx context.Context) (BaseURLCache, error)

// StaticResolver returns a Resolver that always yields the same URL with the
// given time to live.
func StaticResolver(url string, ttl time.Duration) Resolver {
	return func(_ context.Context) (BaseURLCache, error) {
		if url == "" {
			return BaseURLCache{}, common.ErrMissingConfig
		}
		return BaseURLCache{URL: url, Expiry: time.Now().Add(ttl)}, nil
	}
}

// Client posts audit entries to the external ledger. A nil *Client is a
// usable no-op, so callers do not need to branch on whether auditing is
// configured.
type Client struct {
	httpClient *http.Client
	resolve    Resolver
	cacheMu    sync.Mutex
	cache      BaseURLCache
}

// NewClient creates a ledger client. The resolver supplies the base URL; the
// initial cache may be zero, in which case the first call resolves it.
func NewClient(resolve Resolver, initial BaseURLCache) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		resolve:    resolve,
		cache:      initial,
	}
}

// baseURL returns the cached base URL, re-resolving it when the cache entry
// has expired.
func (c *Client) baseURL(ctx context.Context) (string, error) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	if c.cache.Valid(time.Now()) {
		return c.cache.URL, nil
	}

	fresh, err := c.resolve(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: resolving base URL: %v", common.ErrLedgerUnavailable, err)
	}
	c.cache = fresh
	return c.cache.URL, nil
}

type postEntryRequest struct {
	EntityType string         `json:"entityType"`
	EntityID   string         `json:"entityId"`
	Action     string         `json:"action"`
	Actor      string         `json:"actor"`
	ActorType  string         `json:"actorType"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type postEntryResponse struct {
	ID             string `json:"id"`
	SequenceNumber int64  `json:"sequenceNumber"`
	Hash           string `json:"hash"`
}

// PostEntry appends one entry to the external ledger and returns its
// receipt. A nil client returns (nil, nil). Callers treat any error as
// best-effort: log and move on, never propagate.
func (c *Client) PostEntry(ctx context.Context, entry service.AuditEntry) (*service.AuditReceipt, error) {
	if c == nil {
		return nil, nil
	}

	baseURL, err := c.baseURL(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(postEntryRequest{
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		Actor:      entry.Actor,
		ActorType:  entry.ActorType,
		Metadata:   entry.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/entries", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLedgerUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", common.ErrLedgerUnavailable, resp.StatusCode, string(payload))
	}

	var decoded *postEntryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", common.ErrLedgerUnavailable, err)
	}

	// The ledger may answer null when it accepted the request but could not
	// assign a sequence number. Tolerated, not an error.
	if decoded == nil {
		return nil, nil
	}

	return &service.AuditReceipt{
		ID:             decoded.ID,
		SequenceNumber: decoded.SequenceNumber,
		Hash:           decoded.Hash,
	}, nil
}

package revocation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// defaultHTTPTimeout bounds every call to the document API.
const defaultHTTPTimeout = 10 * time.Second

// HTTPStore keeps revocation entries in a remote document store reached
// over its HTTP API. The API exposes POST /insert, /find, /delete and
// /count endpoints that operate on a named collection, with Mongo-style
// filters. Timestamps travel as RFC 3339 strings in UTC so the backend
// can compare them lexicographically.
//
// Every transport or decoding failure is reported as
// ErrStoreUnavailable; the store never guesses at an answer it could
// not fetch.
type HTTPStore struct {
	baseURL    string
	collection string
	client     *http.Client
	now        func() time.Time
}

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore) error

// WithHTTPClient replaces the default HTTP client, which times out
// after 10 seconds.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPStore) error {
		if client == nil {
			return errors.New("http client cannot be nil")
		}
		s.client = client
		return nil
	}
}

// WithHTTPClock replaces the time source used for revocation
// timestamps and expiry filters.
func WithHTTPClock(now func() time.Time) HTTPOption {
	return func(s *HTTPStore) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		s.now = now
		return nil
	}
}

// NewHTTPStore builds a store backed by the document API at baseURL,
// keeping its entries in the named collection.
func NewHTTPStore(baseURL, collection string, opts ...HTTPOption) (*HTTPStore, error) {
	if baseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}
	if collection == "" {
		return nil, errors.New("collection cannot be empty")
	}

	store := &HTTPStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		client:     &http.Client{Timeout: defaultHTTPTimeout},
		now:        time.Now,
	}

	for _, opt := range opts {
		if err := opt(store); err != nil {
			return nil, err
		}
	}

	return store, nil
}

type insertRequest struct {
	Collection string   `json:"collection"`
	Document   document `json:"document"`
}

// document is the wire form of an Entry. Timestamps are pre-rendered
// strings so the backend sees a stable format regardless of precision.
type document struct {
	TokenHash string  `json:"token_hash"`
	Reason    string  `json:"reason"`
	RevokedAt string  `json:"revoked_at"`
	ExpiresAt *string `json:"expires_at"`
}

type queryRequest struct {
	Collection string         `json:"collection"`
	Filter     map[string]any `json:"filter,omitempty"`
}

type findResponse struct {
	Documents []json.RawMessage `json:"documents"`
}

type deleteResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

// Record hashes the token and inserts its entry into the remote
// collection.
func (s *HTTPStore) Record(ctx context.Context, rawToken, reason string) error {
	entry := newEntry(rawToken, reason, s.now())

	doc := document{
		TokenHash: entry.TokenHash,
		Reason:    entry.Reason,
		RevokedAt: entry.RevokedAt.UTC().Format(time.RFC3339),
	}
	if entry.ExpiresAt != nil {
		expiresAt := entry.ExpiresAt.UTC().Format(time.RFC3339)
		doc.ExpiresAt = &expiresAt
	}

	return s.post(ctx, "/insert", insertRequest{Collection: s.collection, Document: doc}, nil)
}

// IsRevoked looks the token's hash up in the remote collection.
func (s *HTTPStore) IsRevoked(ctx context.Context, rawToken string) (bool, error) {
	var found findResponse
	err := s.post(ctx, "/find", queryRequest{
		Collection: s.collection,
		Filter:     map[string]any{"token_hash": HashToken(rawToken)},
	}, &found)
	if err != nil {
		return false, err
	}

	return len(found.Documents) > 0, nil
}

// Remove deletes the entry for the token.
func (s *HTTPStore) Remove(ctx context.Context, rawToken string) (bool, error) {
	var deleted deleteResponse
	err := s.post(ctx, "/delete", queryRequest{
		Collection: s.collection,
		Filter:     map[string]any{"token_hash": HashToken(rawToken)},
	}, &deleted)
	if err != nil {
		return false, err
	}

	return deleted.DeletedCount > 0, nil
}

// PurgeExpired deletes every entry whose natural expiry lies in the
// past. Entries with a null expiry never match the filter.
func (s *HTTPStore) PurgeExpired(ctx context.Context) (int64, error) {
	var deleted deleteResponse
	err := s.post(ctx, "/delete", queryRequest{
		Collection: s.collection,
		Filter:     s.expiredFilter(),
	}, &deleted)
	if err != nil {
		return 0, err
	}

	return deleted.DeletedCount, nil
}

// Stats counts the collection twice, once unfiltered and once for
// expired entries, and derives the active count from the difference.
func (s *HTTPStore) Stats(ctx context.Context) (Stats, error) {
	var total countResponse
	if err := s.post(ctx, "/count", queryRequest{Collection: s.collection}, &total); err != nil {
		return Stats{}, err
	}

	var expired countResponse
	err := s.post(ctx, "/count", queryRequest{
		Collection: s.collection,
		Filter:     s.expiredFilter(),
	}, &expired)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		Total:   total.Count,
		Active:  total.Count - expired.Count,
		Expired: expired.Count,
	}, nil
}

func (s *HTTPStore) expiredFilter() map[string]any {
	return map[string]any{
		"expires_at": map[string]any{"$lt": s.now().UTC().Format(time.RFC3339)},
	}
}

func (s *HTTPStore) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &unavailableError{details: fmt.Errorf("could not encode %s request: %w", endpoint, err)}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return &unavailableError{details: fmt.Errorf("could not build %s request: %w", endpoint, err)}
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := s.client.Do(request)
	if err != nil {
		return &unavailableError{details: err}
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return &unavailableError{details: fmt.Errorf("%s responded with status %d", endpoint, response.StatusCode)}
	}

	if out == nil {
		return nil
	}

	limitedBody := io.LimitReader(response.Body, 1*1024*1024)
	if err := json.NewDecoder(limitedBody).Decode(out); err != nil {
		return &unavailableError{details: fmt.Errorf("could not decode %s response: %w", endpoint, err)}
	}

	return nil
}

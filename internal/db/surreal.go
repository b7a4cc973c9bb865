package db

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tordrt/sdbgen/internal/schema"
)

// maxErrorBody bounds the response body quoted in errors
const maxErrorBody = 512

// SurrealConfig holds the connection settings of a SurrealDB instance
type SurrealConfig struct {
	Host      string
	Namespace string
	Database  string
	User      string
	Pass      string
	Timeout   time.Duration
}

// SurrealClient fetches the /structure snapshot of a SurrealDB instance
type SurrealClient struct {
	cfg  SurrealConfig
	http *http.Client
}

// NewSurrealClient creates a new SurrealDB client. No request is made until
// Structures is called.
func NewSurrealClient(cfg SurrealConfig) (*SurrealClient, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("surreal host is required")
	}
	if cfg.Namespace == "" || cfg.Database == "" {
		return nil, fmt.Errorf("namespace and database are required")
	}
	cfg.Host = strings.TrimRight(cfg.Host, "/")
	return &SurrealClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Close releases idle connections
func (c *SurrealClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Structures posts to {host}/structure and parses the response. The server
// always returns every table; tables narrows the snapshot afterwards.
func (c *SurrealClient) Structures(ctx context.Context, tables []string) (*schema.Structures, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	s, err := schema.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse structures: %w", err)
	}
	logger.Debug("fetched %d tables from %s", s.Len(), c.cfg.Host)

	if len(tables) > 0 {
		s = s.Filter(tables, nil)
	}
	return s, nil
}

func (c *SurrealClient) fetch(ctx context.Context) ([]byte, error) {
	url := c.cfg.Host + "/structure"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("NS", c.cfg.Namespace)
	req.Header.Set("DB", c.cfg.Database)
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.cfg.User, c.cfg.Pass)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch structures: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read structures: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("structure request failed: %s: %s", resp.Status, excerpt(body))
	}
	return body, nil
}

func excerpt(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}

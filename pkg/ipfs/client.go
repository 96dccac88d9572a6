package ipfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
	"go.uber.org/zap"

	cerrors "github.com/DeBrosOfficial/cidreg/pkg/errors"
)

// DefaultAPIURL is the Kubo RPC endpoint used when none is configured.
const DefaultAPIURL = "http://localhost:5001"

// streamErrorTrailer carries errors Kubo hits after it has started streaming.
const streamErrorTrailer = "X-Stream-Error"

// Client wraps the Kubo HTTP RPC API for storage operations
type Client struct {
	apiURL     string
	httpClient *http.Client
	pin        bool
	logger     *zap.Logger
}

// Config holds configuration for the IPFS client
type Config struct {
	// APIURL is the base URL of the Kubo RPC API (e.g., "http://localhost:5001")
	// If empty, defaults to "http://localhost:5001"
	APIURL string

	// Timeout bounds each request including reading the response body.
	// If zero, requests are bounded only by their context.
	Timeout time.Duration

	// DisablePin asks the node not to pin added content.
	DisablePin bool
}

// AddResponse represents one entry of the add response stream
type AddResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size,omitempty"`
}

// NodeInfo is the identity a node reports about itself
type NodeInfo struct {
	ID           string `json:"ID"`
	AgentVersion string `json:"AgentVersion"`
}

// apiError is the body Kubo returns with non-200 responses
type apiError struct {
	Message string `json:"Message"`
	Code    int    `json:"Code"`
	Type    string `json:"Type"`
}

// NewClient creates a new Kubo RPC client wrapper
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid IPFS API URL %q: %w", apiURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid IPFS API URL %q: expected http or https scheme", apiURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid IPFS API URL %q: missing host", apiURL)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		pin:        !cfg.DisablePin,
		logger:     logger,
	}, nil
}

// ID returns the identity of the connected node
func (c *Client) ID(ctx context.Context) (*NodeInfo, error) {
	resp, err := c.post(ctx, "/api/v0/id", nil, nil, "")
	if err != nil {
		return nil, fmt.Errorf("id request failed: %w", err)
	}
	defer resp.Body.Close()

	var info NodeInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode id response: %w", err)
	}
	return &info, nil
}

// Health checks if the node's RPC API is reachable
func (c *Client) Health(ctx context.Context) error {
	if _, err := c.ID(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// Add streams reader to the node as a single file named name and returns
// every entry of the response stream. The body is never fully buffered.
func (c *Client) Add(ctx context.Context, reader io.Reader, name string) ([]AddResponse, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(fmt.Errorf("failed to create form file: %w", err))
			return
		}
		if _, err := io.Copy(part, reader); err != nil {
			pw.CloseWithError(fmt.Errorf("failed to copy data: %w", err))
			return
		}
		pw.CloseWithError(writer.Close())
	}()
	// Unblocks the writer goroutine if the request ends before draining the pipe.
	defer pr.Close()

	query := url.Values{}
	query.Set("pin", strconv.FormatBool(c.pin))

	resp, err := c.post(ctx, "/api/v0/add", query, pr, writer.FormDataContentType())
	if err != nil {
		return nil, fmt.Errorf("add request failed: %w", err)
	}
	defer resp.Body.Close()

	// The response is NDJSON, one object per added entry.
	dec := json.NewDecoder(resp.Body)
	var entries []AddResponse
	for {
		var entry AddResponse
		if err := dec.Decode(&entry); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode add response: %w", err)
		}
		if _, err := cid.Decode(entry.Hash); err != nil {
			return nil, fmt.Errorf("malformed add response: invalid CID %q: %w", entry.Hash, err)
		}
		entries = append(entries, entry)
	}
	if msg := resp.Trailer.Get(streamErrorTrailer); msg != "" {
		return nil, fmt.Errorf("add failed: %s", msg)
	}

	c.logger.Debug("Added content",
		zap.String("name", name),
		zap.Int("entries", len(entries)))

	return entries, nil
}

// Cat retrieves content by CID as a stream. The caller must close it.
// Errors the node reports after the stream has started surface from Read.
func (c *Client) Cat(ctx context.Context, id string) (io.ReadCloser, error) {
	if id == "" {
		return nil, fmt.Errorf("cat: empty content identifier")
	}

	query := url.Values{}
	query.Set("arg", id)

	resp, err := c.post(ctx, "/api/v0/cat", query, nil, "")
	if err != nil {
		return nil, fmt.Errorf("cat request failed: %w", err)
	}

	return &catStream{body: resp.Body, resp: resp}, nil
}

// Close closes the IPFS client connection
func (c *Client) Close(ctx context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// post issues a Kubo RPC call (the API only accepts POST) and turns non-200
// answers into errors carrying the node's message.
func (c *Client) post(ctx context.Context, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	reqURL := c.apiURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

		msg := strings.TrimSpace(string(raw))
		var ae apiError
		if json.Unmarshal(raw, &ae) == nil && ae.Message != "" {
			msg = ae.Message
		}
		if resp.StatusCode == http.StatusNotFound || isNotFoundMessage(msg) {
			return nil, fmt.Errorf("%w: %s", cerrors.ErrNotFound, msg)
		}
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, msg)
	}

	return resp, nil
}

func isNotFoundMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no link named")
}

// catStream reports a failure announced in the response trailer instead of
// a clean EOF.
type catStream struct {
	body io.ReadCloser
	resp *http.Response
}

func (s *catStream) Read(p []byte) (int, error) {
	n, err := s.body.Read(p)
	if errors.Is(err, io.EOF) {
		if msg := s.resp.Trailer.Get(streamErrorTrailer); msg != "" {
			return n, fmt.Errorf("stream interrupted: %s", msg)
		}
	}
	return n, err
}

func (s *catStream) Close() error {
	return s.body.Close()
}

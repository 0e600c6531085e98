package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"cellular-usage-report/internal/domain/usage"
)

const (
	serviceName = "inventory"

	locationNameLength = 12
	jobNumberStart     = 6

	maxErrorBody = 1024
)

// Client looks up stock items by barcode. Devices are registered in the
// inventory with their display name as the barcode.
type Client struct {
	httpClient *http.Client
	tokens     usage.TokenSource
	lookupURL  string
}

func NewClient(httpClient *http.Client, tokens usage.TokenSource, lookupURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		tokens:     tokens,
		lookupURL:  lookupURL,
	}
}

// NewSession returns a Locator for a single report run. The session asks
// for a token on its first lookup and reuses it, or its failure, for the
// rest of the run.
func (c *Client) NewSession() usage.Locator {
	return &Session{client: c}
}

// Lookup acquires a fresh token and resolves one device.
func (c *Client) Lookup(ctx context.Context, deviceName string) (usage.Location, error) {
	token, err := c.tokens.Acquire(ctx)
	if err != nil {
		return usage.Location{}, err
	}
	return c.lookupWithToken(ctx, token, deviceName)
}

func (c *Client) lookupWithToken(ctx context.Context, token, deviceName string) (usage.Location, error) {
	query := url.Values{}
	query.Set("barCode", deviceName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.lookupURL+"?"+query.Encode(), nil)
	if err != nil {
		return usage.Location{}, fmt.Errorf("inventory API: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return usage.Location{}, &usage.TransportError{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return usage.Location{}, &usage.UpstreamStatusError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var item struct {
		LocationName string `json:"locationName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return usage.Location{}, fmt.Errorf("%w: inventory API: %v", usage.ErrMalformedResponse, err)
	}

	return ParseLocation(item.LocationName), nil
}

// ParseLocation splits the inventory's fixed-format location string. The
// first 12 characters name the location and characters 6 to 11 carry the
// job number, e.g. "JOB - 123456 Miami" -> ("JOB - 123456", "123456").
// Shorter strings yield whatever part of each field is present.
func ParseLocation(raw string) usage.Location {
	runes := []rune(raw)

	name := runes
	if len(name) > locationNameLength {
		name = name[:locationNameLength]
	}

	var job []rune
	if len(name) > jobNumberStart {
		job = name[jobNumberStart:]
	}

	return usage.Location{Name: string(name), JobNumber: string(job)}
}

// Session is a run-scoped Locator.
type Session struct {
	client *Client

	once     sync.Once
	token    string
	tokenErr error
}

func (s *Session) Lookup(ctx context.Context, deviceName string) (usage.Location, error) {
	s.once.Do(func() {
		s.token, s.tokenErr = s.client.tokens.Acquire(ctx)
	})
	if s.tokenErr != nil {
		return usage.Location{}, s.tokenErr
	}
	return s.client.lookupWithToken(ctx, s.token, deviceName)
}

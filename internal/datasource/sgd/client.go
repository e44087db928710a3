// Package sgd queries the Saccharomyces Genome Database locus API.
package sgd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the SGD backend endpoint.
const DefaultBaseURL = "https://www.yeastgenome.org/backend"

// DefaultDelay is the pause after each API call, keeping batch lookups
// polite to the SGD servers.
const DefaultDelay = 200 * time.Millisecond

// Locus holds the annotation fields kept from a locus response.
type Locus struct {
	QueryName      string
	SGDID          string
	SystematicName string
	GeneName       string
	FormatName     string
	Description    string
}

// Client queries the locus endpoint one gene at a time. Every call,
// successful or not, is followed by the configured delay.
type Client struct {
	baseURL    string
	httpClient *http.Client
	delay      time.Duration
}

// NewClient creates a client against the public SGD API with a 30 second
// request timeout.
func NewClient() *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		delay: DefaultDelay,
	}
}

// SetBaseURL overrides the API endpoint.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// SetDelay overrides the pause after each call. Zero disables it.
func (c *Client) SetDelay(d time.Duration) {
	c.delay = d
}

// Lookup fetches the annotation for one locus name. A non-200 response
// means SGD does not know the name: (nil, nil), so a batch run can record
// the miss and continue.
func (c *Client) Lookup(name string) (*Locus, error) {
	if c.delay > 0 {
		defer time.Sleep(c.delay)
	}

	req, err := http.NewRequest(http.MethodGet,
		fmt.Sprintf("%s/locus/%s", c.baseURL, url.PathEscape(name)), nil)
	if err != nil {
		return nil, fmt.Errorf("build locus request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sgd request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	var raw locusResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode sgd response: %w", err)
	}

	return &Locus{
		QueryName:      name,
		SGDID:          raw.SGDID,
		SystematicName: raw.SystematicName,
		GeneName:       raw.GeneName,
		FormatName:     raw.FormatName,
		Description:    decodeDescription(raw.Description),
	}, nil
}

// locusResponse is the subset of the locus JSON this tool keeps. The
// description field varies by entry type, so it is decoded separately.
type locusResponse struct {
	SGDID          string          `json:"sgdid"`
	SystematicName string          `json:"systematic_name"`
	GeneName       string          `json:"gene_name"`
	FormatName     string          `json:"format_name"`
	Description    json.RawMessage `json:"description"`
}

// decodeDescription handles the two shapes SGD serves: a plain string,
// or an object whose first reference citation stands in for it.
func decodeDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		References []struct {
			Citation string `json:"citation"`
		} `json:"references"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && len(obj.References) > 0 {
		return obj.References[0].Citation
	}
	return ""
}

// Package wordapi is the HTTP adapter for the word-similarity oracle.
package wordapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hotandcold/internal/domain"
	"hotandcold/internal/ports"
)

// Client talks to the similarity service over HTTP. Callers are expected to
// wrap it in a cache; every method here goes to the network.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates an oracle client. timeout bounds each request.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type compareRequest struct {
	WordA string `json:"wordA"`
	WordB string `json:"wordB"`
}

// compareResponse mirrors the service payload. A null similarity means the
// guess is outside the oracle's vocabulary.
type compareResponse struct {
	WordA      string   `json:"wordA"`
	WordB      string   `json:"wordB"`
	Similarity *float64 `json:"similarity"`
}

// Compare returns the semantic similarity between the secret word and the
// guess. The returned lemma is the oracle's canonical form of the guess.
func (c *Client) Compare(ctx context.Context, secretWord, guessWord string) (ports.Comparison, error) {
	var resp compareResponse
	err := c.post(ctx, "/compare-words", compareRequest{WordA: secretWord, WordB: guessWord}, &resp)
	if err != nil {
		return ports.Comparison{}, err
	}

	cmp := ports.Comparison{Lemma: resp.WordB, Known: resp.Similarity != nil}
	if cmp.Lemma == "" {
		cmp.Lemma = guessWord
	}
	if resp.Similarity != nil {
		cmp.Similarity = *resp.Similarity
	}
	return cmp, nil
}

type nearestRequest struct {
	Word string `json:"word"`
}

// NearestWords returns the secret word's ranked neighbor table.
func (c *Client) NearestWords(ctx context.Context, secretWord string) (domain.NeighborTable, error) {
	var table domain.NeighborTable
	if err := c.post(ctx, "/nearest-words", nearestRequest{Word: secretWord}, &table); err != nil {
		return domain.NeighborTable{}, err
	}
	return table, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("oracle %s call failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("oracle %s returned %d: %s", path, resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

var _ ports.SimilarityOracle = (*Client)(nil)

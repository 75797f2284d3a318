package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quiver/internal/api"
	"quiver/pkg/logging"
)

// Client is a REST client for the orchestration API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for baseURL. A zero timeout leaves requests bounded
// only by their context.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type runChainRequest struct {
	Prompt        string         `json:"prompt"`
	AgentOverride string         `json:"agent_override"`
	AllResponses  bool           `json:"all_responses"`
	FromStep      int            `json:"from_step"`
	ChainArgs     map[string]any `json:"chain_args"`
}

type promptArgsResponse struct {
	PromptArgs []string `json:"prompt_args"`
}

// RunChain runs chainName from its first step and returns the decoded
// response body.
func (c *Client) RunChain(ctx context.Context, chainName, userInput string, chainArgs map[string]any) (any, error) {
	if chainArgs == nil {
		chainArgs = map[string]any{}
	}
	body := runChainRequest{
		Prompt:    userInput,
		FromStep:  1,
		ChainArgs: chainArgs,
	}

	var result any
	path := "/api/chain/" + url.PathEscape(chainName) + "/run"
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		if api.IsNotFound(err) {
			return nil, api.NewChainNotFoundError(chainName)
		}
		return nil, fmt.Errorf("failed to run chain %s: %w", chainName, err)
	}
	logging.Debug("Client", "Chain %s completed", chainName)
	return result, nil
}

// GetPromptArgs returns the template variables of a prompt.
func (c *Client) GetPromptArgs(ctx context.Context, promptName, category string) ([]string, error) {
	var resp promptArgsResponse
	path := "/api/prompt/" + url.PathEscape(category) + "/" + url.PathEscape(promptName) + "/args"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if api.IsNotFound(err) {
			return nil, api.NewNotFoundError("prompt", category+"/"+promptName)
		}
		return nil, fmt.Errorf("failed to get args for prompt %s/%s: %w", category, promptName, err)
	}
	return resp.PromptArgs, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return api.NewNotFoundError("resource", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request %s %s failed with status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Orchestrator combines a chain runner with a prompt argument source.
type Orchestrator struct {
	api.ChainRunner
	api.PromptArgsSource
}

var _ api.Orchestrator = (*Client)(nil)
var _ api.Orchestrator = Orchestrator{}

// Package client talks to the orchestration service that runs chains and
// owns prompt templates.
//
// Client is a thin REST client: it adds no retries or timeouts beyond the
// configured HTTP client timeout, so cancellation is driven by the caller's
// context. PromptArgsCache puts a Redis cache in front of any
// api.PromptArgsSource; concurrent misses for the same prompt are coalesced.
package client

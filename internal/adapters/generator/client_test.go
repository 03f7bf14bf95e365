package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/loomhq/loom/internal/adapters/parser"
	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/helpers/clock"
	"github.com/loomhq/loom/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	responses []providerStep
	calls     int
	requests  []ports.GenerateRequest
}

type providerStep struct {
	text string
	err  error
}

func (p *scriptedProvider) Complete(ctx context.Context, req ports.GenerateRequest) (string, error) {
	p.requests = append(p.requests, req)
	step := p.responses[p.calls]
	p.calls++
	return step.text, step.err
}

func rateLimited() error {
	return domain.NewGenerationError(domain.GenerationRateLimited, "status 429", nil)
}

func testConfig(maxRetries int) domain.GeneratorConfig {
	return domain.GeneratorConfig{
		MaxRetries:  maxRetries,
		BaseDelay:   domain.Duration(10 * time.Second),
		MaxDelay:    domain.Duration(2 * time.Minute),
		CallTimeout: domain.Duration(time.Minute),
		MinInterval: domain.Duration(time.Second),
	}
}

func newTestClient(p ports.Provider, cfg domain.GeneratorConfig) (*Client, *clock.Manual) {
	c := clock.NewManual(time.Unix(1000, 0))
	return NewClient(p, parser.NewExtractor(nil), cfg, c, nil), c
}

func TestClient_SuccessFirstAttempt(t *testing.T) {
	p := &scriptedProvider{responses: []providerStep{{text: "hello"}}}
	client, _ := newTestClient(p, testConfig(3))

	text, err := client.Generate(context.Background(), ports.GenerateRequest{UserPrompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 1, p.calls)
}

func TestClient_RetryBudgetIsInclusive(t *testing.T) {
	// Transient failures on attempts 1-3 with a budget of 3: the call that
	// would have succeeded on attempt 4 never happens.
	p := &scriptedProvider{responses: []providerStep{
		{err: rateLimited()},
		{err: rateLimited()},
		{err: rateLimited()},
		{text: "too late"},
	}}
	client, _ := newTestClient(p, testConfig(3))

	_, err := client.Generate(context.Background(), ports.GenerateRequest{})
	require.Error(t, err)
	assert.True(t, domain.IsRateLimitExhausted(err))
	assert.Equal(t, 3, p.calls)
}

func TestClient_TransientThenSuccess(t *testing.T) {
	p := &scriptedProvider{responses: []providerStep{
		{err: rateLimited()},
		{err: rateLimited()},
		{text: "recovered"},
	}}
	client, c := newTestClient(p, testConfig(3))

	text, err := client.Generate(context.Background(), ports.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 3, p.calls)

	// Two backoff sleeps (10s then 20s) interleaved with throttle waits.
	assert.Contains(t, c.Sleeps(), 10*time.Second)
	assert.Contains(t, c.Sleeps(), 20*time.Second)
}

func TestClient_MaxTokensPassedThroughUnchanged(t *testing.T) {
	// The provider owns the default for unset token limits; the client must
	// forward whatever the caller set, including zero.
	p := &scriptedProvider{responses: []providerStep{{text: "a"}, {text: "b"}}}
	client, _ := newTestClient(p, testConfig(3))

	_, err := client.Generate(context.Background(), ports.GenerateRequest{})
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), ports.GenerateRequest{MaxTokens: 512})
	require.NoError(t, err)

	require.Len(t, p.requests, 2)
	assert.Equal(t, 0, p.requests[0].MaxTokens)
	assert.Equal(t, 512, p.requests[1].MaxTokens)
}

func TestClient_FatalNotRetried(t *testing.T) {
	p := &scriptedProvider{responses: []providerStep{
		{err: domain.NewGenerationError(domain.GenerationAuth, "status 401", nil)},
	}}
	client, _ := newTestClient(p, testConfig(3))

	_, err := client.Generate(context.Background(), ports.GenerateRequest{})
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)

	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, domain.GenerationAuth, genErr.Kind)
}

func TestClient_TimeoutIsTransient(t *testing.T) {
	p := &scriptedProvider{responses: []providerStep{
		{err: context.DeadlineExceeded},
		{text: "after timeout"},
	}}
	client, _ := newTestClient(p, testConfig(3))

	text, err := client.Generate(context.Background(), ports.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "after timeout", text)
	assert.Equal(t, 2, p.calls)
}

func TestClient_UnknownProviderErrorIsFatal(t *testing.T) {
	p := &scriptedProvider{responses: []providerStep{
		{err: errors.New("connection reset")},
	}}
	client, _ := newTestClient(p, testConfig(3))

	_, err := client.Generate(context.Background(), ports.GenerateRequest{})
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)
	assert.False(t, domain.IsTransientGeneration(err))
}

func TestClient_CancelledBeforeCall(t *testing.T) {
	p := &scriptedProvider{responses: []providerStep{{text: "unused"}}}
	client, _ := newTestClient(p, testConfig(3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, ports.GenerateRequest{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, p.calls)
}

func TestClient_GenerateJSON(t *testing.T) {
	p := &scriptedProvider{responses: []providerStep{
		{text: "```json\n{\"page_type\": \"faq\"}\n```"},
	}}
	client, _ := newTestClient(p, testConfig(3))

	payload, err := client.GenerateJSON(context.Background(), ports.GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"page_type": "faq"}, payload)
}

func TestClient_GenerateJSONParseFailure(t *testing.T) {
	p := &scriptedProvider{responses: []providerStep{
		{text: "no structure here"},
	}}
	client, _ := newTestClient(p, testConfig(3))

	_, err := client.GenerateJSON(context.Background(), ports.GenerateRequest{})
	require.Error(t, err)
	assert.True(t, domain.IsParseError(err))
	assert.Equal(t, 1, p.calls, "parse failures are not retried by the client")
}

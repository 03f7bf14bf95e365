package core

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomhq/loom/internal/adapters/validator"
	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/helpers/clock"
	"github.com/loomhq/loom/internal/ports"
	"github.com/loomhq/loom/internal/units"
	"github.com/loomhq/loom/internal/xjson"
)

// scriptedProvider answers by the shape each unit asks for, so full runs
// are reproducible without a network.
type scriptedProvider struct{}

func (p *scriptedProvider) Complete(ctx context.Context, req ports.GenerateRequest) (string, error) {
	switch {
	case strings.Contains(req.ShapeHint, "faqs"):
		return faqResponse(16), nil
	case strings.Contains(req.ShapeHint, "questions"):
		return questionsResponse(12), nil
	case strings.Contains(req.ShapeHint, "products"):
		return `{"products": [
			{"name": "Niacinamide 10% Serum", "attributes": {"texture": "light gel"}},
			{"name": "Vitamin C 15% Serum", "attributes": {"texture": "watery"}}
		]}`, nil
	case strings.Contains(req.ShapeHint, "title"):
		return "```json\n" + `{"title": "Niacinamide 10% Serum", "description": "A lightweight serum.", "sections": {"overview": "Reduces the look of pores."}}` + "\n```", nil
	default:
		return "", fmt.Errorf("unexpected request shape: %s", req.ShapeHint)
	}
}

func questionsResponse(n int) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(`{"category": "usage", "text": "Question %d?"}`, i+1))
	}
	return `{"questions": [` + strings.Join(items, ",") + `]}`
}

func faqResponse(n int) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(`{"question": "FAQ %d?", "answer": "Answer %d."}`, i+1, i+1))
	}
	return `{"faqs": [` + strings.Join(items, ",") + `]}`
}

func inputRecord() domain.Record {
	return domain.Record{
		"name":            "Niacinamide 10% Serum",
		"concentration":   "10%",
		"skin_type":       []interface{}{"oily", "combination"},
		"key_ingredients": []interface{}{"niacinamide", "zinc PCA"},
		"benefits":        []interface{}{"reduces pores", "balances oil"},
		"how_to_use":      "Apply a few drops morning and evening.",
		"side_effects":    "Mild flushing during the first week.",
		"price":           "$18.50",
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	opts = append([]Option{
		WithProvider(&scriptedProvider{}),
		WithClock(clock.NewManual(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))),
	}, opts...)

	engine, err := New(nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })

	for _, unit := range units.Default(engine.Generator(), engine.Validator(), engine.logger) {
		require.NoError(t, engine.RegisterUnit(unit))
	}
	return engine
}

func TestEngine_RunAllUnits(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Run(context.Background(), inputRecord())
	require.NoError(t, err)

	assert.Equal(t, []string{"parser", "questions", "product", "comparison", "faq"}, result.Succeeded())
	assert.Empty(t, result.Failed())
	assert.Empty(t, result.Skipped())
	assert.NotEmpty(t, result.RunID)

	parsed, ok := result.Output("parser")
	require.True(t, ok)
	assert.Equal(t, "Niacinamide 10% Serum", parsed.(map[string]interface{})["name"])

	faq, ok := result.Output("faq")
	require.True(t, ok)
	faqs := faq.(map[string]interface{})["faqs"].([]interface{})
	assert.GreaterOrEqual(t, len(faqs), 15)
}

func TestEngine_RunsAreDeterministic(t *testing.T) {
	record := inputRecord()

	var encoded [][]byte
	var traces [][]string
	for i := 0; i < 2; i++ {
		engine := newTestEngine(t)
		result, err := engine.Run(context.Background(), record)
		require.NoError(t, err)

		outputs := make(map[string]interface{}, len(result.Units))
		for name := range result.Units {
			out, ok := result.Output(name)
			require.True(t, ok, "unit %s should have succeeded", name)
			outputs[name] = out
		}
		data, err := xjson.Marshal(outputs)
		require.NoError(t, err)
		encoded = append(encoded, data)

		var order []string
		for _, event := range result.Trace {
			order = append(order, string(event.Transition)+":"+event.Unit)
		}
		traces = append(traces, order)
	}

	assert.Equal(t, encoded[0], encoded[1])
	assert.Equal(t, traces[0], traces[1])
}

func TestEngine_RegisterKindForCustomUnits(t *testing.T) {
	engine := newTestEngine(t)
	engine.RegisterKind(validator.KindSpec{
		Kind: "tagline",
		Fields: []validator.FieldSpec{
			{Name: "taglines", Type: validator.TypeList, MinItems: 3},
		},
	})

	_, err := engine.Validator().Validate("tagline", map[string]interface{}{
		"taglines": []interface{}{"a", "b"},
	})
	require.Error(t, err)
	assert.True(t, domain.IsSchemaViolation(err))

	out, err := engine.Validator().Validate("tagline", map[string]interface{}{
		"taglines": []interface{}{"a", "b", "c"},
	})
	require.NoError(t, err)
	assert.NotNil(t, out)
}

func TestEngine_DuplicateUnitRejected(t *testing.T) {
	engine := newTestEngine(t)

	err := engine.RegisterUnit(units.NewParser(engine.Validator(), engine.logger))
	require.Error(t, err)
	assert.True(t, domain.IsDependencyError(err))
}

func TestEngine_DependencyErrorBeforeExecution(t *testing.T) {
	engine, err := New(nil,
		WithProvider(&scriptedProvider{}),
		WithClock(clock.NewManual(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))),
	)
	require.NoError(t, err)
	defer engine.Close()

	require.NoError(t, engine.RegisterUnit(&danglingUnit{}))

	result, err := engine.Run(context.Background(), inputRecord())
	require.Error(t, err)
	assert.Nil(t, result)

	var depErr *domain.DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "dangling", depErr.Unit)
	assert.Equal(t, "missing", depErr.Dependency)
}

type danglingUnit struct{}

func (u *danglingUnit) Name() string           { return "dangling" }
func (u *danglingUnit) Dependencies() []string { return []string{"missing"} }
func (u *danglingUnit) Execute(ctx context.Context, in ports.ExecutionInput) (interface{}, error) {
	return nil, nil
}

func TestEngine_ArchivesCompletedRuns(t *testing.T) {
	saved := &capturingArchive{}
	engine := newTestEngine(t, WithArchive(saved))

	result, err := engine.Run(context.Background(), inputRecord())
	require.NoError(t, err)

	require.Len(t, saved.runs, 1)
	assert.Equal(t, result.RunID, saved.runs[0].RunID)
}

type capturingArchive struct {
	runs []*domain.RunResult
}

func (a *capturingArchive) SaveRun(ctx context.Context, result *domain.RunResult) error {
	a.runs = append(a.runs, result)
	return nil
}

func (a *capturingArchive) GetRun(ctx context.Context, runID string) (*domain.RunResult, error) {
	return nil, domain.ErrRunNotFound
}

func (a *capturingArchive) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	return nil, nil
}

func (a *capturingArchive) Close() error { return nil }

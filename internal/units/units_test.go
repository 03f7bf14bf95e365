package units

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/loomhq/loom/internal/adapters/validator"
	"github.com/loomhq/loom/internal/domain"
	"github.com/loomhq/loom/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGen returns a fixed payload per call, in the order units request them.
type fakeGen struct {
	payloads []interface{}
	err      error
	calls    int
	requests []ports.GenerateRequest
}

func (g *fakeGen) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	return "", g.err
}

func (g *fakeGen) GenerateJSON(ctx context.Context, req ports.GenerateRequest) (interface{}, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	payload := g.payloads[g.calls]
	g.calls++
	return payload, nil
}

func testValidator() ports.Validator {
	return validator.New(nil, validator.DefaultKinds()...)
}

func testLogger() *slog.Logger {
	return slog.Default()
}

func sampleRecord() domain.Record {
	return domain.Record{
		"name":            "GlowBoost Vitamin C Serum",
		"concentration":   "10% Vitamin C",
		"skin_type":       []interface{}{"Oily", "Combination"},
		"key_ingredients": []interface{}{"Vitamin C", "Hyaluronic Acid"},
		"benefits":        []interface{}{"Brightening", "Fades dark spots"},
		"how_to_use":      "Apply 2-3 drops in the morning before sunscreen",
		"side_effects":    "Mild tingling for sensitive skin",
		"price":           "₹699",
	}
}

func parsedProduct(t *testing.T) map[string]interface{} {
	t.Helper()
	u := NewParser(testValidator(), testLogger())
	out, err := u.Execute(context.Background(), ports.ExecutionInput{Record: sampleRecord()})
	require.NoError(t, err)
	return out.(map[string]interface{})
}

func questionList(count int) []interface{} {
	out := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, map[string]interface{}{
			"category": "usage",
			"text":     fmt.Sprintf("question %d", i),
		})
	}
	return out
}

func faqList(count int) []interface{} {
	out := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, map[string]interface{}{
			"question": fmt.Sprintf("q%d", i),
			"answer":   fmt.Sprintf("a%d", i),
		})
	}
	return out
}

func TestParser_NormalizesRecord(t *testing.T) {
	out := parsedProduct(t)

	assert.Equal(t, "GlowBoost Vitamin C Serum", out["name"])
	assert.Equal(t, "₹699", out["price"])
	assert.Equal(t, []interface{}{"Vitamin C", "Hyaluronic Acid"}, out["key_ingredients"])
}

func TestParser_RejectsIncompleteRecord(t *testing.T) {
	u := NewParser(testValidator(), testLogger())

	_, err := u.Execute(context.Background(), ports.ExecutionInput{Record: domain.Record{"name": "x"}})
	require.Error(t, err)
	assert.True(t, domain.IsSchemaViolation(err))
}

func TestQuestions_AcceptsWrappedAndBareLists(t *testing.T) {
	parsed := parsedProduct(t)

	for _, payload := range []interface{}{
		map[string]interface{}{"questions": questionList(10)},
		questionList(10),
	} {
		gen := &fakeGen{payloads: []interface{}{payload}}
		u := NewQuestions(gen, testValidator(), testLogger())

		out, err := u.Execute(context.Background(), ports.ExecutionInput{
			Record:  sampleRecord(),
			Outputs: map[string]interface{}{NameParser: parsed},
		})
		require.NoError(t, err)
		m := out.(map[string]interface{})
		assert.Len(t, m["questions"], 10)
	}
}

func TestQuestions_TooFewRejected(t *testing.T) {
	gen := &fakeGen{payloads: []interface{}{questionList(5)}}
	u := NewQuestions(gen, testValidator(), testLogger())

	_, err := u.Execute(context.Background(), ports.ExecutionInput{
		Record:  sampleRecord(),
		Outputs: map[string]interface{}{NameParser: parsedProduct(t)},
	})
	require.Error(t, err)
	assert.True(t, domain.IsSchemaViolation(err))
}

func TestProduct_Page(t *testing.T) {
	gen := &fakeGen{payloads: []interface{}{map[string]interface{}{
		"title":       "GlowBoost Vitamin C Serum",
		"description": "A brightening serum.",
		"sections": map[string]interface{}{
			"benefits": "Brightening, fades dark spots",
		},
	}}}
	u := NewProduct(gen, testValidator(), testLogger())

	out, err := u.Execute(context.Background(), ports.ExecutionInput{
		Record:  sampleRecord(),
		Outputs: map[string]interface{}{NameParser: parsedProduct(t)},
	})
	require.NoError(t, err)
	m := out.(map[string]interface{})
	assert.Equal(t, "product", m["page_type"])
}

func TestProduct_MissingSectionsRejected(t *testing.T) {
	gen := &fakeGen{payloads: []interface{}{map[string]interface{}{
		"title":       "t",
		"description": "d",
	}}}
	u := NewProduct(gen, testValidator(), testLogger())

	_, err := u.Execute(context.Background(), ports.ExecutionInput{
		Record:  sampleRecord(),
		Outputs: map[string]interface{}{NameParser: parsedProduct(t)},
	})
	var violation *domain.SchemaViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "sections", violation.Path)
}

func TestComparison_ExactlyTwoSides(t *testing.T) {
	side := func(name string) map[string]interface{} {
		return map[string]interface{}{"name": name, "attributes": map[string]interface{}{"price": "699"}}
	}

	gen := &fakeGen{payloads: []interface{}{map[string]interface{}{
		"products": []interface{}{side("GlowBoost"), side("Rival")},
	}}}
	u := NewComparison(gen, testValidator(), testLogger())

	out, err := u.Execute(context.Background(), ports.ExecutionInput{
		Record:  sampleRecord(),
		Outputs: map[string]interface{}{NameParser: parsedProduct(t)},
	})
	require.NoError(t, err)
	assert.Equal(t, "comparison", out.(map[string]interface{})["page_type"])
}

func TestFAQ_CountFloor(t *testing.T) {
	parsed := parsedProduct(t)
	outputs := map[string]interface{}{
		NameParser:    parsed,
		NameQuestions: map[string]interface{}{"questions": questionList(15)},
	}

	gen := &fakeGen{payloads: []interface{}{map[string]interface{}{"faqs": faqList(14)}}}
	u := NewFAQ(gen, testValidator(), testLogger())
	_, err := u.Execute(context.Background(), ports.ExecutionInput{Record: sampleRecord(), Outputs: outputs})
	require.Error(t, err)
	assert.True(t, domain.IsSchemaViolation(err))

	gen = &fakeGen{payloads: []interface{}{map[string]interface{}{"faqs": faqList(15)}}}
	u = NewFAQ(gen, testValidator(), testLogger())
	out, err := u.Execute(context.Background(), ports.ExecutionInput{Record: sampleRecord(), Outputs: outputs})
	require.NoError(t, err)
	assert.Len(t, out.(map[string]interface{})["faqs"], 15)
}

func TestFAQ_GenerationErrorPropagates(t *testing.T) {
	gen := &fakeGen{err: domain.NewRateLimitExhaustedError(3, nil)}
	u := NewFAQ(gen, testValidator(), testLogger())

	_, err := u.Execute(context.Background(), ports.ExecutionInput{
		Record: sampleRecord(),
		Outputs: map[string]interface{}{
			NameParser:    parsedProduct(t),
			NameQuestions: map[string]interface{}{"questions": questionList(15)},
		},
	})
	require.Error(t, err)
	assert.True(t, domain.IsRateLimitExhausted(err))
}

func TestDefault_RegistrationOrder(t *testing.T) {
	units := Default(&fakeGen{}, testValidator(), testLogger())

	var names []string
	for _, u := range units {
		names = append(names, u.Name())
	}
	assert.Equal(t, []string{"parser", "questions", "product", "comparison", "faq"}, names)
}

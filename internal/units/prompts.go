package units

import (
	"fmt"

	"github.com/loomhq/loom/internal/adapters/validator"
	"github.com/loomhq/loom/internal/xjson"
)

// Prompt text is assembled as {system, user} pairs with an explicit
// JSON-only instruction, mirroring how hosted chat models are steered
// toward machine-readable output.

const jsonOnlyInstruction = `Respond with valid JSON only. Do not add prose before or after the JSON. Do not use markdown code fences.`

func productContext(parsed map[string]interface{}) string {
	data, err := xjson.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", parsed)
	}
	return string(data)
}

func questionsSystemPrompt() string {
	return "You are a skincare consumer-research specialist. You produce realistic questions potential buyers ask about a product.\n" + jsonOnlyInstruction
}

func questionsUserPrompt(parsed map[string]interface{}) string {
	return fmt.Sprintf(`Given this product data:

%s

Generate at least %d distinct user questions about the product, covering usage, safety, ingredients, results, and purchase concerns.

Return a JSON object: {"questions": [{"category": "...", "text": "..."}, ...]}`,
		productContext(parsed), validator.MinQuestionCount)
}

func productSystemPrompt() string {
	return "You are an e-commerce copywriter for skincare products. You write accurate, engaging product-page content grounded only in the supplied data.\n" + jsonOnlyInstruction
}

func productUserPrompt(parsed map[string]interface{}) string {
	return fmt.Sprintf(`Given this product data:

%s

Write product-page content.

Return a JSON object: {"title": "...", "description": "...", "sections": {"benefits": "...", "ingredients": "...", "usage": "...", "safety": "..."}}`,
		productContext(parsed))
}

func comparisonSystemPrompt() string {
	return "You are a skincare product analyst. You compare a real product against a plausible fictional competitor, keeping the real product's data accurate.\n" + jsonOnlyInstruction
}

func comparisonUserPrompt(parsed map[string]interface{}) string {
	return fmt.Sprintf(`Given this product data:

%s

Invent one plausible competing product and compare the two.

Return a JSON object: {"products": [{"name": "...", "attributes": {...}}, {"name": "...", "attributes": {...}}]} with exactly two entries, the real product first.`,
		productContext(parsed))
}

func faqSystemPrompt() string {
	return "You are a skincare product expert and customer-service specialist. You write helpful, accurate FAQ answers of two to four sentences each.\n" + jsonOnlyInstruction
}

func faqUserPrompt(parsed map[string]interface{}, questions []interface{}) string {
	questionsJSON, err := xjson.MarshalIndent(questions, "", "  ")
	if err != nil {
		questionsJSON = []byte("[]")
	}
	return fmt.Sprintf(`Given this product data:

%s

And these user questions:

%s

Answer at least %d of them from the product data.

Return a JSON object: {"faqs": [{"question": "...", "answer": "..."}, ...]} with at least %d entries.`,
		productContext(parsed), string(questionsJSON), validator.MinFAQCount, validator.MinFAQCount)
}

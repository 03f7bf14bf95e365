package validator

// Artifact kinds produced by the content units. Count floors are hard
// requirements: an FAQ page below the floor is rejected, not padded.

const (
	KindParsedProduct = "parsed_product"
	KindQuestions     = "questions"
	KindProductPage   = "product"
	KindComparison    = "comparison"
	KindFAQ           = "faq"

	MinQuestionCount = 10
	MinFAQCount      = 15
	ComparisonSides  = 2
)

// DefaultKinds returns the kind specs for the built-in content units.
func DefaultKinds() []KindSpec {
	return []KindSpec{
		{
			Kind: KindParsedProduct,
			Fields: []FieldSpec{
				{Name: "name", Type: TypeString},
				{Name: "price", Type: TypeString},
				{Name: "key_ingredients", Type: TypeList, MinItems: 1},
				{Name: "benefits", Type: TypeList, MinItems: 1},
			},
		},
		{
			Kind: KindQuestions,
			Fields: []FieldSpec{
				{
					Name: "questions", Type: TypeList, MinItems: MinQuestionCount,
					ItemFields: []FieldSpec{
						{Name: "category", Type: TypeString},
						{Name: "text", Type: TypeString},
					},
				},
			},
		},
		{
			Kind: KindProductPage,
			Fields: []FieldSpec{
				{Name: "page_type", Type: TypeString, Const: KindProductPage},
				{Name: "title", Type: TypeString},
				{Name: "description", Type: TypeString},
				{Name: "sections", Type: TypeMapping},
			},
		},
		{
			Kind: KindComparison,
			Fields: []FieldSpec{
				{Name: "page_type", Type: TypeString, Const: KindComparison},
				{
					Name: "products", Type: TypeList, ExactItems: ComparisonSides,
					ItemFields: []FieldSpec{
						{Name: "name", Type: TypeString},
						{Name: "attributes", Type: TypeMapping},
					},
				},
			},
		},
		{
			Kind: KindFAQ,
			Fields: []FieldSpec{
				{Name: "page_type", Type: TypeString, Const: KindFAQ},
				{
					Name: "faqs", Type: TypeList, MinItems: MinFAQCount,
					ItemFields: []FieldSpec{
						{Name: "question", Type: TypeString},
						{Name: "answer", Type: TypeString},
					},
				},
			},
		},
	}
}

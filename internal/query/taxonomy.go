package query

// The keyword taxonomy is fixed per deployment: one list of terms leaning
// toward separation coverage, one leaning toward unity coverage. Queries
// always OR both lists together; stance discrimination happens later in
// screening, not at query time.

var separationTerms = []string{
	"sovereignty",
	"independence",
	"separation",
	"secession",
	"referendum",
	"sovereignist",
	"leave Canada",
}

var unityTerms = []string{
	"federalism",
	"national unity",
	"remain in Canada",
	"anti-separation",
	"federalist",
}

// titleVariants maps an office type to the title strings a query should
// match against. Unknown office types fall back to the literal office value.
var titleVariants = map[string][]string{
	"mp":  {"MP", "Member of Parliament"},
	"mna": {"MNA", "Member of the National Assembly"},
}

// TaxonomyTerms returns the combined taxonomy term list, separation-leaning
// terms first.
func TaxonomyTerms() []string {
	terms := make([]string, 0, len(separationTerms)+len(unityTerms))
	terms = append(terms, separationTerms...)
	terms = append(terms, unityTerms...)
	return terms
}

// Package query builds provider search expressions from person records
// and the fixed keyword taxonomy.
package query

import (
	"fmt"
	"strings"

	"github.com/jlambert/stancewatch/internal/roster"
)

// Build constructs the boolean search expression for a person: quoted full
// name AND quoted office-title variants AND an OR-list of all taxonomy terms.
// It is a pure function and always produces a query; a missing display name
// falls back to a name derived from the slug.
func Build(p roster.Person) string {
	name := p.Name
	if name == "" {
		name = nameFromSlug(p.Slug)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%q", name)

	if titles := officeTitles(p.Office); len(titles) > 0 {
		b.WriteString(" AND (")
		b.WriteString(quoteJoin(titles, " OR "))
		b.WriteString(")")
	}

	b.WriteString(" AND (")
	b.WriteString(quoteJoin(TaxonomyTerms(), " OR "))
	b.WriteString(")")

	return b.String()
}

func officeTitles(office string) []string {
	if office == "" {
		return nil
	}
	if variants, ok := titleVariants[strings.ToLower(office)]; ok {
		return variants
	}
	return []string{office}
}

func quoteJoin(terms []string, sep string) string {
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = fmt.Sprintf("%q", term)
	}
	return strings.Join(quoted, sep)
}

func nameFromSlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

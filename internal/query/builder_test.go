package query_test

import (
	"strings"
	"testing"

	"github.com/jlambert/stancewatch/internal/query"
	"github.com/jlambert/stancewatch/internal/roster"
)

func TestBuildMP(t *testing.T) {
	q := query.Build(roster.Person{Slug: "jane-doe", Name: "Jane Doe", Office: "mp"})

	for _, want := range []string{
		`"Jane Doe"`,
		`("MP" OR "Member of Parliament")`,
		`"sovereignty"`,
		`"federalism"`,
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query missing %s:\n%s", want, q)
		}
	}
}

func TestBuildMNA(t *testing.T) {
	q := query.Build(roster.Person{Slug: "marc-tremblay", Name: "Marc Tremblay", Office: "mna"})

	if !strings.Contains(q, `("MNA" OR "Member of the National Assembly")`) {
		t.Errorf("query missing MNA title variants:\n%s", q)
	}
}

func TestBuildUnknownOffice(t *testing.T) {
	q := query.Build(roster.Person{Slug: "sam-roy", Name: "Sam Roy", Office: "senator"})

	if !strings.Contains(q, `("senator")`) {
		t.Errorf("unknown office should appear literally:\n%s", q)
	}
}

func TestBuildNoOffice(t *testing.T) {
	q := query.Build(roster.Person{Slug: "sam-roy", Name: "Sam Roy"})

	if strings.Contains(q, `("`) && strings.Count(q, " AND ") != 1 {
		t.Errorf("office clause should be absent when office is empty:\n%s", q)
	}
	if !strings.HasPrefix(q, `"Sam Roy" AND (`) {
		t.Errorf("expected name directly followed by taxonomy clause:\n%s", q)
	}
}

func TestBuildNameFromSlug(t *testing.T) {
	q := query.Build(roster.Person{Slug: "jane-doe", Office: "mp"})

	if !strings.HasPrefix(q, `"Jane Doe"`) {
		t.Errorf("missing name should derive from slug:\n%s", q)
	}
}

func TestTaxonomyTermsCombined(t *testing.T) {
	terms := query.TaxonomyTerms()

	if len(terms) == 0 {
		t.Fatal("taxonomy is empty")
	}

	found := map[string]bool{}
	for _, term := range terms {
		found[term] = true
	}
	for _, want := range []string{"sovereignty", "separation", "federalism", "national unity"} {
		if !found[want] {
			t.Errorf("taxonomy missing %q", want)
		}
	}
}

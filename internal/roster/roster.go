// Package roster loads the static person roster consumed by ingestion.
// The roster file is read once at process start; its absence is fatal.
package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Person identifies one tracked public figure.
type Person struct {
	Slug    string   `json:"slug"`
	Name    string   `json:"name"`
	Office  string   `json:"office"`
	Riding  string   `json:"riding,omitempty"`
	Aliases []string `json:"aliases,omitempty"`
}

type rosterFile struct {
	Persons []Person            `json:"persons"`
	Cohorts map[string][]string `json:"cohorts,omitempty"`
}

// Roster is the immutable set of tracked persons and named cohorts.
type Roster struct {
	persons map[string]Person
	order   []string
	cohorts map[string][]string
}

// Load reads and validates the roster file at path.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}

	var file rosterFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}

	if len(file.Persons) == 0 {
		return nil, fmt.Errorf("roster %s contains no persons", path)
	}

	persons := make(map[string]Person, len(file.Persons))
	order := make([]string, 0, len(file.Persons))
	for _, p := range file.Persons {
		if p.Slug == "" {
			return nil, fmt.Errorf("roster %s: person with empty slug", path)
		}
		if _, dup := persons[p.Slug]; dup {
			return nil, fmt.Errorf("roster %s: duplicate slug %q", path, p.Slug)
		}
		persons[p.Slug] = p
		order = append(order, p.Slug)
	}

	for name, slugs := range file.Cohorts {
		for _, slug := range slugs {
			if _, ok := persons[slug]; !ok {
				return nil, fmt.Errorf("roster %s: cohort %q references unknown slug %q", path, name, slug)
			}
		}
	}

	return &Roster{
		persons: persons,
		order:   order,
		cohorts: file.Cohorts,
	}, nil
}

// Find returns the person with the given slug.
func (r *Roster) Find(slug string) (Person, bool) {
	p, ok := r.persons[slug]
	return p, ok
}

// Slugs returns all person slugs in roster file order.
func (r *Roster) Slugs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Cohort returns the slugs of a named cohort.
func (r *Roster) Cohort(name string) ([]string, bool) {
	slugs, ok := r.cohorts[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(slugs))
	copy(out, slugs)
	return out, true
}

// CohortNames returns the defined cohort names, sorted.
func (r *Roster) CohortNames() []string {
	names := make([]string, 0, len(r.cohorts))
	for name := range r.cohorts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the number of persons in the roster.
func (r *Roster) Size() int {
	return len(r.persons)
}

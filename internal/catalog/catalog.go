package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownSkill is returned when a skill id is not in the catalog.
var ErrUnknownSkill = errors.New("unknown skill")

// registry holds the skill catalog with precomputed indices.
type registry struct {
	skills    []Skill
	byID      map[string]*Skill
	bySubject map[Subject][]Skill
}

var (
	mu  sync.RWMutex
	reg *registry
)

func init() {
	reg = buildRegistry(seedSkills())
}

// buildRegistry constructs the registry and its indices from a skill slice.
func buildRegistry(skills []Skill) *registry {
	r := &registry{
		skills:    skills,
		byID:      make(map[string]*Skill, len(skills)),
		bySubject: make(map[Subject][]Skill),
	}
	for i := range r.skills {
		s := &r.skills[i]
		r.byID[s.ID] = s
		r.bySubject[s.Subject] = append(r.bySubject[s.Subject], *s)
	}
	return r
}

// validateSkills checks for empty and duplicate ids.
func validateSkills(skills []Skill) error {
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		if s.ID == "" {
			return fmt.Errorf("skill with empty id (name %q)", s.Name)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate skill id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// Replace swaps the active catalog for a new skill set.
// Used by the seed command after loading a catalog file.
func Replace(skills []Skill) error {
	if err := validateSkills(skills); err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	reg = buildRegistry(skills)
	return nil
}

// Get returns the skill with the given id.
func Get(id string) (Skill, error) {
	mu.RLock()
	defer mu.RUnlock()
	if s, ok := reg.byID[id]; ok {
		return *s, nil
	}
	return Skill{}, fmt.Errorf("%w: %s", ErrUnknownSkill, id)
}

// Exists reports whether a skill id is in the catalog.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := reg.byID[id]
	return ok
}

// All returns every skill, sorted by id for stable iteration.
func All() []Skill {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Skill, len(reg.skills))
	copy(out, reg.skills)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// BySubject returns every skill for a subject, sorted by id.
func BySubject(subject Subject) []Skill {
	mu.RLock()
	defer mu.RUnlock()
	skills := reg.bySubject[subject]
	out := make([]Skill, len(skills))
	copy(out, skills)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Size returns the number of skills in the catalog.
func Size() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(reg.skills)
}

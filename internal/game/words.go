package game

import (
	"fmt"
	"math/rand"
	"sort"

	"gopkg.in/yaml.v3"
)

// WordService holds the static category/word tables used to seed rounds.
// The catalog is loaded once at startup from embedded YAML and never
// mutated afterwards, so it is safe for concurrent use.
type WordService struct {
	categories map[string][]string
	names      []string
}

// NewWordService parses the embedded word catalog. It fails fast on an
// empty or malformed catalog so a broken build is caught at startup.
func NewWordService(raw []byte) (*WordService, error) {
	var categories map[string][]string
	if err := yaml.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("parsing word catalog: %w", err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("word catalog contains no categories")
	}

	names := make([]string, 0, len(categories))
	for name, words := range categories {
		if len(words) == 0 {
			return nil, fmt.Errorf("category %q contains no words", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return &WordService{categories: categories, names: names}, nil
}

// Categories lists the known category names in stable order.
func (s *WordService) Categories() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// HasCategory reports whether the catalog knows the given category.
func (s *WordService) HasCategory(name string) bool {
	_, ok := s.categories[name]
	return ok
}

// RandomWord picks a uniformly random word from the given category.
func (s *WordService) RandomWord(category string) (string, error) {
	words, ok := s.categories[category]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	return words[rand.Intn(len(words))], nil
}

// RandomPick picks a uniformly random category, then a uniformly random
// word within it.
func (s *WordService) RandomPick() (category, word string) {
	category = s.names[rand.Intn(len(s.names))]
	words := s.categories[category]
	return category, words[rand.Intn(len(words))]
}

package usecase

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// Standardizer maps raw skill mentions to canonical display names and drops
// noise: unknown strings, soft skills, deny-listed substrings, and strings
// shorter than two characters. The taxonomy is the sole authority for what
// counts as a skill.
type Standardizer struct {
	tax  domain.Taxonomy
	deny []string
}

// NewStandardizer builds a standardizer over a taxonomy snapshot and a
// deny-list of lowercase noise substrings.
func NewStandardizer(tax domain.Taxonomy, deny []string) *Standardizer {
	lowered := make([]string, 0, len(deny))
	for _, d := range deny {
		if d = textx.Normalize(d); d != "" {
			lowered = append(lowered, d)
		}
	}
	return &Standardizer{tax: tax, deny: lowered}
}

// Standardize resolves each raw string through the taxonomy and filters the
// result. Output order follows input order of first occurrence; duplicates
// collapsing to one canonical skill are emitted once. Pure over the current
// taxonomy snapshot.
func (s *Standardizer) Standardize(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := map[string]bool{}
	for _, r := range raw {
		id := s.tax.Resolve(r)
		if id == "" {
			continue
		}
		display := s.tax.DisplayName(id)
		if display == "" || seen[display] {
			continue
		}
		if s.isNoise(display) || s.isSoft(id) || len(display) < 2 {
			continue
		}
		seen[display] = true
		out = append(out, display)
	}
	return out
}

// IsNoise reports whether a resolved display name matches the deny-list.
func (s *Standardizer) IsNoise(name string) bool { return s.isNoise(name) }

func (s *Standardizer) isNoise(name string) bool {
	lower := strings.ToLower(name)
	if len(lower) < 2 {
		return true
	}
	for _, d := range s.deny {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

func (s *Standardizer) isSoft(id string) bool {
	return strings.Contains(strings.ToLower(s.tax.Category(id)), "soft")
}

// denyListFile is the YAML shape of the deny-list configuration.
type denyListFile struct {
	Deny []string `yaml:"deny"`
}

// LoadDenyList reads the deny-list YAML. The list is configuration, not
// code, so the taxonomy of "noise" can evolve without rebuilding.
func LoadDenyList(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("op=usecase.LoadDenyList: %w", err)
	}
	var f denyListFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("op=usecase.LoadDenyList parse: %w", err)
	}
	return f.Deny, nil
}

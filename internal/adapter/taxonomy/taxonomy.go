// Package taxonomy loads the controlled skill vocabulary from CSV and serves
// it as an immutable snapshot.
package taxonomy

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// Snapshot is the read-only skill vocabulary. It is built once at startup and
// never mutated afterwards, so it is safe for concurrent reads without locking.
type Snapshot struct {
	byID      map[string]domain.SkillRecord
	nameToID  map[string]string
	kwToID    map[string]string
	names     []string
	keywords  []string
	kwOrdered []string // keywords in load order, for containment resolution
}

// LoadCSV reads a skills CSV (header: id,topic,category,keywords,importance,
// adviceText; keywords pipe-separated). A "Skill: " prefix on topic is
// stripped from the display name.
func LoadCSV(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("op=taxonomy.LoadCSV: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse builds a snapshot from CSV content.
func Parse(r io.Reader) (*Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("op=taxonomy.Parse read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(strings.ToLower(h))] = i
	}
	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	s := &Snapshot{
		byID:     map[string]domain.SkillRecord{},
		nameToID: map[string]string{},
		kwToID:   map[string]string{},
	}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("op=taxonomy.Parse read row: %w", err)
		}
		id := get(row, "id")
		display := strings.TrimPrefix(get(row, "topic"), "Skill: ")
		if id == "" || display == "" {
			continue
		}
		name := strings.ToLower(display)
		rec := domain.SkillRecord{
			ID:          id,
			Name:        name,
			DisplayName: display,
			Category:    get(row, "category"),
			Importance:  get(row, "importance"),
			Advice:      get(row, "advicetext"),
		}
		if kws := get(row, "keywords"); kws != "" {
			for _, kw := range strings.Split(kws, "|") {
				kw = textx.Normalize(kw)
				if kw == "" {
					continue
				}
				rec.Keywords = append(rec.Keywords, kw)
				if _, dup := s.kwToID[kw]; !dup {
					s.kwToID[kw] = id
					s.kwOrdered = append(s.kwOrdered, kw)
					s.keywords = append(s.keywords, kw)
				}
			}
		}
		s.byID[id] = rec
		s.nameToID[name] = id
		s.names = append(s.names, name)
	}
	return s, nil
}

// Resolve maps a free-text skill mention to its canonical id. Resolution
// order: exact lowercase name, exact keyword synonym, then containment of a
// known keyword (length > 3) inside the mention. First match wins; no
// longest-match preference (known limitation).
func (s *Snapshot) Resolve(name string) string {
	lower := textx.Normalize(name)
	if lower == "" {
		return ""
	}
	if id, ok := s.nameToID[lower]; ok {
		return id
	}
	if id, ok := s.kwToID[lower]; ok {
		return id
	}
	for _, kw := range s.kwOrdered {
		if len(kw) > 3 && strings.Contains(lower, kw) {
			return s.kwToID[kw]
		}
	}
	return ""
}

// Record returns the full taxonomy record for id.
func (s *Snapshot) Record(id string) (domain.SkillRecord, bool) {
	rec, ok := s.byID[id]
	return rec, ok
}

// DisplayName returns the properly cased name for id, or "" when unknown.
func (s *Snapshot) DisplayName(id string) string { return s.byID[id].DisplayName }

// Category returns the category for id.
func (s *Snapshot) Category(id string) string { return s.byID[id].Category }

// Advice returns the curated advice text for id.
func (s *Snapshot) Advice(id string) string { return s.byID[id].Advice }

// Names returns all lowercase canonical names.
func (s *Snapshot) Names() []string { return s.names }

// Keywords returns all known keyword synonyms.
func (s *Snapshot) Keywords() []string { return s.keywords }

// ScanText finds canonical skills mentioned verbatim (word-bounded) in free
// text, scanning both canonical names and keyword synonyms.
func (s *Snapshot) ScanText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)
	seen := map[string]bool{}
	var out []string
	add := func(term, id string) {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil || !re.MatchString(lower) {
			return
		}
		disp := s.DisplayName(id)
		if disp != "" && !seen[disp] {
			seen[disp] = true
			out = append(out, disp)
		}
	}
	for _, name := range s.names {
		add(name, s.nameToID[name])
	}
	for _, kw := range s.kwOrdered {
		add(kw, s.kwToID[kw])
	}
	return out
}

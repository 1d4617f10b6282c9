package usecase

import (
	"strings"

	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// Similarity thresholds. Reconciliation is intentionally stricter than
// initial presence detection so genuine gaps are not erased.
const (
	presenceThreshold  = 0.80
	reconcileThreshold = 0.82
)

// SkillSet is a membership set over normalized skill names.
type SkillSet map[string]bool

// NewSkillSet builds a set from skill names, normalizing each.
func NewSkillSet(skills []string) SkillSet {
	set := make(SkillSet, len(skills))
	for _, s := range skills {
		if k := textx.Normalize(s); k != "" {
			set[k] = true
		}
	}
	return set
}

// IsPresent decides whether a required skill is satisfied by the candidate's
// skill set. Short-circuit order: exact membership, AI-asserted equivalence,
// then embedding similarity against every candidate skill. With no embedding
// for the required skill the last step fails closed.
func IsPresent(required string, candidate SkillSet, ix Index, aiAsserted []string) bool {
	lower := textx.Normalize(required)
	if lower == "" {
		return false
	}
	if candidate[lower] {
		return true
	}
	// The upstream profiler may assert equivalences the deterministic rules
	// cannot see (domain-specific synonyms). Corroborating evidence only; the
	// lists it feeds have already been standardized.
	for _, a := range aiAsserted {
		if strings.EqualFold(strings.TrimSpace(a), lower) {
			return true
		}
	}
	target := ix.Lookup(lower)
	if len(target) == 0 {
		return false
	}
	for cand := range candidate {
		if Cosine(target, ix.Lookup(cand)) >= presenceThreshold {
			return true
		}
	}
	return false
}

// Reconcile removes false gaps: any missing skill semantically covered by a
// matched skill (cosine >= 0.82) is dropped from missing. Matched is returned
// unchanged. Idempotent: reconciling the output again is a no-op.
func Reconcile(matched, missing []string, ix Index) (matchedOut, missingOut []string) {
	matchedOut = append([]string(nil), matched...)
	missingOut = make([]string, 0, len(missing))
	for _, gap := range missing {
		gapEmb := ix.Lookup(gap)
		covered := false
		if len(gapEmb) > 0 {
			for _, have := range matched {
				if Cosine(gapEmb, ix.Lookup(have)) >= reconcileThreshold {
					covered = true
					break
				}
			}
		}
		if !covered {
			missingOut = append(missingOut, gap)
		}
	}
	return matchedOut, missingOut
}

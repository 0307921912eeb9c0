package dashboard

import (
	"math"

	"github.com/google/uuid"

	"github.com/goliatone/go-l10n/internal/translations"
)

// Stats aggregates translation progress for a project, locale or both.
type Stats struct {
	Total         int `json:"total"`
	Approved      int `json:"approved"`
	Pretranslated int `json:"pretranslated"`
	Warnings      int `json:"warnings"`
	Unreviewed    int `json:"unreviewed"`
	Missing       int `json:"missing"`
}

// Add accumulates other into s and recomputes Missing.
func (s *Stats) Add(other Stats) {
	s.Total += other.Total
	s.Approved += other.Approved
	s.Pretranslated += other.Pretranslated
	s.Warnings += other.Warnings
	s.Unreviewed += other.Unreviewed
	s.finalize()
}

// CompletionPercent is the share of strings with an approved, pretranslated
// or warned translation, rounded to two decimals.
func (s Stats) CompletionPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	done := float64(s.Approved+s.Pretranslated+s.Warnings) / float64(s.Total) * 100
	return math.Round(done*100) / 100
}

func (s *Stats) finalize() {
	s.Missing = s.Total - s.Approved - s.Pretranslated - s.Warnings
	if s.Missing < 0 {
		s.Missing = 0
	}
}

type pair struct {
	entity uuid.UUID
	locale uuid.UUID
}

// computeStats derives per-locale stats from the project's live entities and
// every translation submitted for them.
func computeStats(entities []*translations.Entity, all []*translations.Translation, localeIDs []uuid.UUID) map[uuid.UUID]Stats {
	live := make(map[uuid.UUID]struct{}, len(entities))
	for _, entity := range entities {
		if !entity.Obsolete {
			live[entity.ID] = struct{}{}
		}
	}

	active := map[pair]*translations.Translation{}
	suggested := map[pair]struct{}{}
	for _, tr := range all {
		if _, ok := live[tr.EntityID]; !ok {
			continue
		}
		key := pair{entity: tr.EntityID, locale: tr.LocaleID}
		if tr.Active {
			active[key] = tr
			continue
		}
		if !tr.Approved && !tr.Rejected {
			suggested[key] = struct{}{}
		}
	}

	out := make(map[uuid.UUID]Stats, len(localeIDs))
	for _, localeID := range localeIDs {
		stats := Stats{Total: len(live)}
		for entityID := range live {
			key := pair{entity: entityID, locale: localeID}
			if tr, ok := active[key]; ok {
				switch {
				case tr.Approved:
					stats.Approved++
				case tr.Pretranslated:
					stats.Pretranslated++
				case tr.Fuzzy:
					stats.Warnings++
				}
			}
			if _, ok := suggested[key]; ok {
				stats.Unreviewed++
			}
		}
		stats.finalize()
		out[localeID] = stats
	}
	return out
}

package survey

import (
	"fmt"

	"github.com/okian/boringmap/internal/domain/types"
)

// verifyScore checks the invariants every score response must hold.
func verifyScore(s types.ScoreResponse) error {
	sum := 0
	for category, d := range s.Details {
		sum += d.Score
		if d.Count < 0 || d.Score < 0 {
			return fmt.Errorf("category %s has negative tallies", category)
		}
		if d.Count == 0 && d.Score != 0 {
			return fmt.Errorf("category %s scores %d without hits", category, d.Score)
		}
	}
	if sum != s.TotalScore {
		return fmt.Errorf("totalScore %d does not equal the sum of details %d", s.TotalScore, sum)
	}
	if len(s.Summary.LocationStats) != len(s.Details) {
		return fmt.Errorf("summary lists %d categories, details %d", len(s.Summary.LocationStats), len(s.Details))
	}
	for _, st := range s.Summary.LocationStats {
		d, ok := s.Details[st.Type]
		if !ok || d.Count != st.Count || d.Score != st.Contribution {
			return fmt.Errorf("summary row %s disagrees with details", st.Type)
		}
	}
	if s.Summary.NumberOfPlaces != len(s.Places) {
		return fmt.Errorf("numberOfPlaces %d but %d places listed", s.Summary.NumberOfPlaces, len(s.Places))
	}
	return nil
}

// verifyOutcomes marks inconsistent responses as failed and returns how many
// were found.
func verifyOutcomes(outcomes []Outcome) int {
	bad := 0
	for i := range outcomes {
		if !outcomes[i].OK() {
			continue
		}
		if err := verifyScore(outcomes[i].Score); err != nil {
			outcomes[i].Err = "inconsistent response: " + err.Error()
			bad++
		}
	}
	return bad
}

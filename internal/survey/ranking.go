package survey

import (
	"sort"
)

// Rank orders scored points from most boring (lowest total score) to least.
// Ties go to the point with fewer scored places, then by name. Failed points
// are left out.
func Rank(outcomes []Outcome) []RankedPoint {
	ranked := make([]RankedPoint, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		ranked = append(ranked, RankedPoint{
			Name:           o.Point.Name,
			Latitude:       o.Point.Latitude,
			Longitude:      o.Point.Longitude,
			TotalScore:     o.Score.TotalScore,
			NumberOfPlaces: o.Score.Summary.NumberOfPlaces,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore < b.TotalScore
		}
		if a.NumberOfPlaces != b.NumberOfPlaces {
			return a.NumberOfPlaces < b.NumberOfPlaces
		}
		return a.Name < b.Name
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

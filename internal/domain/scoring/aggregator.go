package scoring

import "github.com/okian/boringmap/internal/domain/model"

// CategoryDetail is the tally for one scored category.
type CategoryDetail struct {
	Category string
	Count    int
	Score    int
}

// PlaceSummary is a simplified view of a place that matched at least one scored category.
type PlaceSummary struct {
	Name     string
	Types    []string // scored categories only
	Score    int
	Address  string
	Location model.LatLng
}

// Result is the score breakdown for one location.
type Result struct {
	TotalScore     int
	Details        []CategoryDetail // one entry per table category, in table order
	NumberOfPlaces int
	Places         []PlaceSummary
}

// DetailsByCategory indexes Details by category name.
func (r Result) DetailsByCategory() map[string]CategoryDetail {
	out := make(map[string]CategoryDetail, len(r.Details))
	for _, d := range r.Details {
		out[d.Category] = d
	}
	return out
}

// Aggregator folds place records into a Result. It holds no mutable state and
// is safe for concurrent use.
type Aggregator struct {
	table Table
}

// NewAggregator creates an Aggregator bound to table.
func NewAggregator(table Table) *Aggregator {
	return &Aggregator{table: table}
}

// Table returns the table the aggregator scores with.
func (a *Aggregator) Table() Table {
	return a.table
}

// Aggregate scores records. Every table category is reported, including those
// with no hits. A record carrying several scored tags adds to each of them but
// is counted once in NumberOfPlaces. The same tag listed twice on one record
// counts once for that category.
func (a *Aggregator) Aggregate(records []model.PlaceRecord) Result {
	categories := a.table.Categories()
	details := make([]CategoryDetail, len(categories))
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		details[i] = CategoryDetail{Category: c}
		index[c] = i
	}

	places := make([]PlaceSummary, 0, len(records))
	for _, rec := range records {
		var (
			scored []string
			score  int
			seen   = make(map[string]struct{}, len(rec.Types))
		)
		for _, tag := range rec.Types {
			weight, ok := a.table.Weight(tag)
			if !ok {
				continue
			}
			// a tag repeated on one record only counts once
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}

			d := &details[index[tag]]
			d.Count++
			d.Score += weight

			scored = append(scored, tag)
			score += weight
		}
		if len(scored) == 0 {
			continue
		}
		places = append(places, PlaceSummary{
			Name:     rec.Name,
			Types:    scored,
			Score:    score,
			Address:  rec.Address,
			Location: rec.Location,
		})
	}

	total := 0
	for _, d := range details {
		total += d.Score
	}

	return Result{
		TotalScore:     total,
		Details:        details,
		NumberOfPlaces: len(places),
		Places:         places,
	}
}

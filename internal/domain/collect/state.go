package collect

import (
	"fmt"

	"github.com/okian/boringmap/internal/domain/model"
)

// State is a step of one score computation.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateAggregating
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateAggregating:
		return "aggregating"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// cursor is the pagination state carried between fetches.
type cursor struct {
	state   State
	pages   int    // pages fetched so far
	token   string // token for the next request, empty before the first page
	records []model.PlaceRecord
	err     error
}

// start moves an idle cursor into the fetching state.
func start() cursor {
	return cursor{state: StateFetching}
}

// needsWait reports whether the next fetch is a continuation page.
func (c cursor) needsWait() bool {
	return c.state == StateFetching && c.token != ""
}

// step folds the outcome of one fetch into c. It performs no I/O.
//
// A fetch error fails the cursor and drops anything collected so far. A page
// without a continuation token finishes collection. A continuation token
// returned once maxPages pages have already been read fails with ErrPageLimit.
func step(c cursor, page model.Page, err error, maxPages int) cursor {
	if c.state != StateFetching {
		return c
	}
	if err != nil {
		return cursor{state: StateFailed, pages: c.pages, err: err}
	}

	next := cursor{
		state:   StateFetching,
		pages:   c.pages + 1,
		token:   page.NextToken,
		records: append(c.records, page.Records...),
	}
	if !page.HasNext() {
		next.state = StateAggregating
		return next
	}
	if maxPages > 0 && next.pages >= maxPages {
		return cursor{
			state: StateFailed,
			pages: next.pages,
			err:   fmt.Errorf("%w: still had a continuation token after %d pages", ErrPageLimit, next.pages),
		}
	}
	return next
}

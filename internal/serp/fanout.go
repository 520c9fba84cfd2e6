package serp

import (
	"context"
	"encoding/json"
	"sync"
)

// Outcome is the settled result for one query in a fan-out: either a
// normalized result or an error placeholder, never both.
type Outcome struct {
	Result *Result
	Err    string
}

// MarshalJSON renders a success as the result payload and a failure as an
// error placeholder object.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Err != "" {
		return json.Marshal(map[string]string{"error": o.Err})
	}
	return json.Marshal(o.Result)
}

// ResultSet maps query index to its settled outcome. Keys are always the
// contiguous range 0..len(queries)-1 of the dispatching call.
type ResultSet map[int]Outcome

// SearchAll dispatches every query concurrently and assembles the result set
// keyed by original index once all calls settle. One query's failure is caught
// at its own index and never aborts or delays its siblings.
func (c *Client) SearchAll(ctx context.Context, queries []string) ResultSet {
	results := make(ResultSet, len(queries))
	if len(queries) == 0 {
		return results
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for i, query := range queries {
		wg.Add(1)
		go func(index int, q string) {
			defer wg.Done()

			outcome := Outcome{}
			result, err := c.Search(ctx, q)
			if err != nil {
				outcome.Err = err.Error()
			} else {
				outcome.Result = result
			}

			mu.Lock()
			results[index] = outcome
			mu.Unlock()
		}(i, query)
	}

	wg.Wait()
	return results
}

package batch

import (
	"errors"
	"fmt"
	"sync"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/handler"
	"Thermo/internal/calc/registry"
)

const (
	// MaxItems bounds one batch request.
	MaxItems = 500
	workers  = 4
)

var (
	ErrNoItems = errors.New("no items")
	ErrTooMany = fmt.Errorf("more than %d items", MaxItems)
)

type Input struct {
	Items []cycle.Params `json:"items"`
}

// Item is the outcome of one parameter set; exactly one of Result and Error
// is set.
type Item struct {
	Index  int                `json:"index"`
	Result *handler.Result    `json:"result,omitempty"`
	Error  *handler.ErrorBody `json:"error,omitempty"`
}

type Result struct {
	Cycle  string `json:"cycle"`
	Count  int    `json:"count"`
	Failed int    `json:"failed"`
	Items  []Item `json:"items"`
}

// Calculate solves every item against one cycle. A failing item does not stop
// the others; results keep the input order.
func Calculate(entry registry.Entry, in Input, env cycle.Env) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, ErrNoItems
	}
	if len(in.Items) > MaxItems {
		return Result{}, ErrTooMany
	}

	items := make([]Item, len(in.Items))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				items[i] = solve(entry, i, in.Items[i], env)
			}
		}()
	}
	for i := range in.Items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := Result{Cycle: entry.Name, Count: len(items), Items: items}
	for _, it := range items {
		if it.Error != nil {
			out.Failed++
		}
	}
	return out, nil
}

func solve(entry registry.Entry, i int, p cycle.Params, env cycle.Env) Item {
	rep, err := entry.Solve(p, env)
	if err != nil {
		body := handler.Body(err)
		return Item{Index: i, Error: &body}
	}
	res := handler.NewResult(rep)
	return Item{Index: i, Result: &res}
}

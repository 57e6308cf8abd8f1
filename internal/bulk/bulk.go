// Package bulk reports the outcome of applying one operation independently to
// every element of a batch. A failing item never stops the batch.
package bulk

import (
	"context"
	"fmt"
	"strings"
)

// Failure records an input that could not be processed.
type Failure struct {
	Item  any    `json:"item"`
	Error string `json:"error"`
}

// Result summarizes a batch. SuccessfulOperations and FailedOperations keep
// the relative order of their inputs, and together account for every input.
type Result[T any] struct {
	Success              bool      `json:"success"`
	SuccessfulOperations []T       `json:"successfulOperations"`
	FailedOperations     []Failure `json:"failedOperations"`
	TotalProcessed       int       `json:"totalProcessed"`
}

// Partial reports whether some, but not all, inputs succeeded.
func (r Result[T]) Partial() bool {
	return len(r.SuccessfulOperations) > 0 && len(r.FailedOperations) > 0
}

// Summary renders a one-line description such as
// "8 of 10 roles imported; 2 failed: a: duplicate name; b: name is required".
func (r Result[T]) Summary(noun, verb string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d %s %s", len(r.SuccessfulOperations), r.TotalProcessed, noun, verb)
	if len(r.FailedOperations) == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, "; %d failed: ", len(r.FailedOperations))
	for i, f := range r.FailedOperations {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%v: %s", describe(f.Item), f.Error)
	}
	return b.String()
}

// Labeler lets an input choose how it is named in summaries.
type Labeler interface {
	Label() string
}

func describe(item any) any {
	if l, ok := item.(Labeler); ok {
		return l.Label()
	}
	return item
}

// Aggregator collects per-item outcomes in call order.
type Aggregator[T any] struct {
	succeeded []T
	failed    []Failure
}

// NewAggregator returns an aggregator with capacity for n items.
func NewAggregator[T any](n int) *Aggregator[T] {
	if n < 0 {
		n = 0
	}
	return &Aggregator[T]{
		succeeded: make([]T, 0, n),
		failed:    make([]Failure, 0),
	}
}

// Succeed records a produced result.
func (a *Aggregator[T]) Succeed(v T) {
	a.succeeded = append(a.succeeded, v)
}

// Fail records item as failed. A nil err is reported as "unknown error".
func (a *Aggregator[T]) Fail(item any, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	a.failed = append(a.failed, Failure{Item: item, Error: msg})
}

// Result builds the final summary. The aggregator may keep collecting after.
func (a *Aggregator[T]) Result() Result[T] {
	ok := make([]T, len(a.succeeded))
	copy(ok, a.succeeded)
	failed := make([]Failure, len(a.failed))
	copy(failed, a.failed)
	return Result[T]{
		Success:              len(failed) == 0,
		SuccessfulOperations: ok,
		FailedOperations:     failed,
		TotalProcessed:       len(ok) + len(failed),
	}
}

// Op processes a single input.
type Op[In, Out any] func(ctx context.Context, item In) (Out, error)

// Run applies op to every item in order. A panic inside op is recorded as a
// failure for that item. Once ctx is done the remaining items are recorded as
// failed with the context error instead of being attempted.
func Run[In, Out any](ctx context.Context, items []In, op Op[In, Out]) Result[Out] {
	agg := NewAggregator[Out](len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			agg.Fail(item, err)
			continue
		}
		out, err := safeCall(ctx, item, op)
		if err != nil {
			agg.Fail(item, err)
			continue
		}
		agg.Succeed(out)
	}
	return agg.Result()
}

func safeCall[In, Out any](ctx context.Context, item In, op Op[In, Out]) (out Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return op(ctx, item)
}

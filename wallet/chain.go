package wallet

import (
	"context"
	"errors"
	"fmt"
)

// Step is one provider attempt in a Chain.
type Step[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// Chain tries its steps in order and returns the first success. Each step
// runs at most once, so a two-step chain is a primary with one fallback.
type Chain[T any] struct {
	Steps []Step[T]
	// OnFailure observes every failed step.
	OnFailure func(name string, err error)
}

// Run returns the first successful result, the name of the step that
// produced it, or the joined errors of all steps.
func (c Chain[T]) Run(ctx context.Context) (T, string, error) {
	var (
		zero T
		errs []error
	)
	for _, step := range c.Steps {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		result, err := step.Run(ctx)
		if err == nil {
			return result, step.Name, nil
		}
		if c.OnFailure != nil {
			c.OnFailure(step.Name, err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", step.Name, err))
	}
	if len(errs) == 0 {
		return zero, "", errors.New("wallet: empty provider chain")
	}
	return zero, "", errors.Join(errs...)
}

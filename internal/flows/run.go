package flows

import (
	"context"
	"errors"
)

// RunParams carries the inputs of all three flows.
type RunParams struct {
	Views    ViewsParams
	Reports  ReportsParams
	Services ServicesParams
}

// RunAll runs views, reports and services in that order. A failing flow
// does not stop the following ones; all errors are returned joined.
func (r *Runner) RunAll(ctx context.Context, p RunParams) error {
	var errs []error

	if _, err := r.Views(ctx, p.Views); err != nil {
		r.log.Error().Err(err).Msg("views flow failed")
		errs = append(errs, err)
	}
	if _, err := r.Reports(ctx, p.Reports); err != nil {
		r.log.Error().Err(err).Msg("reports flow failed")
		errs = append(errs, err)
	}
	if _, err := r.Services(ctx, p.Services); err != nil {
		r.log.Error().Err(err).Msg("services flow failed")
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

package converter

import (
	"github.com/hashicorp/go-multierror"
)

// Report tallies a batch run. Per-file failures are collected rather than
// returned, so one bad definition never stops the batch.
type Report struct {
	Succeeded int
	Failed    int
	Outputs   []string // written (or, in dry-run mode, would-be) output paths
	Warnings  []string

	errs *multierror.Error
}

func (r *Report) success(output string) {
	r.Succeeded++
	r.Outputs = append(r.Outputs, output)
}

func (r *Report) failure(err error) {
	r.Failed++
	r.errs = multierror.Append(r.errs, err)
}

func (r *Report) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Merge adds other's counts, outputs and errors to r
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Succeeded += other.Succeeded
	r.Failed += other.Failed
	r.Outputs = append(r.Outputs, other.Outputs...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	if other.errs != nil {
		r.errs = multierror.Append(r.errs, other.errs.Errors...)
	}
}

// Err returns every per-file failure as one error, or nil when there were none
func (r *Report) Err() error {
	return r.errs.ErrorOrNil()
}

// Errors returns the individual per-file failures
func (r *Report) Errors() []error {
	if r.errs == nil {
		return nil
	}
	return r.errs.Errors
}

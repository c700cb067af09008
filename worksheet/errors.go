package worksheet

import "errors"

// Error kinds the processor surfaces. All other situations described in the
// spec (empty k-means clusters, centroids outside a region, isolated small
// regions, non-convergence within the iteration budget) are recovered
// locally and never reach the caller as an error.
var (
	ErrInvalidDimensions = errors.New("worksheet: invalid dimensions")
	ErrInvalidK          = errors.New("worksheet: invalid max colors")
	ErrAllocation        = errors.New("worksheet: scratch buffer allocation failed")
	ErrCancelled         = errors.New("worksheet: cancelled")
)

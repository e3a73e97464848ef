package grid

import "errors"

var (
	errCellSize   = errors.New("grid: cell size must be positive")
	errDimensions = errors.New("grid: width and height must be at least 1")
	errBaseSpeed  = errors.New("grid: base speed must be positive")
)

package grid

import "errors"

var (
	// ErrInvalidDimensions indicates a non-positive width or height.
	ErrInvalidDimensions = errors.New("grid: width and height must be positive")
	// ErrInvalidChunkSize indicates a chunk size that is not a positive power of two.
	ErrInvalidChunkSize = errors.New("grid: chunk size must be a positive power of two")
	// ErrInvalidLevel indicates a level count below one or a level index out of range.
	ErrInvalidLevel = errors.New("grid: level out of range")
	// ErrInvalidCellSize indicates a non-positive world cell size.
	ErrInvalidCellSize = errors.New("grid: cell size must be positive")
	// ErrUnknownEdit indicates an EditCommand with an unsupported type.
	ErrUnknownEdit = errors.New("grid: unknown edit type")
)

// ErrUnknownFlag indicates a flag name ParseFlags does not recognize.
var ErrUnknownFlag = errors.New("grid: unknown flag name")

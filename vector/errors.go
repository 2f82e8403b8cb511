package vector

import "errors"

// ErrDimensionMismatch indicates two vectors or a vector and a dense matrix
// disagree on size where the operation requires agreement.
var ErrDimensionMismatch = errors.New("vector: dimension mismatch")

// ErrSingular indicates Gram.SolveSPD was asked to solve a singular system.
var ErrSingular = errors.New("vector: singular system")

package models

import "errors"

// ErrShapeMismatch reports a violated series length/column contract. It is
// fatal and surfaces before any simulation state transition.
var ErrShapeMismatch = errors.New("shape mismatch")

// ErrInvalidParameter reports an unusable simulation parameter, such as an
// out-of-order threshold triple or a non-positive z-score window.
var ErrInvalidParameter = errors.New("invalid parameter")

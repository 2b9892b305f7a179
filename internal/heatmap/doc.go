// Package heatmap converts between landmark coordinates and the dense
// Gaussian target maps consumed and produced by the scoring model.
//
// # Encoding
//
// Encode places an unnormalized Gaussian at the landmark coordinate:
//
//	value(i, j) = exp(-((i-x)^2 + (j-y)^2) / (2*sigma^2))
//
// where i is the column and j is the row. No clamping happens inside Encode:
// a coordinate outside the grid still produces a well-defined map whose
// values are simply small (or zero after underflow) everywhere. Callers that
// need in-bounds coordinates must clamp before encoding; the augmentation
// pipeline's final clamp step guarantees this for training data.
//
// # Decoding
//
// Decode finds the maximum cell by exhaustive row-major scan. Ties go to the
// first cell encountered: lowest row index, then lowest column index. This
// tie-break is part of the contract — it makes decoded coordinates on flat
// regions reproducible — so any faster maximum search substituted here must
// preserve it exactly.
//
// # Errors
//
// Decode refuses zero-area grids and grids containing NaN or infinite
// values (ErrInvalidHeatmap) rather than returning an arbitrary location.
package heatmap

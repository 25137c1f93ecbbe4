// Package flat provides an exact nearest-neighbour index.
// It implements the driven.NearestNeighborIndex interface.
//
// Every query is compared against every stored vector using squared
// Euclidean distance, the same metric as a flat L2 index. The matrix is
// stored row-major in one contiguous slice.
//
// # Thread Safety
//
// An Index is immutable after New returns and can be searched from any
// number of goroutines. Publishing a new document means building a new
// Index and swapping the reference.
package flat

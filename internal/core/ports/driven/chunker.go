package driven

// Chunker splits text into overlapping word windows.
//
// Words are maximal runs of non-whitespace. Chunk i starts at word
// i*(size-overlap) and holds at most size words joined by single spaces.
// An overlap that stops the window from advancing fails with
// domain.ErrInvalidConfiguration.
type Chunker interface {
	Chunk(text string, size, overlap int) ([]string, error)
}

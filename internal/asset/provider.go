package asset

// Provider parses one source file into an object graph. Implementations own
// the container format entirely; nothing downstream of the graph may depend
// on how it was produced. A provider merges any sibling companion file (same
// stem, companion extension) before returning; the companion's absence is not
// an error.
type Provider interface {
	Load(path string) (*ObjectGraph, error)
}

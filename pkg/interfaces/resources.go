package interfaces

import "context"

// ResourceMetadata describes a remote note resource without its payload.
type ResourceMetadata struct {
	ID       string
	Title    string
	Mime     string
	Filename string
	Size     int64
}

// ResourceAPI fetches resource metadata and payloads from the remote notes
// service. Implementations are expected to handle authentication and retries
// internally; callers only see the terminal error for a given resource.
type ResourceAPI interface {
	Metadata(ctx context.Context, id string) (*ResourceMetadata, error)
	Data(ctx context.Context, id string) ([]byte, error)
}

// Progress reports how many distinct resources have reached a terminal state
// out of the total scheduled for a resolution run.
type Progress struct {
	Processed int
	Total     int
}

// ProgressFunc receives resolution progress updates. Callbacks fire once per
// distinct resource id, not once per textual occurrence.
type ProgressFunc func(Progress)

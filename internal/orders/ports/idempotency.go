package ports

import "context"

// StoredResponse is the captured creation response replayed verbatim when a
// client retries with the same Idempotency-Key.
type StoredResponse struct {
	StatusCode int
	Body       []byte
	OrderID    string
}

// IdempotencyStore makes order creation safe to retry. Save is first-write
// wins: once a key holds a response, later writes for it are ignored.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Save(ctx context.Context, key string, response StoredResponse) error
}

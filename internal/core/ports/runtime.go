package ports

import "context"

// RemoteService names one of the two agent-runtime services the backend
// proxies to.
type RemoteService string

const (
	RemoteWorkspace RemoteService = "workspace"
	RemoteGateway   RemoteService = "gateway"
)

// RuntimeResponse is the upstream reply after the retry envelope has been
// applied. Status carries the upstream HTTP status verbatim; non-transient
// statuses (404, 409, ...) are returned here rather than as errors so
// callers can apply their own semantics.
type RuntimeResponse struct {
	Status int
	Body   []byte
}

// RuntimeCaller issues authenticated calls against a runtime service. It
// owns the retry, backoff and timeout policy; callers only see the final
// outcome.
type RuntimeCaller interface {
	IsConfigured(service RemoteService) bool
	Call(ctx context.Context, service RemoteService, method, path string, body interface{}) (*RuntimeResponse, error)
}

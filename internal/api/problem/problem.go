package problem

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

const contentType = "application/problem+json"

// Problem type URIs. Every error response across the API uses this format,
// so clients can always distinguish not-found from server failure.
const (
	TypeValidationError = "https://tickethub.dev/problems/validation-error"
	TypeUnauthorized    = "https://tickethub.dev/problems/unauthorized"
	TypeForbidden       = "https://tickethub.dev/problems/forbidden"
	TypeNotFound        = "https://tickethub.dev/problems/not-found"
	TypeConflict        = "https://tickethub.dev/problems/conflict"
	TypeRateLimited     = "https://tickethub.dev/problems/rate-limited"
	TypeServerError     = "https://tickethub.dev/problems/server-error"
)

type ProblemDetails struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Errors   map[string]interface{} `json:"errors,omitempty"`
}

type Option func(*ProblemDetails)

func WithDetail(detail string) Option {
	return func(p *ProblemDetails) {
		p.Detail = detail
	}
}

func WithErrors(errs map[string]interface{}) Option {
	return func(p *ProblemDetails) {
		p.Errors = errs
	}
}

func Write(w http.ResponseWriter, r *http.Request, status int, typ, title string, err error, env string, opts ...Option) {
	problem := ProblemDetails{
		Type:   typ,
		Title:  title,
		Status: status,
	}

	for _, opt := range opts {
		opt(&problem)
	}

	if problem.Detail == "" && err != nil {
		if env == "development" || env == "test" {
			problem.Detail = err.Error()
		} else {
			problem.Detail = http.StatusText(status)
		}
	}

	if problem.Instance == "" && r != nil {
		problem.Instance = r.URL.Path
	}

	if err != nil && r != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", status).
			Str("type", typ).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(title)
	}

	WriteProblem(w, problem)
}

func WriteProblem(w http.ResponseWriter, problem ProblemDetails) {
	payload, err := json.Marshal(problem)
	if err != nil {
		fallback := fmt.Sprintf("{\"type\":\"about:blank\",\"title\":\"%s\",\"status\":500}", http.StatusText(http.StatusInternalServerError))
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallback))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(problem.Status)
	_, _ = w.Write(payload)
}

package custodykit

import (
	"errors"
	"net/http"
)

// Middleware provides HTTP middleware for caller authorization checks.
type Middleware struct {
	service      *Service
	getActorID   func(*http.Request) string
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := custodykit.NewMiddleware(service,
//	    custodykit.WithActorIDExtractor(func(r *http.Request) string {
//	        return r.Context().Value("actor_id").(string)
//	    }),
//	)
func NewMiddleware(service *Service, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		service:      service,
		getActorID:   defaultGetActorID,
		errorHandler: defaultErrorHandler,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// WithActorIDExtractor sets a custom function to extract the caller identity
// from the request.
func WithActorIDExtractor(fn func(*http.Request) string) MiddlewareOption {
	return func(m *Middleware) {
		m.getActorID = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetActorID(r *http.Request) string {
	return GetActorID(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrNoActorID) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if IsUnauthorized(err) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if IsSystemInactive(err) {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	if IsNotFound(err) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// RequireRole creates middleware that requires the caller to hold a role in
// good standing (active patient, practicing doctor, active hospital).
//
// Example:
//
//	router.With(mw.RequireRole(custodykit.RoleDoctor)).
//	    Post("/patients/{patientID}/records", addRecordHandler)
func (m *Middleware) RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actorID := m.getActorID(r)
			if actorID == "" {
				m.errorHandler(w, r, ErrNoActorID)
				return
			}

			checker, err := m.service.GetChecker(ctx, actorID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			if !checker.HasRole(role) || !checker.inGoodStanding() {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "missing required role").
					WithActor(actorID))
				return
			}

			// Add checker to context for use in handlers
			ctx = WithChecker(WithActorID(ctx, actorID), checker)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission creates middleware that requires the caller's role
// policy to grant an action.
//
// Example:
//
//	router.With(mw.RequirePermission("records.create")).
//	    Post("/patients/{patientID}/records", addRecordHandler)
func (m *Middleware) RequirePermission(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actorID := m.getActorID(r)
			if actorID == "" {
				m.errorHandler(w, r, ErrNoActorID)
				return
			}

			checker, err := m.service.GetChecker(ctx, actorID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			if !checker.Allows(action) {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "missing required permission").
					WithActor(actorID))
				return
			}

			ctx = WithChecker(WithActorID(ctx, actorID), checker)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSystemAdmin creates middleware that requires the caller to occupy
// the designated admin slot.
func (m *Middleware) RequireSystemAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actorID := m.getActorID(r)
			if actorID == "" {
				m.errorHandler(w, r, ErrNoActorID)
				return
			}

			checker, err := m.service.GetChecker(ctx, actorID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}

			if !checker.IsSystemAdmin() {
				m.errorHandler(w, r, NewError(ErrUnauthorized, "caller is not the system admin").
					WithActor(actorID))
				return
			}

			ctx = WithChecker(WithActorID(ctx, actorID), checker)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSystemActive creates middleware that rejects requests while the
// system gate is closed. Mount it on registration and record-mutation
// routes; leave revocation, suspension and read routes without it.
func (m *Middleware) RequireSystemActive() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			active, err := m.service.SystemActive(r.Context())
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}
			if !active {
				m.errorHandler(w, r, NewError(ErrSystemInactive, "system gate is closed"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

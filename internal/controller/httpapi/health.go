package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// ReadyCheck проверка зависимости для /readyz
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func healthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func readyz(checks []ReadyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[c.Name] = err.Error()
				continue
			}
			results[c.Name] = "ok"
		}

		render.Status(r, status)
		render.JSON(w, r, results)
	}
}

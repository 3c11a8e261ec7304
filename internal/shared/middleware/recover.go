package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/andrasnagy-data/peliculas/internal/shared/respond"
	"github.com/rs/zerolog/hlog"
)

// Recoverer turns a handler panic into the generic 500 response
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			hlog.FromRequest(r).Error().
				Str("panic", fmt.Sprint(rec)).
				Bytes("stack", debug.Stack()).
				Msg("Recovered from panic")
			respond.InternalError(w, r)
		}()

		next.ServeHTTP(w, r)
	})
}

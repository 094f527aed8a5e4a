package middleware

import (
	"net/http"

	"github.com/Dias221467/fitsocial/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Recovery turns a panicking handler into a 500 response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Log.WithFields(logrus.Fields{
					"error":      rec,
					"path":       r.URL.Path,
					"request_id": GetRequestID(r.Context()),
				}).Error("panic recovered")

				writeMessage(w, http.StatusInternalServerError, "something went wrong")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Package logging builds the process logger and derives request-scoped loggers.
//
// Every process logs JSON to stdout through log/slog. LOG_LEVEL selects the level
// (debug, info, warn, error) and LOG_FORMAT=text switches to the text handler for
// local development.
//
// Example usage:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    logger := logging.WithRequestID(r.Context(), h.Logger)
//	    logger.Info("serving news")
//	}
package logging

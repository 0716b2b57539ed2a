package news

import (
	"net/http"
	"time"
)

// Register mounts the news routes on mux.
func Register(mux *http.ServeMux, pipeline Pipeline) {
	mux.Handle("GET /api/news", ListHandler{Pipeline: pipeline, Now: time.Now})
}

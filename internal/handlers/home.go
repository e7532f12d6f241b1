package handlers

import (
	"fmt"
	"net/http"
)

// Home serves the liveness/welcome page at the root path.
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "luminosity alert relay is running")
}

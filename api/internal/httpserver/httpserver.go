package httpserver

import (
	"log"
	"net/http"
)

func StartHTTP(addr string, mux *http.ServeMux) error {
	log.Printf("caloriecam listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

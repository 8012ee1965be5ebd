// +build integration

package http

import "net/http"

// Received records the sidecar endpoints that have been called, so tests can
// assert that a cleanup run asked the proxy to quit.
type Received map[string]bool

var Recvd Received

func init() {
	Recvd = map[string]bool{}
}

func GetHttpTestHandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/quitquitquit" {
			Recvd["/quitquitquit"] = true
			w.WriteHeader(http.StatusOK)
		}
	}
}

func Reset() {
	Recvd = Received{}
}

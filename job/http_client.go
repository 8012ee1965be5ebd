package job

import (
	"io"
	"net/http"
)

// httpPoster is the slice of http.Client the sidecar quitter needs.
type httpPoster interface {
	Post(url, contentType string, body io.Reader) (resp *http.Response, err error)
}

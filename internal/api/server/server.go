package server

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"
)

// New wraps the trigger API router in an http.Server. Trigger requests are
// small JSON bodies; a client that needs longer than these timeouts is stuck,
// not legitimate.
func New(addr string, router *ginext.Engine) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
	}
}

package customHttpClient

import (
	"net/http"

	"github.com/akolanti/pdfchat/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// New returns a client backed by the shared pooled transport. The llm and
// embedding clients all talk to the same couple of hosts, so sharing keeps
// connections warm across them.
func New() *http.Client {
	return &http.Client{Transport: customTransport}
}

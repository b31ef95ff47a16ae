package github

import (
	"net/http"
	"strings"
)

// LabelPreview is the media type that unlocks the label mutations
const LabelPreview = "application/vnd.github.bane-preview+json"

// notFoundMessage starts the error GitHub returns for a NOT_FOUND lookup
const notFoundMessage = "Could not resolve to"

type previewTransport struct {
	mediaType string
	base      http.RoundTripper
}

// WithPreview wraps base so that every request asks for a schema preview
// through the Accept header.
func WithPreview(mediaType string, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &previewTransport{
		mediaType: mediaType,
		base:      base,
	}
}

func (t *previewTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Accept", t.mediaType)
	return t.base.RoundTrip(r)
}

// IsNotFound reports whether err is GitHub's answer for an object that does
// not resolve, such as an unknown repository or pull request number.
func IsNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), notFoundMessage)
}

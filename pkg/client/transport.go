package client

import (
	"net/http"
)

// Transport is an http.RoundTripper that attaches the stored bearer token
// to every outgoing request. Any 401 response clears the durable token as
// a side effect; it never navigates, redirecting on a dead session is the
// guard's job.
type Transport struct {
	Base  http.RoundTripper
	Store TokenStore
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request.
	out := req.Clone(req.Context())
	if token, err := t.Store.Token(); err == nil && token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		_ = t.Store.Clear()
	}
	return resp, nil
}

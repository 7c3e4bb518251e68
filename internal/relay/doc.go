// Package relay carries wire lines between peers through a small
// store-and-forward HTTP service.
//
// HTTP is the client side and implements domain.Transport. Server is the
// in-memory relay used by cmd/relay:
//
//	POST /msg/{user}             queue an Envelope for {user}
//	GET  /msg/{user}?limit=N     list up to N queued envelopes
//	POST /msg/{user}/ack         {"count": N} drops the first N
//
// The relay only handles lines that are already encrypted, so it never sees
// keys or plaintext. State is lost on exit.
package relay

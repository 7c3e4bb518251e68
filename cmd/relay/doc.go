// Package main runs the store-and-forward relay that carries encrypted chat
// lines between fishcrypt clients.
//
// HTTP API
//
//	POST /msg/{user}
//	    Queue an Envelope for {user}. The server assigns the ID and, if
//	    Timestamp is zero, the current Unix time.
//
//	GET /msg/{user}?limit=N
//	    Return up to N queued Envelopes for {user}, oldest first. A missing
//	    or zero limit returns the whole queue.
//
//	POST /msg/{user}/ack { "count": N }
//	    Drop the first N queued Envelopes for {user}.
//
// State is held in memory and lost on exit. The relay only ever sees wire
// lines: ciphertext, DH1080 public values, or whatever a client chose to send
// in the clear.
package main

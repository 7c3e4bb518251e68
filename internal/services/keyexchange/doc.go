// Package keyexchange runs DH1080 key agreement and stores the resulting
// key for the target.
//
// One pending session is kept per target. Initiate replaces whatever was
// there. A FINISH completes the pending session; an INIT is answered with a
// FINISH and completes immediately. Completed and failed sessions are
// deleted, and a session older than the configured TTL is treated as absent.
package keyexchange

// Package message turns inbound chat lines into text and outbound text into
// chat lines, using the key and cipher mode stored for each target.
//
// Inbound lines are classified by prefix. Lines that carry no ECB tag or CBC
// marker, and lines for targets without a key, pass through untouched. A
// line that fails to decode in the stored mode is retried in the other mode
// when auto-learning is on. A success there switches the target's mode and,
// if configured, persists it, unless the current mode has already decoded
// traffic: a confirmed mode only gives way after two such lines in a row.
//
// Outbound text always uses the stored mode. There is no fallback on the
// sending side.
package message

// Package protocol owns the wire contract for one transfer stream.
//
// Ownership boundary:
// - file header encode/decode
// - decode limits
// - destination name safety
package protocol

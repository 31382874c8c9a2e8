// Package transfer implements both ends of the transfer stream.
//
// Ownership boundary:
// - sender pipeline: one dial, ordered header+body frames, close write side
// - receiver pipeline: header/body state machine for one connection
// - receiver service: listener lifecycle, one session at a time
package transfer

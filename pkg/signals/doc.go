// Package signals holds the trading-signal domain: the signal types, the
// generator that stands in for the expensive signal computation, and a
// Service that wires the quota gate and the signal cache into a single
// entry point for request handlers.
//
// Free accounts are quota-gated and see at most their daily limit of signals
// per response; paying accounts bypass the gate and get the full set.
package signals

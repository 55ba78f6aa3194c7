// Package connect decides what happens after a provider handshake
// completes (Flow) and finishes signups that need a local account (Setup).
//
// Both operate on a Session, the browser's view of authentication and
// pending social login state, so they stay independent of the HTTP
// framework. Handlers adapt a request to a Session and render the result.
package connect

// Package types defines the card entity, display scopes, the Store
// interface, and the sentinel errors shared by every speakboard backend.
package types

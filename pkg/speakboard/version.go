// Package speakboard holds build information shared by the CLI and server.
package speakboard

// Version is the release version of the speakboard module.
const Version = "0.1.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/speakboard"

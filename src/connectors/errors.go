package connectors

import (
	"errors"
	"strings"
)

// AsRemoteError unwraps err into a RemoteError if one is present.
func AsRemoteError(err error) (*RemoteError, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote, true
	}
	return nil, false
}

// IsAlreadyRunning reports whether err is the engine refusing to start a
// session that is already running. Callers treat this as success.
func IsAlreadyRunning(err error) bool {
	remote, ok := AsRemoteError(err)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(remote.Detail), "already running")
}

// IsNotFound reports whether err is a 404 from the engine.
func IsNotFound(err error) bool {
	remote, ok := AsRemoteError(err)
	return ok && remote.Status == 404
}

// Detail returns the engine's message for remote failures, or the plain
// error text for transport failures.
func Detail(err error) string {
	if remote, ok := AsRemoteError(err); ok {
		return remote.Detail
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

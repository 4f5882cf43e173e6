package model

import (
	"net/url"
	"strconv"
)

// SessionIdentity is the single addressing scheme for a detail view: either a
// concrete session id, or a bare trading mode kept for backward compatibility
// with older links. It is resolved once at view entry and threaded through
// every subsequent call so a view never mixes the two.
type SessionIdentity struct {
	sessionID int64
	mode      TradingMode
}

func BySession(id int64) SessionIdentity {
	return SessionIdentity{sessionID: id}
}

func ByMode(mode TradingMode) SessionIdentity {
	return SessionIdentity{mode: mode}
}

// HasSession reports whether the identity carries a concrete session id.
func (s SessionIdentity) HasSession() bool {
	return s.sessionID != 0
}

func (s SessionIdentity) SessionID() int64 {
	return s.sessionID
}

func (s SessionIdentity) Mode() TradingMode {
	return s.mode
}

// Query renders the identity as the engine's query parameters, either
// session_id= or legacy mode=.
func (s SessionIdentity) Query() url.Values {
	v := url.Values{}
	if s.sessionID != 0 {
		v.Set("session_id", strconv.FormatInt(s.sessionID, 10))
	} else if s.mode != "" {
		v.Set("mode", string(s.mode))
	}
	return v
}

package models

// Owner identifies the scope a cart or wishlist is bound to: an authenticated
// user id, or an anonymous session id when nobody is signed in.
type Owner struct {
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

func GuestOwner(sessionID string) Owner {
	return Owner{SessionID: sessionID}
}

func UserOwner(userID, sessionID string) Owner {
	return Owner{UserID: userID, SessionID: sessionID}
}

// Authenticated reports whether the owner is a signed-in user
func (o Owner) Authenticated() bool {
	return o.UserID != ""
}

// Guest returns the anonymous scope of the same session
func (o Owner) Guest() Owner {
	return Owner{SessionID: o.SessionID}
}

// Scope returns a printable identity, used in logs
func (o Owner) Scope() string {
	if o.Authenticated() {
		return "user:" + o.UserID
	}
	return "guest:" + o.SessionID
}

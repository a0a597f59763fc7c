package session

import "github.com/dmitrijs2005/castkeeper/internal/client/models"

// Session is a point-in-time copy of the store's state.
type Session struct {
	Token           string
	User            *models.User
	IsAuthenticated bool
}

// record is the persisted form shared by the SQLite and Redis persisters.
type record struct {
	Token string       `json:"token,omitempty"`
	User  *models.User `json:"user,omitempty"`
}

func (s Session) record() record {
	return record{Token: s.Token, User: s.User.Clone()}
}

func (r record) session() Session {
	return Session{Token: r.Token, User: r.User, IsAuthenticated: r.User != nil}
}

package domain

// State is the aggregate root persisted by a StateStore: all aliases and
// sessions in newest-first insertion order. The broker exclusively owns the
// live State; stores only ever hold serialized copies.
type State struct {
	Aliases  []Alias   `json:"aliases"`
	Sessions []Session `json:"sessions"`
}

// NewState returns an empty state.
func NewState() *State { return &State{} }

// Clone returns a deep copy. Alias and Session contain only value fields,
// so copying the slices is sufficient.
func (s *State) Clone() *State {
	out := &State{}
	if len(s.Aliases) > 0 {
		out.Aliases = append([]Alias(nil), s.Aliases...)
	}
	if len(s.Sessions) > 0 {
		out.Sessions = append([]Session(nil), s.Sessions...)
	}
	return out
}

// FindAlias returns the alias with the given id.
func (s *State) FindAlias(id AliasID) (Alias, bool) {
	for _, a := range s.Aliases {
		if a.ID == id {
			return a, true
		}
	}
	return Alias{}, false
}

// FindSession returns the session with the given id.
func (s *State) FindSession(id SessionID) (Session, bool) {
	for _, sess := range s.Sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return Session{}, false
}

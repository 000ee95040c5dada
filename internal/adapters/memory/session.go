package memory

import "trip-planner-service/internal/ports"

// Session tracks the plan currently open for editing.
type Session struct {
	current *PlanStore
}

func NewSession() *Session { return &Session{} }

func (s *Session) Load(store *PlanStore) { s.current = store }

func (s *Session) Unload() { s.current = nil }

// Store returns the concrete current plan.
func (s *Session) Store() (*PlanStore, bool) {
	return s.current, s.current != nil
}

// Current implements ports.PlanSession.
func (s *Session) Current() (ports.PlanStore, bool) {
	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

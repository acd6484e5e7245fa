package service

import (
	"sync"

	"codecampus/internal/app/nav"
)

// sessionMachine pairs a navigation machine with the mutex that
// serializes access to it. nav.Machine is not safe for concurrent use,
// so every read or transition happens under mu.
type sessionMachine struct {
	mu sync.Mutex
	m  *nav.Machine
}

// NavigationService holds one navigation machine per session identity
// and applies the role guard after every state change. The guard
// resolves in at most one redirect cycle: the redirected Navigate
// clears context like any other transition.
type NavigationService struct {
	classify nav.Classifier

	mu       sync.Mutex
	machines map[string]*sessionMachine // keyed by normalized email
}

func NewNavigationService(classify nav.Classifier) *NavigationService {
	return &NavigationService{
		classify: classify,
		machines: make(map[string]*sessionMachine),
	}
}

// machineFor returns the session's machine, creating one at the
// logged-in initial view for a first request.
func (s *NavigationService) machineFor(email string) *sessionMachine {
	s.mu.Lock()
	defer s.mu.Unlock()
	sm, ok := s.machines[email]
	if !ok {
		sm = &sessionMachine{m: nav.NewMachine(true, s.classify)}
		s.machines[email] = sm
	}
	return sm
}

func (s *NavigationService) applyGuard(m *nav.Machine, role string) {
	current := m.State().Current
	if guarded := nav.Guard(role, current); guarded != current {
		// The guarded target is never gated itself, so one pass settles.
		_ = m.Navigate(guarded, nav.Context{})
	}
}

// State reports the session's navigation state after role gating.
func (s *NavigationService) State(email, role string) nav.State {
	sm := s.machineFor(email)
	sm.mu.Lock()
	defer sm.mu.Unlock()
	s.applyGuard(sm.m, role)
	return sm.m.State()
}

// Navigate applies one transition and the role guard.
func (s *NavigationService) Navigate(email, role string, target nav.View, ctx nav.Context) (nav.State, error) {
	sm := s.machineFor(email)
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if err := sm.m.Navigate(target, ctx); err != nil {
		return sm.m.State(), err
	}
	s.applyGuard(sm.m, role)
	return sm.m.State(), nil
}

// Back navigates to the current view's back target.
func (s *NavigationService) Back(email, role string) (nav.State, error) {
	sm := s.machineFor(email)
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if err := sm.m.Navigate(sm.m.BackTarget(), nav.Context{}); err != nil {
		return sm.m.State(), err
	}
	s.applyGuard(sm.m, role)
	return sm.m.State(), nil
}

// Drop discards the session's machine. Called on logout so the next
// login starts fresh.
func (s *NavigationService) Drop(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.machines, email)
}

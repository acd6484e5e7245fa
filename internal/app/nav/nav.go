// Package nav holds the view-navigation state machine. It decides which
// screen is active, carries the minimal context that screen needs (a
// course name or a challenge id) and remembers where "Back" returns to
// from the code editor. The package is pure: no HTTP, no storage.
package nav

import (
	"fmt"

	"codecampus/internal/common"
	"codecampus/internal/domain/model"
)

type View string

const (
	ViewLogin           View = "login"
	ViewCourses         View = "courses"
	ViewPractice        View = "practice"
	ViewCompiler        View = "compiler"
	ViewChallengeList   View = "challengeList"
	ViewChallengeEditor View = "challengeEditor"
	ViewProfile         View = "profile"
	ViewCourseDetail    View = "courseDetail"
	ViewAdmin           View = "admin"
	ViewHundredDays     View = "100days"
)

var allViews = map[View]struct{}{
	ViewLogin: {}, ViewCourses: {}, ViewPractice: {}, ViewCompiler: {},
	ViewChallengeList: {}, ViewChallengeEditor: {}, ViewProfile: {},
	ViewCourseDetail: {}, ViewAdmin: {}, ViewHundredDays: {},
}

// IsValid reports whether v names a known view.
func (v View) IsValid() bool {
	_, ok := allViews[v]
	return ok
}

// Context is the optional payload of a transition: a course name for
// the challenge-list and course-detail views, a challenge id for the
// editor. A zero ChallengeID means no challenge context.
type Context struct {
	Course      string
	ChallengeID int
}

// Classifier resolves a challenge id to its course classification.
// Supplied by the catalog so the machine stays storage-free.
type Classifier func(challengeID int) (string, error)

// State is a read-only snapshot of the machine.
type State struct {
	Current           View   `json:"current"`
	SelectedCourse    string `json:"selected_course,omitempty"`
	SelectedChallenge int    `json:"selected_challenge,omitempty"`
	EditorOrigin      View   `json:"editor_origin,omitempty"`
}

// Machine is the navigation state machine for one session. Not safe
// for concurrent use; callers serialize access per session.
type Machine struct {
	current           View
	selectedCourse    string
	selectedChallenge int
	editorOrigin      View
	classify          Classifier
}

// NewMachine starts a machine at the initial view for the given
// session presence: courses when a session exists, login otherwise.
func NewMachine(hasSession bool, classify Classifier) *Machine {
	m := &Machine{current: ViewLogin, classify: classify}
	if hasSession {
		m.current = ViewCourses
	}
	return m
}

// Navigate applies the transition contract:
//   - entering the editor captures the current view as the return
//     address and, given a challenge id, resolves its course
//     classification and selects both;
//   - the challenge-list and course-detail views accept a course name;
//   - every other target clears the selected course and challenge so
//     stale context cannot leak into unrelated screens.
func (m *Machine) Navigate(target View, ctx Context) error {
	if !target.IsValid() {
		return fmt.Errorf("unknown view %q: %w", target, common.ErrBadRequest)
	}

	switch {
	case target == ViewChallengeEditor:
		// Capture the origin before switching so Back returns to
		// wherever the editor was entered from.
		m.editorOrigin = m.current
		if ctx.ChallengeID != 0 {
			course, err := m.classify(ctx.ChallengeID)
			if err != nil {
				return err
			}
			m.selectedCourse = course
			m.selectedChallenge = ctx.ChallengeID
		}
	case target == ViewChallengeList || target == ViewCourseDetail:
		if ctx.Course != "" {
			m.selectedCourse = ctx.Course
		}
	default:
		m.selectedCourse = ""
		m.selectedChallenge = 0
	}

	m.current = target
	return nil
}

// Guard is the pure role gate, evaluated once per state change: admins
// never see the learner views, learners never see the admin view. It
// returns the possibly-redirected target and never mutates state.
func Guard(role string, view View) View {
	if role == model.RoleAdmin && (view == ViewCourses || view == ViewPractice) {
		return ViewAdmin
	}
	if role != model.RoleAdmin && view == ViewAdmin {
		return ViewCourses
	}
	return view
}

// BackTarget is the view a "Back" control navigates to from the
// current view. The editor returns to its captured origin; the
// challenge list returns to practice when the selected course is a
// practice language, else to the course catalog.
func (m *Machine) BackTarget() View {
	switch m.current {
	case ViewChallengeEditor:
		if m.editorOrigin != "" {
			return m.editorOrigin
		}
		return ViewCourses
	case ViewChallengeList:
		if model.IsPracticeLanguage(m.selectedCourse) {
			return ViewPractice
		}
		return ViewCourses
	case ViewCourseDetail:
		return ViewCourses
	default:
		return ViewCourses
	}
}

// Reset returns the machine to the login view with no context. Called
// on logout.
func (m *Machine) Reset() {
	m.current = ViewLogin
	m.selectedCourse = ""
	m.selectedChallenge = 0
	m.editorOrigin = ""
}

func (m *Machine) State() State {
	return State{
		Current:           m.current,
		SelectedCourse:    m.selectedCourse,
		SelectedChallenge: m.selectedChallenge,
		EditorOrigin:      m.editorOrigin,
	}
}

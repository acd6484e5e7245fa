package model

import (
	"strings"
	"unicode"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Stat is one label/value pair shown on the profile card. Order matters.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// UserProfile is the persistent record of a user's identity, display
// stats and submission history. Profiles are keyed by normalized email
// everywhere; exactly one profile exists per normalized email.
type UserProfile struct {
	Name        string             `json:"name"`
	Username    string             `json:"username"`
	Avatar      string             `json:"avatar"` // empty means initials fallback
	Email       string             `json:"email"`
	Role        string             `json:"role"`
	College     string             `json:"college"`
	Course      string             `json:"course"`
	Stats       []Stat             `json:"stats"`
	Submissions []SubmissionRecord `json:"submissions"` // newest first
}

// NormalizeEmail lowercases and trims an email. The result is the
// profile key everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DeriveName builds a display name from the email local-part,
// capitalizing the first letter.
func DeriveName(email string) string {
	local := NormalizeEmail(email)
	if at := strings.Index(local, "@"); at >= 0 {
		local = local[:at]
	}
	if local == "" {
		return local
	}
	return strings.ToUpper(local[:1]) + local[1:]
}

// DeriveUsername strips everything but letters and digits from the
// lowercased name.
func DeriveUsername(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DefaultStats is the starter stat set given to a freshly created profile.
func DefaultStats() []Stat {
	return []Stat{
		{Label: "Rank", Value: "-"},
		{Label: "Problems", Value: "0"},
		{Label: "Points", Value: "0"},
	}
}

// NewUserProfile synthesizes a profile for an unseen email. Name and
// avatar may be empty; the name falls back to the email local-part.
func NewUserProfile(email, role, name, avatar string) *UserProfile {
	if name == "" {
		name = DeriveName(email)
	}
	return &UserProfile{
		Name:        name,
		Username:    DeriveUsername(name),
		Avatar:      avatar,
		Email:       NormalizeEmail(email),
		Role:        role,
		Stats:       DefaultStats(),
		Submissions: []SubmissionRecord{},
	}
}

// SolvedCount is the number of distinct challenges with at least one
// Accepted submission. Raw submission count never feeds the stats.
func (p *UserProfile) SolvedCount() int {
	seen := make(map[int]struct{})
	for _, sub := range p.Submissions {
		if sub.Status == SubmissionAccepted {
			seen[sub.ChallengeID] = struct{}{}
		}
	}
	return len(seen)
}

// SolvedChallengeIDs returns the distinct challenge ids with an
// Accepted submission, in no particular order.
func (p *UserProfile) SolvedChallengeIDs() []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, sub := range p.Submissions {
		if sub.Status != SubmissionAccepted {
			continue
		}
		if _, ok := seen[sub.ChallengeID]; ok {
			continue
		}
		seen[sub.ChallengeID] = struct{}{}
		ids = append(ids, sub.ChallengeID)
	}
	return ids
}

// SetStat updates the stat with the given label in place, preserving
// order, appending when the label is new.
func (p *UserProfile) SetStat(label, value string) {
	for i := range p.Stats {
		if p.Stats[i].Label == label {
			p.Stats[i].Value = value
			return
		}
	}
	p.Stats = append(p.Stats, Stat{Label: label, Value: value})
}

// Package session holds the per-user state the shell reads and mutates on
// every request. Nothing in it is process-global.
package session

import (
	"time"

	"agrisense/internal/model"
)

// Session is one user's authentication state and last analysis.
type Session struct {
	ID            string                `json:"id"`
	Authenticated bool                  `json:"authenticated"`
	Role          model.Role            `json:"role,omitempty"`
	Email         string                `json:"email,omitempty"`
	IdentityToken string                `json:"identity_token,omitempty"`
	LastCrop      string                `json:"last_crop,omitempty"`
	LastResult    *model.AnalysisResult `json:"last_result,omitempty"`
	Notice        string                `json:"notice,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// Anonymous returns the state of a first page load: nothing set.
func Anonymous() *Session {
	return &Session{}
}

// New returns an authenticated session for email signed in as role.
func New(email string, role model.Role, identityToken string) *Session {
	return &Session{
		Authenticated: true,
		Role:          role,
		Email:         email,
		IdentityToken: identityToken,
	}
}

// IsAdmin reports whether the session may open the admin views.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Authenticated && s.Role.IsAdmin()
}

// SetResult replaces the last analysis shown to the user.
func (s *Session) SetResult(crop string, result model.AnalysisResult) {
	s.LastCrop = crop
	s.LastResult = &result
}

// TakeNotice returns the pending one-shot notice and clears it.
func (s *Session) TakeNotice() string {
	n := s.Notice
	s.Notice = ""
	return n
}

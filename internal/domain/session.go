package domain

import "strings"

// Ключи персистентного хранилища сессии.
const (
	KeyToken            = "token"
	KeyUserEmail        = "userEmail"
	KeyProfileImage     = "profileImage"
	KeyHasVisitedBefore = "hasVisitedBefore"
	KeyRecentSearches   = "recentSearches"
)

// Session — состояние входа пользователя. Наличие токена означает, что пользователь вошёл.
type Session struct {
	Token string `json:"-"`
	Email string `json:"email"`
}

func NewSession(token, email string) *Session {
	return &Session{
		Token: token,
		Email: email,
	}
}

// Active сообщает, есть ли у сессии токен.
func (s *Session) Active() bool {
	return s != nil && s.Token != ""
}

// Username — часть email до "@".
func (s *Session) Username() string {
	if s == nil || s.Email == "" {
		return ""
	}
	name, _, _ := strings.Cut(s.Email, "@")
	return name
}

// NavigationRequest — намерение перейти на другой экран. Выполняет его слой представления.
type NavigationRequest struct {
	Path   string `json:"path"`
	Reason string `json:"reason,omitempty"`
}

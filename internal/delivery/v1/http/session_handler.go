package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/internal/usecase"
)

type SessionHandler struct {
	responder
	session      usecase.SessionUC
	maxPhotoSize int64
}

func NewSessionHandler(session usecase.SessionUC, rs responder, maxPhotoSize int64) *SessionHandler {
	return &SessionHandler{responder: rs, session: session, maxPhotoSize: maxPhotoSize}
}

type signInRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Username      string `json:"username,omitempty"`
	IsAdmin       bool   `json:"isAdmin"`
	ProfileImage  string `json:"profileImage,omitempty"`
}

func (h *SessionHandler) newSessionResponse(s *domain.Session, profileImage string) sessionResponse {
	return sessionResponse{
		Authenticated: s.Active(),
		Email:         emailOf(s),
		Username:      s.Username(),
		IsAdmin:       h.session.IsAdmin(s),
		ProfileImage:  profileImage,
	}
}

func (h *SessionHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	s, err := h.session.SignIn(r.Context(), req.Token, req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, h.newSessionResponse(s, ""))
}

func (h *SessionHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.session.SignOut(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) current(w http.ResponseWriter, r *http.Request) {
	s, err := h.session.Current(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	image, err := h.session.ProfileImage(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, h.newSessionResponse(s, image))
}

func (h *SessionHandler) setProfileImage(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 8 << 20

	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoSize+maxMemory)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		h.fail(w, r, err)
		return
	}

	image, err := parseImage(r.MultipartForm, "image", h.maxPhotoSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	dataURL, err := h.session.SetProfileImage(r.Context(), image)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]string{"profileImage": dataURL})
}

// firstVisit отмечает визит и сообщает, нужно ли показать приветственный экран.
func (h *SessionHandler) firstVisit(w http.ResponseWriter, r *http.Request) {
	first, err := h.session.FirstVisit(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]bool{"firstVisit": first})
}

func emailOf(s *domain.Session) string {
	if s == nil {
		return ""
	}
	return s.Email
}

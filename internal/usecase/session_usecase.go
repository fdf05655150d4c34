package usecase

import (
	"context"
	"strconv"
	"strings"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/pubsub"
)

// NavigationTopic — топик шины навигации, на который публикуются переходы на страницу входа.
const NavigationTopic = "navigation"

// SessionUseCase управляет состоянием входа и остальными ключами сессии.
// Каждая запись публикует новое значение ключа в шину keys.
type SessionUseCase struct {
	storage    Storage
	encoder    ImageEncoder
	keys       *pubsub.Bus[string]
	navigation *pubsub.Bus[domain.NavigationRequest]
	cfg        *cfg.StorefrontCfg
	logger     logger.Logger
}

func NewSessionUC(
	storage Storage,
	encoder ImageEncoder,
	keys *pubsub.Bus[string],
	navigation *pubsub.Bus[domain.NavigationRequest],
	cfg *cfg.StorefrontCfg,
	logger logger.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		storage:    storage,
		encoder:    encoder,
		keys:       keys,
		navigation: navigation,
		cfg:        cfg,
		logger:     logger,
	}
}

// SignIn сохраняет токен, выданный внешней системой, и email пользователя.
func (s *SessionUseCase) SignIn(ctx context.Context, token, email string) (*domain.Session, error) {
	const op = "SessionUseCase.SignIn"

	token = strings.TrimSpace(token)
	email = strings.TrimSpace(email)
	if token == "" || email == "" {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	if err := s.set(ctx, domain.KeyToken, token); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := s.set(ctx, domain.KeyUserEmail, email); err != nil {
		return nil, e.Wrap(op, err)
	}

	s.logger.Infof("%s: signed in %s", op, email)
	return domain.NewSession(token, email), nil
}

// SignOut удаляет токен и email. Выход без активной сессии не является ошибкой.
func (s *SessionUseCase) SignOut(ctx context.Context) error {
	const op = "SessionUseCase.SignOut"

	if err := s.storage.Delete(ctx, domain.KeyToken, domain.KeyUserEmail); err != nil {
		return e.Wrap(op, err)
	}

	s.keys.Publish(domain.KeyToken, "")
	s.keys.Publish(domain.KeyUserEmail, "")

	return nil
}

// Current возвращает текущую сессию или nil, если пользователь не вошёл.
func (s *SessionUseCase) Current(ctx context.Context) (*domain.Session, error) {
	const op = "SessionUseCase.Current"

	token, ok, err := s.storage.Get(ctx, domain.KeyToken)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !ok || token == "" {
		return nil, nil
	}

	email, _, err := s.storage.Get(ctx, domain.KeyUserEmail)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return domain.NewSession(token, email), nil
}

// RequireSession пропускает только вошедшего пользователя. Иначе публикует
// переход на страницу входа и возвращает ErrUnauthenticated.
func (s *SessionUseCase) RequireSession(ctx context.Context) (*domain.Session, error) {
	session, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	if !session.Active() {
		s.navigation.Publish(NavigationTopic, domain.NavigationRequest{
			Path:   s.cfg.LoginPath,
			Reason: e.ErrUnauthenticated.Error(),
		})
		return nil, e.ErrUnauthenticated
	}

	return session, nil
}

// RequireAdmin дополнительно проверяет, что вошёл администратор каталога.
func (s *SessionUseCase) RequireAdmin(ctx context.Context) (*domain.Session, error) {
	session, err := s.RequireSession(ctx)
	if err != nil {
		return nil, err
	}

	if !s.IsAdmin(session) {
		return nil, e.ErrForbidden
	}

	return session, nil
}

// IsAdmin сравнивает email сессии с email администратора из конфигурации.
func (s *SessionUseCase) IsAdmin(session *domain.Session) bool {
	return session.Active() && strings.EqualFold(session.Email, s.cfg.AdminEmail)
}

// SetProfileImage кодирует фото профиля в data URL и сохраняет его.
func (s *SessionUseCase) SetProfileImage(ctx context.Context, image *ProductImage) (string, error) {
	const op = "SessionUseCase.SetProfileImage"

	if _, err := s.RequireSession(ctx); err != nil {
		return "", e.Wrap(op, err)
	}

	if image == nil || len(image.Data) == 0 {
		return "", e.Wrap(op, e.ErrNoImages)
	}

	dataURL, err := awaitEncoding(ctx, s.encoder, *image, s.cfg.EncodeTimeout)
	if err != nil {
		s.logger.Warnf("%s: encode failed for %s: %v", op, image.Name, err)
		return "", e.Wrap(op, err)
	}

	if err := s.set(ctx, domain.KeyProfileImage, dataURL); err != nil {
		return "", e.Wrap(op, err)
	}

	return dataURL, nil
}

func (s *SessionUseCase) ProfileImage(ctx context.Context) (string, error) {
	const op = "SessionUseCase.ProfileImage"

	value, _, err := s.storage.Get(ctx, domain.KeyProfileImage)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return value, nil
}

// FirstVisit сообщает, первый ли это визит, и отмечает визит в хранилище.
func (s *SessionUseCase) FirstVisit(ctx context.Context) (bool, error) {
	const op = "SessionUseCase.FirstVisit"

	_, visited, err := s.storage.Get(ctx, domain.KeyHasVisitedBefore)
	if err != nil {
		return false, e.Wrap(op, err)
	}
	if visited {
		return false, nil
	}

	if err := s.set(ctx, domain.KeyHasVisitedBefore, strconv.FormatBool(true)); err != nil {
		return false, e.Wrap(op, err)
	}

	return true, nil
}

// Watch подписывает обработчик на изменения ключа сессии. Пустое значение означает удаление.
func (s *SessionUseCase) Watch(key string, handler func(value string)) (unsubscribe func()) {
	return s.keys.Subscribe(key, func(_ string, value string) {
		handler(value)
	})
}

// OnNavigate подписывает обработчик на запросы навигации.
func (s *SessionUseCase) OnNavigate(handler func(req domain.NavigationRequest)) (unsubscribe func()) {
	return s.navigation.Subscribe(NavigationTopic, func(_ string, req domain.NavigationRequest) {
		handler(req)
	})
}

func (s *SessionUseCase) set(ctx context.Context, key, value string) error {
	if err := s.storage.Set(ctx, key, value); err != nil {
		return err
	}

	s.keys.Publish(key, value)
	return nil
}

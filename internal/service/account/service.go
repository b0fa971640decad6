package account

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Registration — данные для создания нового пользователя.
type Registration struct {
	Email       string
	Password    string
	PhoneNumber string
	FirstName   string
	LastName    string
	Address     string
	IsManager   bool
}

// Service управляет учётными записями пользователей.
type Service struct {
	store  domain.Store
	logger *log.Entry
	now    func() time.Time
	newID  func() string
}

// NewService создаёт сервис учётных записей.
func NewService(store domain.Store, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "account")
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Register создаёт пользователя с bcrypt-хэшем пароля.
// Email уникален; повторная регистрация возвращает ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, reg Registration) (domain.User, error) {
	reg.Email = strings.TrimSpace(strings.ToLower(reg.Email))
	if reg.Email == "" {
		return domain.User{}, domain.ErrEmailRequired
	}
	if reg.Password == "" {
		return domain.User{}, domain.ErrPasswordRequired
	}
	if strings.TrimSpace(reg.Address) == "" {
		return domain.User{}, domain.ErrAddressRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           s.newID(),
		Email:        reg.Email,
		PhoneNumber:  reg.PhoneNumber,
		PasswordHash: string(hash),
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Address:      reg.Address,
		IsManager:    reg.IsManager,
		CreatedAt:    s.now(),
	}
	if errs := user.ValidateInvariants(); len(errs) > 0 {
		return domain.User{}, errs[0]
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	s.logger.WithFields(log.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("user registered")
	return user, nil
}

// Authenticate проверяет пару email/пароль и возвращает пользователя.
// Неверный пароль неотличим от неизвестного email: в обоих случаях
// возвращается ErrUserNotFound.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

// Get возвращает пользователя по идентификатору.
func (s *Service) Get(ctx context.Context, id string) (domain.User, error) {
	return s.store.Users().Get(ctx, id)
}

// GetByEmail возвращает пользователя по email.
func (s *Service) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.store.Users().GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

// ListManagers возвращает всех менеджеров.
func (s *Service) ListManagers(ctx context.Context) ([]domain.User, error) {
	return s.store.Users().ListManagers(ctx)
}

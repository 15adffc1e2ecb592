package user

import (
	"context"
	"errors"

	"couponvault/internal/models"
	"couponvault/internal/repositories"
	"couponvault/internal/services/wallet"
	"couponvault/internal/utils"
	"couponvault/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the payload for a new account. Role is "user" or
// "merchant"; a ledger address and an empty wallet are provisioned for
// every account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	GetByAddress(address string) (*models.User, error)
	GetTransactions(ctx context.Context, address string, limit, offset int) ([]models.Transaction, error)
}

type service struct {
	repo    repositories.UserRepository
	store   repositories.Store
	wallets wallet.Service
}

func NewService(repo repositories.UserRepository, store repositories.Store, wallets wallet.Service) Service {
	if repo == nil {
		panic("user repository is required")
	}
	if store == nil {
		panic("store is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	return &service{repo: repo, store: store, wallets: wallets}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Email == "" {
		return nil, errors.New("email is required")
	}
	if len(input.Password) < 8 || !validation.HasSpecialChar(input.Password) {
		return nil, errors.New("password must be at least 8 characters and contain special characters")
	}
	if input.Role == "" {
		input.Role = "user"
	}
	if input.Role != "user" && input.Role != "merchant" {
		return nil, errors.New("invalid role")
	}

	if existing, _ := s.repo.GetByEmail(input.Email); existing != nil {
		return nil, errors.New("user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	address, err := utils.NewAddress()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
		Address:  address,
		Role:     input.Role,
		Status:   "active",
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	if _, err := s.wallets.CreateWallet(ctx, address); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) GetByID(id uint) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *service) GetByAddress(address string) (*models.User, error) {
	return s.repo.GetByAddress(address)
}

func (s *service) GetTransactions(ctx context.Context, address string, limit, offset int) ([]models.Transaction, error) {
	return s.store.Transactions().ListByAddress(address, limit, offset)
}

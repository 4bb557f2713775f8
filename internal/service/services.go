package service

import (
	"github.com/minhle/user-admin-api/internal/config"
	"github.com/minhle/user-admin-api/internal/repository"
	"github.com/minhle/user-admin-api/internal/session"
	"github.com/minhle/user-admin-api/internal/token"
)

type Services struct {
	Auth *AuthService
	User *UserService
}

func NewServices(repos *repository.Repositories, sessions *session.Store, tokens *token.Issuer, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.Account, repos.User, sessions, tokens, cfg),
		User: NewUserService(repos.User, repos.Account),
	}
}

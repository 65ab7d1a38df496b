package service

import (
	"github.com/deppfellow/usercrud/internal/repository"
)

// Services is a container for all service instances.
type Services struct {
	Users *UserService
}

// NewServices builds every service on top of repos.
func NewServices(repos *repository.Repositories) *Services {
	return &Services{
		Users: NewUserService(repos.Users),
	}
}

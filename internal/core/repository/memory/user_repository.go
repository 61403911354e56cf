package memory

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jfcardenas/recargas/internal/core/models"
	"github.com/jfcardenas/recargas/internal/core/repository"
)

// Seed is a user known at process start. The plaintext password is
// hashed during construction and never kept.
type Seed struct {
	ID       int64
	Username string
	Password string
}

func DefaultSeeds() []Seed {
	return []Seed{
		{ID: 1, Username: "pruebasuno", Password: "Colombia2025*"},
		{ID: 2, Username: "pruebasdos", Password: "Bogota20_"},
		{ID: 3, Username: "pruebastres", Password: "Test25%"},
	}
}

type memoryUserRepo struct {
	users map[string]*models.User
}

func NewUserRepository(seeds []Seed) (repository.UserRepository, error) {
	users := make(map[string]*models.User, len(seeds))
	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", seed.Username, err)
		}
		users[seed.Username] = &models.User{
			ID:           seed.ID,
			Username:     seed.Username,
			PasswordHash: hash,
		}
	}

	return &memoryUserRepo{users: users}, nil
}

func (r *memoryUserRepo) FindUser(ctx context.Context, username string) (*models.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	return user, nil
}

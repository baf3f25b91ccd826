package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/dubeyRahul26/flexcart/models"
)

// Fake is an in-memory UserStore for tests.
type Fake struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

var _ UserStore = (*Fake)(nil)

func NewFake() *Fake {
	return &Fake{byEmail: make(map[string]*models.User)}
}

func (f *Fake) Create(_ context.Context, name, email, password string, role models.Role) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	normalized := NormalizeEmail(email)
	if _, exists := f.byEmail[normalized]; exists {
		return nil, ErrDuplicateEmail
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = models.RoleCustomer
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           bson.NewObjectID(),
		Name:         name,
		Email:        normalized,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.byEmail[normalized] = user

	copied := *user
	return &copied, nil
}

func (f *Fake) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *Fake) FindByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.byEmail {
		if user.ID.Hex() == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *Fake) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (f *Fake) UpdatePassword(_ context.Context, id, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	for _, user := range f.byEmail {
		if user.ID.Hex() == id {
			user.PasswordHash = hash
			user.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}

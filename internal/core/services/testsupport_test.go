package services

import (
	"context"
	"sync"
	"time"

	"stockroom/internal/adapters/persistence/models"
	"stockroom/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// In-memory repository fakes used by the service tests. They mirror the GORM
// behavior the services rely on: gorm.ErrRecordNotFound on misses,
// gorm.ErrDuplicatedKey on unique violations, and soft-deleted users
// excluded from every lookup.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username && !u.DeletedAt.Valid {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && !u.DeletedAt.Valid {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter repositories.UserFilter, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.User
	for id := uint(1); id < r.nextID; id++ {
		u, ok := r.users[id]
		if !ok || u.DeletedAt.Valid {
			continue
		}
		switch filter {
		case repositories.UserFilterActive:
			if !u.IsActive {
				continue
			}
		case repositories.UserFilterApproved:
			if !u.IsAdminApproved {
				continue
			}
		case repositories.UserFilterUnapproved:
			if u.IsAdminApproved {
				continue
			}
		}
		copied := *u
		matched = append(matched, &copied)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	nextID uint
	tokens map[uint]*models.Token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{nextID: 1, tokens: make(map[uint]*models.Token)}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *models.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.AccessToken == token.AccessToken || t.RefreshToken == token.RefreshToken {
			return gorm.ErrDuplicatedKey
		}
	}
	token.ID = r.nextID
	r.nextID++
	token.CreatedAt = time.Now()
	copied := *token
	r.tokens[token.ID] = &copied
	return nil
}

func (r *fakeTokenRepo) GetByTokenString(_ context.Context, tokenString string) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.AccessToken == tokenString || t.RefreshToken == tokenString {
			copied := *t
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTokenRepo) GetByRefreshToken(_ context.Context, refreshToken string) (*models.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.RefreshToken == refreshToken {
			copied := *t
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTokenRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, id)
	return nil
}

func (r *fakeTokenRepo) DeleteAllByUserID(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, t := range r.tokens {
		if t.CreatedAt.Before(cutoff) {
			delete(r.tokens, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeTokenRepo) countByUserID(userID uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, t := range r.tokens {
		if t.UserID == userID {
			count++
		}
	}
	return count
}

type fakeProductRepo struct {
	mu       sync.Mutex
	nextID   uint
	products map[uint]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{nextID: 1, products: make(map[uint]*models.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product.ID = r.nextID
	r.nextID++
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	product.UpdatedAt = time.Now()
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) SoftDelete(_ context.Context, id uint, deletedBy uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.DeletedBy = &deletedBy
	p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, offset, limit int) ([]*models.Product, int64, error) {
	return r.list(func(*models.Product) bool { return true }, offset, limit)
}

func (r *fakeProductRepo) ListByOwner(_ context.Context, ownerID uint, offset, limit int) ([]*models.Product, int64, error) {
	return r.list(func(p *models.Product) bool { return p.OwnerID == ownerID }, offset, limit)
}

func (r *fakeProductRepo) list(match func(*models.Product) bool, offset, limit int) ([]*models.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Product
	for id := uint(1); id < r.nextID; id++ {
		p, ok := r.products[id]
		if !ok || p.DeletedAt.Valid || !match(p) {
			continue
		}
		copied := *p
		matched = append(matched, &copied)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeProductRepo) ExistsByName(_ context.Context, name string, excludeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Name == name && !p.DeletedAt.Valid && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// stored returns the raw stored product, including soft-deleted ones
func (r *fakeProductRepo) stored(id uint) *models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id]
}

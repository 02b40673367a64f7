package usecase

import (
	"sync"
	"time"

	authdomain "cpsheet-backend/internal/auth/domain"
	"cpsheet-backend/pkg/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	mu                sync.Mutex
	users             map[string]*authdomain.User
	failUpdateRefresh error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*authdomain.User)}
}

func (r *fakeUserRepo) Create(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	return r.find(func(u *authdomain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	return r.find(func(u *authdomain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByUsername(username string) (*authdomain.User, error) {
	return r.find(func(u *authdomain.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByUsernameOrEmail(identifier string) (*authdomain.User, error) {
	return r.find(func(u *authdomain.User) bool {
		return u.Username == identifier || u.Email == identifier
	})
}

func (r *fakeUserRepo) find(match func(*authdomain.User) bool) (*authdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(user *authdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) UpdateRefreshToken(userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdateRefresh != nil {
		return r.failUpdateRefresh
	}
	if user, ok := r.users[userID]; ok {
		user.RefreshToken = token
	}
	return nil
}

func (r *fakeUserRepo) storedRefreshToken(userID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		return user.RefreshToken
	}
	return ""
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeEmailChangeRepo struct {
	mu      sync.Mutex
	records map[string]*authdomain.EmailChange
}

func newFakeEmailChangeRepo() *fakeEmailChangeRepo {
	return &fakeEmailChangeRepo{records: make(map[string]*authdomain.EmailChange)}
}

func (r *fakeEmailChangeRepo) Upsert(change *authdomain.EmailChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *change
	r.records[change.UserID] = &clone
	return nil
}

func (r *fakeEmailChangeRepo) FindByUserID(userID string) (*authdomain.EmailChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if change, ok := r.records[userID]; ok {
		clone := *change
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeEmailChangeRepo) DeleteByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, userID)
	return nil
}

func (r *fakeEmailChangeRepo) DeleteExpired(before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for userID, change := range r.records {
		if change.ExpiresAt.Before(before) {
			delete(r.records, userID)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeEmailChangeRepo) expire(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if change, ok := r.records[userID]; ok {
		change.ExpiresAt = time.Now().Add(-time.Second)
	}
}

type sentMail struct {
	to  string
	otp string
}

type fakeMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	failWith error
}

func (m *fakeMailer) SendOTP(to, otp string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, sentMail{to: to, otp: otp})
	return nil
}

func (m *fakeMailer) lastOTP() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].otp
}

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:  "test-access-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenSecret: "test-refresh-secret",
		RefreshTokenExpiry: time.Hour,
		GoogleClientID:     "test-client",
		GoogleClientSecret: "test-secret",
		GoogleRedirectURI:  "http://localhost:8080/api/v1/oauth/callback/google",
		EmailChangeTTL:     10 * time.Minute,
	}
}

func newTestUsecase() (*authUsecase, *fakeUserRepo, *fakeEmailChangeRepo, *fakeMailer) {
	users := newFakeUserRepo()
	changes := newFakeEmailChangeRepo()
	mail := &fakeMailer{}
	uc := NewAuthUsecase(users, changes, mail, testConfig()).(*authUsecase)
	return uc, users, changes, mail
}

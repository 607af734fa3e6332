package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/myhome-api/internal/config"
	"github.com/myhome-api/internal/mailer"
	"github.com/myhome-api/internal/models"
	"github.com/myhome-api/internal/repository"
	"github.com/myhome-api/internal/service"
)

var errStoreDown = errors.New("store unavailable")

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// a second pooled connection would see a different in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.WishlistEntry{},
		&models.Review{},
	))
	return db
}

func testTemplates() mailer.Templates {
	return mailer.Templates{
		Project:     "myHome",
		FrontendURL: "https://myhome.test/",
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:          "test-secret",
		AccessTTLHours:  192,
		VerifyTTLHours:  192,
		ResetTTLMinutes: 10,
	}
}

// fakeStore is an in-memory ObjectStore that records every call.
type fakeStore struct {
	mu          sync.Mutex
	objects     map[string][]byte
	types       map[string]string
	deleteCalls []string

	// number of uploads to accept before failing; negative means never fail
	failAfter int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:   map[string][]byte{},
		types:     map[string]string{},
		failAfter: -1,
	}
}

func (f *fakeStore) Upload(_ context.Context, key, contentType string, body io.Reader) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter == 0 {
		return errStoreDown
	}
	if f.failAfter > 0 {
		f.failAfter--
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeStore) Download(_ context.Context, key string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, "", errStoreDown
	}
	return data, f.types[key], nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, key)
	delete(f.objects, key)
	delete(f.types, key)
	return nil
}

func (f *fakeStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (f *fakeStore) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleteCalls...)
}

func (f *fakeStore) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys
}

// recordedMail captures enqueued emails instead of delivering them.
type recordedMail struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

func (m *recordedMail) Enqueue(to, subject, html string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
}

func (m *recordedMail) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

// env bundles the full service graph over one test database.
type env struct {
	db    *gorm.DB
	store *fakeStore
	mail  *recordedMail

	users      *repository.UserRepository
	properties *repository.PropertyRepository
	wishlist   *repository.WishlistRepository
	reviews    *repository.ReviewRepository

	auth       *service.AuthService
	user       *service.UserService
	property   *service.PropertyService
	wishlistSv *service.WishlistService
	review     *service.ReviewService
	plan       *service.PlanService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		db:    newTestDB(t),
		store: newFakeStore(),
		mail:  &recordedMail{},
	}
	e.users = repository.NewUserRepository(e.db)
	e.properties = repository.NewPropertyRepository(e.db)
	e.wishlist = repository.NewWishlistRepository(e.db)
	e.reviews = repository.NewReviewRepository(e.db)

	e.auth = service.NewAuthService(e.users, testJWTConfig())
	e.user = service.NewUserService(e.users, e.wishlist, e.auth, e.store, e.mail, testTemplates())
	e.property = service.NewPropertyService(e.properties, e.wishlist, e.store)
	e.wishlistSv = service.NewWishlistService(e.wishlist, e.properties)
	e.review = service.NewReviewService(e.reviews, e.properties)
	e.plan = service.NewPlanService(e.users, e.properties)
	return e
}

// createUser inserts an active user directly, bypassing registration.
func (e *env) createUser(t *testing.T, email, password string) *models.User {
	t.Helper()

	hash, err := e.auth.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  "+2348000000000",
		IsActive:     true,
		Plan:         models.PlanBasic,
	}
	require.NoError(t, e.users.Create(user))
	return user
}

// insertProperty inserts a listing directly, bypassing quota and uploads.
func (e *env) insertProperty(t *testing.T, ownerID uint, name string) *models.Property {
	t.Helper()

	p := &models.Property{
		OwnerID:      ownerID,
		Name:         name,
		Price:        250000,
		PropertyType: "duplex",
		PhoneNumber:  "+2348000000000",
		Location: models.PropertyLocation{
			StreetAddress: "12 Marina Road",
			Area:          "Lekki",
			State:         "Lagos",
		},
		Features: models.PropertyFeatures{
			NumberOfRooms:   4,
			NumberOfToilets: 3,
			RunningWater:    true,
		},
		Images: models.StringList{},
	}
	require.NoError(t, e.properties.Create(p))
	return p
}

func createRequest(name string) *service.CreateRequest {
	return &service.CreateRequest{
		Name:         name,
		Price:        180000,
		PropertyType: "bungalow",
		PhoneNumber:  "+2348000000000",
		Location: models.PropertyLocation{
			StreetAddress: "4 Palm Grove",
			Area:          "Yaba",
			State:         "Lagos",
		},
		Features: models.PropertyFeatures{
			NumberOfRooms:   3,
			NumberOfToilets: 2,
			RunningWater:    true,
			POPAvailable:    true,
		},
	}
}

// makeFileHeaders builds real multipart file headers by writing a form and
// parsing it back, the same shape the HTTP layer hands to the services.
func makeFileHeaders(t *testing.T, field string, filenames ...string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for i, name := range filenames {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fmt.Fprintf(part, "image-bytes-%d", i)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File[field]
}

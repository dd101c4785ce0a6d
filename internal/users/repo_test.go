package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/akushnir/contactbook-backend/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Contact{}))
	return conn
}

func seedUser(t *testing.T, repo *Repository, email string) *models.User {
	t.Helper()
	birth := time.Date(1990, time.July, 3, 0, 0, 0, 0, time.UTC)
	user, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         "Ada",
		LastName:     "Lovelace",
		BirthDate:    birth,
		Email:        email,
		PasswordHash: "$argon2id$stub",
	})
	require.NoError(t, err)
	return user
}

func TestCreateAndFinders(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	created := seedUser(t, repo, "ada@example.com")
	assert.NotZero(t, created.ID)
	assert.False(t, created.Confirmed, "new users must start unconfirmed")

	byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.FindByName(ctx, "Ada")
	require.NoError(t, err)
	_, err = repo.FindByLastName(ctx, "Lovelace")
	require.NoError(t, err)

	_, err = repo.FindByName(ctx, "Nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateDuplicateEmailFails(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	seedUser(t, repo, "dup@example.com")
	_, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         "Other",
		LastName:     "Person",
		Email:        "dup@example.com",
		PasswordHash: "x",
	})
	assert.Error(t, err, "duplicate email must violate the unique index")
}

func TestListPagination(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedUser(t, repo, fmt.Sprintf("user%d@example.com", i))
	}

	page, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "user1@example.com", page[0].Email)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	created := seedUser(t, repo, "ada@example.com")

	newName := "Augusta"
	updated, err := repo.Update(ctx, created.ID, UpdateUserDTO{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.Name)
	assert.Equal(t, "Lovelace", updated.LastName, "unset fields stay untouched")

	_, err = repo.Update(ctx, created.ID+999, UpdateUserDTO{Name: &newName})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRefreshTokenSetAndClear(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	created := seedUser(t, repo, "ada@example.com")

	token := "refresh-token-value"
	require.NoError(t, repo.SetRefreshToken(ctx, created.ID, &token))

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, token, *stored.RefreshToken)

	require.NoError(t, repo.SetRefreshToken(ctx, created.ID, nil))

	stored, err = repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.RefreshToken)
}

func TestMarkConfirmed(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	created := seedUser(t, repo, "ada@example.com")
	require.NoError(t, repo.MarkConfirmed(ctx, created.ID))

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, stored.Confirmed)
}

func TestDeleteRemovesOwnedContacts(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := seedUser(t, repo, "ada@example.com")
	contact := models.Contact{PhoneNumber: "+15550100", UserID: created.ID}
	require.NoError(t, db.Create(&contact).Error)

	require.NoError(t, repo.Delete(ctx, created.ID))

	var count int64
	require.NoError(t, db.Model(&models.Contact{}).Where("user_id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count, "owned contacts are removed with the account")

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), gorm.ErrRecordNotFound)
}

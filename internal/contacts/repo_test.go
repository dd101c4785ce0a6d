package contacts

import (
	"context"
	"fmt"
	"testing"

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

func seedOwner(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()
	user := models.User{
		Name:         "Owner",
		LastName:     "User",
		Email:        email,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func TestCreateAndListByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ownerA := seedOwner(t, db, "a@example.com")
	ownerB := seedOwner(t, db, "b@example.com")

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, CreateContactDTO{
			PhoneNumber: fmt.Sprintf("+1555010%d", i),
			UserID:      ownerA,
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, CreateContactDTO{PhoneNumber: "+15550200", UserID: ownerB})
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, ownerA, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	page, err := repo.ListByUser(ctx, ownerA, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "+15550101", page[0].PhoneNumber)
}

func TestOwnershipScopingHidesForeignContacts(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ownerA := seedOwner(t, db, "a@example.com")
	ownerB := seedOwner(t, db, "b@example.com")

	contact, err := repo.Create(ctx, CreateContactDTO{PhoneNumber: "+15550100", UserID: ownerA})
	require.NoError(t, err)

	// Owner B must see A's contact as nonexistent on every operation.
	_, err = repo.FindByID(ctx, ownerB, contact.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.UpdatePhoneNumber(ctx, ownerB, contact.ID, "+15550999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, ownerB, contact.ID), gorm.ErrRecordNotFound)

	// The record is untouched for its real owner.
	stored, err := repo.FindByID(ctx, ownerA, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "+15550100", stored.PhoneNumber)
}

func TestUpdatePhoneNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := seedOwner(t, db, "a@example.com")
	contact, err := repo.Create(ctx, CreateContactDTO{PhoneNumber: "+15550100", UserID: owner})
	require.NoError(t, err)

	updated, err := repo.UpdatePhoneNumber(ctx, owner, contact.ID, "+15550111")
	require.NoError(t, err)
	assert.Equal(t, "+15550111", updated.PhoneNumber)
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := seedOwner(t, db, "a@example.com")
	contact, err := repo.Create(ctx, CreateContactDTO{PhoneNumber: "+15550100", UserID: owner})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, owner, contact.ID))

	_, err = repo.FindByID(ctx, owner, contact.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

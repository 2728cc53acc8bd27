package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func TestMemberService_List_WithLatestMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewMemberService(repository.NewUserRepository(db))

	withPlan := testutil.TestUser(t, db, testutil.WithName("Has Plan"))
	testutil.TestMembership(t, db, withPlan.ID, testutil.WithPlanType("Yearly"))
	testutil.TestUser(t, db, testutil.WithName("No Plan"))

	items, err := svc.List()
	require.NoError(t, err)
	require.Len(t, items, 2)

	byName := map[string]dto.MemberListItem{}
	for _, item := range items {
		byName[item.Name] = item
	}

	require.NotNil(t, byName["Has Plan"].PlanType)
	assert.Equal(t, "Yearly", *byName["Has Plan"].PlanType)
	assert.Nil(t, byName["No Plan"].PlanType)
	assert.Nil(t, byName["No Plan"].MembershipID)
}

func TestMemberService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewMemberService(repository.NewUserRepository(db))

	user, err := svc.Create(&dto.CreateMemberRequest{
		Name:     "Kiran",
		Email:    "kiran@example.com",
		Password: "secret123",
		Phone:    "09876543210",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	require.NotNil(t, user.Phone)
	assert.Equal(t, "+919876543210", *user.Phone)

	_, err = svc.Create(&dto.CreateMemberRequest{
		Name:     "Dup",
		Email:    "kiran@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestMemberService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewMemberService(repository.NewUserRepository(db))
	user := testutil.TestUser(t, db, testutil.WithName("Before"))

	newName := "After"
	require.NoError(t, svc.Update(user.ID, &dto.UpdateMemberRequest{Name: &newName}))

	reloaded, err := svc.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", reloaded.Name)
	// 未传字段不变
	assert.Equal(t, user.Email, reloaded.Email)
}

func TestMemberService_Update_EmailConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewMemberService(repository.NewUserRepository(db))
	testutil.TestUser(t, db, testutil.WithEmail("taken@example.com"))
	user := testutil.TestUser(t, db, testutil.WithEmail("mine@example.com"))

	taken := "taken@example.com"
	err := svc.Update(user.ID, &dto.UpdateMemberRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailExists)

	// 改成自己的邮箱不算冲突
	mine := "mine@example.com"
	assert.NoError(t, svc.Update(user.ID, &dto.UpdateMemberRequest{Email: &mine}))
}

func TestMemberService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewMemberService(repository.NewUserRepository(db))
	user := testutil.TestUser(t, db)
	m := testutil.TestMembership(t, db, user.ID)
	testutil.TestNotification(t, db, user.ID, &m.ID, model.NotificationTypeWarning2Day, "msg")

	require.NoError(t, svc.Delete(user.ID))

	_, err := svc.Get(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = svc.Delete(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

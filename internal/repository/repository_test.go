package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"medmsg/internal/model"
)

var testDBSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:medmsg_repo_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Department{}, &model.User{}, &model.Message{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, email string, deptID uint) *model.User {
	t.Helper()

	user := &model.User{
		Username: username, Email: email,
		PasswordHash: "x", DepartmentID: deptID, Position: "Nurse", Active: true,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func seedDepartment(t *testing.T, db *gorm.DB, name string) *model.Department {
	t.Helper()

	dept := &model.Department{Name: name}
	require.NoError(t, NewDepartmentRepository(db).FirstOrCreate(context.Background(), dept))
	return dept
}

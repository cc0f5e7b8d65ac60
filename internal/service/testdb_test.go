package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"medmsg/internal/model"
	"medmsg/internal/repository"
)

var testDBSeq atomic.Int64

// newTestDB opens a fresh in-memory SQLite database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:medmsg_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Department{}, &model.User{}, &model.Message{}))
	return db
}

// newTestUsers persists a department and two users, returning their IDs.
func newTestUsers(t *testing.T, db *gorm.DB) (senderID, recipientID uint) {
	t.Helper()

	ctx := context.Background()
	deptRepo := repository.NewDepartmentRepository(db)
	userRepo := repository.NewUserRepository(db)

	dept := &model.Department{Name: "Cardiology", Description: "Cardiology department"}
	require.NoError(t, deptRepo.FirstOrCreate(ctx, dept))

	sender := &model.User{
		Username: "ivanov_doctor", Email: "ivanov@hospital.example",
		PasswordHash: "x", DepartmentID: dept.ID, Position: "Physician", Active: true,
	}
	require.NoError(t, userRepo.Create(ctx, sender))

	recipient := &model.User{
		Username: "petrov_nurse", Email: "petrov@hospital.example",
		PasswordHash: "x", DepartmentID: dept.ID, Position: "Nurse", Active: true,
	}
	require.NoError(t, userRepo.Create(ctx, recipient))

	return sender.ID, recipient.ID
}

// newTestMessage persists one message with an explicit timestamp.
func newTestMessage(t *testing.T, db *gorm.DB, senderID, recipientID uint, content string, priority model.Priority, ts time.Time) *model.Message {
	t.Helper()

	msg := &model.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Priority:    priority,
		Timestamp:   ts,
	}
	require.NoError(t, repository.NewMessageRepository(db).Create(context.Background(), msg))
	return msg
}

package chat

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/moddin/kichat/internal/domain"
	chatrepo "github.com/moddin/kichat/internal/repository/chat"
	messagerepo "github.com/moddin/kichat/internal/repository/message"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{}, &domain.LoginHistory{}))
	return db
}

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	store := NewStore(chatrepo.NewChatRepository(db), messagerepo.NewMessageRepository(db), DefaultConfig(), nopLogger{})
	return store, db
}

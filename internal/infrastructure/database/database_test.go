package database

import (
	"context"
	"testing"

	gormlogger "gorm.io/gorm/logger"

	"newsagents/services/chat-api/internal/config"
)

func TestConnect_EmptyURLFails(t *testing.T) {
	_, err := Connect(context.Background(), &config.Config{})
	if err == nil {
		t.Fatal("expected an error for an empty database URL")
	}
}

func TestQueryLogLevel(t *testing.T) {
	if queryLogLevel("development") != gormlogger.Info {
		t.Error("development should log queries")
	}
	if queryLogLevel("production") != gormlogger.Warn {
		t.Error("production should only log slow queries and errors")
	}
}

func TestQuoteIdentifier(t *testing.T) {
	if got := quoteIdentifier(`chat"api`); got != `"chat""api"` {
		t.Errorf("unexpected quoting: %s", got)
	}
}

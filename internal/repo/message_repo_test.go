package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DeliriumPulse/Summary/internal/domain"
)

// test DB helper
func newMsgRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("msg_repo_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestInsertMessage_IdempotentDuplicate(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})
	ctx := context.Background()

	uid := int64(1)
	first := &domain.Message{ChatID: -100, MessageID: 42, UserID: &uid, Username: "alice", Text: "hello", Timestamp: time.Now().UTC()}
	created, err := InsertMessage(ctx, db, first)
	if err != nil {
		t.Fatalf("InsertMessage: %v", err)
	}
	if !created {
		t.Fatalf("expected first insert to create a row")
	}

	// Redelivery of the same (chat, message) pair must succeed without
	// writing a second row.
	dup := &domain.Message{ChatID: -100, MessageID: 42, Username: "alice", Text: "retransmit", Timestamp: time.Now().UTC()}
	created, err = InsertMessage(ctx, db, dup)
	if err != nil {
		t.Fatalf("InsertMessage duplicate: %v", err)
	}
	if created {
		t.Fatalf("expected duplicate insert to be a no-op")
	}

	var rows []domain.Message
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row, got %d", len(rows))
	}
	if rows[0].Text != "hello" {
		t.Fatalf("duplicate overwrote original text: %+v", rows[0])
	}
}

func TestInsertMessage_Defaults(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})

	m := &domain.Message{ChatID: -1, MessageID: 1}
	if _, err := InsertMessage(context.Background(), db, m); err != nil {
		t.Fatalf("InsertMessage: %v", err)
	}
	if m.Username != "Unknown" {
		t.Fatalf("expected username default %q, got %q", "Unknown", m.Username)
	}
	if m.Timestamp.IsZero() || time.Since(m.Timestamp) > time.Minute {
		t.Fatalf("Timestamp not defaulted reasonably: %v", m.Timestamp)
	}
}

func TestRecentMessages_WindowOrderAndLimit(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})
	ctx := context.Background()

	// five messages with distinct timestamps, inserted out of order
	base := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	for _, i := range []int{3, 1, 5, 2, 4} {
		m := &domain.Message{
			ChatID:    -100,
			MessageID: int64(i),
			Username:  "u",
			Text:      fmt.Sprintf("msg %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := InsertMessage(ctx, db, m); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	// window of 3 → the 3 most recent, oldest first
	win, err := RecentMessages(ctx, db, -100, 3, nil)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(win) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(win))
	}
	for i, want := range []int64{3, 4, 5} {
		if win[i].MessageID != want {
			t.Fatalf("window[%d] = message %d; want %d", i, win[i].MessageID, want)
		}
	}

	// limit <= 0 → all, still ascending
	all, err := RecentMessages(ctx, db, -100, 0, nil)
	if err != nil {
		t.Fatalf("RecentMessages(all): %v", err)
	}
	if len(all) != 5 || all[0].MessageID != 1 || all[4].MessageID != 5 {
		t.Fatalf("unexpected order/all: %+v", all)
	}
}

func TestRecentMessages_BeforeIsExclusive(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})
	ctx := context.Background()

	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 4; i++ {
		m := &domain.Message{ChatID: -5, MessageID: int64(i), Username: "u", Text: "x", Timestamp: base.Add(time.Duration(i) * time.Minute)}
		if _, err := InsertMessage(ctx, db, m); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	cut := base.Add(3 * time.Minute) // timestamp of message 3
	win, err := RecentMessages(ctx, db, -5, 10, &cut)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(win) != 2 || win[0].MessageID != 1 || win[1].MessageID != 2 {
		t.Fatalf("expected messages strictly older than cutoff, got %+v", win)
	}
}

func TestRecentMessages_EmptyChat(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})
	win, err := RecentMessages(context.Background(), db, -404, 20, nil)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(win) != 0 {
		t.Fatalf("expected empty window, got %d rows", len(win))
	}
}

func TestCountMessages_Error_NoTable(t *testing.T) {
	db := newMsgRepoDB(t /* no migration for Message */)
	if _, err := CountMessages(context.Background(), db, -1); err == nil {
		t.Fatalf("expected error due to missing messages table")
	}
}

func TestCountMessages_Success(t *testing.T) {
	db := newMsgRepoDB(t, &domain.Message{})
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		if _, err := InsertMessage(ctx, db, &domain.Message{ChatID: -7, MessageID: int64(i), Username: "u", Text: "x"}); err != nil {
			t.Fatalf("seed cx %d: %v", i, err)
		}
	}
	if _, err := InsertMessage(ctx, db, &domain.Message{ChatID: -8, MessageID: 1, Username: "u", Text: "y"}); err != nil {
		t.Fatalf("seed cy: %v", err)
	}

	total, err := CountMessages(ctx, db, -7)
	if err != nil {
		t.Fatalf("CountMessages: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2, got %d", total)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if isUniqueViolation(nil) {
		t.Fatalf("nil must not classify as unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("UNIQUE constraint failed: messages.chat_id, messages.message_id")) {
		t.Fatalf("expected driver text to classify as unique violation")
	}
	if isUniqueViolation(fmt.Errorf("database is locked")) {
		t.Fatalf("unrelated error misclassified")
	}
}

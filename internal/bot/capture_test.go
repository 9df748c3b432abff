package bot

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestMessageRecord_TextMessage(t *testing.T) {
	sent := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	msg := &tgbotapi.Message{
		MessageID: 55,
		From:      &tgbotapi.User{ID: 9, UserName: "alice", FirstName: "Alice"},
		Chat:      &tgbotapi.Chat{ID: -100123},
		Date:      int(sent.Unix()),
		Text:      "lunch at noon?",
	}

	rec, ok := messageRecord(msg)
	if !ok {
		t.Fatalf("messageRecord rejected a text message")
	}
	if rec.ChatID != -100123 || rec.MessageID != 55 {
		t.Fatalf("ids = (%d, %d)", rec.ChatID, rec.MessageID)
	}
	if rec.UserID == nil || *rec.UserID != 9 {
		t.Fatalf("user id = %v", rec.UserID)
	}
	if rec.Username != "alice" {
		t.Fatalf("username = %q", rec.Username)
	}
	if rec.Text != "lunch at noon?" || rec.IsSystem {
		t.Fatalf("text = %q, system = %v", rec.Text, rec.IsSystem)
	}
	if !rec.Timestamp.Equal(sent) {
		t.Fatalf("timestamp = %v, want %v", rec.Timestamp, sent)
	}
}

func TestMessageRecord_AuthorFallbacks(t *testing.T) {
	base := tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: 1}}

	msg := base
	msg.From = &tgbotapi.User{ID: 9, FirstName: "Alice"}
	rec, _ := messageRecord(&msg)
	if rec.Username != "Alice" {
		t.Fatalf("first-name fallback = %q", rec.Username)
	}

	msg = base
	msg.From = &tgbotapi.User{ID: 9}
	rec, _ = messageRecord(&msg)
	if rec.Username != "Unknown" {
		t.Fatalf("empty-user fallback = %q", rec.Username)
	}

	msg = base
	rec, _ = messageRecord(&msg)
	if rec.Username != "Unknown" || rec.UserID != nil {
		t.Fatalf("no-author row = %q / %v", rec.Username, rec.UserID)
	}
}

func TestMessageRecord_MediaFlags(t *testing.T) {
	msg := &tgbotapi.Message{
		MessageID: 2,
		Chat:      &tgbotapi.Chat{ID: 1},
		From:      &tgbotapi.User{ID: 9, UserName: "carol"},
		Photo:     []tgbotapi.PhotoSize{{FileID: "p1"}},
		Caption:   "sunset",
	}
	rec, _ := messageRecord(msg)
	if !rec.HasPhoto || rec.HasVideo || rec.HasDocument {
		t.Fatalf("flags = %v/%v/%v", rec.HasPhoto, rec.HasVideo, rec.HasDocument)
	}
	if rec.Caption != "sunset" || rec.Text != "" {
		t.Fatalf("caption = %q, text = %q", rec.Caption, rec.Text)
	}

	msg = &tgbotapi.Message{
		MessageID: 3,
		Chat:      &tgbotapi.Chat{ID: 1},
		Video:     &tgbotapi.Video{FileID: "v1"},
	}
	rec, _ = messageRecord(msg)
	if !rec.HasVideo {
		t.Fatalf("video flag not set")
	}

	msg = &tgbotapi.Message{
		MessageID: 4,
		Chat:      &tgbotapi.Chat{ID: 1},
		Document:  &tgbotapi.Document{FileID: "d1", FileName: "report.pdf"},
	}
	rec, _ = messageRecord(msg)
	if !rec.HasDocument {
		t.Fatalf("document flag not set")
	}
}

func TestMessageRecord_SystemEvents(t *testing.T) {
	cases := []struct {
		name string
		msg  tgbotapi.Message
		want string
	}{
		{
			name: "single join",
			msg:  tgbotapi.Message{NewChatMembers: []tgbotapi.User{{ID: 2, UserName: "bob"}}},
			want: "bob joined the group",
		},
		{
			name: "multi join",
			msg: tgbotapi.Message{NewChatMembers: []tgbotapi.User{
				{ID: 2, UserName: "bob"},
				{ID: 3, FirstName: "Carol"},
			}},
			want: "bob, Carol joined the group",
		},
		{
			name: "leave",
			msg:  tgbotapi.Message{LeftChatMember: &tgbotapi.User{ID: 2, UserName: "bob"}},
			want: "bob left the group",
		},
		{
			name: "title change",
			msg: tgbotapi.Message{
				From:         &tgbotapi.User{ID: 1, UserName: "alice"},
				NewChatTitle: "Release Planning",
			},
			want: "Group name changed to Release Planning",
		},
		{
			name: "photo change",
			msg: tgbotapi.Message{
				From:         &tgbotapi.User{ID: 1, UserName: "alice"},
				NewChatPhoto: []tgbotapi.PhotoSize{{FileID: "np1"}},
			},
			want: "Group photo updated",
		},
		{
			name: "pin",
			msg: tgbotapi.Message{
				From:          &tgbotapi.User{ID: 1, UserName: "alice"},
				PinnedMessage: &tgbotapi.Message{MessageID: 10},
			},
			want: "alice pinned a message",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.msg
			msg.MessageID = 5
			msg.Chat = &tgbotapi.Chat{ID: 1}

			rec, ok := messageRecord(&msg)
			if !ok {
				t.Fatalf("messageRecord rejected a service event")
			}
			if !rec.IsSystem {
				t.Fatalf("service event not marked system")
			}
			if rec.Text != tc.want {
				t.Fatalf("text = %q, want %q", rec.Text, tc.want)
			}
		})
	}
}

func TestCapture_StoresAndDedupes(t *testing.T) {
	b, _, db := newTestBot(t, nil)

	msg := textMsg(9, 77, "alice", "first!")
	b.handleMessage(context.Background(), msg)
	b.handleMessage(context.Background(), msg) // retransmit

	if n := messageCount(t, db, 9); n != 1 {
		t.Fatalf("stored %d rows, want 1 after duplicate delivery", n)
	}
}

func TestCapture_SkipsCommands(t *testing.T) {
	b, _, db := newTestBot(t, nil)

	b.handleMessage(context.Background(), commandMsg(9, 42, "/stats"))

	if n := messageCount(t, db, 9); n != 0 {
		t.Fatalf("command was captured (%d rows)", n)
	}
}

func TestCapture_MediaOnlyCountsTowardStats(t *testing.T) {
	b, _, _ := newTestBot(t, nil)

	b.handleMessage(context.Background(), &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: 9},
		From:      &tgbotapi.User{ID: 5, UserName: "carol"},
		Photo:     []tgbotapi.PhotoSize{{FileID: "p1"}},
	})

	st, err := b.Messages.Statistics(context.Background(), 9)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if st.TotalMessages != 1 || st.UniqueUsers != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

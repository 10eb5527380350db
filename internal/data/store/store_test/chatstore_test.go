package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/data/redisStore"
	"github.com/akolanti/pdfchat/internal/data/store"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newChatStore(t *testing.T) *store.RedisChatStore {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestChatStore(redisStore.NewTestStore(client))
}

func TestRedisChatStore_Lifecycle(t *testing.T) {
	chatStore := newChatStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "chat-trace")

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	chats := []commonModels.ChatRecord{
		{Id: "chat-1", UserId: "user-1", FileKey: "1-alpha.pdf", PdfName: "alpha.pdf", CreatedAt: base},
		{Id: "chat-2", UserId: "user-1", FileKey: "2-beta.pdf", PdfName: "beta.pdf", CreatedAt: base.Add(time.Hour)},
		{Id: "chat-3", UserId: "user-2", FileKey: "1-alpha.pdf", PdfName: "alpha.pdf", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, c := range chats {
		if err := chatStore.RegisterChat(ctx, c); err != nil {
			t.Fatalf("RegisterChat failed: %v", err)
		}
	}

	t.Run("Get Registered Chat", func(t *testing.T) {
		chat, found := chatStore.GetChat(ctx, "chat-1")
		if !found {
			t.Fatal("chat-1 not found")
		}
		if chat.FileKey != "1-alpha.pdf" || chat.UserId != "user-1" {
			t.Errorf("unexpected record %+v", chat)
		}
	})

	t.Run("List User Chats Ordered", func(t *testing.T) {
		userChats, err := chatStore.ListUserChats(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if len(userChats) != 2 {
			t.Fatalf("expected 2 chats for user-1, got %d", len(userChats))
		}
		if userChats[0].Id != "chat-1" || userChats[1].Id != "chat-2" {
			t.Errorf("chats out of order: %v, %v", userChats[0].Id, userChats[1].Id)
		}
	})

	t.Run("Delete Cascade By Document", func(t *testing.T) {
		if err := chatStore.DeleteChatsForDocument(ctx, "1-alpha.pdf"); err != nil {
			t.Fatal(err)
		}

		if _, found := chatStore.GetChat(ctx, "chat-1"); found {
			t.Error("chat-1 survived the cascade")
		}
		if _, found := chatStore.GetChat(ctx, "chat-3"); found {
			t.Error("chat-3 survived the cascade")
		}

		// chat-2 runs over a different document and must stay
		userChats, err := chatStore.ListUserChats(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if len(userChats) != 1 || userChats[0].Id != "chat-2" {
			t.Errorf("expected only chat-2 to remain, got %v", userChats)
		}
	})
}

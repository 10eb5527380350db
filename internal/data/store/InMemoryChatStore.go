package store

import (
	"context"
	"sort"
	"sync"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
)

type InMemoryChatStore struct {
	lock  *sync.RWMutex
	chats map[string]commonModels.ChatRecord
}

func InitInMemoryChatStore() *InMemoryChatStore {
	return &InMemoryChatStore{
		lock:  new(sync.RWMutex),
		chats: make(map[string]commonModels.ChatRecord),
	}
}

func (store *InMemoryChatStore) RegisterChat(ctx context.Context, chat commonModels.ChatRecord) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.chats[chat.Id] = chat
	return nil
}

func (store *InMemoryChatStore) GetChat(ctx context.Context, chatId string) (commonModels.ChatRecord, bool) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	chat, found := store.chats[chatId]
	return chat, found
}

func (store *InMemoryChatStore) ListUserChats(ctx context.Context, userId string) ([]commonModels.ChatRecord, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	var chats []commonModels.ChatRecord
	for _, chat := range store.chats {
		if chat.UserId == userId {
			chats = append(chats, chat)
		}
	}
	sort.Slice(chats, func(i, j int) bool {
		if chats[i].CreatedAt.Equal(chats[j].CreatedAt) {
			return chats[i].Id < chats[j].Id
		}
		return chats[i].CreatedAt.Before(chats[j].CreatedAt)
	})
	return chats, nil
}

func (store *InMemoryChatStore) DeleteChatsForDocument(ctx context.Context, fileKey string) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	for id, chat := range store.chats {
		if chat.FileKey == fileKey {
			delete(store.chats, id)
		}
	}
	return nil
}

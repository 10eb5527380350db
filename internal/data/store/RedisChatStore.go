package store

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/data/redisStore"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

// RedisChatStore keeps one record per chat plus two set indexes: by user
// (for voice search fan-out) and by document (for the deletion cascade).
type RedisChatStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisChatStore(ctx context.Context) *RedisChatStore {
	rs := redisStore.GetRedisStore(ctx, config.RedisChatStore)
	if rs == nil {
		return nil
	}
	return &RedisChatStore{
		store:  rs,
		logger: logger_i.NewLogger("ChatStore"),
	}
}

func chatKey(chatId string) string { return "chat:" + chatId }
func userKey(userId string) string { return "user:" + userId }
func docKey(fileKey string) string { return "doc:" + fileKey }

func (s *RedisChatStore) RegisterChat(ctx context.Context, chat commonModels.ChatRecord) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chat.Id)

	data, err := json.Marshal(chat)
	if err != nil {
		return err
	}

	//chat records live as long as the document does, no TTL
	if err := s.store.Set(ctx, chatKey(chat.Id), data, 0); err != nil {
		log.Error("error saving chat record", "error:", err)
		return err
	}
	if err := s.store.SetAdd(ctx, userKey(chat.UserId), chat.Id); err != nil {
		return err
	}
	if err := s.store.SetAdd(ctx, docKey(chat.FileKey), chat.Id); err != nil {
		return err
	}
	log.Debug("Registered chat")
	return nil
}

func (s *RedisChatStore) GetChat(ctx context.Context, chatId string) (commonModels.ChatRecord, bool) {
	var chat commonModels.ChatRecord
	val, err := s.store.Get(ctx, chatKey(chatId))
	if err != nil {
		return chat, false
	}
	if err := json.Unmarshal([]byte(val), &chat); err != nil {
		return chat, false
	}
	return chat, true
}

func (s *RedisChatStore) ListUserChats(ctx context.Context, userId string) ([]commonModels.ChatRecord, error) {
	ids, err := s.store.SetMembers(ctx, userKey(userId))
	if err != nil {
		return nil, err
	}

	var chats []commonModels.ChatRecord
	for _, id := range ids {
		if chat, found := s.GetChat(ctx, id); found {
			chats = append(chats, chat)
		}
	}

	//set members come back in arbitrary order
	sort.Slice(chats, func(i, j int) bool {
		if chats[i].CreatedAt.Equal(chats[j].CreatedAt) {
			return chats[i].Id < chats[j].Id
		}
		return chats[i].CreatedAt.Before(chats[j].CreatedAt)
	})
	return chats, nil
}

func (s *RedisChatStore) DeleteChatsForDocument(ctx context.Context, fileKey string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "fileKey", fileKey)

	ids, err := s.store.SetMembers(ctx, docKey(fileKey))
	if err != nil {
		return err
	}

	for _, id := range ids {
		if chat, found := s.GetChat(ctx, id); found {
			if err := s.store.SetRem(ctx, userKey(chat.UserId), id); err != nil {
				log.Error("error removing chat from user index", "error:", err)
			}
		}
		if err := s.store.Del(ctx, chatKey(id)); err != nil {
			log.Error("error deleting chat record", "error:", err)
		}
	}
	return s.store.Del(ctx, docKey(fileKey))
}

func TestChatStore(store *redisStore.Store) *RedisChatStore {
	return &RedisChatStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/socialsphere/socialsphere-app/internal/domain"
	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
	"github.com/socialsphere/socialsphere-app/internal/id"
	"github.com/socialsphere/socialsphere-app/internal/store"
)

// MessageService handles direct messages between two users.
type MessageService struct {
	store         *store.Store
	notifications *NotificationService
	logger        *slog.Logger
}

// NewMessageService creates a new message service.
func NewMessageService(st *store.Store, notifications *NotificationService, logger *slog.Logger) *MessageService {
	return &MessageService{
		store:         st,
		notifications: notifications,
		logger:        logger,
	}
}

// Conversation IDs are name-based UUIDs over the sorted participant
// pair, so either side derives the same ID without a lookup table.
var conversationNamespace = uuid.MustParse("8b6d3c52-1f5e-4a43-9c71-2d3fb0e5a9d4")

// ConversationID derives the stable conversation ID for a user pair.
// The pair is sorted first so either participant derives the same ID.
func ConversationID(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return uuid.NewSHA1(conversationNamespace, []byte(pair[0]+"|"+pair[1])).String()
}

// Send stores a direct message and notifies the recipient.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domainerrors.Validation("message cannot be empty")
	}
	if senderID == recipientID {
		return nil, domainerrors.Validation("cannot message yourself")
	}

	sender, err := s.store.Users.Get(ctx, senderID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("sender not found")
		}
		return nil, fmt.Errorf("load sender: %w", err)
	}
	if _, err := s.store.Users.Get(ctx, recipientID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("recipient not found")
		}
		return nil, fmt.Errorf("load recipient: %w", err)
	}

	messageID, err := id.Generate("msg")
	if err != nil {
		return nil, fmt.Errorf("generate message ID: %w", err)
	}

	message := &domain.Message{
		ConversationID: ConversationID(senderID, recipientID),
		SenderID:       senderID,
		Content:        content,
	}
	message.ID = messageID
	message.InitTimestamps()

	if err := s.store.Messages.Create(ctx, messageID, message); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.notifications.NotifyMessage(ctx, recipientID, sender.Name())

	return message, nil
}

// Conversation returns the messages between two users, oldest first.
func (s *MessageService) Conversation(ctx context.Context, userA, userB string) ([]*domain.Message, error) {
	messages, err := s.store.MessagesInConversation(ctx, ConversationID(userA, userB))
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

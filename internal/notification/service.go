// Package notification serves a user's notification feed.
package notification

import (
	"github.com/pointsledger/loyalty-points-backend/internal/ledger"
)

type Service struct {
	store *ledger.Store
}

func NewService(store *ledger.Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListFor(userID string) []ledger.Notification {
	return s.store.NotificationsFor(userID)
}

func (s *Service) UnreadCount(userID string) int {
	return s.store.UnreadCount(userID)
}

// MarkRead flips a notification to read; the flip is one-way.
func (s *Service) MarkRead(notificationID string) bool {
	return s.store.MarkNotificationAsRead(notificationID)
}

package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserCreated     = "directory.user.created"
	EventTypeUserLockChanged = "directory.user.lock_changed"
	EventTypeBranchDeleted   = "directory.branch.deleted"
)

type UserCreatedEvent struct {
	BaseEvent
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedBy string `json:"created_by"`
}

func NewUserCreatedEvent(userID, username, role, createdBy string) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":    userID,
				"username":   username,
				"role":       role,
				"created_by": createdBy,
			},
		},
		UserID:    userID,
		Username:  username,
		Role:      role,
		CreatedBy: createdBy,
	}
}

type UserLockChangedEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Locked   bool   `json:"locked"`
	ActorID  string `json:"actor_id"`
	Username string `json:"username"`
}

func NewUserLockChangedEvent(userID, username, actorID string, locked bool) *UserLockChangedEvent {
	return &UserLockChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserLockChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":  userID,
				"username": username,
				"actor_id": actorID,
				"locked":   locked,
			},
		},
		UserID:   userID,
		Username: username,
		ActorID:  actorID,
		Locked:   locked,
	}
}

type BranchDeletedEvent struct {
	BaseEvent
	BranchCode string `json:"branch_code"`
	BranchName string `json:"branch_name"`
}

func NewBranchDeletedEvent(code, name string) *BranchDeletedEvent {
	return &BranchDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBranchDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"branch_code": code,
				"branch_name": name,
			},
		},
		BranchCode: code,
		BranchName: name,
	}
}

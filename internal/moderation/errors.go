package moderation

import (
	"errors"

	"github.com/PancyStudios/NoAdsHereGo/pkg/database"
)

var (
	// ErrPermissionDenied is returned by the platform when the bot lacks a permission
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound is returned by the platform when the target no longer exists
	ErrNotFound = errors.New("not found")
	// ErrStorageUnavailable is returned when persistence cannot be reached
	ErrStorageUnavailable = database.ErrStorageUnavailable
	// ErrQueueFull is returned by Dispatcher.Submit when the queue stayed full until the deadline
	ErrQueueFull = errors.New("moderation queue full")
	// ErrDispatcherStopped is returned by Dispatcher.Submit after Stop
	ErrDispatcherStopped = errors.New("moderation dispatcher stopped")
	// ErrUnknownCategory is returned for a category the rule cache does not track
	ErrUnknownCategory = errors.New("unknown category")
)

package directory

import (
	"sort"
	"sync"

	"github.com/chat-stats-bot/internal/models"
	"github.com/rs/zerolog"
)

// UnknownUser is returned for users that were never seen
const UnknownUser = "Unknown"

// Directory maps user and chat ids to their last-known names
type Directory struct {
	usersMu sync.RWMutex
	users   map[int64]string

	chatsMu sync.RWMutex
	chats   map[int64]string

	logger zerolog.Logger
}

// New creates an empty directory
func New(logger zerolog.Logger) *Directory {
	return &Directory{
		users:  make(map[int64]string),
		chats:  make(map[int64]string),
		logger: logger.With().Str("component", "directory").Logger(),
	}
}

// RecordUser stores the user's display name, replacing any previous one
func (d *Directory) RecordUser(userID int64, displayName string) {
	d.usersMu.Lock()
	d.users[userID] = displayName
	d.usersMu.Unlock()
}

// RecordChat stores the chat title, replacing any previous one
func (d *Directory) RecordChat(chatID int64, title string) {
	d.chatsMu.Lock()
	_, known := d.chats[chatID]
	d.chats[chatID] = title
	d.chatsMu.Unlock()

	if !known {
		d.logger.Info().
			Int64("chat_id", chatID).
			Str("title", title).
			Msg("New chat registered")
	}
}

// ForgetChat removes a chat, e.g. after the bot was removed from it
func (d *Directory) ForgetChat(chatID int64) {
	d.chatsMu.Lock()
	delete(d.chats, chatID)
	d.chatsMu.Unlock()

	d.logger.Info().
		Int64("chat_id", chatID).
		Msg("Chat forgotten")
}

// DisplayName returns the user's name or UnknownUser
func (d *Directory) DisplayName(userID int64) string {
	d.usersMu.RLock()
	defer d.usersMu.RUnlock()

	if name, ok := d.users[userID]; ok {
		return name
	}
	return UnknownUser
}

// ChatTitle returns the chat's title, empty when the chat is unknown
func (d *Directory) ChatTitle(chatID int64) string {
	d.chatsMu.RLock()
	defer d.chatsMu.RUnlock()
	return d.chats[chatID]
}

// HasChat reports whether the chat is known
func (d *Directory) HasChat(chatID int64) bool {
	d.chatsMu.RLock()
	defer d.chatsMu.RUnlock()
	_, ok := d.chats[chatID]
	return ok
}

// Chats returns all known chats ordered by title, then id
func (d *Directory) Chats() []models.ChatRef {
	d.chatsMu.RLock()
	refs := make([]models.ChatRef, 0, len(d.chats))
	for id, title := range d.chats {
		refs = append(refs, models.ChatRef{ID: id, Title: title})
	}
	d.chatsMu.RUnlock()

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Title != refs[j].Title {
			return refs[i].Title < refs[j].Title
		}
		return refs[i].ID < refs[j].ID
	})
	return refs
}

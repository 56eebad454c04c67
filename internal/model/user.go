package model

import (
	"fmt"
	"time"
)

type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	IsProvider     bool      `json:"provider"`
	TelegramChatID *int64    `json:"-"` // Чат для уведомлений через Telegram
	AvatarID       *int64    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`

	// Дополнительные поля для удобства (не из БД)
	Avatar *File `json:"avatar,omitempty"`
}

// HasProviderCapability проверяет может ли пользователь принимать записи
func (u *User) HasProviderCapability() bool {
	return u != nil && u.IsProvider
}

// MailAddress возвращает адрес в формате "Name <email>"
func (u *User) MailAddress() string {
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

// File загруженный файл (аватар)
type File struct {
	ID   int64  `json:"id"`
	Name string `json:"-"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

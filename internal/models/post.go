package models

import "time"

// Post представляет публикацию автора.
type Post struct {
	ID        int        `json:"id"`
	UserUID   string     `json:"user_uid"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// DummyPost используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Post.
type DummyPost struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

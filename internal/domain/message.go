package domain

import "time"

// MaxMessageLength is the longest warble accepted, in characters.
const MaxMessageLength = 140

// Message is a warble posted by a single user.
type Message struct {
	ID        int64
	Text      string
	UserID    int64
	Timestamp time.Time

	// Author is populated by listing queries that join users; nil otherwise.
	Author *User
}

package models

import "time"

type Message struct {
	ID         int64     `db:"id"`
	SenderID   int64     `db:"sender_id"`
	ReceiverID int64     `db:"receiver_id"`
	Subject    string    `db:"subject"`
	Body       string    `db:"body"`
	Date       time.Time `db:"date"`
}

type Event struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Date        time.Time `db:"date"`
}

type Document struct {
	ID      int64     `db:"id"`
	Title   string    `db:"title"`
	FileRef string    `db:"file_ref"`
	Date    time.Time `db:"date"`
}

type Menu struct {
	ID      int64  `db:"id"`
	Week    string `db:"week"` // например "2026-S09"
	Content string `db:"content"`
}

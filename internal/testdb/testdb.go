package testdb

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns an isolated in-memory database carrying the chat, message,
// post, and reaction schema. The production models declare postgres column
// defaults that sqlite cannot parse, so the tables are declared here.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

var schema = []string{
	`create table users (
		id integer primary key autoincrement,
		auth_id text not null unique,
		email text not null unique,
		password_hash text not null,
		full_name text not null,
		phone text,
		role text not null default 'user',
		profile_photo text,
		created_at datetime not null default current_timestamp
	)`,
	`create table chats (
		id integer primary key autoincrement,
		name text,
		is_group boolean not null default false,
		admin_id integer,
		created_at datetime not null default current_timestamp,
		updated_at datetime not null default current_timestamp
	)`,
	`create table user_chats (
		chat_id integer not null,
		user_id integer not null,
		joined_at datetime not null default current_timestamp,
		primary key (chat_id, user_id)
	)`,
	`create table messages (
		id integer primary key autoincrement,
		chat_id integer not null,
		sender_id integer not null,
		parent_id integer,
		type text not null,
		status text not null default 'DELIVERED',
		content text,
		deleted_for_everyone boolean not null default false,
		created_at datetime not null default current_timestamp,
		updated_at datetime not null default current_timestamp
	)`,
	`create table attachments (
		id integer primary key autoincrement,
		message_id integer not null unique,
		url text not null,
		type text not null,
		file_name text,
		file_size integer,
		width integer,
		height integer,
		duration integer
	)`,
	`create table calls (
		id integer primary key autoincrement,
		message_id integer not null unique,
		type text not null,
		status text not null default 'ONGOING',
		duration integer not null default 0,
		ended_at datetime,
		created_at datetime not null default current_timestamp
	)`,
	`create table call_participants (
		id integer primary key autoincrement,
		call_id integer not null,
		user_id integer not null,
		joined_at datetime not null default current_timestamp
	)`,
	`create table read_receipts (
		id integer primary key autoincrement,
		message_id integer not null,
		user_id integer not null,
		read_at datetime,
		unique (message_id, user_id)
	)`,
	`create table message_deletes (
		id integer primary key autoincrement,
		message_id integer not null,
		user_id integer not null,
		unique (message_id, user_id)
	)`,
	`create table posts (
		id integer primary key autoincrement,
		author_id integer not null,
		content text not null,
		privacy text not null default 'Public',
		share_count integer not null default 0,
		is_edited boolean not null default false,
		tags text not null default '{}',
		created_at datetime not null default current_timestamp,
		updated_at datetime not null default current_timestamp
	)`,
	`create table post_media (
		id integer primary key autoincrement,
		post_id integer not null,
		type text not null,
		url text not null,
		file_name text,
		file_size integer,
		created_at datetime not null default current_timestamp
	)`,
	`create table post_comments (
		id integer primary key autoincrement,
		post_id integer not null,
		author_id integer not null,
		parent_id integer,
		content text not null,
		created_at datetime not null default current_timestamp,
		updated_at datetime not null default current_timestamp
	)`,
	`create table post_reactions (
		id integer primary key autoincrement,
		user_id integer not null,
		type text not null,
		post_id integer,
		comment_id integer,
		message_id integer,
		created_at datetime not null default current_timestamp,
		unique (user_id, post_id),
		unique (user_id, comment_id),
		unique (user_id, message_id)
	)`,
}

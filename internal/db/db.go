package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pulse/internal/auth"
	"pulse/internal/chat"
	"pulse/internal/comment"
	"pulse/internal/habit"
	"pulse/internal/message"
	"pulse/internal/notification"
	"pulse/internal/post"
	"pulse/internal/project"
	"pulse/internal/reaction"
	"pulse/internal/transaction"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&chat.Chat{},
		&chat.UserChat{},
		&message.Message{},
		&message.Attachment{},
		&message.Call{},
		&message.CallParticipant{},
		&message.ReadReceipt{},
		&message.MessageDelete{},
		&post.Post{},
		&post.Media{},
		&comment.Comment{},
		&reaction.Reaction{},
		&habit.Goal{},
		&habit.Habit{},
		&habit.Completion{},
		&habit.Badge{},
		&project.Project{},
		&project.Task{},
		&transaction.Transaction{},
		&notification.Notification{},
	); err != nil {
		return err
	}

	// Post tag filter (GIN for text[])
	if err := gdb.Exec(`create index if not exists idx_posts_tags on posts using gin (tags);`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_user_chats_user on user_chats(user_id);`,
		`create index if not exists idx_messages_chat_created on messages(chat_id, created_at);`,
		`create index if not exists idx_receipts_user_read on read_receipts(user_id) where read_at is null;`,
		`create index if not exists idx_posts_author_created on posts(author_id, created_at desc);`,
		`create index if not exists idx_comments_post on post_comments(post_id, created_at);`,
		`create index if not exists idx_comments_parent on post_comments(parent_id) where parent_id is not null;`,
		`create index if not exists idx_habits_user on habits(user_id);`,
		`create index if not exists idx_completions_habit_date on habit_completions(habit_id, date desc);`,
		`create index if not exists idx_tasks_project on tasks(project_id);`,
		`create index if not exists idx_notifications_user_created on notifications(user_id, created_at desc);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}

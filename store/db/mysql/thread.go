package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/nikoo-app/assistant/store"
)

func isDuplicateKeyName(err error) bool {
	var me *mysql.MySQLError
	// 1061: duplicate key name
	return errors.As(err, &me) && me.Number == 1061
}

func (d *DB) CreateThread(ctx context.Context, create *store.Thread) (*store.Thread, error) {
	stmt := "INSERT INTO `thread` (`uid`, `user_id`, `title`, `summary`) VALUES (?, ?, ?, ?)"
	if _, err := d.db.ExecContext(ctx, stmt, create.UID, create.UserID, create.Title, create.Summary); err != nil {
		return nil, err
	}
	// Fetch it back to populate id and timestamps.
	return d.GetThread(ctx, &store.FindThread{UID: &create.UID})
}

func (d *DB) ListThreads(ctx context.Context, find *store.FindThread) ([]*store.Thread, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UID; v != nil {
		where, args = append(where, "t.`uid` = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "t.`user_id` = ?"), append(args, *v)
	}
	query := fmt.Sprintf(
		`SELECT t.id, t.uid, t.user_id, t.title, t.summary,
		        (SELECT COUNT(*) FROM message m WHERE m.thread_id = t.id),
		        UNIX_TIMESTAMP(t.created_ts), UNIX_TIMESTAMP(t.updated_ts)
		 FROM thread t WHERE %s ORDER BY t.updated_ts DESC, t.id DESC`,
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Thread
	for rows.Next() {
		t := &store.Thread{}
		if err := rows.Scan(&t.ID, &t.UID, &t.UserID, &t.Title, &t.Summary, &t.MessageCount, &t.CreatedTs, &t.UpdatedTs); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (d *DB) GetThread(ctx context.Context, find *store.FindThread) (*store.Thread, error) {
	list, err := d.ListThreads(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (d *DB) UpdateThread(ctx context.Context, update *store.UpdateThread) (*store.Thread, error) {
	set, args := []string{}, []any{}
	if v := update.Title; v != nil {
		set, args = append(set, "`title` = ?"), append(args, *v)
	}
	if v := update.Summary; v != nil {
		set, args = append(set, "`summary` = ?"), append(args, *v)
	}
	set = append(set, "`updated_ts` = CURRENT_TIMESTAMP")
	args = append(args, update.UID)
	stmt := fmt.Sprintf("UPDATE `thread` SET %s WHERE `uid` = ?", strings.Join(set, ", "))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, err
	}
	return d.GetThread(ctx, &store.FindThread{UID: &update.UID})
}

func (d *DB) DeleteThread(ctx context.Context, uid string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM `thread` WHERE `uid` = ?", uid)
	return err
}

func (d *DB) CreateMessage(ctx context.Context, create *store.CreateMessage) (*store.Message, error) {
	stmt := "INSERT INTO `message` (`thread_id`, `role`, `content`, `token_count`) VALUES (?, ?, ?, ?)"
	result, err := d.db.ExecContext(ctx, stmt, create.ThreadID, create.Role, create.Content, create.TokenCount)
	if err != nil {
		return nil, err
	}
	rawID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	m := &store.Message{
		ID:         int32(rawID),
		ThreadID:   create.ThreadID,
		Role:       create.Role,
		Content:    create.Content,
		TokenCount: create.TokenCount,
	}
	_ = d.db.QueryRowContext(ctx, "SELECT UNIX_TIMESTAMP(created_ts) FROM message WHERE id = ?", m.ID).Scan(&m.CreatedTs)
	return m, nil
}

func (d *DB) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	query := `SELECT id, thread_id, role, content, token_count, UNIX_TIMESTAMP(created_ts)
	          FROM message WHERE thread_id = ? ORDER BY id ASC`
	rows, err := d.db.QueryContext(ctx, query, find.ThreadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Message
	for rows.Next() {
		m := &store.Message{}
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.Role, &m.Content, &m.TokenCount, &m.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (d *DB) DeleteMessages(ctx context.Context, threadID int32) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM `message` WHERE `thread_id` = ?", threadID)
	return err
}

package backend

import (
	"bufio"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	id         TEXT PRIMARY KEY,
	author     TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	kind       INTEGER NOT NULL,
	content    TEXT NOT NULL,
	tags       TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS items_created_at ON items (created_at DESC);
`

// Store persists items in a sqlite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the sqlite database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open item store: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY between them.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create item schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces item.
func (s *Store) Put(ctx context.Context, item Item) error {
	tags := item.Tags
	if tags == nil {
		tags = [][]string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO items (id, author, created_at, kind, content, tags) VALUES (?, ?, ?, ?, ?, ?)`,
		string(item.ID), item.Author.Hex(), item.CreatedAt, item.Kind, item.Content, string(encoded))
	if err != nil {
		return fmt.Errorf("insert item %s: %w", item.ID, err)
	}
	return nil
}

// Get reads one item. ErrItemNotFound is returned for unknown ids.
func (s *Store) Get(ctx context.Context, id ItemID) (Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, author, created_at, kind, content, tags FROM items WHERE id = ?`, string(id))
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("read item %s: %w", id, err)
	}
	return item, nil
}

// All returns every item, newest first.
func (s *Store) All(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, author, created_at, kind, content, tags FROM items ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (Item, error) {
	var (
		item   Item
		id     string
		author string
		tags   string
	)
	if err := row.Scan(&id, &author, &item.CreatedAt, &item.Kind, &item.Content, &tags); err != nil {
		return Item{}, err
	}
	item.ID = ItemID(id)
	if pk, err := ParsePublicIdentity(author); err == nil {
		item.Author = pk
	}
	if tags != "" {
		_ = json.Unmarshal([]byte(tags), &item.Tags)
	}
	return item, nil
}

type importRecord struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Content   string     `json:"content"`
	Tags      [][]string `json:"tags"`
}

// ImportJSONL reads one JSON item per line and stores each of them. Blank
// lines are skipped. Records without an id get a content-derived one.
func (s *Store) ImportJSONL(ctx context.Context, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	count := 0
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec importRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return count, fmt.Errorf("line %d: %w", line, err)
		}
		author, err := ParsePublicIdentity(rec.PubKey)
		if err != nil {
			return count, fmt.Errorf("line %d: %w", line, err)
		}
		item := Item{
			ID:        ItemID(rec.ID),
			Author:    author,
			CreatedAt: rec.CreatedAt,
			Kind:      rec.Kind,
			Content:   rec.Content,
			Tags:      rec.Tags,
		}
		if item.ID == "" {
			item.ID = deriveItemID(item)
		}
		if err := s.Put(ctx, item); err != nil {
			return count, fmt.Errorf("line %d: %w", line, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("read import: %w", err)
	}
	return count, nil
}

func deriveItemID(item Item) ItemID {
	payload, _ := json.Marshal([]interface{}{0, item.Author.Hex(), item.CreatedAt, item.Kind, item.Tags, item.Content})
	sum := sha256.Sum256(payload)
	return ItemID(hex.EncodeToString(sum[:]))
}

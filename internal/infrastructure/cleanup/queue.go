// Package cleanup persists attachment references whose deletion failed so
// they can be garbage-collected later instead of silently leaking.
package cleanup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Item is one orphaned attachment reference awaiting deletion.
type Item struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	Ref       string    `json:"ref"`
	Retries   int       `json:"retries"`
	Timestamp time.Time `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}

// Queue wraps BoltDB to persist cleanup work across restarts.
type Queue struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*Queue, error) {
	if bucket == "" {
		bucket = "cleanup"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Queue{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Enqueue stores a cleanup item under a timestamp-ordered key.
func (q *Queue) Enqueue(item Item) error {
	if q == nil || q.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	item.normalize()
	item.bucketKey = []byte(buildKey(item))

	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return q.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(q.bucket).Put(item.bucketKey, payload)
	})
}

// GetBatch returns up to limit items without removing them.
func (q *Queue) GetBatch(limit int) ([]Item, error) {
	if q == nil || q.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var items []Item
	err := q.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(q.bucket).Cursor()
		for k, v := c.First(); k != nil && len(items) < limit; k, v = c.Next() {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				continue
			}
			item.bucketKey = append([]byte(nil), k...)
			items = append(items, item)
		}
		return nil
	})
	return items, err
}

// Remove deletes the provided item from the queue.
func (q *Queue) Remove(item Item) error {
	if q == nil || q.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if len(item.bucketKey) == 0 {
		return nil
	}
	return q.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(q.bucket).Delete(item.bucketKey)
	})
}

// Requeue re-inserts an item after bumping its timestamp so it lands at the
// back of the queue.
func (q *Queue) Requeue(item Item) error {
	item.bucketKey = nil
	item.Timestamp = time.Now()
	return q.Enqueue(item)
}

// Size returns the number of queued items.
func (q *Queue) Size() (int, error) {
	if q == nil || q.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := q.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(q.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Close closes the Bolt database.
func (q *Queue) Close() error {
	if q == nil || q.db == nil {
		return nil
	}
	return q.db.Close()
}

func buildKey(item Item) string {
	return fmt.Sprintf("%020d_%s", item.Timestamp.UnixNano(), item.ID)
}

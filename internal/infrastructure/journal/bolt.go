// Package journal persists a local record of every code delivery attempt.
//
// The journal is a single-file BoltDB database: no external process, safe
// under concurrent handler writes, and cheap enough to keep on every node.
// Records are keyed by ULID so a bucket scan in reverse order yields the
// most recent attempts first.
package journal

import (
	"encoding/json"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/JobMwaura/zintra-sub009/domain"
)

const bucketName = "deliveries"

// BoltJournal implements domain.DeliveryJournal on a BoltDB file.
type BoltJournal struct {
	db *bolt.DB
}

// Open opens (or creates) the journal database at path and ensures the
// deliveries bucket exists.
func Open(path string) (*BoltJournal, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltJournal{db: db}, nil
}

// Close releases the database file lock.
func (j *BoltJournal) Close() error {
	return j.db.Close()
}

// Append implements domain.DeliveryJournal. Appending the same record twice
// overwrites it in place, so replays after a crash do not duplicate entries.
func (j *BoltJournal) Append(record *domain.DeliveryRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(record.ID), data)
	})
}

// Recent implements domain.DeliveryJournal. It returns up to limit records,
// newest first.
func (j *BoltJournal) Recent(limit int) ([]domain.DeliveryRecord, error) {
	records := []domain.DeliveryRecord{}

	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketName)).Cursor()
		for k, v := c.Last(); k != nil && len(records) < limit; k, v = c.Prev() {
			var rec domain.DeliveryRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

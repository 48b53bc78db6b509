package category

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

const (
	customBucketName  = "custom_categories"
	keywordBucketName = "extra_keywords"
)

// Store persists classifier rule changes so they survive restarts.
type Store interface {
	// SaveCustomCategory upserts a custom rule. Keyword additions recorded
	// under the same name are cleared: a redefinition resets the rule.
	SaveCustomCategory(rule NamedRule) error

	// AppendKeyword records a keyword added to an existing category.
	AppendKeyword(category, keyword string) error

	// LoadRules returns the stored custom rules in insertion order, plus
	// the recorded keyword additions keyed by category name.
	LoadRules() ([]NamedRule, map[string][]string, error)

	// Close closes the store.
	Close() error
}

// BoltStore implements the Store interface using BoltDB.
type BoltStore struct {
	db *bbolt.DB
}

// storedRule is the bucket value for a custom rule. Seq fixes table order
// across restarts; an upsert keeps the original seq.
type storedRule struct {
	NamedRule
	Seq uint64 `json:"seq"`
}

// NewBoltStore creates a new BoltStore instance.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	// Create buckets if they don't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(customBucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(keywordBucketName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// SaveCustomCategory upserts a custom rule and clears its keyword additions.
func (s *BoltStore) SaveCustomCategory(rule NamedRule) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(customBucketName))
		key := []byte(rule.Name)

		stored := storedRule{NamedRule: rule}
		if existing := bucket.Get(key); existing != nil {
			var prev storedRule
			if err := json.Unmarshal(existing, &prev); err != nil {
				return fmt.Errorf("unmarshaling stored category: %w", err)
			}
			stored.Seq = prev.Seq
		} else {
			seq, err := bucket.NextSequence()
			if err != nil {
				return fmt.Errorf("allocating sequence: %w", err)
			}
			stored.Seq = seq
		}

		data, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("marshaling category: %w", err)
		}
		if err := bucket.Put(key, data); err != nil {
			return err
		}
		return tx.Bucket([]byte(keywordBucketName)).Delete(key)
	})
}

// AppendKeyword records a keyword addition for a category.
func (s *BoltStore) AppendKeyword(category, keyword string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(keywordBucketName))
		key := []byte(category)

		var keywords []string
		if data := bucket.Get(key); data != nil {
			if err := json.Unmarshal(data, &keywords); err != nil {
				return fmt.Errorf("unmarshaling stored keywords: %w", err)
			}
		}
		keywords = append(keywords, keyword)

		data, err := json.Marshal(keywords)
		if err != nil {
			return fmt.Errorf("marshaling keywords: %w", err)
		}
		return bucket.Put(key, data)
	})
}

// LoadRules returns stored custom rules and keyword additions.
func (s *BoltStore) LoadRules() ([]NamedRule, map[string][]string, error) {
	var stored []storedRule
	extra := make(map[string][]string)

	err := s.db.View(func(tx *bbolt.Tx) error {
		err := tx.Bucket([]byte(customBucketName)).ForEach(func(k, v []byte) error {
			var rule storedRule
			if err := json.Unmarshal(v, &rule); err != nil {
				return fmt.Errorf("unmarshaling stored category: %w", err)
			}
			stored = append(stored, rule)
			return nil
		})
		if err != nil {
			return err
		}
		return tx.Bucket([]byte(keywordBucketName)).ForEach(func(k, v []byte) error {
			var keywords []string
			if err := json.Unmarshal(v, &keywords); err != nil {
				return fmt.Errorf("unmarshaling stored keywords: %w", err)
			}
			extra[string(k)] = keywords
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	// Bucket iteration is key order; seq restores insertion order.
	sort.Slice(stored, func(i, j int) bool { return stored[i].Seq < stored[j].Seq })
	rules := make([]NamedRule, 0, len(stored))
	for _, r := range stored {
		rules = append(rules, r.NamedRule)
	}
	return rules, extra, nil
}

// Close closes the database connection
func (s *BoltStore) Close() error {
	return s.db.Close()
}

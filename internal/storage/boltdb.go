package storage

import (
	"bytes"
	"context"
	"fmt"

	"fileranker/internal/ir"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

// Current schema version - increment when factPayload changes.
const factSchemaVersion uint16 = 1

var bucketFacts = []byte("file_facts")

type factPayload struct {
	Schema uint16
	Hash   string
	Facts  []ir.DeclarationFact
}

type BoltCache struct {
	db *bbolt.DB
}

func NewBoltCache(path string) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketFacts); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketFacts, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltCache{db: db}, nil
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}

func (c *BoltCache) Get(ctx context.Context, path, hash string) ([]ir.DeclarationFact, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var payload factPayload
	found := false
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFacts).Get([]byte(path))
		if data == nil {
			return nil
		}
		if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&payload); err != nil {
			return fmt.Errorf("failed to decode facts for %s: %w", path, err)
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !found || payload.Schema != factSchemaVersion || payload.Hash != hash {
		return nil, false, nil
	}
	if payload.Facts == nil {
		payload.Facts = []ir.DeclarationFact{}
	}
	return payload.Facts, true, nil
}

func (c *BoltCache) Put(ctx context.Context, path, hash string, facts []ir.DeclarationFact) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(&factPayload{Schema: factSchemaVersion, Hash: hash, Facts: facts}); err != nil {
		return fmt.Errorf("failed to encode facts for %s: %w", path, err)
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFacts).Put([]byte(path), buf.Bytes())
	})
}

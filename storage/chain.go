package storage

import (
	"encoding/binary"
	"errors"

	"github.com/dgraph-io/badger/v3"

	"github.com/scala-network/scala/types"
)

var (
	ErrBlockNotFound = errors.New("block not found")
	ErrEmptyChain    = errors.New("chain index is empty")
)

// ChainIndex wraps BadgerDB with the block lookups the core needs: ids by
// height for RandomX seeding and full blocks for the governance check.
type ChainIndex struct {
	db *badger.DB
}

// Open opens or creates a chain index at path
func Open(path string) (*ChainIndex, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &ChainIndex{db: db}, nil
}

// Close closes the underlying database
func (c *ChainIndex) Close() error {
	return c.db.Close()
}

// PutBlock stores a block under both its height and its id, and advances the
// recorded tip when the height is above it
func (c *ChainIndex) PutBlock(height uint64, block *types.Block) error {
	return c.db.Update(func(txn *badger.Txn) error {
		id := block.ID()
		if err := txn.Set(makeHeightKey(height), id[:]); err != nil {
			return err
		}
		if err := txn.Set(makeBlockKey(id), block.Serialize()); err != nil {
			return err
		}

		current, err := readHeight(txn)
		if err != nil && !errors.Is(err, ErrEmptyChain) {
			return err
		}
		if errors.Is(err, ErrEmptyChain) || height > current {
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], height)
			return txn.Set([]byte("tip_height"), buf[:])
		}
		return nil
	})
}

// CurrentHeight returns the highest stored height
func (c *ChainIndex) CurrentHeight() (uint64, error) {
	var height uint64
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		height, err = readHeight(txn)
		return err
	})
	return height, err
}

// BlockIDByHeight returns the id of the block stored at a height
func (c *ChainIndex) BlockIDByHeight(height uint64) (types.Hash, error) {
	var id types.Hash
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeHeightKey(height))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrBlockNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != len(id) {
				return ErrBlockNotFound
			}
			copy(id[:], val)
			return nil
		})
	})
	return id, err
}

// PendingBlockIDByHeight resolves ids for the RandomX seed lookup. The index
// stores only settled blocks, so pending resolution falls through to the
// stored id.
func (c *ChainIndex) PendingBlockIDByHeight(height uint64) (types.Hash, error) {
	return c.BlockIDByHeight(height)
}

// BlockByID returns a stored block
func (c *ChainIndex) BlockByID(id types.Hash) (*types.Block, error) {
	var block *types.Block
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeBlockKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrBlockNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			block, err = types.ParseBlock(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

func readHeight(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte("tip_height"))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, ErrEmptyChain
		}
		return 0, err
	}
	var height uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return ErrEmptyChain
		}
		height = binary.LittleEndian.Uint64(val)
		return nil
	})
	return height, err
}

// Key prefixes: 'h' height to id, 'b' id to block
func makeHeightKey(height uint64) []byte {
	key := make([]byte, 9)
	key[0] = 'h'
	binary.LittleEndian.PutUint64(key[1:], height)
	return key
}

func makeBlockKey(id types.Hash) []byte {
	key := make([]byte, 33)
	key[0] = 'b'
	copy(key[1:], id[:])
	return key
}

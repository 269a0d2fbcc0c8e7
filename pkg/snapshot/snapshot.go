// Package snapshot keeps point-in-time copies of NBT documents in a local
// pebble database, keyed by time-ordered KSUIDs.
package snapshot

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/nbt/pkg/nbt"
)

var ErrNotFound = errors.New("snapshot: not found")

const (
	treePrefix = 't'
	metaPrefix = 'm'
)

// Info describes a stored snapshot without loading its tree.
type Info struct {
	ID      ksuid.KSUID
	Name    string // root name of the stored tree
	Label   string
	Size    int64 // encoded size in bytes
	Created time.Time
}

type Store struct {
	db *pebble.DB

	mu   sync.Mutex
	last ksuid.KSUID // newest id handed out, keeps ids strictly increasing
}

// Open opens or creates a snapshot store in dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	s := &Store{db: db}

	last, err := s.Resolve("latest")
	switch {
	case err == nil:
		s.last = last
	case !errors.Is(err, ErrNotFound):
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) nextID() ksuid.KSUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := ksuid.New()
	if ksuid.Compare(id, s.last) <= 0 {
		id = s.last.Next()
	}
	s.last = id
	return id
}

func key(prefix byte, id ksuid.KSUID) []byte {
	k := make([]byte, 1+len(id))
	k[0] = prefix
	copy(k[1:], id[:])
	return k
}

// Put stores a copy of tree under a new id. The tree and its metadata are
// written in one batch.
func (s *Store) Put(tree *nbt.Tree, label string) (ksuid.KSUID, error) {
	data, err := nbt.Marshal(tree)
	if err != nil {
		return ksuid.Nil, err
	}

	id := s.nextID()
	meta, err := encodeMeta(tree.Name, label, int64(len(data)))
	if err != nil {
		return ksuid.Nil, err
	}

	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(key(treePrefix, id), data, nil); err != nil {
		return ksuid.Nil, err
	}
	if err := b.Set(key(metaPrefix, id), meta, nil); err != nil {
		return ksuid.Nil, err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("commit snapshot %s: %w", id, err)
	}
	return id, nil
}

// Get decodes the tree stored under id.
func (s *Store) Get(id ksuid.KSUID) (*nbt.Tree, error) {
	data, closer, err := s.db.Get(key(treePrefix, id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	// data is only valid until closer.Close; Unmarshal copies what it keeps.
	tree, err := nbt.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	return tree, nil
}

func (s *Store) Delete(id ksuid.KSUID) error {
	_, closer, err := s.db.Get(key(metaPrefix, id))
	if errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	closer.Close()

	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Delete(key(treePrefix, id), nil); err != nil {
		return err
	}
	if err := b.Delete(key(metaPrefix, id), nil); err != nil {
		return err
	}
	return b.Commit(pebble.Sync)
}

// List returns every snapshot, oldest first.
func (s *Store) List() ([]Info, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{metaPrefix},
		UpperBound: []byte{metaPrefix + 1},
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var infos []Info
	for iter.First(); iter.Valid(); iter.Next() {
		id, err := ksuid.FromBytes(iter.Key()[1:])
		if err != nil {
			return nil, fmt.Errorf("corrupt snapshot key %x: %w", iter.Key(), err)
		}
		info, err := decodeMeta(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", id, err)
		}
		info.ID = id
		info.Created = id.Time()
		infos = append(infos, info)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Resolve finds the snapshot named by ref: a full KSUID, or "latest".
func (s *Store) Resolve(ref string) (ksuid.KSUID, error) {
	if ref != "latest" {
		id, err := ksuid.Parse(ref)
		if err != nil {
			return ksuid.Nil, fmt.Errorf("invalid snapshot id %q: %w", ref, err)
		}
		return id, nil
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{metaPrefix},
		UpperBound: []byte{metaPrefix + 1},
	})
	if err != nil {
		return ksuid.Nil, err
	}
	defer iter.Close()

	if !iter.Last() {
		if err := iter.Error(); err != nil {
			return ksuid.Nil, err
		}
		return ksuid.Nil, fmt.Errorf("%w: store is empty", ErrNotFound)
	}
	return ksuid.FromBytes(iter.Key()[1:])
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Metadata is itself a small NBT compound.
func encodeMeta(name, label string, size int64) ([]byte, error) {
	meta := nbt.NewTree("")
	if err := meta.Root.Put("name", nbt.String(name)); err != nil {
		return nil, err
	}
	if err := meta.Root.Put("label", nbt.String(label)); err != nil {
		return nil, err
	}
	if err := meta.Root.Put("size", nbt.Long(size)); err != nil {
		return nil, err
	}
	return nbt.Marshal(meta)
}

func decodeMeta(data []byte) (Info, error) {
	meta, err := nbt.Unmarshal(data)
	if err != nil {
		return Info{}, err
	}

	var info Info
	if v, ok := meta.Root.Get("name"); ok {
		info.Name, _ = v.AsString()
	}
	if v, ok := meta.Root.Get("label"); ok {
		info.Label, _ = v.AsString()
	}
	if v, ok := meta.Root.Get("size"); ok {
		info.Size, _ = v.AsInt()
	}
	return info, nil
}

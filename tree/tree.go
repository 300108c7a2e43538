package tree

import (
	"sync"

	"github.com/cosmos/iavl"
	"github.com/pkg/errors"
	dbm "github.com/tendermint/tm-db"
)

// saver is a state store that flushes its dirty models into the tree.
type saver interface {
	Commit(db *iavl.MutableTree) error
	SetImmutableTree(immutableTree *iavl.ImmutableTree)
}

type MTree interface {
	Commit(...saver) ([]byte, int64, error)
	GetLastImmutable() *iavl.ImmutableTree
	GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error)
	Version() int64
	Hash() []byte
	DeleteVersion(version int64) error
	AvailableVersions() []int
}

// NewMutableTree opens the state tree. With height = 0 the latest saved
// version is loaded, otherwise the tree is rolled back to height.
func NewMutableTree(height uint64, db dbm.DB, cacheSize int) (MTree, error) {
	tree, err := iavl.NewMutableTree(db, cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create iavl tree")
	}

	if height == 0 {
		if _, err := tree.Load(); err != nil {
			return nil, errors.Wrap(err, "load latest version")
		}
	} else if _, err := tree.LoadVersionForOverwriting(int64(height)); err != nil {
		return nil, errors.Wrapf(err, "load version %d", height)
	}

	return &mutableTree{tree: tree}, nil
}

// NewImmutableTree returns a read-only view of the state at height.
func NewImmutableTree(height uint64, db dbm.DB) (*iavl.ImmutableTree, error) {
	tree, err := iavl.NewMutableTree(db, 1024)
	if err != nil {
		return nil, errors.Wrap(err, "create iavl tree")
	}

	if _, err := tree.LazyLoadVersion(int64(height)); err != nil {
		return nil, errors.Wrapf(err, "load version %d", height)
	}

	immutableTree, err := tree.GetImmutable(int64(height))
	if err != nil {
		return nil, errors.Wrapf(err, "get immutable tree at %d", height)
	}

	return immutableTree, nil
}

type mutableTree struct {
	tree *iavl.MutableTree
	lock sync.RWMutex
}

func (t *mutableTree) Commit(savers ...saver) (hash []byte, version int64, err error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for _, s := range savers {
		if err := s.Commit(t.tree); err != nil {
			return nil, 0, err
		}
	}

	hash, version, err = t.tree.SaveVersion()
	if err != nil {
		return nil, 0, errors.Wrap(err, "save version")
	}

	immutableTree, err := t.tree.GetImmutable(version)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "get immutable tree at %d", version)
	}

	for _, s := range savers {
		s.SetImmutableTree(immutableTree)
	}

	return hash, version, nil
}

// GetLastImmutable returns the last saved version. An empty tree is returned
// before the first commit.
func (t *mutableTree) GetLastImmutable() *iavl.ImmutableTree {
	t.lock.RLock()
	defer t.lock.RUnlock()

	version := t.tree.Version()
	if version == 0 {
		return &iavl.ImmutableTree{}
	}

	immutableTree, err := t.tree.GetImmutable(version)
	if err != nil {
		panic(err)
	}

	return immutableTree
}

func (t *mutableTree) GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.GetImmutable(version)
}

func (t *mutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

func (t *mutableTree) Hash() []byte {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Hash()
}

func (t *mutableTree) DeleteVersion(version int64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.tree.VersionExists(version) {
		return nil
	}

	return t.tree.DeleteVersion(version)
}

func (t *mutableTree) AvailableVersions() []int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.AvailableVersions()
}

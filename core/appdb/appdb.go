package appdb

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

const (
	hashPath        = "hash"
	heightPath      = "height"
	startHeightPath = "startHeight"
	blockPath       = "block"

	prefix = "app:"
)

// BlockInfo describes the last committed block.
type BlockInfo struct {
	Height   uint64
	Hash     []byte
	Time     time.Time
	Duration time.Duration
}

// AppDB keeps node metadata next to the state tree.
type AppDB struct {
	cdc *amino.Codec
	db  db.DB
}

// NewAppDB stores metadata under its own prefix of the state database.
func NewAppDB(stateDB db.DB) *AppDB {
	return &AppDB{
		cdc: amino.NewCodec(),
		db:  db.NewPrefixDB(stateDB, []byte(prefix)),
	}
}

func (appDB *AppDB) GetLastBlockHash() []byte {
	var hash [32]byte

	rawHash, err := appDB.db.Get([]byte(hashPath))
	if err != nil {
		panic(err)
	}
	copy(hash[:], rawHash)

	return hash[:]
}

func (appDB *AppDB) GetLastHeight() uint64 {
	return appDB.getUint64(heightPath)
}

func (appDB *AppDB) GetStartHeight() uint64 {
	return appDB.getUint64(startHeightPath)
}

func (appDB *AppDB) SetStartHeight(height uint64) error {
	return appDB.setUint64(startHeightPath, height)
}

// SetLastBlock records the block committed at info.Height.
func (appDB *AppDB) SetLastBlock(info BlockInfo) error {
	data, err := appDB.cdc.MarshalBinaryBare(info)
	if err != nil {
		return errors.Wrap(err, "encode block info")
	}

	batch := appDB.db.NewBatch()
	defer batch.Close()

	h := make([]byte, 8)
	binary.BigEndian.PutUint64(h, info.Height)

	if err := batch.Set([]byte(heightPath), h); err != nil {
		return err
	}
	if err := batch.Set([]byte(hashPath), info.Hash); err != nil {
		return err
	}
	if err := batch.Set([]byte(blockPath), data); err != nil {
		return err
	}

	return errors.Wrap(batch.WriteSync(), "save block info")
}

// GetLastBlock returns the last recorded block, nil before the first commit.
func (appDB *AppDB) GetLastBlock() *BlockInfo {
	data, err := appDB.db.Get([]byte(blockPath))
	if err != nil {
		panic(err)
	}
	if len(data) == 0 {
		return nil
	}

	info := new(BlockInfo)
	if err := appDB.cdc.UnmarshalBinaryBare(data, info); err != nil {
		panic(err)
	}
	return info
}

func (appDB *AppDB) getUint64(path string) uint64 {
	result, err := appDB.db.Get([]byte(path))
	if err != nil {
		panic(err)
	}

	if len(result) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(result)
}

func (appDB *AppDB) setUint64(path string, value uint64) error {
	h := make([]byte, 8)
	binary.BigEndian.PutUint64(h, value)
	return appDB.db.SetSync([]byte(path), h)
}

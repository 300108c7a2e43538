package appdb

import (
	"bytes"
	"testing"
	"time"

	db "github.com/tendermint/tm-db"
)

func TestLastBlock(t *testing.T) {
	t.Parallel()
	appDB := NewAppDB(db.NewMemDB())

	if appDB.GetLastBlock() != nil || appDB.GetLastHeight() != 0 {
		t.Fatal("fresh db must not have blocks")
	}

	info := BlockInfo{
		Height:   7,
		Hash:     bytes.Repeat([]byte{0xab}, 32),
		Time:     time.Unix(1700000000, 0).UTC(),
		Duration: 120 * time.Millisecond,
	}
	if err := appDB.SetLastBlock(info); err != nil {
		t.Fatal(err)
	}

	if appDB.GetLastHeight() != 7 {
		t.Fatalf("height %d", appDB.GetLastHeight())
	}
	if !bytes.Equal(appDB.GetLastBlockHash(), info.Hash) {
		t.Fatal("hash mismatch")
	}

	loaded := appDB.GetLastBlock()
	if loaded.Height != 7 || !loaded.Time.Equal(info.Time) || loaded.Duration != info.Duration {
		t.Fatalf("unexpected block %+v", loaded)
	}
}

func TestStartHeight(t *testing.T) {
	t.Parallel()
	appDB := NewAppDB(db.NewMemDB())

	if err := appDB.SetStartHeight(1); err != nil {
		t.Fatal(err)
	}
	if appDB.GetStartHeight() != 1 {
		t.Fatalf("start height %d", appDB.GetStartHeight())
	}
}

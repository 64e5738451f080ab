package model_test

import (
	"context"
	"testing"
	"time"

	"coinsreg/pkg/coins"
	"coinsreg/pkg/config"
	"coinsreg/pkg/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: model.GormLogger(false)})
	require.Nil(t, err)
	sqlDB, err := db.DB()
	require.Nil(t, err)
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newStore(t *testing.T) *model.Store {
	s := model.NewStore(openDB(t), nil, "Main")
	require.Nil(t, s.Migrate())
	return s
}

func TestMigrate(t *testing.T) {
	s := newStore(t)
	assert.Equal(t, "registry_main", s.App())
	assert.Equal(t, "coinsreg:main:checked", s.CheckedKey())
	assert.True(t, s.DB.Migrator().HasTable(&model.CoinState{}))
	assert.True(t, s.DB.Migrator().HasTable(&model.Lastkv{}))
	assert.True(t, s.DB.Migrator().HasTable("coins_journal_main"))
}

func TestMirror(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	kmd := coins.Config{Ticker: "KMD", CoinType: coins.SmartChain, Active: true, CurrentlyEnabled: true}
	btc := coins.Config{Ticker: "BTC", CoinType: coins.UTXO}
	require.Nil(t, s.Mirror(ctx, 3, []coins.Config{kmd, btc}, nil))

	states, err := s.LoadStates(ctx)
	require.Nil(t, err)
	require.Len(t, states, 2)
	assert.True(t, states["KMD"].Enabled)
	assert.Equal(t, "Smart Chain", states["KMD"].CoinType)
	assert.False(t, states["BTC"].Active)
	assert.Equal(t, uint64(3), states["BTC"].MsgSeq)

	// a second change of the same ticker updates in place
	btc.Active, btc.CurrentlyEnabled, btc.Checked = true, true, true
	require.Nil(t, s.Mirror(ctx, 7, []coins.Config{btc}, []string{"BTC"}))

	states, err = s.LoadStates(ctx)
	require.Nil(t, err)
	require.Len(t, states, 2)
	assert.True(t, states["BTC"].Enabled)
	assert.True(t, states["BTC"].Checked)
	assert.Equal(t, uint64(7), states["BTC"].MsgSeq)

	seq, err := s.Lastkv(ctx, model.LASTKV_K_NATS_SEQ)
	require.Nil(t, err)
	assert.Equal(t, int64(7), seq)

	// other instances are kept apart
	other := model.NewStore(s.DB, nil, "other")
	states, err = other.LoadStates(ctx)
	require.Nil(t, err)
	assert.Empty(t, states)
}

func TestSaveJournal(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	v, err := s.Lastkv(ctx, model.LASTKV_K_SAVED_LOG_ID)
	require.Nil(t, err)
	assert.Zero(t, v)

	entries := []model.JournalEntry{
		{LogID: 1, MsgSeq: 10, Ts: time.Now().UnixNano(), Type: "StatusReq", Tickers: model.GormArray{"KMD", "BTC"}, Value: true, Rows: 2},
		{LogID: 2, MsgSeq: 11, Type: "CheckReq", Tickers: model.GormArray{"ETH"}, Value: true, Rows: 1},
	}
	require.Nil(t, s.SaveJournal(ctx, entries))
	// replays are skipped
	require.Nil(t, s.SaveJournal(ctx, entries[1:]))

	var got []model.JournalEntry
	require.Nil(t, s.DB.Scopes(model.JournalTable("main")).Order("log_id asc").Find(&got).Error)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"KMD", "BTC"}, got[0].Tickers.Array())
	assert.Equal(t, "CheckReq", got[1].Type)

	v, err = s.Lastkv(ctx, model.LASTKV_K_SAVED_LOG_ID)
	require.Nil(t, err)
	assert.Equal(t, int64(2), v)
}

func TestNilBackends(t *testing.T) {
	s := model.NewStore(nil, nil, "main")
	ctx := context.Background()
	require.Nil(t, s.Migrate())
	require.Nil(t, s.Mirror(ctx, 1, []coins.Config{{Ticker: "KMD"}}, []string{"KMD"}))

	_, err := s.LoadStates(ctx)
	assert.Error(t, err)
	_, err = s.CheckedTickers(ctx)
	assert.Error(t, err)
	assert.Error(t, s.SaveJournal(ctx, []model.JournalEntry{{LogID: 1}}))
}

func TestOpenMySQLEmptyHost(t *testing.T) {
	_, err := model.OpenMySQL(config.MySQLServer{}, false)
	assert.Error(t, err)
}

// needs a local redis on the default port
func TestCheckedSet(t *testing.T) {
	rds := model.OpenRedis(config.RedisServer{Addr: "127.0.0.1:6379", DB: 15})
	ctx := context.Background()
	if err := rds.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %s", err)
	}
	defer rds.Close()

	s := model.NewStore(nil, rds, "test")
	require.Nil(t, s.Mirror(ctx, 0, nil, []string{"KMD", "BTC"}))
	got, err := s.CheckedTickers(ctx)
	require.Nil(t, err)
	assert.ElementsMatch(t, []string{"KMD", "BTC"}, got)

	require.Nil(t, s.Mirror(ctx, 0, nil, nil))
	got, err = s.CheckedTickers(ctx)
	require.Nil(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int64(0), rds.Exists(ctx, s.CheckedKey()).Val())

}

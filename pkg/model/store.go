package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coinsreg/pkg/coins"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store mirrors registry state to mysql and the checked tickers to a redis set,
// either side may be nil
type Store struct {
	DB       *gorm.DB
	Rds      *redis.Client
	Instance string
}

func NewStore(db *gorm.DB, rds *redis.Client, instance string) *Store {
	return &Store{DB: db, Rds: rds, Instance: strings.ToLower(instance)}
}

// App lastkv/coin_states app column, e.g. registry_main
func (s *Store) App() string {
	return "registry_" + s.Instance
}

// CheckedKey redis set of checked tickers
func (s *Store) CheckedKey() string {
	return "coinsreg:" + s.Instance + ":checked"
}

func (s *Store) Migrate() (err error) {
	if s.DB == nil {
		return
	}
	err = s.DB.AutoMigrate(CoinState{}, Lastkv{})
	if err != nil {
		return
	}
	return s.DB.Scopes(JournalTable(s.Instance)).AutoMigrate(JournalEntry{})
}

// Mirror upserts the changed rows and the nats seq in one transaction, then replaces the checked set
func (s *Store) Mirror(ctx context.Context, seq uint64, changed []coins.Config, checked []string) (err error) {
	defer func() {
		if err != nil {
			logger.Errorf("Mirror seq:%d rows:%d failed with err:%s", seq, len(changed), err)
		} else {
			logger.Debugf("Mirror seq:%d rows:%d checked:%d done", seq, len(changed), len(checked))
		}
	}()

	if s.DB != nil && (len(changed) > 0 || seq > 0) {
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if len(changed) > 0 {
				states := make([]CoinState, len(changed))
				for i, c := range changed {
					states[i] = CoinState{
						App:      s.App(),
						Ticker:   c.Ticker,
						CoinType: c.CoinType.String(),
						Active:   c.Active,
						Enabled:  c.CurrentlyEnabled,
						Checked:  c.Checked,
						MsgSeq:   seq,
						Model:    Model{Status: 1},
					}
				}
				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "app"}, {Name: "ticker"}},
					DoUpdates: clause.AssignmentColumns([]string{"coin_type", "active", "enabled", "checked", "msg_seq", "updated_at"}),
				}).Create(&states).Error
				if err != nil {
					return err
				}
			}
			if seq > 0 {
				return upsertLastkv(tx, s.App(), LASTKV_K_NATS_SEQ, int64(seq))
			}
			return nil
		})
		if err != nil {
			return
		}
	}

	if s.Rds != nil {
		key := s.CheckedKey()
		_, err = s.Rds.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, key)
			if len(checked) > 0 {
				members := make([]interface{}, len(checked))
				for i, t := range checked {
					members[i] = t
				}
				p.SAdd(ctx, key, members...)
			}
			return nil
		})
	}

	return
}

// LoadStates mirrored rows of this instance keyed by ticker
func (s *Store) LoadStates(ctx context.Context) (states map[string]CoinState, err error) {
	if s.DB == nil {
		return nil, errors.New("no mysql")
	}
	var list []CoinState
	err = s.DB.WithContext(ctx).Where("`app`=?", s.App()).Order("id asc").Find(&list).Error
	if err != nil {
		return
	}
	states = make(map[string]CoinState, len(list))
	for _, cs := range list {
		states[cs.Ticker] = cs
	}
	return
}

// CheckedTickers members of the redis checked set
func (s *Store) CheckedTickers(ctx context.Context) ([]string, error) {
	if s.Rds == nil {
		return nil, errors.New("no redis")
	}
	return s.Rds.SMembers(ctx, s.CheckedKey()).Result()
}

// Lastkv reads key of this instance, 0 when missing
func (s *Store) Lastkv(ctx context.Context, key string) (val int64, err error) {
	if s.DB == nil {
		return 0, errors.New("no mysql")
	}
	var kv Lastkv
	err = s.DB.WithContext(ctx).Where("`app`=? AND `key`=?", s.App(), key).Limit(1).Find(&kv).Error
	return kv.Val, err
}

// SaveJournal inserts journal entries and moves saved_log_id forward in one transaction,
// entries already present are skipped
func (s *Store) SaveJournal(ctx context.Context, entries []JournalEntry) (err error) {
	if len(entries) == 0 {
		return
	}
	if s.DB == nil {
		return errors.New("no mysql")
	}

	last := entries[len(entries)-1].LogID
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Scopes(JournalTable(s.Instance)).Clauses(clause.OnConflict{DoNothing: true}).Create(&entries).Error
		if err != nil {
			return fmt.Errorf("insert journal: %w", err)
		}
		return upsertLastkv(tx, s.App(), LASTKV_K_SAVED_LOG_ID, last)
	})
}

func upsertLastkv(tx *gorm.DB, app, key string, val int64) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "app"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"val", "updated_at"}),
	}).Create(&Lastkv{App: app, Key: key, Val: val, Model: Model{Status: 1}}).Error
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"coinsreg/pkg/activation"
	"coinsreg/pkg/config"
	"coinsreg/pkg/filedb"
	"coinsreg/pkg/model"
)

// startFiledbMonitor starts the filedb monitor app
//
//	Function 1: Follow the journal of the instance and write new lines to mysql (when mysql is enabled)
//	Function 2: Print the rate of every journal in <data_dir>/filedb every 30 seconds
func startFiledbMonitor(ctx context.Context) (err error) {
	if db := model.GetMySQL(); db != nil {
		store := model.NewStore(db, nil, fInstance)
		if err = store.Migrate(); err != nil {
			return
		}
		go func() {
			round := 0
			for ctx.Err() == nil {
				round++
				logger.Infof("JournalToMySQL round:%d started", round)
				if err := journalToMySQL(ctx, store, journalPath(fInstance)); err != nil {
					logger.Errorf("JournalToMySQL round:%d failed with err:%s", round, err)
				} else {
					logger.Infof("JournalToMySQL round:%d done", round)
				}
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(30 * time.Second):
		}
		err = runFiledbMonitorOne()
		if err != nil {
			logger.Errorf("runFiledbMonitorOne failed with err:%s", err)
		}
	}
}

// journalToMySQL tails the journal from the start and saves lines newer than saved_log_id
func journalToMySQL(ctx context.Context, store *model.Store, path string) (err error) {
	savedLogID, err := store.Lastkv(ctx, model.LASTKV_K_SAVED_LOG_ID)
	if err != nil {
		return
	}

	fdb, err := filedb.New(path)
	if err != nil {
		return
	}
	defer fdb.Close()

	tailCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan string, 1000)
	tailErr := make(chan error, 1)
	go func() {
		defer close(ch)
		tailErr <- fdb.Tailf(tailCtx, ch, true)
	}()

	stats, err := filedb.Consume(ch, 100, func(ss []string) error {
		entries, err := parseJournal(ss, savedLogID)
		if err != nil || len(entries) == 0 {
			return err
		}
		if err = store.SaveJournal(ctx, entries); err != nil {
			return err
		}
		savedLogID = entries[len(entries)-1].LogID
		return nil
	})
	cancel()
	logger.Infof("JournalToMySQL %s saved %d lines with rate %d/sec", path, stats.Size, stats.Rate())
	if err != nil {
		// drain so Tailf can return
		for range ch {
		}
		return
	}
	return <-tailErr
}

// parseJournal decodes journal lines, skipping the ones already saved
func parseJournal(ss []string, savedLogID int64) (entries []model.JournalEntry, err error) {
	for _, s := range ss {
		var jl activation.JournalLog
		if err = json.Unmarshal([]byte(s), &jl); err != nil {
			logger.Errorf("Unmarshal JournalLog failed with data:%s, err:%s", s, err)
			return nil, err
		}
		if jl.LogID <= savedLogID {
			continue
		}
		entries = append(entries, model.JournalEntry{
			LogID:   jl.LogID,
			MsgSeq:  jl.MsgSeq,
			Ts:      jl.Ts,
			Type:    jl.Type,
			Tickers: model.GormArray(jl.Tickers),
			Value:   jl.Value,
			Rows:    jl.Rows,
			Model:   model.Model{Status: 1},
		})
	}
	return
}

// runFiledbMonitorOne runs the filedb monitor one time
//
//	Function 1: Traverse all files ending with .log,
//		read the first and last line of each file,
//		parse out {ts: nanosec, logID: int64} values,
//		calculate the time difference and logID difference, and output
func runFiledbMonitorOne() (err error) {
	filedbLogDir := filepath.Join(config.Shared.DataDir, "filedb")

	return filepath.Walk(filedbLogDir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), ".log") {
			return nil
		}

		line, err := journalRate(path)
		if err != nil {
			logger.Warningf("monitor %s failed with err:%s", path, err)
			return nil
		}
		fmt.Println(line)
		return nil
	})
}

func journalRate(path string) (string, error) {
	fdb, err := filedb.New(path)
	if err != nil {
		return "", err
	}
	defer fdb.Close()

	firstLine, err := fdb.ReadFirstLine()
	if err != nil {
		return "", err
	}
	lastLine, err := fdb.ReadLastLine()
	if err != nil {
		return "", err
	}

	var firstLog, lastLog activation.JournalLog
	if err := json.Unmarshal([]byte(firstLine), &firstLog); err != nil {
		return "", err
	}
	if err := json.Unmarshal([]byte(lastLine), &lastLog); err != nil {
		return "", err
	}

	duration := time.Duration(lastLog.Ts - firstLog.Ts)
	logIDDiff := lastLog.LogID - firstLog.LogID

	rate := int64(0)
	if int64(duration.Seconds()) > 0 {
		rate = logIDDiff / int64(duration.Seconds())
	}
	return fmt.Sprintf(
		"Journal: %s holds %d logs over %s, last at %s, rate %d/sec",
		path, logIDDiff+1, duration, time.Unix(0, lastLog.Ts).Format(time.RFC3339), rate,
	), nil
}

package coins

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"coinsreg/pkg/xlog"

	"gopkg.in/yaml.v2"
)

var logger = xlog.GetLogger()

// Load reads a coin list from a .json, .yml or .yaml file
//
//	the file is either a list of configs or an object keyed by ticker, the latter is returned
//	sorted by ticker. CoinType is derived from the Type label whenever the label is known.
func Load(path string) (cfgs []Config, err error) {
	defer func() {
		if err != nil {
			logger.Errorf("coins.Load %s failed with err:%s", path, err)
		} else {
			logger.Infof("coins.Load %s done with %d coins", path, len(cfgs))
		}
	}()

	b, err := os.ReadFile(path)
	if err != nil {
		return
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		cfgs, err = decodeJSON(b)
	case ".yml", ".yaml":
		cfgs, err = decodeYAML(b)
	default:
		err = fmt.Errorf("unsupported coins file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if unknown := Normalize(cfgs); len(unknown) > 0 {
		logger.Warningf("coins.Load %s: %d coins with an unknown type label %v", path, len(unknown), unknown)
	}
	return cfgs, nil
}

// Normalize derives CoinType from known Type labels and fills empty GuiTicker, then warns about
// duplicate tickers. Duplicates are kept, lookups by ticker only ever see the first one.
//
//	unknown holds the tickers whose non-empty Type label is not recognised, they keep the
//	decoded CoinType (UTXO when the file has none)
func Normalize(cfgs []Config) (unknown []string) {
	seen := make(map[string]bool, len(cfgs))
	for i := range cfgs {
		c := &cfgs[i]
		if t, err := ParseType(c.Type); err == nil {
			c.CoinType = t
		} else if c.Type != "" {
			unknown = append(unknown, c.Ticker)
			logger.Warningf("unknown coin type %q for %s, kept as %s", c.Type, c.Ticker, c.CoinType)
		}
		if c.GuiTicker == "" {
			c.GuiTicker = c.Ticker
		}
		if seen[c.Ticker] {
			logger.Warningf("duplicate ticker %s at index %d", c.Ticker, i)
		}
		seen[c.Ticker] = true
	}
	return
}

func decodeJSON(b []byte) (cfgs []Config, err error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var m map[string]Config
		if err = json.Unmarshal(b, &m); err != nil {
			return
		}
		return fromMap(m), nil
	}
	err = json.Unmarshal(b, &cfgs)
	return
}

func decodeYAML(b []byte) (cfgs []Config, err error) {
	if err = yaml.Unmarshal(b, &cfgs); err == nil {
		return
	}
	var m map[string]Config
	if yaml.Unmarshal(b, &m) != nil {
		return nil, err
	}
	return fromMap(m), nil
}

func fromMap(m map[string]Config) []Config {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cfgs := make([]Config, 0, len(keys))
	for _, k := range keys {
		c := m[k]
		if c.Ticker == "" {
			c.Ticker = k
		}
		cfgs = append(cfgs, c)
	}
	return cfgs
}

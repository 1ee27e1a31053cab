// Package hashtable builds key/value tables over a power-of-two slot array
// with a choice of collision resolution strategy. The engines themselves
// live in pkg/hashmap/chained and pkg/hashmap/openaddr; New picks one from a
// Config.
package hashtable

import (
	"errors"
	"strings"

	"github.com/scottcagno/hashtable/pkg/hash"
	"github.com/scottcagno/hashtable/pkg/hashmap"
	"github.com/scottcagno/hashtable/pkg/hashmap/chained"
	"github.com/scottcagno/hashtable/pkg/hashmap/openaddr"
	"go.uber.org/zap"
)

// ErrUnknownStrategy is returned for a strategy name New does not know
var ErrUnknownStrategy = errors.New("hashtable: unknown strategy")

// Strategy names a collision resolution strategy
type Strategy string

const (
	Chained    Strategy = "chained"
	Linear     Strategy = "linear"
	Parametric Strategy = "parametric"
	RobinHood  Strategy = "robinhood"
)

// Strategies lists every strategy New accepts
var Strategies = []Strategy{Chained, Linear, Parametric, RobinHood}

// ParseStrategy returns the Strategy for s, ignoring case. "chaining" and
// "probing" are accepted for Chained and Linear.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "chained", "chaining":
		return Chained, nil
	case "linear", "probing":
		return Linear, nil
	case "parametric":
		return Parametric, nil
	case "robinhood", "robin_hood":
		return RobinHood, nil
	}
	return "", ErrUnknownStrategy
}

// Config holds configuration settings for New
type Config struct {
	Strategy      Strategy
	Size          uint          // initial slot count, rounded up to a power of two
	ProbeStep     uint          // linear only
	ProbeExponent uint          // parametric only
	UniqueKeys    bool          // linear only, update existing keys in place
	Tombstones    bool          // robin hood only, mark deletes instead of shifting back
	HashFunc      hash.HashFunc // defaults to hash.Default
	Logger        *zap.Logger   // defaults to a no-op logger
}

// TableConfig returns the hashmap.TableConfig the engines are built from
func (conf *Config) TableConfig() *hashmap.TableConfig {
	return hashmap.CheckTableConfig(&hashmap.TableConfig{
		Size:          conf.Size,
		HashFunc:      conf.HashFunc,
		Logger:        conf.Logger,
		ProbeStep:     conf.ProbeStep,
		ProbeExponent: conf.ProbeExponent,
		UniqueKeys:    conf.UniqueKeys,
		Tombstones:    conf.Tombstones,
	})
}

// New returns a new table using the strategy in conf. A nil conf or an
// empty strategy returns a chained table.
func New(conf *Config) (hashmap.Table, error) {
	if conf == nil {
		conf = &Config{Strategy: Chained}
	}
	s := conf.Strategy
	if s == "" {
		s = Chained
	}
	tc := conf.TableConfig()
	switch s {
	case Chained:
		return chained.New(tc), nil
	case Linear:
		return openaddr.NewLinear(tc), nil
	case Parametric:
		return openaddr.NewParametric(tc), nil
	case RobinHood:
		return openaddr.NewRobinHood(tc), nil
	}
	return nil, ErrUnknownStrategy
}

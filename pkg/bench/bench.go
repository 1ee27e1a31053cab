// Package bench measures how many slots each table visits to find its keys.
// For every configured size it generates one set of random entries, loads
// it into a fresh instance of every configured table, and looks every key
// back up.
package bench

import (
	"context"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/scottcagno/hashtable"
	"github.com/scottcagno/hashtable/pkg/hashmap"
	"github.com/scottcagno/hashtable/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Item is a single key value entry
type Item struct {
	Key   []byte
	Value []byte
}

// Result holds the scan statistics of one table at one size
type Result struct {
	Table    string
	Size     int     // number of items inserted
	Capacity int     // slot count once every item was inserted
	Mean     float64 // average scans per lookup
	P95      float64
	Max      float64
}

// Items returns n items with keys and values sampled from g. Keys are not
// guaranteed to be distinct.
func Items(g *util.KeyGen, n, keyLen, valLen int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Key:   g.Sample(keyLen),
			Value: g.Sample(valLen),
		}
	}
	return items
}

// CollectScans inserts every item into t, then looks every key back up and
// returns the number of scans each lookup took, in item order
func CollectScans(t hashmap.Table, items []Item) ([]float64, error) {
	for _, it := range items {
		t.Insert(it.Key, it.Value)
	}
	scans := make([]float64, len(items))
	for i, it := range items {
		_, n, err := t.Lookup(it.Key)
		if err != nil {
			return nil, err
		}
		scans[i] = float64(n)
	}
	return scans, nil
}

// Summarize reduces scan counts to a Result
func Summarize(table string, size, capacity int, scans []float64) (Result, error) {
	res := Result{Table: table, Size: size, Capacity: capacity}
	var err error
	if res.Mean, err = stats.Mean(scans); err != nil {
		return res, errors.Wrap(err, "mean")
	}
	if res.P95, err = stats.Percentile(scans, 95); err != nil {
		return res, errors.Wrap(err, "p95")
	}
	if res.Max, err = stats.Max(scans); err != nil {
		return res, errors.Wrap(err, "max")
	}
	return res, nil
}

// Run runs the benchmark described by conf. Results are ordered by size,
// then by table in configuration order. Tables of the same size run in
// their own goroutines.
func Run(ctx context.Context, conf *Config, log *zap.Logger) ([]Result, error) {
	conf, err := CheckConfig(conf)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	gen := util.NewKeyGen(conf.Seed)
	results := make([]Result, 0, len(conf.Sizes)*len(conf.Tables))
	for _, size := range conf.Sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items := Items(gen, size, conf.KeyLength, conf.ValueLength)
		batch := make([]Result, len(conf.Tables))
		g, gctx := errgroup.WithContext(ctx)
		for i := range conf.Tables {
			i, tc := i, conf.Tables[i]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				t, err := hashtable.New(&hashtable.Config{
					Strategy:      hashtable.Strategy(tc.Strategy),
					ProbeStep:     tc.ProbeStep,
					ProbeExponent: tc.ProbeExponent,
					UniqueKeys:    tc.UniqueKeys,
					Tombstones:    tc.Tombstones,
					Logger:        log.With(zap.String("bench", tc.Name)),
				})
				if err != nil {
					return errors.Wrapf(err, "table %q", tc.Name)
				}
				scans, err := CollectScans(t, items)
				if err != nil {
					return errors.Wrapf(err, "table %q size %d", tc.Name, size)
				}
				batch[i], err = Summarize(tc.Name, size, t.Cap(), scans)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for _, res := range batch {
			log.Info("measured table",
				zap.String("table", res.Table),
				zap.Int("size", res.Size),
				zap.Int("capacity", res.Capacity),
				zap.Float64("mean", res.Mean))
		}
		results = append(results, batch...)
	}
	return results, nil
}

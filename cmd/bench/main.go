package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/scottcagno/hashtable/pkg/bench"
	"github.com/scottcagno/hashtable/pkg/util"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "", "path to a toml config file, the built-in run is used when empty")
	verbose    = flag.Bool("verbose", false, "log at debug level, including every table resize")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bench: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadConfig(path string, log *zap.Logger) (*bench.Config, error) {
	if path == "" {
		return bench.DefaultConfig(), nil
	}
	var conf bench.Config
	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	for _, key := range md.Undecoded() {
		log.Warn("unknown config key", zap.String("key", key.String()))
	}
	return &conf, nil
}

func run() error {
	log, err := newLogger(*verbose)
	if err != nil {
		return errors.Wrap(err, "logger")
	}
	defer log.Sync()

	conf, err := loadConfig(*configFile, log)
	if err != nil {
		return err
	}
	conf, err = bench.CheckConfig(conf)
	if err != nil {
		return err
	}
	log.Info("starting benchmark",
		zap.Int("tables", len(conf.Tables)),
		zap.Ints("sizes", conf.Sizes),
		zap.Int("key_length", conf.KeyLength),
		zap.Int("value_length", conf.ValueLength),
		zap.Int64("seed", conf.Seed))

	ctx, stop := util.SignalContext(context.Background())
	defer stop()

	start := time.Now()
	results, err := bench.Run(ctx, conf, log)
	if err != nil {
		return errors.Wrap(err, "run")
	}
	bench.Render(os.Stdout, results)
	log.Info("finished benchmark",
		zap.Int("results", len(results)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

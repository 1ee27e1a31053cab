package bench

import (
	"github.com/pkg/errors"
	"github.com/scottcagno/hashtable"
	"github.com/scottcagno/hashtable/pkg/util"
)

// ErrBadConfig is the cause of every error returned by CheckConfig
var ErrBadConfig = errors.New("bench: invalid config")

// TableConfig describes one table under test
type TableConfig struct {
	Name          string `toml:"name"`
	Strategy      string `toml:"strategy"`
	ProbeStep     uint   `toml:"probe_step"`
	ProbeExponent uint   `toml:"probe_exponent"`
	UniqueKeys    bool   `toml:"unique_keys"`
	Tombstones    bool   `toml:"tombstones"`
}

// Config holds configuration settings for a benchmark run
type Config struct {
	Tables      []TableConfig `toml:"tables"`
	Sizes       []int         `toml:"sizes"`
	KeyLength   int           `toml:"key_length"`
	ValueLength int           `toml:"value_length"`
	Seed        int64         `toml:"seed"` // zero seeds from the clock
}

// DefaultConfig returns the configuration of the classic run: chaining, unit
// step probing, probing with a step of two and robin hood, plus triangular
// probing, at every power of two from 32 to 32768 with three character keys
// and values
func DefaultConfig() *Config {
	return &Config{
		Tables: []TableConfig{
			{Name: "chaining", Strategy: string(hashtable.Chained)},
			{Name: "probing", Strategy: string(hashtable.Linear)},
			{Name: "probing2", Strategy: string(hashtable.Linear), ProbeStep: 2},
			{Name: "parametric", Strategy: string(hashtable.Parametric), ProbeExponent: 2},
			{Name: "robinhood", Strategy: string(hashtable.RobinHood)},
		},
		Sizes:       []int{32, 64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384, 32768},
		KeyLength:   3,
		ValueLength: 3,
	}
}

// CheckConfig fills in missing options from DefaultConfig and validates the
// rest
func CheckConfig(conf *Config) (*Config, error) {
	def := DefaultConfig()
	if conf == nil {
		return def, nil
	}
	c := *conf
	if len(c.Tables) == 0 {
		c.Tables = def.Tables
	}
	if len(c.Sizes) == 0 {
		c.Sizes = def.Sizes
	}
	if c.KeyLength == 0 {
		c.KeyLength = def.KeyLength
	}
	if c.ValueLength == 0 {
		c.ValueLength = def.ValueLength
	}
	if c.KeyLength < 0 || c.KeyLength > len(util.Alphanumeric) {
		return nil, errors.Wrapf(ErrBadConfig, "key_length %d out of range [1, %d]", c.KeyLength, len(util.Alphanumeric))
	}
	if c.ValueLength < 0 || c.ValueLength > len(util.Alphanumeric) {
		return nil, errors.Wrapf(ErrBadConfig, "value_length %d out of range [1, %d]", c.ValueLength, len(util.Alphanumeric))
	}
	for _, size := range c.Sizes {
		if size <= 0 {
			return nil, errors.Wrapf(ErrBadConfig, "size %d", size)
		}
	}
	names := make(map[string]bool, len(c.Tables))
	tables := make([]TableConfig, len(c.Tables))
	for i, tc := range c.Tables {
		s, err := hashtable.ParseStrategy(tc.Strategy)
		if err != nil {
			return nil, errors.Wrapf(ErrBadConfig, "table %q: %v", tc.Name, err)
		}
		tc.Strategy = string(s)
		if tc.Name == "" {
			tc.Name = tc.Strategy
		}
		if names[tc.Name] {
			return nil, errors.Wrapf(ErrBadConfig, "duplicate table %q", tc.Name)
		}
		names[tc.Name] = true
		tables[i] = tc
	}
	c.Tables = tables
	return &c, nil
}

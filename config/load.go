package config

import (
	"os"

	"github.com/cristalhq/aconfig"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// EnvPrefix is prepended to every environment variable recognised by Load, for
// example H1_LENIENT_OPTIONAL_CR_BEFORE_LF=true.
const EnvPrefix = "H1"

// Load builds a config starting from Default(), then overlays the passed TOML files in
// the order they are given, and finally the environment variables.
func Load(files ...string) (*Config, error) {
	cfg := Default()

	for _, file := range files {
		if err := decodeFile(file, cfg); err != nil {
			return nil, err
		}
	}

	loader := aconfig.LoaderFor(cfg, aconfig.Config{
		SkipDefaults:     true,
		SkipFiles:        true,
		SkipFlags:        true,
		EnvPrefix:        EnvPrefix,
		AllowUnknownEnvs: true,
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config from environment")
	}

	return cfg.Prepare(), nil
}

// Decode overlays TOML-encoded settings over the passed config.
func Decode(data []byte, cfg *Config) error {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return errors.Wrap(err, "parse toml")
	}

	if err = tree.Unmarshal(cfg); err != nil {
		return errors.Wrap(err, "decode toml")
	}

	cfg.Prepare()
	return nil
}

// Encode renders the config as TOML, e.g. in order to dump the effective settings.
func Encode(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(*cfg)
	return data, errors.Wrap(err, "encode toml")
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()

	if err = toml.NewDecoder(f).Decode(cfg); err != nil {
		return errors.Wrapf(err, "decode config %s", path)
	}

	return nil
}

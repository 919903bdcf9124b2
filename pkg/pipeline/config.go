package pipeline

import (
	"os"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/vankampen/pkg/errors"
)

// LoadConfig reads pipeline options from a TOML file:
//
//	algorithm = "large-first"
//	per_large = 5
//	hub = true
//	formats = ["dot", "svg"]
//	split = true
//	split_threshold = 0.75
//
// Keys that are not options are rejected so that typos do not pass silently.
func LoadConfig(path string) (Options, error) {
	var opts Options
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return opts, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
		}
		return opts, errs.Wrap(errs.ErrCodeInvalidConfig, err, "config %s", path)
	}
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return opts, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return opts, errs.New(errs.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return opts, nil
}

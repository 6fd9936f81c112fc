package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	burntsushi "github.com/BurntSushi/toml"
	"github.com/pelletier/go-toml/v2"
)

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Default(), fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data)
}

// LoadOrDefault is like Load but treats a missing file as the defaults.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes data over the defaults. source names the data in errors.
func Parse(source string, data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Default(), parseError(source, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", source, err)
	}
	return cfg, nil
}

func parseError(source string, err error) error {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}
	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		pe.Line, pe.Column = decErr.Position()
	}
	var strictErr *toml.StrictMissingError
	if errors.As(err, &strictErr) && len(strictErr.Errors) > 0 {
		first := strictErr.Errors[0]
		pe.Line, pe.Column = first.Position()
		pe.Message = "unknown key " + strings.Join(first.Key(), ".")
	}
	return pe
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	if err := burntsushi.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

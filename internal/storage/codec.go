package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/themestore/internal/theme"
)

// Codec encodes themes to and from a file format.
type Codec interface {
	// Name is the config value selecting this codec ("json", "toml").
	Name() string
	// Ext is the file extension including the dot.
	Ext() string
	Marshal(t *theme.Theme) ([]byte, error)
	Unmarshal(data []byte, t *theme.Theme) error
}

// JSON is the default codec. Output is indented and deterministic, so
// rewriting an unchanged theme produces identical bytes.
var JSON Codec = jsonCodec{}

// TOML stores themes as TOML documents.
var TOML Codec = tomlCodec{}

// Codecs lists the available codecs by name.
var Codecs = map[string]Codec{
	JSON.Name(): JSON,
	TOML.Name(): TOML,
}

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	c, ok := Codecs[name]
	if !ok {
		return nil, fmt.Errorf("unknown storage format %q", name)
	}
	return c, nil
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) Ext() string  { return ".json" }

func (jsonCodec) Marshal(t *theme.Theme) ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (jsonCodec) Unmarshal(data []byte, t *theme.Theme) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	return dec.Decode(t)
}

type tomlCodec struct{}

func (tomlCodec) Name() string { return "toml" }
func (tomlCodec) Ext() string  { return ".toml" }

func (tomlCodec) Marshal(t *theme.Theme) ([]byte, error) {
	return toml.Marshal(t)
}

func (tomlCodec) Unmarshal(data []byte, t *theme.Theme) error {
	return toml.Unmarshal(data, t)
}

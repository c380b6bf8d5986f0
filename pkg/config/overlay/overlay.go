/*
Copyright 2022 The Katalyst Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package overlay resolves the integer settings the system info store needs
// from layered sources: command line overrides and a YAML config file.
package overlay

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Overlay looks up integer settings by dotted key, e.g. "system.cpu_mhz".
type Overlay interface {
	LookupInt(key string) (int, bool)
}

// Map is a flat key to value overlay.
type Map map[string]int

func (m Map) LookupInt(key string) (int, bool) {
	v, ok := m[key]
	return v, ok
}

type chain []Overlay

// Chain consults the overlays in order, the first one holding a key wins.
func Chain(overlays ...Overlay) Overlay {
	c := make(chain, 0, len(overlays))
	for _, o := range overlays {
		if o != nil {
			c = append(c, o)
		}
	}
	return c
}

func (c chain) LookupInt(key string) (int, bool) {
	for _, o := range c {
		if v, ok := o.LookupInt(key); ok {
			return v, true
		}
	}
	return 0, false
}

// Document is an overlay backed by a decoded YAML document, nested mappings
// are addressed by joining their keys with dots.
type Document struct {
	root map[string]interface{}
}

// NewFromYAML decodes a YAML document. An empty document is valid and
// holds no keys.
func NewFromYAML(r io.Reader) (*Document, error) {
	root := make(map[string]interface{})
	if err := yaml.NewDecoder(r).Decode(&root); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "failed to decode config document")
	}
	return &Document{root: root}, nil
}

// LoadFile decodes the YAML config file at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open config file %s", path)
	}
	defer func() {
		_ = f.Close()
	}()

	doc, err := NewFromYAML(f)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}
	return doc, nil
}

func (d *Document) LookupInt(key string) (int, bool) {
	value, ok := d.lookup(key)
	if !ok {
		return 0, false
	}

	v, err := toInt(value)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (d *Document) lookup(key string) (interface{}, bool) {
	var node interface{} = d.root
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, fmt.Errorf("value %d out of range", v)
		}
		return v, nil
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, fmt.Errorf("value %d out of range", v)
		}
		return int(v), nil
	case uint64:
		if v > math.MaxInt32 {
			return 0, fmt.Errorf("value %d out of range", v)
		}
		return int(v), nil
	}
	return 0, fmt.Errorf("%v (%T) is not an integer", value, value)
}

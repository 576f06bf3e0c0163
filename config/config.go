// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads the process-wide deployment configuration.
//
// Configuration is read once at startup and treated as read-only for the
// life of the process. Values absent from the file keep the defaults tuned
// against the events corpus, so a deployment only states what it changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/poiesic/relevit/core"
	"github.com/poiesic/relevit/policy"
	"gopkg.in/yaml.v3"
)

// Backend locates the OpenSearch-compatible cluster and the events index.
type Backend struct {
	Endpoint string `yaml:"endpoint"`
	Index    string `yaml:"index"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// TimeoutSeconds bounds every backend call. A request that exceeds it
	// is treated like any other transport failure.
	TimeoutSeconds int `yaml:"timeout"`
}

// Timeout returns the per-request timeout as a duration.
func (b Backend) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// Embedding configures the OpenAI-compatible embedding service consulted
// by the vector leg. An empty Model disables semantic search entirely;
// every query then runs lexical-only.
type Embedding struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// Enabled reports whether an embedding model is configured.
func (e Embedding) Enabled() bool {
	return e.Model != ""
}

// Field carries one identifier field's cascade thresholds.
type Field struct {
	MinQueryLength   int     `yaml:"min_query_length"`
	ExactFloor       float64 `yaml:"exact_floor"`
	PrefixFloor      float64 `yaml:"prefix_floor"`
	FuzzyFloor       float64 `yaml:"fuzzy_floor"`
	MaxPrefixResults int     `yaml:"max_prefix_results"`
}

// Thresholds converts the field configuration into a policy value.
func (f Field) Thresholds() policy.Thresholds {
	return policy.Thresholds{
		MinQueryLength:   f.MinQueryLength,
		ExactFloor:       f.ExactFloor,
		PrefixFloor:      f.PrefixFloor,
		FuzzyFloor:       f.FuzzyFloor,
		MaxPrefixResults: f.MaxPrefixResults,
	}
}

func fieldFromThresholds(t policy.Thresholds) Field {
	return Field{
		MinQueryLength:   t.MinQueryLength,
		ExactFloor:       t.ExactFloor,
		PrefixFloor:      t.PrefixFloor,
		FuzzyFloor:       t.FuzzyFloor,
		MaxPrefixResults: t.MaxPrefixResults,
	}
}

// Fields holds the thresholds for both identifier fields.
type Fields struct {
	RID   Field `yaml:"rid"`
	DocID Field `yaml:"docid"`
}

// Thresholds returns the per-field policy values keyed by identifier field.
func (f Fields) Thresholds() map[core.IdentifierField]policy.Thresholds {
	return map[core.IdentifierField]policy.Thresholds{
		core.FieldRID:   f.RID.Thresholds(),
		core.FieldDocID: f.DocID.Thresholds(),
	}
}

// Search tunes the hybrid fusion engine.
type Search struct {
	// VectorField is the dense vector field queried by the k-NN leg.
	VectorField string `yaml:"vector_field"`

	// FallbackSuggestions replace the built-in terms served when the
	// suggestion lookup fails or matches nothing.
	FallbackSuggestions []string `yaml:"fallback_suggestions"`
}

// Config is the full deployment configuration.
type Config struct {
	Backend   Backend   `yaml:"backend"`
	Embedding Embedding `yaml:"embedding"`
	Fields    Fields    `yaml:"fields"`
	Search    Search    `yaml:"search"`
}

// Default returns the configuration used when no file is supplied: a local
// unauthenticated cluster, the default corpus thresholds, and semantic
// search disabled until a model is named.
func Default() *Config {
	return &Config{
		Backend: Backend{
			Endpoint:       "http://localhost:9200",
			Index:          "events",
			TimeoutSeconds: 30,
		},
		Embedding: Embedding{
			Host: "http://localhost:11434/v1",
		},
		Fields: Fields{
			RID:   fieldFromThresholds(policy.RIDThresholds()),
			DocID: fieldFromThresholds(policy.DocIDThresholds()),
		},
		Search: Search{
			VectorField: "event_vector",
		},
	}
}

// Load reads a YAML configuration file layered over Default: keys missing
// from the file keep their default values. The result is validated before
// it is returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive the retrieval stack.
func (c *Config) Validate() error {
	if c.Backend.Endpoint == "" {
		return errors.New("config: backend endpoint is required")
	}
	if c.Backend.Index == "" {
		return errors.New("config: backend index is required")
	}
	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("config: negative backend timeout %d", c.Backend.TimeoutSeconds)
	}
	if c.Embedding.Enabled() && c.Embedding.Host == "" {
		return errors.New("config: embedding host is required when a model is set")
	}
	if err := c.Fields.RID.Thresholds().Validate(); err != nil {
		return fmt.Errorf("config: rid thresholds: %w", err)
	}
	if err := c.Fields.DocID.Thresholds().Validate(); err != nil {
		return fmt.Errorf("config: docid thresholds: %w", err)
	}
	return nil
}

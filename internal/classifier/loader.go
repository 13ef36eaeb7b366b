package classifier

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed model.schema.json
var modelSchemaJSON []byte

const modelSchemaURL = "model.schema.json"

var (
	modelSchema     *jsonschema.Schema
	modelSchemaErr  error
	modelSchemaOnce sync.Once
)

// LoadedModel is a model read from disk with the dimensionality it expects
type LoadedModel struct {
	Model     Model
	Dimension int
	Metadata  Metadata
}

type modelFile struct {
	Metadata
	Dimension int       `json:"dimension"`
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold int       `json:"threshold"`
}

func compiledSchema() (*jsonschema.Schema, error) {
	modelSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(modelSchemaURL, bytes.NewReader(modelSchemaJSON)); err != nil {
			modelSchemaErr = fmt.Errorf("failed to add model schema: %w", err)
			return
		}
		modelSchema, modelSchemaErr = compiler.Compile(modelSchemaURL)
	})
	return modelSchema, modelSchemaErr
}

// LoadModelFile reads and validates a JSON or YAML model file
func LoadModelFile(path string) (*LoadedModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model file %s: %w", path, err)
		}
	}

	return ParseModel(data)
}

// ParseModel validates a JSON model document and builds the model
func ParseModel(data []byte) (*LoadedModel, error) {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("failed to parse model document: %w", err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("invalid model document: %w", err)
	}

	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode model document: %w", err)
	}

	loaded := &LoadedModel{Metadata: file.Metadata, Dimension: file.Dimension}
	switch file.ModelType {
	case "logistic":
		loaded.Model = &LogisticModel{Weights: file.Weights, Bias: file.Bias, Metadata: file.Metadata}
		if loaded.Dimension == 0 {
			loaded.Dimension = len(file.Weights)
		}
	case "rules":
		loaded.Model = &RuleModel{Threshold: file.Threshold, Metadata: file.Metadata}
	}
	if loaded.Dimension == 0 {
		loaded.Dimension = len(file.FeaturesUsed)
	}
	if loaded.Dimension == 0 {
		loaded.Dimension = DefaultDimension
	}

	return loaded, nil
}

// yamlToJSON converts a YAML document into the JSON data model
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

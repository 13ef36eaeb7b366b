package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logisticJSON = `{
  "model_type": "logistic",
  "version": "2024.1",
  "last_updated": "2024-03-01",
  "features_used": ["a", "b", "c"],
  "weights": [0.5, 1.5, 2.0],
  "bias": -1
}`

const rulesYAML = `model_type: rules
version: "3"
threshold: 4
features_used:
  - sender_mismatch
  - has_urls
  - urgency
  - sensitive_request
  - generic_greeting
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLogisticJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "model.json", logisticJSON)

	loaded, err := LoadModelFile(path)
	require.NoError(t, err)

	assert.Equal(t, 3, loaded.Dimension)
	assert.Equal(t, "2024.1", loaded.Metadata.Version)
	assert.Equal(t, "logistic-2024.1", loaded.Model.Name())

	model, ok := loaded.Model.(*LogisticModel)
	require.True(t, ok)
	assert.Equal(t, []float64{0.5, 1.5, 2.0}, model.Weights)
	assert.Equal(t, -1.0, model.Bias)
}

func TestLoadRulesYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "model.yaml", rulesYAML)

	loaded, err := LoadModelFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5, loaded.Dimension)
	model, ok := loaded.Model.(*RuleModel)
	require.True(t, ok)
	assert.Equal(t, 4, model.Threshold)
}

func TestExplicitDimensionWins(t *testing.T) {
	loaded, err := ParseModel([]byte(`{"model_type":"logistic","weights":[1,1],"dimension":10}`))
	require.NoError(t, err)
	assert.Equal(t, 10, loaded.Dimension)
}

func TestRulesWithoutFeaturesUsesDefaultDimension(t *testing.T) {
	loaded, err := ParseModel([]byte(`{"model_type":"rules","threshold":2}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultDimension, loaded.Dimension)
}

func TestInvalidModelDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `model_type = logistic`},
		{"missing type", `{"weights":[1]}`},
		{"unknown type", `{"model_type":"forest"}`},
		{"logistic without weights", `{"model_type":"logistic","bias":1}`},
		{"rules without threshold", `{"model_type":"rules"}`},
		{"weights of wrong type", `{"model_type":"logistic","weights":["x"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModel([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadModelFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

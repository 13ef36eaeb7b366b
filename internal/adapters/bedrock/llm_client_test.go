package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRuntime struct {
	body    []byte
	err     error
	request map[string]interface{}
}

func (f *fakeRuntime) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	if err := json.Unmarshal(params.Body, &f.request); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

var names = []string{"has_url", "urgency"}

func TestClaudeModel(t *testing.T) {
	runtime := &fakeRuntime{body: []byte(`{"content":[{"type":"text","text":"{\"phishing_probability\": 0.9}"}]}`)}
	model := NewBedrockModel(runtime, "anthropic.claude-3-haiku-20240307-v1:0", 256, 0, 1, names, zap.NewNop())

	probs, err := model.PredictProba(context.Background(), []float64{1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, probs[1], 1e-9)
	assert.Equal(t, "bedrock-2023-05-31", runtime.request["anthropic_version"])

	messages := runtime.request["messages"].([]interface{})
	content := messages[0].(map[string]interface{})["content"].(string)
	assert.Contains(t, content, "- has_url: 1")
	assert.Contains(t, content, "- urgency: 1")
}

func TestTitanModel(t *testing.T) {
	runtime := &fakeRuntime{body: []byte(`{"results":[{"outputText":"Answer: {\"phishing_probability\": 0.2}"}]}`)}
	model := NewBedrockModel(runtime, "amazon.titan-text-express-v1", 256, 0, 1, names, zap.NewNop())

	probs, err := model.PredictProba(context.Background(), []float64{0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, probs[1], 1e-9)
	assert.Contains(t, runtime.request, "inputText")
}

func TestGenericModelRawBody(t *testing.T) {
	runtime := &fakeRuntime{body: []byte(`{"phishing_probability": 0.6}`)}
	model := NewBedrockModel(runtime, "meta.llama3", 256, 0, 1, names, zap.NewNop())

	probs, err := model.PredictProba(context.Background(), []float64{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, probs[1], 1e-9)
	assert.Equal(t, "bedrock:meta.llama3", model.Name())
}

func TestInvokeError(t *testing.T) {
	runtime := &fakeRuntime{err: errors.New("throttled")}
	model := NewBedrockModel(runtime, "amazon.titan-text-express-v1", 256, 0, 1, names, zap.NewNop())

	_, err := model.PredictProba(context.Background(), []float64{1, 0})
	assert.Error(t, err)
}

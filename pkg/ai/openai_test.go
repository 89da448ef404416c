package ai

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	openai "github.com/sashabaranov/go-openai"
)

func TestWireTemperature(t *testing.T) {
	require.Zero(t, wireTemperature(nil))
	require.InDelta(t, 0.3, wireTemperature(Temperature(0.3)), 0.0001)
	require.Equal(t, float32(math.SmallestNonzeroFloat32), wireTemperature(Temperature(0)))
}

// An intended zero temperature must survive JSON encoding of the upstream
// request struct; its temperature field carries omitempty, which silently
// drops a literal 0 and lets the API default take over.
func TestZeroTemperatureReachesTheWire(t *testing.T) {
	request := openai.ChatCompletionRequest{
		Model:       "gpt-3.5-turbo",
		Temperature: wireTemperature(Temperature(0)),
		Messages:    toChatMessages([]Message{{Role: RoleUser, Content: "YES or NO?"}}),
	}

	encoded, err := json.Marshal(request)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(encoded, &fields))
	require.Contains(t, fields, "temperature")
}

func TestUnsetTemperatureIsOmittedFromTheWire(t *testing.T) {
	request := openai.ChatCompletionRequest{
		Model:       "gpt-4o-mini",
		Temperature: wireTemperature(nil),
		Messages:    toChatMessages([]Message{{Role: RoleUser, Content: "hello"}}),
	}

	encoded, err := json.Marshal(request)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(encoded, &fields))
	require.NotContains(t, fields, "temperature")
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/benchlab/gaia-eval-api/internal/models"
	"github.com/benchlab/gaia-eval-api/pkg/ai"
)

type fakeCompleter struct {
	responses []string
	err       error
	calls     []completionCall
}

type completionCall struct {
	messages []ai.Message
	options  ai.Options
}

func (f *fakeCompleter) Complete(_ context.Context, messages []ai.Message, options ai.Options) (string, error) {
	f.calls = append(f.calls, completionCall{messages: messages, options: options})
	if f.err != nil {
		return "", f.err
	}

	index := len(f.calls) - 1
	if index >= len(f.responses) {
		index = len(f.responses) - 1
	}
	return f.responses[index], nil
}

func arithmeticQuestion() models.Question {
	return models.Question{
		TaskID:      "task-arith-1",
		Question:    "What is 2 + 2?",
		Level:       1,
		FinalAnswer: "4",
	}
}

func TestGenerateAnswerUsesAnswerModelAndTemperature(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"4"}}
	svc := NewAnswerService(completer, AnswerConfig{}, zerolog.Nop())

	answer, err := svc.GenerateAnswer(context.Background(), arithmeticQuestion(), "", "")
	require.NoError(t, err)
	require.Equal(t, "4", answer)

	require.Len(t, completer.calls, 1)
	call := completer.calls[0]
	require.Equal(t, "gpt-4o-mini", call.options.Model)
	require.NotNil(t, call.options.Temperature)
	require.InDelta(t, 0.3, *call.options.Temperature, 0.001)
	require.Len(t, call.messages, 2)
	require.Equal(t, ai.RoleSystem, call.messages[0].Role)
	require.Contains(t, call.messages[1].Content, "What is 2 + 2?")
}

func TestGenerateAnswerHonorsExplicitZeroTemperature(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"4"}}
	svc := NewAnswerService(completer, AnswerConfig{AnswerTemperature: ai.Temperature(0)}, zerolog.Nop())

	_, err := svc.GenerateAnswer(context.Background(), arithmeticQuestion(), "", "")
	require.NoError(t, err)

	temperature := completer.calls[0].options.Temperature
	require.NotNil(t, temperature)
	require.Zero(t, *temperature)
}

func TestGenerateAnswerIncludesInstructionsAndContent(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"Paris"}}
	svc := NewAnswerService(completer, AnswerConfig{}, zerolog.Nop())

	_, err := svc.GenerateAnswer(context.Background(), arithmeticQuestion(), "check the attached table", "city,country\nParis,France")
	require.NoError(t, err)

	prompt := completer.calls[0].messages[1].Content
	require.Contains(t, prompt, "Instructions: check the attached table")
	require.Contains(t, prompt, "Here is the reference file details:")
	require.Contains(t, prompt, "Paris,France")
}

func TestGenerateAnswerClipsLongResponses(t *testing.T) {
	long := strings.Join([]string{"one", "two", "three", "four", "five", "six", "seven"}, "\n")
	completer := &fakeCompleter{responses: []string{long}}
	svc := NewAnswerService(completer, AnswerConfig{}, zerolog.Nop())

	answer, err := svc.GenerateAnswer(context.Background(), arithmeticQuestion(), "", "")
	require.NoError(t, err)
	require.Equal(t, "one\ntwo\nthree\nfour\nfive", answer)
}

func TestGenerateAnswerPropagatesTransportError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("connection reset")}
	svc := NewAnswerService(completer, AnswerConfig{}, zerolog.Nop())

	_, err := svc.GenerateAnswer(context.Background(), arithmeticQuestion(), "", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "generate answer")
}

func TestGradeUsesCompareModelAtZeroTemperature(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"YES"}}
	svc := NewAnswerService(completer, AnswerConfig{}, zerolog.Nop())

	verdict, err := svc.Grade(context.Background(), arithmeticQuestion(), "4")
	require.NoError(t, err)
	require.Equal(t, VerdictMatch, verdict)

	call := completer.calls[0]
	require.Equal(t, "gpt-3.5-turbo", call.options.Model)
	require.NotNil(t, call.options.Temperature)
	require.Zero(t, *call.options.Temperature)
	require.Len(t, call.messages, 1)
	require.Contains(t, call.messages[0].Content, "The original answer is: 4")
	require.Contains(t, call.messages[0].Content, "The AI's response was: 4")
}

func TestGradeVerdictParsing(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     Verdict
	}{
		{name: "upper yes", response: "YES", want: VerdictMatch},
		{name: "yes with punctuation", response: "Yes.", want: VerdictMatch},
		{name: "yes in sentence", response: "The answer is yes", want: VerdictMatch},
		{name: "upper no", response: "NO", want: VerdictNoMatch},
		{name: "no with whitespace", response: "  no \n", want: VerdictNoMatch},
		{name: "neither", response: "maybe", want: VerdictAmbiguous},
		{name: "empty", response: "", want: VerdictAmbiguous},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			completer := &fakeCompleter{responses: []string{tc.response}}
			svc := NewAnswerService(completer, AnswerConfig{}, zerolog.Nop())

			verdict, err := svc.Grade(context.Background(), arithmeticQuestion(), "4")
			require.NoError(t, err)
			require.Equal(t, tc.want, verdict)
		})
	}
}

func TestGradeRepeatIsDeterministicForSameResponse(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"YES", "YES"}}
	svc := NewAnswerService(completer, AnswerConfig{}, zerolog.Nop())

	first, err := svc.Grade(context.Background(), arithmeticQuestion(), "4")
	require.NoError(t, err)
	second, err := svc.Grade(context.Background(), arithmeticQuestion(), "4")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

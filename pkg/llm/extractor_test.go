package llm_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-profile-backend/pkg/cvparse"
	"go-profile-backend/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestBuildExtractionPromptListsLabels(t *testing.T) {
	prompt := llm.BuildExtractionPrompt("Jane Doe, Go developer")

	for _, label := range cvparse.Labels {
		assert.Contains(t, prompt, "\n"+label+"\n")
	}
	assert.True(t, strings.HasSuffix(prompt, "CV Text:\nJane Doe, Go developer"))
}

func TestExtractProfile(t *testing.T) {
	gen := &fakeGenerator{reply: "First Name: Jane\nSkills:\nGo"}

	out, err := llm.NewExtractor(gen).ExtractProfile(context.Background(), "  cv body  ")

	require.NoError(t, err)
	assert.Equal(t, "Jane", cvparse.Parse(out).FirstName)
	assert.Contains(t, gen.prompt, "CV Text:\ncv body")
}

func TestExtractProfileErrors(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota")}
	ex := llm.NewExtractor(gen)

	_, err := ex.ExtractProfile(context.Background(), "cv")
	assert.EqualError(t, err, "quota")

	_, err = ex.ExtractProfile(context.Background(), " ")
	assert.Error(t, err)
}

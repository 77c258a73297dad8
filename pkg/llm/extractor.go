package llm

import (
	"context"
	"errors"
	"strings"

	"go-profile-backend/pkg/cvparse"
)

// Generator produces a completion for a single prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Extractor implements domain.ProfileExtractor on top of a Generator.
type Extractor struct {
	gen Generator
}

func NewExtractor(gen Generator) *Extractor {
	return &Extractor{gen: gen}
}

// ExtractProfile asks the model for the labelled block parsed by cvparse.
func (e *Extractor) ExtractProfile(ctx context.Context, cvText string) (string, error) {
	cvText = strings.TrimSpace(cvText)
	if cvText == "" {
		return "", errors.New("cv text must not be empty")
	}
	return e.gen.GenerateContent(ctx, BuildExtractionPrompt(cvText))
}

// BuildExtractionPrompt lists every cvparse label in order so the response
// can be split into sections.
func BuildExtractionPrompt(cvText string) string {
	var b strings.Builder
	b.WriteString("Extract the following information from the CV: ")
	names := make([]string, 0, len(cvparse.Labels))
	for _, label := range cvparse.Labels {
		names = append(names, strings.TrimSuffix(label, ":"))
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(".\n")
	b.WriteString("Give only one value for First Name, Last Name, Country, State and City.\n")
	b.WriteString("Country and State must use ISO 3166 codes (Country as ISO2).\n")
	b.WriteString("Answer with exactly these labels, each at the start of its own line, and put every skill on its own line. ")
	b.WriteString("Leave a label empty when the CV does not contain it. Do not add any other text.\n\n")
	for _, label := range cvparse.Labels {
		b.WriteString(label)
		b.WriteString("\n")
	}
	b.WriteString("\nCV Text:\n")
	b.WriteString(cvText)
	return b.String()
}

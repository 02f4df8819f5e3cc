package llm

import (
	"testing"

	genai "github.com/google/generative-ai-go/genai"
)

func TestCandidateText(t *testing.T) {
	withParts := func(parts ...genai.Part) *genai.Candidate {
		return &genai.Candidate{Content: &genai.Content{Role: "model", Parts: parts}}
	}

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{"nil response", nil, ""},
		{"no candidates", &genai.GenerateContentResponse{}, ""},
		{"nil content", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: nil}},
		}, ""},
		{"nil content skipped", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{nil, {Content: nil}, withParts(genai.Text("Go was announced in 2009."))},
		}, "Go was announced in 2009."},
		{"mixed parts", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{withParts(
				genai.Text("Key points: "),
				genai.Blob{MIMEType: "image/png", Data: []byte{0x89, 0x50}},
				genai.Text("goroutines are cheap."),
			)},
		}, "Key points: goroutines are cheap."},
		{"first candidate only", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				withParts(genai.Text("first summary")),
				withParts(genai.Text("second summary")),
			},
		}, "first summary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := candidateText(tt.resp); got != tt.want {
				t.Errorf("candidateText() = %q, want %q", got, tt.want)
			}
		})
	}
}

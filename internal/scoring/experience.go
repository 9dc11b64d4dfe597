package scoring

import (
	"context"
	"errors"
	"strings"

	"github.com/jonathan/ats-scorer/internal/semantic"
	"github.com/jonathan/ats-scorer/internal/types"
)

const (
	unstructuredExperienceScore = 30.0
	noExperienceScore           = 20.0
)

// Experience notes
const (
	NoteUnableToAnalyze     = "Unable to analyze experience structure"
	NoteNoExperience        = "No clear experience section found"
	NoteInsufficientContent = "Experience section has insufficient content for comparison"
)

// experienceIndicators mark a paragraph as describing work experience
var experienceIndicators = []string{"experience", "worked", "developed", "managed", "led", "responsible", "achieved"}

func (s *Scorer) experienceScore(ctx context.Context, paragraphs []types.Paragraph, jobDescription string) (types.SubScore[types.ExperienceDetails], error) {
	if len(paragraphs) == 0 {
		return types.SubScore[types.ExperienceDetails]{
			Score:   unstructuredExperienceScore,
			Details: types.ExperienceDetails{Note: NoteUnableToAnalyze},
		}, nil
	}

	selected := experienceParagraphs(paragraphs)
	details := types.ExperienceDetails{
		Analyzed:             true,
		ParagraphsConsidered: len(paragraphs),
		ExperienceParagraphs: len(selected),
	}

	if len(selected) == 0 {
		details.Note = NoteNoExperience
		return types.SubScore[types.ExperienceDetails]{Score: noExperienceScore, Details: details}, nil
	}

	sim, strategy, err := s.semantic.DocumentSimilarity(ctx, strings.Join(selected, " "), jobDescription)
	var insufficient *semantic.InsufficientContentError
	switch {
	case errors.As(err, &insufficient):
		details.Note = NoteInsufficientContent
		return types.SubScore[types.ExperienceDetails]{Score: noExperienceScore, Details: details}, nil
	case err != nil:
		return types.SubScore[types.ExperienceDetails]{}, err
	}

	details.Similarity = sim
	details.EmbeddingStrategy = strategy
	return types.SubScore[types.ExperienceDetails]{Score: 100 * sim, Details: details}, nil
}

func experienceParagraphs(paragraphs []types.Paragraph) []string {
	var out []string
	for _, p := range paragraphs {
		lower := strings.ToLower(p.Text)
		for _, ind := range experienceIndicators {
			if strings.Contains(lower, ind) {
				out = append(out, p.Text)
				break
			}
		}
	}
	return out
}

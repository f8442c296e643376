package pipeline

import (
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/scilex/helper"
)

// DefaultCandidateRecognizer creates a model-based candidate recognizer
// using a NER model. It supplements the pattern filters in high-recall
// setups: entity surfaces the morphological heuristics miss are fed into the
// resolver as additional candidates.
// Uses the KnightsAnalytics optimized distilbert-NER model.
func DefaultCandidateRecognizer() (RecognizeFunc, error) {
	// Prepare model (download if needed)
	modelName := "KnightsAnalytics/distilbert-NER"
	modelPath, err := helper.PrepareModel(modelName, "model.onnx")
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	// Create token classification pipeline for NER
	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "candidate-recognizer-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}), // Ignore non-entity tokens
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	return func(text string) ([]string, error) {
		result, err := nerPipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to run NER: %w", err)
		}

		if len(result.Entities) == 0 {
			return nil, nil
		}

		var surfaces []string
		seen := map[string]bool{}
		for _, entity := range result.Entities[0] {
			surface := strings.TrimSpace(entity.Word)
			if surface == "" || seen[strings.ToLower(surface)] {
				continue
			}
			seen[strings.ToLower(surface)] = true
			surfaces = append(surfaces, surface)
		}

		return surfaces, nil
	}, nil
}

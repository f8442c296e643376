package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/scilex"
	"github.com/siherrmann/scilex/model"
)

func f(v float64) *float64 { return &v }

// samplePage mimics layout extractor output for two lines of scientific
// prose, including a hyphenated line break ("Myco-" / "plasma")
var samplePage = model.Page{
	PageNumber: 1,
	Width:      612,
	Height:     792,
	Words: []model.RawWord{
		{Text: "Biofilm", X: f(72), Y: f(100), Width: f(40), Height: f(12)},
		{Text: "formation", X: f(115), Y: f(100), Width: f(52), Height: f(12)},
		{Text: "in", X: f(170), Y: f(100), Width: f(10), Height: f(12)},
		{Text: "Escherichia", X: f(183), Y: f(100), Width: f(60), Height: f(12)},
		{Text: "coli", X: f(246), Y: f(100), Width: f(20), Height: f(12)},
		{Text: "and", X: f(72), Y: f(115), Width: f(20), Height: f(12)},
		{Text: "Myco-", X: f(95), Y: f(115), Width: f(32), Height: f(12)},
		{Text: "plasma", X: f(130), Y: f(115), Width: f(38), Height: f(12)},
		{Text: "species", X: f(171), Y: f(115), Width: f(40), Height: f(12)},
	},
}

func main() {
	annotator, err := scilex.NewScilex(model.DefaultPipelineConfig(), model.DefaultResolverConfig())
	if err != nil {
		log.Fatalf("Failed to create annotator: %v", err)
	}
	defer annotator.Close()

	pages, err := annotator.AnnotateDocument(context.Background(), []model.Page{samplePage})
	if err != nil {
		log.Fatalf("Failed to annotate document: %v", err)
	}

	for _, page := range pages {
		fmt.Printf("Page %d\n", page.PageNumber)
		for _, phrase := range page.Phrases {
			if phrase.Definition == "" {
				continue
			}
			fmt.Printf("  phrase %q [%s]: %s\n", phrase.Text, phrase.Source, phrase.Definition)
		}
		for _, word := range page.Words {
			if word.Definition == "" || word.Skip {
				continue
			}
			fmt.Printf("  word %q [%s]: %s\n", word.Text, word.Source, word.Definition)
		}
	}
}

package registry

import "github.com/draftline/draftline/pkg/api"

// blogSteps is the 22-step blog-creation catalog (schema v2 layout).
//
// The spine of the workflow (intent, keywords, outline, title, draft,
// export, final review) cannot be skipped; research and enrichment
// steps can. Dependencies list the prior steps whose completed or
// skipped output feeds the step's operation.
var blogSteps = []api.StepDefinition{
	{
		Number: 1,
		Name:   "Search Intent Analysis",
		Owner:  api.OwnerAI,
	},
	{
		Number:    2,
		Name:      "Competitor Content Fetch",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{1},
	},
	{
		Number:    3,
		Name:      "Competitor Analysis",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{2},
	},
	{
		Number:    4,
		Name:      "Expert Opinion & Webinar Points",
		Owner:     api.OwnerAIHuman,
		CanSkip:   true,
		TwoPhase:  true,
		DependsOn: []int{1, 2, 3},
	},
	{
		Number:    5,
		Name:      "Secondary Keywords",
		Owner:     api.OwnerHuman,
		Threshold: &api.InputThreshold{Min: 8, Max: 12},
	},
	{
		Number:    6,
		Name:      "Blog Clustering",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{1},
	},
	{
		Number:    7,
		Name:      "Outline Generation",
		Owner:     api.OwnerAI,
		DependsOn: []int{1, 3, 4, 5},
	},
	{
		Number:    8,
		Name:      "LLM Optimization Planning",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{2, 4, 7},
	},
	{
		Number:    9,
		Name:      "Data Collection",
		Owner:     api.OwnerHuman,
		CanSkip:   true,
		Threshold: &api.InputThreshold{Min: 4, Max: 5},
	},
	{
		Number:    10,
		Name:      "Tools Research",
		Owner:     api.OwnerHuman,
		CanSkip:   true,
		Threshold: &api.InputThreshold{Min: 3, Max: 6},
	},
	{
		Number:    11,
		Name:      "Resource Links",
		Owner:     api.OwnerHuman,
		CanSkip:   true,
		Threshold: &api.InputThreshold{Min: 5, Max: 7},
	},
	{
		Number:    12,
		Name:      "Credibility Elements",
		Owner:     api.OwnerHuman,
		CanSkip:   true,
		Threshold: &api.InputThreshold{Min: 5, Max: 10},
	},
	{
		Number:  13,
		Name:    "Business Info Update",
		Owner:   api.OwnerHuman,
		CanSkip: true,
	},
	{
		Number:    14,
		Name:      "Landing Page Evaluation",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{7},
	},
	{
		Number:    15,
		Name:      "Infographic Planning",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{1, 4, 7, 9},
	},
	{
		Number:    16,
		Name:      "Title Creation",
		Owner:     api.OwnerAI,
		DependsOn: []int{4, 7},
	},
	{
		Number:    17,
		Name:      "Blog Draft Generation",
		Owner:     api.OwnerAI,
		DependsOn: []int{2, 3, 4, 7, 8, 9, 10, 11, 12, 16},
	},
	{
		Number:    18,
		Name:      "FAQ Accordion",
		Owner:     api.OwnerAIHuman,
		CanSkip:   true,
		TwoPhase:  true,
		DependsOn: []int{4, 5, 17},
	},
	{
		Number:    19,
		Name:      "Meta Description",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{4, 5, 16, 17},
	},
	{
		Number:    20,
		Name:      "AI Signal Removal",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{17},
	},
	{
		Number:    21,
		Name:      "Export & Archive",
		Owner:     api.OwnerAI,
		DependsOn: []int{16, 18, 19, 20},
		Export:    true,
	},
	{
		Number:    22,
		Name:      "Final Review Checklist",
		Owner:     api.OwnerHuman,
		DependsOn: []int{21},
	},
}

package registry

import "github.com/draftline/draftline/pkg/api"

// webinarSteps is the 15-step webinar-to-blog catalog. It front-loads
// human input (topic, transcript, guidelines) and runs the rest of the
// pipeline on AI steps.
var webinarSteps = []api.StepDefinition{
	{
		Number:    1,
		Name:      "Webinar Topic Input",
		Owner:     api.OwnerHuman,
		Threshold: &api.InputThreshold{Min: 1, Max: 3},
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
		Name:      "Webinar Transcript Input",
		Owner:     api.OwnerHuman,
		Threshold: &api.InputThreshold{Min: 1, Max: 3},
	},
	{
		Number:    5,
		Name:      "Content Guidelines Input",
		Owner:     api.OwnerHuman,
		CanSkip:   true,
		Threshold: &api.InputThreshold{Min: 1, Max: 10},
	},
	{
		Number:    6,
		Name:      "Outline Generation",
		Owner:     api.OwnerAI,
		DependsOn: []int{1, 3, 4, 5},
	},
	{
		Number:    7,
		Name:      "LLM Optimization Planning",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{6},
	},
	{
		Number:    8,
		Name:      "Landing Page Evaluation",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{6},
	},
	{
		Number:    9,
		Name:      "Infographic Planning",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{4, 6},
	},
	{
		Number:    10,
		Name:      "Title Generation",
		Owner:     api.OwnerAI,
		DependsOn: []int{1, 6},
	},
	{
		Number:    11,
		Name:      "Blog Draft Generation",
		Owner:     api.OwnerAI,
		DependsOn: []int{4, 6, 7, 10},
	},
	{
		Number:    12,
		Name:      "Meta Description",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{10, 11},
	},
	{
		Number:    13,
		Name:      "AI Signal Removal",
		Owner:     api.OwnerAI,
		CanSkip:   true,
		DependsOn: []int{11},
	},
	{
		Number:    14,
		Name:      "Export & Archive",
		Owner:     api.OwnerAI,
		DependsOn: []int{10, 12, 13},
		Export:    true,
	},
	{
		Number:    15,
		Name:      "Final Review Checklist",
		Owner:     api.OwnerHuman,
		DependsOn: []int{14},
	},
}

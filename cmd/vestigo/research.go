// -----------------------------------------------------------------------
// Last Modified: Tuesday, 25th August 2026 9:14:05 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package main

import (
	"context"

	"github.com/ternarybob/vestigo/internal/app"
	"github.com/ternarybob/vestigo/internal/models"
)

// runResearch fans research out across all sources for the topic and prints
// the bundle JSON to stdout. Partial source failure is reported inside the
// bundle, not as a process failure.
func runResearch(topic, name, industry string) {
	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	bundle := application.ResearchService.ComprehensiveResearch(context.Background(), topic, models.OrganizationContext{
		Name:     name,
		Industry: industry,
	})
	printJSON(bundle)
}

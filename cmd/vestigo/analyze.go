// -----------------------------------------------------------------------
// Last Modified: Tuesday, 25th August 2026 9:14:05 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/ternarybob/vestigo/internal/app"
	"github.com/ternarybob/vestigo/internal/models"
)

// runAnalyze performs a one-shot website analysis, persists the record, and
// prints the resulting profile JSON to stdout.
func runAnalyze(websiteURL, name string) {
	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	org := models.Organization{
		ID:      uuid.NewString(),
		Name:    name,
		Website: websiteURL,
	}

	ctx := context.Background()
	envelope := application.AnalyzeOrganization(ctx, org)
	if envelope.Status != models.AnalysisStatusCompleted {
		logger.Error().
			Str("org_id", envelope.OrganizationID).
			Str("error", envelope.Error).
			Msg("Website analysis failed")
		printJSON(envelope)
		os.Exit(1)
	}

	record, err := application.ProfileStorage.Get(ctx, org.ID)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load analyzed profile")
	}
	printJSON(record.Profile)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode output")
		return
	}
	fmt.Println(string(out))
}

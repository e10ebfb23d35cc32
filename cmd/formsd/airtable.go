package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/snoozelane/formsd/internal/airtable"
	"github.com/snoozelane/formsd/internal/config"
	"github.com/snoozelane/formsd/internal/forms"
)

var airtableCmd = &cobra.Command{
	Use:   "airtable",
	Short: "Airtable base inspection commands",
}

var airtableCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the expected tables exist and are accessible",
	RunE:  runAirtableCheck,
}

var airtableSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Compare table fields against the expected structure via the Meta API",
	RunE:  runAirtableSchema,
}

func init() {
	airtableCmd.AddCommand(airtableCheckCmd, airtableSchemaCmd)
	rootCmd.AddCommand(airtableCmd)
}

// expectedField is one field the handlers write, with its Airtable type
type expectedField struct {
	Name string
	Type string
}

// expectedTables returns the table structures the handlers depend on
func expectedTables(cfg *config.Config) map[string][]expectedField {
	return map[string][]expectedField{
		cfg.Airtable.SignupsTable: {
			{forms.ColEmail, "email"},
			{forms.ColSignupNumber, "number"},
			{forms.ColPremiumEligible, "checkbox"},
			{forms.ColCouponCode, "singleLineText"},
			{forms.ColDateSignedUp, "dateTime"},
		},
		cfg.Airtable.InquiriesTable: {
			{forms.ColName, "singleLineText"},
			{forms.ColEmail, "email"},
			{forms.ColMessage, "multilineText"},
			{forms.ColDateSubmitted, "dateTime"},
		},
	}
}

func airtableClient() (*airtable.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	client := airtable.NewClient(cfg.Airtable.BaseURL, cfg.Airtable.AccessToken,
		cfg.Airtable.BaseID, cfg.Airtable.Timeout)
	if !client.Configured() {
		return nil, nil, fmt.Errorf("AIRTABLE_ACCESS_TOKEN and AIRTABLE_BASE_ID must be set")
	}
	return client, cfg, nil
}

func runAirtableCheck(cmd *cobra.Command, args []string) error {
	client, cfg, err := airtableClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("Checking Airtable base %s\n", client.BaseID())

	missing := 0
	for table, fields := range expectedTables(cfg) {
		fmt.Printf("\nTable %q:\n", table)

		_, err := client.ListRecords(ctx, table, airtable.ListOptions{MaxRecords: 1})
		if err == nil {
			fmt.Printf("  exists and is accessible\n")
			continue
		}

		var apiErr *airtable.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			missing++
			fmt.Printf("  does NOT exist; create it with these fields:\n")
			for _, f := range fields {
				fmt.Printf("    - %s (%s)\n", f.Name, f.Type)
			}
			continue
		}

		return fmt.Errorf("failed to check table %q: %w", table, err)
	}

	if missing > 0 {
		return fmt.Errorf("%d table(s) missing", missing)
	}
	fmt.Printf("\nAll tables exist\n")
	return nil
}

func runAirtableSchema(cmd *cobra.Command, args []string) error {
	client, cfg, err := airtableClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema, err := client.BaseSchema(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch base schema: %w", err)
	}

	problems := 0
	for table, fields := range expectedTables(cfg) {
		fmt.Printf("\nTable %q:\n", table)

		ts := schema.Table(table)
		if ts == nil {
			problems++
			fmt.Printf("  missing from base\n")
			continue
		}

		for _, f := range fields {
			if ts.HasField(f.Name) {
				fmt.Printf("  ok      %s (%s)\n", f.Name, f.Type)
			} else {
				problems++
				fmt.Printf("  MISSING %s (%s)\n", f.Name, f.Type)
			}
		}
	}

	if problems > 0 {
		return fmt.Errorf("%d schema problem(s) found", problems)
	}
	fmt.Printf("\nSchema matches\n")
	return nil
}

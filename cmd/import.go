package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/linguaplay/scoring-service/internal/repositories/postgres"
	"github.com/linguaplay/scoring-service/internal/services"
	"github.com/linguaplay/scoring-service/internal/utils"
	"github.com/linguaplay/scoring-service/internal/validator"
	"github.com/linguaplay/scoring-service/pkg"
)

var importExercisesCmd = &cobra.Command{
	Use:   "import-exercises <file.xlsx|file.csv>",
	Short: "Import exercises from a spreadsheet into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := utils.ToSlogLogger(cliLogger(cfg))

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return err
		}

		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}

		svc := services.NewImportExportService(
			postgres.NewExercisePostgreSQL(db),
			postgres.NewProgressPostgreSQL(db),
			engine, logger, validator.New(),
		)

		summary, err := svc.ImportExercisesFromFile(context.Background(), f, filepath.Base(args[0]))
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}

		fmt.Printf("Rows: %d  Imported: %d  Failed: %d  (%s)\n",
			summary.TotalRows, summary.SuccessCount, summary.ErrorCount, summary.ProcessingTime)
		for _, e := range summary.Errors {
			fmt.Printf("  row %d, %s: %s\n", e.Row, e.Column, e.Message)
		}
		if summary.SuccessCount == 0 && summary.ErrorCount > 0 {
			return errors.New("no exercises imported")
		}
		return nil
	},
}

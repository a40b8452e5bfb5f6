package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"vestibot/internal/components/telemetry"
	"vestibot/internal/scrapers/vestractor"
	"vestibot/pkg/serviceutil"
)

var (
	sampleExam  *string
	samplePhase *string
)

func init() {
	sampleExam = sampleCmd.Flags().String("exam", "", "The compressed acronym of the exam, random when empty.")
	samplePhase = sampleCmd.Flags().String("phase", "", "The phase name of the resolution, random when empty.")
	rootCmd.AddCommand(sampleCmd)
}

func orDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// writeSample samples a question and renders it as a table to w.
func writeSample(ctx context.Context, w io.Writer, catalog *vestractor.Catalog, exam, phase string) error {
	pick, err := catalog.RandomQuestion(ctx, exam, phase)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRows([]table.Row{
		{"Exam", fmt.Sprintf("%s (%s)", pick.Exam.FullAcronym, pick.Exam.CompressedAcronym)},
		{"Phase", pick.Resolution.PhaseName},
		{"Area", orDash(pick.Question.Area)},
		{"Question", pick.Question.Id},
		{"Answer", orDash(pick.Question.Answer)},
		{"Image", pick.Question.ImageUrl},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

var sampleCmd = &cobra.Command{
	Use:   "sample [--exam <key>] [--phase <name>]",
	Short: "Prints a random question from the catalog.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		catalog := newCatalog(cfg, telemetry.SlogAPI{})

		err := writeSample(cmd.Context(), os.Stdout, catalog, *sampleExam, *samplePhase)
		if err != nil {
			serviceutil.Fatal("failed to sample a question", err)
		}
	},
}

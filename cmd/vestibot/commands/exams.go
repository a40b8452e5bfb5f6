package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"vestibot/internal/components/telemetry"
	"vestibot/pkg/serviceutil"
)

var examsWarm *bool

func init() {
	examsWarm = examsCmd.Flags().Bool("warm", false, "Also load the resolutions of every exam.")
	rootCmd.AddCommand(examsCmd)
}

var examsCmd = &cobra.Command{
	Use:   "exams [--warm]",
	Short: "Prints the entrance exams listed on the platform.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()
		catalog := newCatalog(cfg, telemetry.SlogAPI{})

		exams, err := catalog.Exams(ctx)
		if err != nil {
			serviceutil.Fatal("failed to load exams", err)
		}

		header := table.Row{"Key", "Exam", "Page"}
		if *examsWarm {
			err = catalog.Warm(ctx, cfg.Scraper.WarmConcurrency)
			if err != nil {
				serviceutil.Fatal("failed to warm catalog", err)
			}
			header = append(header, "Resolutions")
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(header)

		for _, exam := range exams {
			row := table.Row{exam.CompressedAcronym, exam.FullAcronym, exam.PageUrl}
			if *examsWarm {
				count, ok := catalog.LoadedResolutions(exam.CompressedAcronym)
				if ok {
					row = append(row, count)
				} else {
					row = append(row, "failed")
				}
			}
			t.AppendRow(row)
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"vestibot/pkg/serviceutil"
)

var bookshelfMarkdown *bool

func init() {
	bookshelfMarkdown = bookshelfCmd.Flags().Bool("markdown", false, "Render the whole bookshelf as markdown instead of the embed summary.")
	rootCmd.AddCommand(bookshelfCmd)
}

var bookshelfCmd = &cobra.Command{
	Use:   "bookshelf [--markdown]",
	Short: "Previews what !bookshelf sends.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		shelf := loadBookshelf(cfg)

		if *bookshelfMarkdown {
			err := shelf.RenderMarkdown(os.Stdout)
			if err != nil {
				serviceutil.Fatal("failed to render bookshelf", err)
			}
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"#", "Title", "Fields", "Lines"})
		for i, embed := range shelf.CreateEmbeds() {
			lines := 0
			for _, field := range embed.Fields {
				if field.Value != "" {
					lines += strings.Count(field.Value, "\n") + 1
				}
			}
			t.AppendRow(table.Row{i + 1, embed.Title, len(embed.Fields), lines})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()

		fmt.Println(shelf.EmbedInfo.MainTitle, shelf.EmbedInfo.PlatformHref)
	},
}

package bibliothecary

import (
	"fmt"
	"io"

	"github.com/nao1215/markdown"
)

// RenderMarkdown writes the bookshelf as a Markdown document, keeping the area names that the
// embeds leave out.
func (b Bookshelf) RenderMarkdown(w io.Writer) error {
	md := markdown.NewMarkdown(w)

	md.H1(b.EmbedInfo.MainTitle)
	md.PlainText("")
	if b.EmbedInfo.PlatformHref != "" {
		md.PlainText(markdown.Link(b.EmbedInfo.PlatformHref, b.EmbedInfo.PlatformHref))
		md.PlainText("")
	}

	for _, section := range b.Sections {
		for _, named := range section {
			md.H2(named.Key)
			md.PlainText("")

			for _, areas := range named.Value {
				for _, area := range areas {
					md.H3(area.Key)
					md.PlainText("")

					var lines []string
					for _, subjects := range area.Value {
						for _, subject := range subjects {
							lines = append(lines, SubjectLine(subject.Key, subject.Value))
						}
					}
					if len(lines) == 0 {
						continue
					}
					md.BulletList(lines...)
					md.PlainText("")
				}
			}
		}
	}

	err := md.Build()
	if err != nil {
		return fmt.Errorf("render bookshelf: %w", err)
	}
	return nil
}

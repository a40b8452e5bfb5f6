package bibliothecary

import (
	"fmt"
	"strings"
)

type EmbedAuthor struct {
	Name    string
	Url     string
	IconUrl string
}

type EmbedField struct {
	Name  string
	Value string
}

// Embed is a chat embed independent of the platform that ends up sending it.
type Embed struct {
	Author EmbedAuthor
	Color  int
	Title  string
	Fields []EmbedField
}

// SubjectLine renders a subject as "Name [[PDF](pdf) | [Digital](html)]", leaving out the links
// that are missing.
func SubjectLine(name string, subject Subject) string {
	var assets []string
	if subject.PDF != "" {
		assets = append(assets, fmt.Sprintf("[PDF](%s)", subject.PDF))
	}
	if subject.PDF != "" && subject.HTML != "" {
		assets = append(assets, "|")
	}
	if subject.HTML != "" {
		assets = append(assets, fmt.Sprintf("[Digital](%s)", subject.HTML))
	}
	return fmt.Sprintf("%s [%s]", name, strings.Join(assets, " "))
}

// CreateEmbeds renders one embed per section map of the bookshelf.
//
// Subject lines are appended to the last field, a subject with SpaceLine set opens two new empty
// fields after it and the first area of every area map starts over on a blank last field. When a
// section map has more than one key, only the last one makes it into the embed.
func (b Bookshelf) CreateEmbeds() []Embed {
	var embeds []Embed

	for _, section := range b.Sections {
		if len(section) == 0 {
			continue
		}

		var embed Embed
		for _, named := range section {
			embed = Embed{
				Author: EmbedAuthor{
					Name:    b.EmbedInfo.MainTitle,
					Url:     b.EmbedInfo.PlatformHref,
					IconUrl: b.EmbedInfo.FaviconUrl,
				},
				Color:  b.EmbedInfo.AccentColor,
				Title:  named.Key,
				Fields: []EmbedField{{}},
			}

			for _, areas := range named.Value {
				for areaIndex, area := range areas {
					if areaIndex == 0 {
						embed.Fields[len(embed.Fields)-1] = EmbedField{}
					}
					for _, subjects := range area.Value {
						for _, subject := range subjects {
							last := &embed.Fields[len(embed.Fields)-1]
							last.Value += "\n" + SubjectLine(subject.Key, subject.Value)

							if subject.Value.SpaceLine {
								embed.Fields = append(embed.Fields, EmbedField{}, EmbedField{})
							}
						}
					}
				}
			}
		}

		for i := range embed.Fields {
			embed.Fields[i].Value = strings.TrimSpace(embed.Fields[i].Value)
		}
		embeds = append(embeds, embed)
	}

	return embeds
}

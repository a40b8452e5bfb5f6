package discordbot

import (
	"github.com/bwmarrin/discordgo"
	"vestibot/internal/bibliothecary"
)

// emptyFieldText stands in for empty field names and values, discord rejects blank ones.
const emptyFieldText = "\u200b"

func orBlank(s string) string {
	if s == "" {
		return emptyFieldText
	}
	return s
}

func toMessageEmbed(embed bibliothecary.Embed) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, len(embed.Fields))
	for i, f := range embed.Fields {
		fields[i] = &discordgo.MessageEmbedField{
			Name:  orBlank(f.Name),
			Value: orBlank(f.Value),
		}
	}

	return &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    embed.Author.Name,
			URL:     embed.Author.Url,
			IconURL: embed.Author.IconUrl,
		},
		Color:  embed.Color,
		Title:  embed.Title,
		Fields: fields,
	}
}

package discordbot

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"vestibot/internal/scrapers/vestractor"
)

const (
	maxCommandDescription = 100
	maxCommands           = 100
)

var commandNamePattern = regexp.MustCompile(`^[-_\p{Ll}\p{Lo}\p{N}]{1,32}$`)

// CommandDescription is the description shown for the slash command of an exam.
func CommandDescription(exam vestractor.EntranceExam) string {
	description := fmt.Sprintf("Exibe uma questão aleatória resolvida para %s", exam.FullAcronym)
	if utf8.RuneCountInString(description) > maxCommandDescription {
		runes := []rune(description)
		description = string(runes[:maxCommandDescription-1]) + "…"
	}
	return description
}

// skippedCommand is an exam that could not be turned into a slash command.
type skippedCommand struct {
	exam   vestractor.EntranceExam
	reason string
}

// Commands builds one chat input command per exam, named after its compressed acronym.
func Commands(exams []vestractor.EntranceExam) ([]*discordgo.ApplicationCommand, []skippedCommand) {
	var commands []*discordgo.ApplicationCommand
	var skips []skippedCommand

	for _, exam := range exams {
		if !commandNamePattern.MatchString(exam.CompressedAcronym) {
			skips = append(skips, skippedCommand{exam: exam, reason: "invalid command name"})
			continue
		}
		if len(commands) == maxCommands {
			skips = append(skips, skippedCommand{exam: exam, reason: "too many commands"})
			continue
		}
		commands = append(commands, &discordgo.ApplicationCommand{
			Type:        discordgo.ChatApplicationCommand,
			Name:        exam.CompressedAcronym,
			Description: CommandDescription(exam),
		})
	}

	return commands, skips
}

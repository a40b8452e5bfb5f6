package discordbot

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-resty/resty/v2"
	"vestibot/internal/bibliothecary"
	"vestibot/internal/components/assert"
	"vestibot/internal/components/telemetry"
	"vestibot/internal/scrapers/vestractor"
)

const (
	report_bot_run                = "bot.run"
	report_bot_handle_interaction = "bot.handle-interaction"
	report_bot_handle_message     = "bot.handle-message"
	report_bot_handle_bookshelf   = "bot.handle-bookshelf"
	report_bot_keep_typing        = "bot.keep-typing"
	report_register_commands      = "register-commands"
)

const (
	MaxAnswerLength     = 2000
	PseudoCommandPrefix = "!"

	QuestionUnavailable = "Serviço de randomização de questões indisponível no momento!"
	AnswerUnavailable   = "Serviço de inteligência artificial indisponível no momento!"
	BookshelfGreeting   = "Acesse nossas apostilas mais facilmente!"
)

// QuestionSource hands out random questions for a slash command.
type QuestionSource interface {
	RandomQuestion(ctx context.Context, examKey, phaseKey string) (vestractor.Pick, error)
}

// Answerer answers free text messages.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

type Options struct {
	// TrustedChannelIds are the only channels the bot reacts in, an empty list makes it ignore
	// every channel.
	TrustedChannelIds []string
	// TypingInterval is how often the typing indicator is refreshed while an answer is being
	// generated, defaults to 10 seconds.
	TypingInterval time.Duration
	// Bookshelf is what the !bookshelf pseudo command sends, one message per embed.
	Bookshelf []bibliothecary.Embed
}

type Bot struct {
	session        Session
	questions      QuestionSource
	answerer       Answerer
	bookshelf      []*discordgo.MessageEmbed
	trusted        map[string]struct{}
	typingInterval time.Duration
	http           *resty.Client
	tel            telemetry.API
}

func New(session Session, questions QuestionSource, answerer Answerer, tel telemetry.API, opts Options) *Bot {
	assert.NotNil(session)
	assert.NotNil(questions)
	assert.NotNil(answerer)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("discordbot", tel)

	if opts.TypingInterval <= 0 {
		opts.TypingInterval = 10 * time.Second
	}

	trusted := make(map[string]struct{}, len(opts.TrustedChannelIds))
	for _, id := range opts.TrustedChannelIds {
		id = strings.TrimSpace(id)
		if id != "" {
			trusted[id] = struct{}{}
		}
	}

	bookshelf := make([]*discordgo.MessageEmbed, len(opts.Bookshelf))
	for i, embed := range opts.Bookshelf {
		bookshelf[i] = toMessageEmbed(embed)
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	telemetry.InstrumentResty(client, tel)

	return &Bot{
		session:        session,
		questions:      questions,
		answerer:       answerer,
		bookshelf:      bookshelf,
		trusted:        trusted,
		typingInterval: opts.TypingInterval,
		http:           client,
		tel:            tel,
	}
}

func (b *Bot) IsChannelTrusted(channelId string) bool {
	_, ok := b.trusted[channelId]
	return ok
}

// RegisterCommands replaces the global slash commands of the application with one command per
// exam. Exams that cannot be expressed as a command are reported and left out.
func RegisterCommands(ctx context.Context, session Session, tel telemetry.API, appId string, exams []vestractor.EntranceExam) ([]*discordgo.ApplicationCommand, error) {
	tel = telemetry.NewScopedAPI("discordbot", tel)

	commands, skips := Commands(exams)
	for _, s := range skips {
		tel.ReportWarning(report_register_commands, s.reason, s.exam.CompressedAcronym)
	}

	registered, err := session.ApplicationCommandBulkOverwrite(appId, "", commands, discordgo.WithContext(ctx))
	if err != nil {
		tel.ReportBroken(report_register_commands, err)
		return nil, fmt.Errorf("register commands: %w", err)
	}
	tel.ReportCount(report_register_commands, int64(len(registered)))
	return registered, nil
}

// Run connects to the gateway and dispatches events until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.tel.ReportDebug("ready", r.User.Username)
	})
	b.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		b.HandleMessage(ctx, m.Message)
	})
	b.session.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		b.HandleInteraction(ctx, i.Interaction)
	})

	err := b.session.Open()
	if err != nil {
		b.tel.ReportBroken(report_bot_run, err)
		return fmt.Errorf("open session: %w", err)
	}

	<-ctx.Done()

	err = b.session.Close()
	if err != nil {
		b.tel.ReportWarning(report_bot_run, err)
	}
	return nil
}

// HandleInteraction answers a slash command with an image of a random question of the exam it
// is named after.
func (b *Bot) HandleInteraction(ctx context.Context, i *discordgo.Interaction) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if !b.IsChannelTrusted(i.ChannelID) {
		return
	}

	err := b.session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
	if err != nil {
		b.tel.ReportBroken(report_bot_handle_interaction, err)
		return
	}

	examKey := i.ApplicationCommandData().Name

	params := &discordgo.WebhookParams{}
	file, err := b.questionFile(ctx, examKey)
	if err != nil {
		b.tel.ReportBroken(report_bot_handle_interaction, err, examKey)
		params.Content = QuestionUnavailable
	} else {
		params.Files = []*discordgo.File{file}
	}

	_, err = b.session.FollowupMessageCreate(i, true, params, discordgo.WithContext(ctx))
	if err != nil {
		b.tel.ReportBroken(report_bot_handle_interaction, err, examKey)
	}
}

func (b *Bot) questionFile(ctx context.Context, examKey string) (*discordgo.File, error) {
	pick, err := b.questions.RandomQuestion(ctx, examKey, "")
	if err != nil {
		return nil, err
	}
	imageUrl := pick.Question.ImageUrl
	if imageUrl == "" {
		return nil, fmt.Errorf("question %s of %s has no image", pick.Question.Id, pick.Resolution.PageUrl)
	}

	res, err := b.http.R().
		SetContext(ctx).
		Get(imageUrl)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", imageUrl, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("download %s: status %d", imageUrl, res.StatusCode())
	}

	return &discordgo.File{
		Name:        fileName(imageUrl),
		ContentType: res.Header().Get("content-type"),
		Reader:      bytes.NewReader(res.Body()),
	}, nil
}

func fileName(imageUrl string) string {
	parsed, err := url.Parse(imageUrl)
	if err == nil {
		name := path.Base(parsed.Path)
		if name != "." && name != "/" && name != "" {
			return name
		}
	}
	return "questao.png"
}

// HandleMessage answers plain messages in trusted channels and routes pseudo commands.
func (b *Bot) HandleMessage(ctx context.Context, m *discordgo.Message) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if strings.HasPrefix(m.Content, PseudoCommandPrefix) {
		b.handlePseudoCommand(ctx, m)
		return
	}
	if !b.IsChannelTrusted(m.ChannelID) {
		return
	}
	if strings.TrimSpace(m.Content) == "" {
		return
	}

	stop := b.keepTyping(ctx, m.ChannelID)
	answer, err := b.answerer.Answer(ctx, m.Content)
	stop()

	if err != nil {
		b.tel.ReportBroken(report_bot_handle_message, err)
		b.reply(ctx, m, AnswerUnavailable)
		return
	}

	for _, part := range SplitInParts(answer, MaxAnswerLength) {
		if !b.reply(ctx, m, part) {
			return
		}
	}
}

func (b *Bot) reply(ctx context.Context, m *discordgo.Message, content string) bool {
	_, err := b.session.ChannelMessageSendReply(m.ChannelID, content, m.Reference(), discordgo.WithContext(ctx))
	if err != nil {
		b.tel.ReportBroken(report_bot_handle_message, err)
		return false
	}
	return true
}

// keepTyping shows the typing indicator in channelId until the returned func is called.
func (b *Bot) keepTyping(ctx context.Context, channelId string) (stop func()) {
	typing := func() {
		err := b.session.ChannelTyping(channelId, discordgo.WithContext(ctx))
		if err != nil {
			b.tel.ReportWarning(report_bot_keep_typing, err, channelId)
		}
	}
	typing()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(b.typingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				typing()
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

func (b *Bot) handlePseudoCommand(ctx context.Context, m *discordgo.Message) {
	if !b.IsChannelTrusted(m.ChannelID) {
		return
	}

	name := strings.TrimSpace(strings.TrimPrefix(m.Content, PseudoCommandPrefix))
	if name == "bookshelf" {
		b.sendBookshelf(ctx, m.ChannelID)
	}
}

func (b *Bot) sendBookshelf(ctx context.Context, channelId string) {
	for i, embed := range b.bookshelf {
		msg := &discordgo.MessageSend{
			Embeds: []*discordgo.MessageEmbed{embed},
		}
		if i == 0 {
			msg.Content = BookshelfGreeting
		}
		_, err := b.session.ChannelMessageSendComplex(channelId, msg, discordgo.WithContext(ctx))
		if err != nil {
			b.tel.ReportBroken(report_bot_handle_bookshelf, err, i)
			return
		}
	}
}

package bot

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"creditbot/bot/features/admin"
	"creditbot/bot/features/credits"
	"creditbot/bot/features/games"
	"creditbot/config"
	"creditbot/events"
	"creditbot/service"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	config   *config.Config
	session  *discordgo.Session
	facade   *service.CreditsFacade
	eventBus *events.Bus

	credits *credits.Feature
	admin   *admin.Feature
	games   *games.Feature
}

func New(cfg *config.Config, facade *service.CreditsFacade, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent

	bot := &Bot{
		config:   cfg,
		session:  dg,
		facade:   facade,
		eventBus: eventBus,
		credits:  credits.New(facade, cfg),
		admin:    admin.New(facade, cfg),
		games:    games.New(facade, cfg),
	}

	// Register gateway handlers
	dg.AddHandler(bot.handleMessage)
	dg.AddHandler(bot.handleInteraction)
	dg.AddHandler(bot.handleGuildCreate)
	dg.AddHandler(bot.handleMemberAdd)
	dg.AddHandler(bot.handleMemberUpdate)

	// Log notable ledger activity flowing out of committed transactions
	eventBus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.BalanceChangeEvent); ok {
			log.WithFields(log.Fields{
				"userID":   e.UserID,
				"serverID": e.ServerID,
				"type":     e.TransactionType,
				"amount":   e.ChangeAmount,
				"balance":  e.NewBalance,
			}).Debug("Balance changed")
		}
	})
	eventBus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.UserCreatedEvent); ok {
			log.WithFields(log.Fields{
				"userID":   e.UserID,
				"serverID": e.ServerID,
				"credits":  e.InitialCredits,
			}).Info("New credits account created")
		}
	})

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Expire abandoned game sessions
	go bot.games.StartSessionCleanup()

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// handleGuildCreate registers servers as the bot joins or reconnects
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	ctx := context.Background()
	b.facade.EnsureMember(ctx, g.ID, g.Name, "", "", "")
	log.WithFields(log.Fields{
		"serverID":   g.ID,
		"serverName": g.Name,
	}).Info("Connected to server")
}

// handleMemberAdd registers new members and seeds their starting credits
func (b *Bot) handleMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}

	ctx := context.Background()
	guildName := b.guildName(s, m.GuildID)
	b.facade.EnsureMember(ctx, m.GuildID, guildName, m.User.ID, m.User.Username, m.User.Discriminator)

	if _, created, err := b.facade.GetOrCreateBalance(ctx, m.User.ID, m.GuildID); err != nil {
		log.Errorf("Failed to initialize credits for joining member %s: %v", m.User.ID, err)
	} else if created {
		log.WithFields(log.Fields{
			"userID":   m.User.ID,
			"serverID": m.GuildID,
		}).Info("Seeded credits for new member")
	}
}

// handleMemberUpdate keeps usernames fresh
func (b *Bot) handleMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	if m.User == nil || m.User.Bot {
		return
	}
	b.facade.EnsureMember(context.Background(), m.GuildID, b.guildName(s, m.GuildID), m.User.ID, m.User.Username, m.User.Discriminator)
}

// handleInteraction routes button presses to the feature that owns them
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, "games:") {
		b.games.HandleInteraction(s, i)
	}
}

func (b *Bot) guildName(s *discordgo.Session, guildID string) string {
	if guild, err := s.State.Guild(guildID); err == nil && guild != nil {
		return guild.Name
	}
	return guildID
}

package bot

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// handleMessage is the prefix command router. Commands only work in
// servers; DMs are ignored because every balance is server-scoped.
func (b *Bot) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	prefix := b.config.CommandPrefix
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	fields := strings.Fields(m.Content[len(prefix):])
	if len(fields) == 0 {
		return
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]

	// Keep identity records fresh on every command
	b.facade.EnsureMember(context.Background(), m.GuildID, b.guildName(s, m.GuildID), m.Author.ID, m.Author.Username, m.Author.Discriminator)

	switch command {
	case "credits", "bal", "balance":
		b.credits.HandleCredits(s, m, args)
	case "daily":
		b.credits.HandleDaily(s, m)
	case "transfer":
		b.credits.HandleTransfer(s, m, args)
	case "leaderboard", "rich", "lead":
		b.credits.HandleLeaderboard(s, m)
	case "top":
		b.credits.HandleTop(s, m)
	case "bottom":
		b.credits.HandleBottom(s, m)
	case "history":
		b.credits.HandleHistory(s, m)
	case "admin", "admn":
		b.admin.HandleAdmin(s, m, args)
	case "roll":
		b.games.HandleRoll(s, m, args)
	case "8ball":
		b.games.HandleEightBall(s, m, args)
	case "rfi":
		b.games.HandleRFI(s, m)
	case "challenge", "ch":
		b.games.HandleChallenge(s, m, args)
	case "rps":
		b.games.HandleRPS(s, m, args)
	case "tictactoe", "ttt":
		b.games.HandleTicTacToe(s, m, args)
	case "coinflip", "flip":
		b.games.HandleCoinflip(s, m)
	case "coinflipchallenge", "cfc":
		b.games.HandleCoinflipChallenge(s, m, args)
	case "slots":
		b.games.HandleSlots(s, m, args)
	}
}

package credits

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"creditbot/bot/common"
)

// HandleCredits shows the caller's balance, or another member's when
// mentioned. First contact seeds the account with welcome credits.
func (f *Feature) HandleCredits(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx := context.Background()

	if len(args) > 0 {
		targetID := common.ParseMention(args[0])
		balance, err := f.facade.GetBalance(ctx, targetID, m.GuildID)
		if err != nil {
			common.ReplyError(s, m.ChannelID, f.facade.DeclineReason(err))
			return
		}
		name := common.GetDisplayName(s, m.GuildID, targetID)
		common.Reply(s, m.ChannelID, fmt.Sprintf("**%s** has **%s credits**.", name, common.FormatBalance(balance.Credits)))
		return
	}

	balance, created, err := f.facade.GetOrCreateBalance(ctx, m.Author.ID, m.GuildID)
	if err != nil {
		log.Errorf("Error getting balance for user %s: %v", m.Author.ID, err)
		common.ReplyError(s, m.ChannelID, "Unable to retrieve your balance. Please try again.")
		return
	}

	name := common.GetDisplayName(s, m.GuildID, m.Author.ID)
	if created {
		common.Reply(s, m.ChannelID, fmt.Sprintf("🎉 Welcome, %s! You've received **%s credits** to get started.",
			name, common.FormatBalance(balance.Credits)))
		return
	}
	common.Reply(s, m.ChannelID, fmt.Sprintf("%s, your current balance: **%s credits**", name, common.FormatBalance(balance.Credits)))
}

// HandleDaily claims the daily reward
func (f *Feature) HandleDaily(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx := context.Background()

	// First contact still earns the welcome credits
	if _, _, err := f.facade.GetOrCreateBalance(ctx, m.Author.ID, m.GuildID); err != nil {
		log.Errorf("Error ensuring balance for user %s: %v", m.Author.ID, err)
		common.ReplyError(s, m.ChannelID, "Unable to process your claim. Please try again.")
		return
	}

	result, err := f.facade.ClaimDaily(ctx, m.Author.ID, m.GuildID)
	if err != nil {
		common.ReplyError(s, m.ChannelID, f.facade.DeclineReason(err))
		return
	}

	name := common.GetDisplayName(s, m.GuildID, m.Author.ID)
	common.Reply(s, m.ChannelID, fmt.Sprintf("💰 %s claimed **%s credits**! New balance: **%s credits**",
		name, common.FormatBalance(result.Amount), common.FormatBalance(result.NewBalance)))
}

// HandleTransfer moves credits to another member: !transfer <amount> @user
func (f *Feature) HandleTransfer(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx := context.Background()

	if len(args) < 2 {
		common.ReplyError(s, m.ChannelID, fmt.Sprintf("Usage: %stransfer <amount> @user", f.config.CommandPrefix))
		return
	}

	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		common.ReplyError(s, m.ChannelID, "Amount must be a number.")
		return
	}

	recipientID := common.ParseMention(args[1])
	recipient, err := s.User(recipientID)
	if err != nil || recipient == nil {
		common.ReplyError(s, m.ChannelID, "I couldn't find that member. Make sure you @mention them.")
		return
	}
	if recipient.Bot {
		common.ReplyError(s, m.ChannelID, "You can't transfer credits to a bot.")
		return
	}

	// Both sides need an account before the transfer can settle
	if _, _, err := f.facade.GetOrCreateBalance(ctx, m.Author.ID, m.GuildID); err != nil {
		log.Errorf("Error ensuring sender balance: %v", err)
		common.ReplyError(s, m.ChannelID, "Unable to process the transfer. Please try again.")
		return
	}
	if _, _, err := f.facade.GetOrCreateBalance(ctx, recipientID, m.GuildID); err != nil {
		log.Errorf("Error ensuring recipient balance: %v", err)
		common.ReplyError(s, m.ChannelID, "Unable to process the transfer. Please try again.")
		return
	}

	result, err := f.facade.Transfer(ctx, m.Author.ID, recipientID, m.GuildID, amount)
	if err != nil {
		common.ReplyError(s, m.ChannelID, f.facade.DeclineReason(err))
		return
	}

	common.Reply(s, m.ChannelID, common.FormatTransferResult(result.Amount, recipientID, result.FromNewBalance))
}

// HandleLeaderboard shows the configured number of top balances
func (f *Feature) HandleLeaderboard(s *discordgo.Session, m *discordgo.MessageCreate) {
	f.sendLeaderboard(s, m, f.config.LeaderboardSize, "🏆 Credits Leaderboard")
}

// HandleTop shows the podium: the three richest members
func (f *Feature) HandleTop(s *discordgo.Session, m *discordgo.MessageCreate) {
	f.sendLeaderboard(s, m, 3, "🥇 Top Credits Holders")
}

func (f *Feature) sendLeaderboard(s *discordgo.Session, m *discordgo.MessageCreate, limit int, title string) {
	entries, err := f.facade.GetLeaderboard(context.Background(), m.GuildID, limit)
	if err != nil {
		log.Errorf("Error getting leaderboard for server %s: %v", m.GuildID, err)
		common.ReplyError(s, m.ChannelID, "Unable to load the leaderboard. Please try again.")
		return
	}
	if len(entries) == 0 {
		common.Reply(s, m.ChannelID, "Nobody has any credits here yet!")
		return
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var sb strings.Builder
	for _, entry := range entries {
		marker := fmt.Sprintf("%d.", entry.Rank)
		if entry.Rank <= len(medals) {
			marker = medals[entry.Rank-1]
		}
		sb.WriteString(fmt.Sprintf("%s **%s**: %s credits\n", marker, entry.Username, common.FormatBalance(entry.Credits)))
	}

	common.ReplyEmbed(s, m.ChannelID, &discordgo.MessageEmbed{
		Title:       title,
		Description: sb.String(),
		Color:       0xFFD700,
	})
}

// HandleBottom shows everyone tied at the minimum balance
func (f *Feature) HandleBottom(s *discordgo.Session, m *discordgo.MessageCreate) {
	entries, err := f.facade.GetBottom(context.Background(), m.GuildID)
	if err != nil {
		log.Errorf("Error getting bottom balances for server %s: %v", m.GuildID, err)
		common.ReplyError(s, m.ChannelID, "Unable to load the bottom of the ladder. Please try again.")
		return
	}
	if len(entries) == 0 {
		common.Reply(s, m.ChannelID, "Nobody has any credits here yet!")
		return
	}

	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("💸 **%s**: %s credits\n", entry.Username, common.FormatBalance(entry.Credits)))
	}

	common.ReplyEmbed(s, m.ChannelID, &discordgo.MessageEmbed{
		Title:       "📉 Bottom of the Ladder",
		Description: sb.String(),
		Color:       0x708090,
	})
}

// HandleHistory shows the caller's recent ledger entries
func (f *Feature) HandleHistory(s *discordgo.Session, m *discordgo.MessageCreate) {
	transactions, err := f.facade.GetRecentTransactions(context.Background(), m.Author.ID, m.GuildID, 10)
	if err != nil {
		log.Errorf("Error getting history for user %s: %v", m.Author.ID, err)
		common.ReplyError(s, m.ChannelID, "Unable to load your history. Please try again.")
		return
	}
	if len(transactions) == 0 {
		common.Reply(s, m.ChannelID, "No transactions yet. Check your balance to open an account!")
		return
	}

	var sb strings.Builder
	for _, txn := range transactions {
		sign, amount := "+", txn.Amount
		if amount < 0 {
			sign, amount = "-", -amount
		}
		sb.WriteString(fmt.Sprintf("%s: %s%s credits (balance: %s) %s\n",
			txn.Type.Description(),
			sign, common.FormatBalance(amount),
			common.FormatBalance(txn.NewBalance),
			common.FormatDiscordTimestamp(txn.Timestamp, "R")))
	}

	name := common.GetDisplayName(s, m.GuildID, m.Author.ID)
	common.ReplyEmbed(s, m.ChannelID, &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📜 Recent activity for %s", name),
		Description: sb.String(),
		Color:       0x4169E1,
	})
}

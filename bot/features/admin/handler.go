package admin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"creditbot/bot/common"
	"creditbot/models"
)

// HandleAdmin routes the admin subcommands: add, remove, set, stats, backup
func (f *Feature) HandleAdmin(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if !f.isAdmin(s, m.GuildID, m.Author.ID) {
		common.ReplyError(s, m.ChannelID, "You don't have permission to use admin commands.")
		return
	}

	if len(args) == 0 {
		f.sendHelp(s, m)
		return
	}

	subcommand := args[0]
	rest := args[1:]

	switch subcommand {
	case "add":
		f.handleAdjust(s, m, rest, true)
	case "remove":
		f.handleAdjust(s, m, rest, false)
	case "set":
		f.handleSet(s, m, rest)
	case "stats":
		f.handleStats(s, m)
	case "backup":
		f.handleBackup(s, m)
	default:
		f.sendHelp(s, m)
	}
}

// isAdmin resolves the caller's guild roles and checks them against the
// configured admin role names, the administrator permission, and ownership.
func (f *Feature) isAdmin(s *discordgo.Session, guildID, userID string) bool {
	guild, err := s.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, err = s.Guild(guildID)
		if err != nil || guild == nil {
			log.Errorf("Failed to resolve guild %s for admin check: %v", guildID, err)
			return false
		}
	}

	member, err := s.GuildMember(guildID, userID)
	if err != nil || member == nil {
		log.Errorf("Failed to resolve member %s for admin check: %v", userID, err)
		return false
	}

	rolesByID := make(map[string]*discordgo.Role, len(guild.Roles))
	for _, role := range guild.Roles {
		rolesByID[role.ID] = role
	}

	var roleNames []string
	hasAdministrator := false
	for _, roleID := range member.Roles {
		role, ok := rolesByID[roleID]
		if !ok {
			continue
		}
		roleNames = append(roleNames, role.Name)
		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			hasAdministrator = true
		}
	}

	return f.facade.IsAdmin(guild.OwnerID, userID, roleNames, hasAdministrator)
}

func (f *Feature) sendHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	prefix := f.config.CommandPrefix
	common.ReplyEmbed(s, m.ChannelID, &discordgo.MessageEmbed{
		Title: "🛠️ Admin Commands",
		Description: fmt.Sprintf(
			"`%sadmin add @user <amount>` grant credits\n"+
				"`%sadmin remove @user <amount>` take credits\n"+
				"`%sadmin set @user <amount>` set an exact balance\n"+
				"`%sadmin stats` server totals\n"+
				"`%sadmin backup` snapshot the database",
			prefix, prefix, prefix, prefix, prefix),
		Color: 0x9B59B6,
	})
}

// handleAdjust grants or takes credits: admin add/remove @user <amount>
func (f *Feature) handleAdjust(s *discordgo.Session, m *discordgo.MessageCreate, args []string, grant bool) {
	verb := "add"
	if !grant {
		verb = "remove"
	}
	if len(args) < 2 {
		common.ReplyError(s, m.ChannelID, fmt.Sprintf("Usage: %sadmin %s @user <amount>", f.config.CommandPrefix, verb))
		return
	}

	targetID := common.ParseMention(args[0])
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		common.ReplyError(s, m.ChannelID, "Amount must be a positive number.")
		return
	}

	ctx := context.Background()
	if _, _, err := f.facade.GetOrCreateBalance(ctx, targetID, m.GuildID); err != nil {
		log.Errorf("Error ensuring balance for user %s: %v", targetID, err)
		common.ReplyError(s, m.ChannelID, "Unable to adjust that balance. Please try again.")
		return
	}

	reason := fmt.Sprintf("Admin adjustment by %s", m.Author.Username)
	var newBalance int64
	if grant {
		newBalance, err = f.facade.AddCredits(ctx, targetID, m.GuildID, amount, models.TransactionTypeAdminAdd, reason)
	} else {
		newBalance, err = f.facade.SubtractCredits(ctx, targetID, m.GuildID, amount, models.TransactionTypeAdminRemove, reason)
	}
	if err != nil {
		common.ReplyError(s, m.ChannelID, f.facade.DeclineReason(err))
		return
	}

	name := common.GetDisplayName(s, m.GuildID, targetID)
	action := "Added"
	direction := "to"
	if !grant {
		action = "Removed"
		direction = "from"
	}
	common.Reply(s, m.ChannelID, fmt.Sprintf("✅ %s **%s credits** %s **%s**. New balance: **%s credits**",
		action, common.FormatBalance(amount), direction, name, common.FormatBalance(newBalance)))
}

// handleSet moves a balance to an exact value by applying the difference,
// so the change shows up in the ledger like any other adjustment.
func (f *Feature) handleSet(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		common.ReplyError(s, m.ChannelID, fmt.Sprintf("Usage: %sadmin set @user <amount>", f.config.CommandPrefix))
		return
	}

	targetID := common.ParseMention(args[0])
	target, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || target < 0 {
		common.ReplyError(s, m.ChannelID, "Amount must be a non-negative number.")
		return
	}

	ctx := context.Background()
	balance, _, err := f.facade.GetOrCreateBalance(ctx, targetID, m.GuildID)
	if err != nil {
		log.Errorf("Error ensuring balance for user %s: %v", targetID, err)
		common.ReplyError(s, m.ChannelID, "Unable to set that balance. Please try again.")
		return
	}

	diff := target - balance.Credits
	reason := fmt.Sprintf("Balance set to %d by %s", target, m.Author.Username)
	newBalance := balance.Credits
	switch {
	case diff > 0:
		newBalance, err = f.facade.AddCredits(ctx, targetID, m.GuildID, diff, models.TransactionTypeAdminAdd, reason)
	case diff < 0:
		newBalance, err = f.facade.SubtractCredits(ctx, targetID, m.GuildID, -diff, models.TransactionTypeAdminRemove, reason)
	}
	if err != nil {
		common.ReplyError(s, m.ChannelID, f.facade.DeclineReason(err))
		return
	}

	name := common.GetDisplayName(s, m.GuildID, targetID)
	common.Reply(s, m.ChannelID, fmt.Sprintf("✅ Set **%s**'s balance to **%s credits**.",
		name, common.FormatBalance(newBalance)))
}

func (f *Feature) handleStats(s *discordgo.Session, m *discordgo.MessageCreate) {
	stats, err := f.facade.GetServerStats(context.Background(), m.GuildID)
	if err != nil {
		log.Errorf("Error getting stats for server %s: %v", m.GuildID, err)
		common.ReplyError(s, m.ChannelID, "Unable to load server stats. Please try again.")
		return
	}

	common.ReplyEmbed(s, m.ChannelID, &discordgo.MessageEmbed{
		Title: "📊 Server Credits Stats",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Members with accounts", Value: common.FormatBalance(stats.TotalUsers), Inline: true},
			{Name: "Total credits", Value: common.FormatBalance(stats.TotalCredits), Inline: true},
			{Name: "Average balance", Value: fmt.Sprintf("%.1f", stats.AverageCredits), Inline: true},
			{Name: "Transactions recorded", Value: common.FormatBalance(stats.TotalTransactions), Inline: true},
		},
		Color: 0x2ECC71,
	})
}

func (f *Feature) handleBackup(s *discordgo.Session, m *discordgo.MessageCreate) {
	path, err := f.facade.Backup(context.Background())
	if err != nil {
		log.Errorf("Backup failed: %v", err)
		common.ReplyError(s, m.ChannelID, "Backup failed. Check the logs.")
		return
	}
	common.Reply(s, m.ChannelID, fmt.Sprintf("💾 Backup written to `%s`.", path))
}

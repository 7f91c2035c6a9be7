package games

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"creditbot/bot/common"
	"creditbot/models"
)

type challengeSession struct {
	challengerID string
	challengedID string
	bet          int64
	created      time.Time
}

// HandleChallenge starts a d20 roll-off against another member, with an
// optional credits bet: !challenge @user [bet]
func (f *Feature) HandleChallenge(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		common.ReplyError(s, m.ChannelID, fmt.Sprintf("Usage: %schallenge @user [bet]", f.config.CommandPrefix))
		return
	}

	challengedID := common.ParseMention(args[0])
	challenged, err := s.User(challengedID)
	if err != nil || challenged == nil {
		common.ReplyError(s, m.ChannelID, "I couldn't find that member. Make sure you @mention them.")
		return
	}
	if challengedID == m.Author.ID {
		common.ReplyError(s, m.ChannelID, "You cannot challenge yourself!")
		return
	}
	if challenged.Bot {
		common.ReplyError(s, m.ChannelID, "You cannot challenge a bot!")
		return
	}

	var bet int64
	if len(args) > 1 {
		bet, err = strconv.ParseInt(args[1], 10, 64)
		if err != nil || bet <= 0 {
			common.ReplyError(s, m.ChannelID, "Bet amount must be a positive number.")
			return
		}

		// Both players must be able to cover the bet before it starts
		ctx := context.Background()
		if !f.hasCredits(ctx, m.Author.ID, m.GuildID, bet) {
			common.ReplyError(s, m.ChannelID, fmt.Sprintf("You do not have enough credits to bet %d.", bet))
			return
		}
		if !f.hasCredits(ctx, challengedID, m.GuildID, bet) {
			common.ReplyError(s, m.ChannelID, fmt.Sprintf("<@%s> does not have enough credits to accept a bet of %d.", challengedID, bet))
			return
		}
	}

	sessionID := f.newSessionID()
	f.mu.Lock()
	f.challenges[sessionID] = &challengeSession{
		challengerID: m.Author.ID,
		challengedID: challengedID,
		bet:          bet,
		created:      time.Now(),
	}
	f.mu.Unlock()

	content := fmt.Sprintf("<@%s>, you have been challenged by <@%s> to a Roll for Initiative!", challengedID, m.Author.ID)
	if bet > 0 {
		content += fmt.Sprintf(" The stakes are %d credits!", bet)
	}
	content += " Ready your die."

	common.ReplyWithComponents(s, m.ChannelID, content, acceptDenyButtons("challenge", sessionID))
}

func (f *Feature) hasCredits(ctx context.Context, userID, serverID string, amount int64) bool {
	balance, err := f.facade.GetBalance(ctx, userID, serverID)
	if err != nil || balance == nil {
		return false
	}
	return balance.Credits >= amount
}

func acceptDenyButtons(kind, sessionID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Accept",
				Style:    discordgo.SuccessButton,
				CustomID: customID(kind, sessionID, "accept"),
			},
			discordgo.Button{
				Label:    "Deny",
				Style:    discordgo.DangerButton,
				CustomID: customID(kind, sessionID, "deny"),
			},
		}},
	}
}

func (f *Feature) handleChallengeButton(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, action string) {
	f.mu.Lock()
	sess, ok := f.challenges[sessionID]
	f.mu.Unlock()
	if !ok {
		common.RespondWithError(s, i, "This challenge is no longer active.")
		return
	}

	userID := interactionUserID(i)
	if userID != sess.challengerID && userID != sess.challengedID {
		common.RespondWithError(s, i, "This is not your challenge to accept or deny.")
		return
	}

	switch action {
	case "deny":
		f.mu.Lock()
		delete(f.challenges, sessionID)
		f.mu.Unlock()

		if userID == sess.challengerID {
			common.UpdateInteractionMessage(s, i,
				fmt.Sprintf("<@%s> cancelled the challenge to <@%s>.", sess.challengerID, sess.challengedID), nil)
		} else {
			common.UpdateInteractionMessage(s, i,
				fmt.Sprintf("<@%s> denied the challenge from <@%s>.", sess.challengedID, sess.challengerID), nil)
		}

	case "accept":
		if userID != sess.challengedID {
			common.RespondWithError(s, i, "Only the challenged user can accept this challenge.")
			return
		}

		f.mu.Lock()
		delete(f.challenges, sessionID)
		f.mu.Unlock()

		common.UpdateInteractionMessage(s, i,
			fmt.Sprintf("<@%s> accepted the challenge! Rolling for initiative...", sess.challengedID), nil)
		f.resolveChallenge(s, i.ChannelID, i.GuildID, sess)
	}
}

// resolveChallenge rolls a d20 for each player and settles any bet.
func (f *Feature) resolveChallenge(s *discordgo.Session, channelID, guildID string, sess *challengeSession) {
	challengerRoll := rollDie(20)
	challengedRoll := rollDie(20)

	result := fmt.Sprintf("<@%s> rolled a %d\n<@%s> rolled a %d\n",
		sess.challengerID, challengerRoll, sess.challengedID, challengedRoll)

	var winnerID, loserID string
	switch {
	case challengerRoll > challengedRoll:
		winnerID, loserID = sess.challengerID, sess.challengedID
		result += fmt.Sprintf("<@%s> wins the challenge! 🎉", sess.challengerID)
	case challengerRoll < challengedRoll:
		winnerID, loserID = sess.challengedID, sess.challengerID
		result += fmt.Sprintf("<@%s> wins the challenge! 🎉", sess.challengedID)
	default:
		result += "It's a tie! 🤝"
	}

	if sess.bet > 0 {
		if winnerID == "" {
			result += fmt.Sprintf("\n🤝 It's a tie! Bet of %d credits returned to both players.", sess.bet)
		} else {
			ctx := context.Background()
			_, subErr := f.facade.SubtractCredits(ctx, loserID, guildID, sess.bet, models.TransactionTypeGameLoss, "rfi_bet_loss")
			var addErr error
			if subErr == nil {
				_, addErr = f.facade.AddCredits(ctx, winnerID, guildID, sess.bet, models.TransactionTypeGameWin, "rfi_bet_win")
			}
			if subErr != nil || addErr != nil {
				log.Errorf("Failed to settle challenge bet of %d (winner %s, loser %s): sub=%v add=%v",
					sess.bet, winnerID, loserID, subErr, addErr)
				result += "\n❌ An error occurred during credit transfer for the bet."
			} else {
				result += fmt.Sprintf("\n💰 <@%s> won %d credits from <@%s>!", winnerID, sess.bet, loserID)
			}
		}
	}

	common.Reply(s, channelID, result)
}

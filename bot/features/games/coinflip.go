package games

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"creditbot/bot/common"
	"creditbot/models"
)

// maxCoinflipBet caps the prize for a coinflip challenge.
const maxCoinflipBet = 50

type coinflipSession struct {
	challengerID string
	challengedID string
	bet          int64
	accepted     bool
	created      time.Time
}

func flipCoin() string {
	if rand.Intn(2) == 0 {
		return "Heads"
	}
	return "Tails"
}

// HandleCoinflip flips a coin
func (f *Feature) HandleCoinflip(s *discordgo.Session, m *discordgo.MessageCreate) {
	common.Reply(s, m.ChannelID, fmt.Sprintf("The coin landed on **%s**!", flipCoin()))
}

// HandleCoinflipChallenge lets another member call a coinflip for credits.
// The challenged player wins the bet on a correct guess and loses nothing
// on a wrong one: !cfc @user <bet>
func (f *Feature) HandleCoinflipChallenge(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		common.ReplyError(s, m.ChannelID, fmt.Sprintf("Usage: %scfc @user <bet>", f.config.CommandPrefix))
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
		if err != nil {
			common.ReplyError(s, m.ChannelID, "Bet amount must be a number.")
			return
		}
	}
	if bet > maxCoinflipBet {
		bet = maxCoinflipBet
	}
	if bet <= 0 {
		common.ReplyError(s, m.ChannelID,
			fmt.Sprintf("You must bet at least 1 credit for a challenge, up to a maximum of %d credits.", maxCoinflipBet))
		return
	}

	// The challenged player only wins, so only their account needs to exist
	if _, _, err := f.facade.GetOrCreateBalance(context.Background(), challengedID, m.GuildID); err != nil {
		log.Errorf("Error ensuring balance for coinflip challenge: %v", err)
		common.ReplyError(s, m.ChannelID, "Unable to start the challenge. Please try again.")
		return
	}

	sessionID := f.newSessionID()
	f.mu.Lock()
	f.coinflips[sessionID] = &coinflipSession{
		challengerID: m.Author.ID,
		challengedID: challengedID,
		bet:          bet,
		created:      time.Now(),
	}
	f.mu.Unlock()

	content := fmt.Sprintf("<@%s>, <@%s> has challenged you to a coinflip! If you guess correctly, you win %d credits! Do you accept?",
		challengedID, m.Author.ID, bet)
	common.ReplyWithComponents(s, m.ChannelID, content, acceptDenyButtons("cfc", sessionID))
}

func coinflipSideButtons(sessionID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Heads",
				Style:    discordgo.PrimaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "🪙"},
				CustomID: customID("cfc", sessionID, "Heads"),
			},
			discordgo.Button{
				Label:    "Tails",
				Style:    discordgo.PrimaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "🪙"},
				CustomID: customID("cfc", sessionID, "Tails"),
			},
		}},
	}
}

func (f *Feature) handleCoinflipButton(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, action string) {
	f.mu.Lock()
	sess, ok := f.coinflips[sessionID]
	f.mu.Unlock()
	if !ok {
		common.RespondWithError(s, i, "This challenge is no longer active.")
		return
	}

	userID := interactionUserID(i)
	if userID != sess.challengedID {
		common.RespondWithError(s, i, "This is not your coinflip to choose for!")
		return
	}

	switch action {
	case "deny":
		f.mu.Lock()
		delete(f.coinflips, sessionID)
		f.mu.Unlock()

		common.UpdateInteractionMessage(s, i,
			fmt.Sprintf("<@%s> denied the coinflip challenge from <@%s>.", sess.challengedID, sess.challengerID), nil)

	case "accept":
		f.mu.Lock()
		sess.accepted = true
		f.mu.Unlock()

		common.UpdateInteractionMessage(s, i,
			fmt.Sprintf("**Coinflip Challenge!**\n<@%s> challenged <@%s>. The winner will receive %d credits.\n<@%s>, choose your side!",
				sess.challengerID, sess.challengedID, sess.bet, sess.challengedID),
			coinflipSideButtons(sessionID))

	case "Heads", "Tails":
		f.mu.Lock()
		if !sess.accepted {
			f.mu.Unlock()
			common.RespondWithError(s, i, "Accept the challenge first.")
			return
		}
		delete(f.coinflips, sessionID)
		f.mu.Unlock()

		f.resolveCoinflip(s, i, sess, action)
	}
}

func (f *Feature) resolveCoinflip(s *discordgo.Session, i *discordgo.InteractionCreate, sess *coinflipSession, chosen string) {
	landed := flipCoin()
	result := fmt.Sprintf("The coin landed on **%s**!\n<@%s> chose **%s**.\n", landed, sess.challengedID, chosen)

	if chosen == landed {
		result += fmt.Sprintf("🎉 <@%s> guessed correctly!", sess.challengedID)
		_, err := f.facade.AddCredits(context.Background(), sess.challengedID, i.GuildID, sess.bet,
			models.TransactionTypeGameWin, "coinflip_win")
		if err != nil {
			log.Errorf("Failed to award %d credits to coinflip winner %s: %v", sess.bet, sess.challengedID, err)
			result += fmt.Sprintf("\n❌ An error occurred while awarding credits to <@%s>.", sess.challengedID)
		} else {
			result += fmt.Sprintf("\n💰 <@%s> won %d credits!", sess.challengedID, sess.bet)
		}
	} else {
		result += fmt.Sprintf("😔 <@%s> guessed incorrectly.", sess.challengedID)
	}

	common.UpdateInteractionMessage(s, i, result, nil)
}

package games

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"creditbot/bot/common"
	"creditbot/models"
)

const (
	slotsMinBet = 5
	slotsMaxBet = 1000

	// At most this many spins may run at once across the whole bot, and
	// at most one per user.
	slotsMaxConcurrent = 2

	slotsFrameDelay    = 500 * time.Millisecond
	slotsFramesPerReel = 2
)

const slotsWildcard = "⭐"

var slotEmojis = []string{"🍒", "🍋", "🍊", "🍇", "🍉", slotsWildcard}

var slotAnimationFrames = []string{"|", "/", "-", "\\"}

// slotTriplePayouts pays three of a kind; slotWildPayouts pays a pair
// completed by a wildcard.
var slotTriplePayouts = map[string]float64{
	"🍒": 10.0,
	"🍋": 10.0,
	"🍊": 10.0,
	"🍇": 15.0,
	"🍉": 20.0,
}

var slotWildPayouts = map[string]float64{
	"🍒": 5.0,
	"🍋": 5.0,
	"🍊": 5.0,
	"🍇": 7.5,
	"🍉": 10.0,
}

func spinReel() string {
	return slotEmojis[rand.Intn(len(slotEmojis))]
}

func reelsDisplay(reels [3]string) string {
	return fmt.Sprintf("| %s |", strings.Join(reels[:], " | "))
}

// slotsMultiplier scores a spin. Wildcards stand in for any symbol, and
// two wildcards next to a symbol pay the same as that symbol's pair.
func slotsMultiplier(reels [3]string) float64 {
	wildcards := 0
	var symbols []string
	for _, r := range reels {
		if r == slotsWildcard {
			wildcards++
		} else {
			symbols = append(symbols, r)
		}
	}

	switch wildcards {
	case 3:
		return 50.0
	case 2:
		return slotWildPayouts[symbols[0]]
	case 1:
		if symbols[0] == symbols[1] {
			return slotWildPayouts[symbols[0]]
		}
	default:
		if symbols[0] == symbols[1] && symbols[1] == symbols[2] {
			return slotTriplePayouts[symbols[0]]
		}
	}
	return 0.0
}

// reserveSlots admits a spin, enforcing the per-user and global limits.
func (f *Feature) reserveSlots(userID string) (release func(), reason string) {
	f.slotsMu.Lock()
	defer f.slotsMu.Unlock()

	if f.slotsActive[userID] {
		return nil, "you already have a slots game running."
	}
	if f.slotsCount >= slotsMaxConcurrent {
		return nil, fmt.Sprintf("there are already %d slots games running. Please wait.", slotsMaxConcurrent)
	}

	f.slotsActive[userID] = true
	f.slotsCount++
	return func() {
		f.slotsMu.Lock()
		defer f.slotsMu.Unlock()
		delete(f.slotsActive, userID)
		if f.slotsCount > 0 {
			f.slotsCount--
		}
	}, ""
}

// HandleSlots plays the slot machine: !slots [bet]
func (f *Feature) HandleSlots(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	bet := int64(slotsMinBet)
	if len(args) > 0 {
		parsed, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			common.ReplyError(s, m.ChannelID, "Bet amount must be a number.")
			return
		}
		bet = parsed
	}
	if bet < slotsMinBet || bet > slotsMaxBet {
		common.ReplyError(s, m.ChannelID, fmt.Sprintf("You must bet between %d and %d credits.", slotsMinBet, slotsMaxBet))
		return
	}

	ctx := context.Background()
	balance, _, err := f.facade.GetOrCreateBalance(ctx, m.Author.ID, m.GuildID)
	if err != nil {
		log.Errorf("Error getting balance for slots player %s: %v", m.Author.ID, err)
		common.ReplyError(s, m.ChannelID, "Unable to start the slots. Please try again.")
		return
	}
	if balance.Credits < bet {
		common.ReplyError(s, m.ChannelID,
			fmt.Sprintf("You do not have enough credits to bet %d. Your current balance: %d.", bet, balance.Credits))
		return
	}

	release, reason := f.reserveSlots(m.Author.ID)
	if release == nil {
		common.ReplyError(s, m.ChannelID, "Sorry, "+reason)
		return
	}

	if _, err := f.facade.SubtractCredits(ctx, m.Author.ID, m.GuildID, bet, models.TransactionTypeGameLoss, "slot_machine_bet"); err != nil {
		release()
		common.ReplyError(s, m.ChannelID, f.facade.DeclineReason(err))
		return
	}

	header := fmt.Sprintf("<@%s> bets %d credits on the slots!", m.Author.ID, bet)
	msg := common.Reply(s, m.ChannelID, header+"\n"+reelsDisplay([3]string{"?", "?", "?"}))
	if msg == nil {
		release()
		return
	}

	go f.runSlots(s, m.ChannelID, msg.ID, m.GuildID, m.Author.ID, bet, header, release)
}

// runSlots animates the reels stopping one at a time, then settles the
// payout.
func (f *Feature) runSlots(s *discordgo.Session, channelID, messageID, guildID, userID string, bet int64, header string, release func()) {
	defer release()

	final := [3]string{spinReel(), spinReel(), spinReel()}

	totalFrames := slotsFramesPerReel * 3
	for frame := 0; frame < totalFrames; frame++ {
		var reels [3]string
		for i := 0; i < 3; i++ {
			if frame < slotsFramesPerReel*(i+1) {
				reels[i] = spinReel()
			} else {
				reels[i] = final[i]
			}
		}
		spinner := slotAnimationFrames[frame%len(slotAnimationFrames)]
		content := fmt.Sprintf("%s\n%s %s", header, reelsDisplay(reels), spinner)
		if _, err := s.ChannelMessageEdit(channelID, messageID, content); err != nil {
			log.Errorf("Error animating slots message: %v", err)
		}
		time.Sleep(slotsFrameDelay)
	}

	multiplier := slotsMultiplier(final)
	result := fmt.Sprintf("%s\n**%s**\n\n", header, reelsDisplay(final))

	if multiplier > 0 {
		winnings := int64(float64(bet) * multiplier)
		_, err := f.facade.AddCredits(context.Background(), userID, guildID, winnings,
			models.TransactionTypeGameWin, "slot_machine_win")
		if err != nil {
			log.Errorf("Failed to pay out %d slots credits to %s: %v", winnings, userID, err)
			result += "❌ An error occurred while paying out your winnings."
		} else {
			result += fmt.Sprintf("🎉 **<@%s> wins %d credits!** (Multiplier: %.1fx)", userID, winnings, multiplier)
		}
	} else {
		result += fmt.Sprintf("😔 <@%s> didn't win this time. Better luck next spin!", userID)
	}

	if _, err := s.ChannelMessageEdit(channelID, messageID, result); err != nil {
		log.Errorf("Error posting slots result: %v", err)
	}
}

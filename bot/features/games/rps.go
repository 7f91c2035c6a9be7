package games

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"creditbot/bot/common"
)

type rpsSession struct {
	challengerID string
	challengedID string
	accepted     bool
	choices      map[string]string
	created      time.Time
}

// rpsBeats maps each choice to the choice it defeats.
var rpsBeats = map[string]string{
	"Rock":     "Scissors",
	"Paper":    "Rock",
	"Scissors": "Paper",
}

// HandleRPS starts a game of Rock, Paper, Scissors: !rps @user
func (f *Feature) HandleRPS(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		common.ReplyError(s, m.ChannelID, fmt.Sprintf("Usage: %srps @user", f.config.CommandPrefix))
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

	sessionID := f.newSessionID()
	f.mu.Lock()
	f.rpsGames[sessionID] = &rpsSession{
		challengerID: m.Author.ID,
		challengedID: challengedID,
		choices:      make(map[string]string),
		created:      time.Now(),
	}
	f.mu.Unlock()

	common.ReplyWithComponents(s, m.ChannelID,
		fmt.Sprintf("<@%s>, you have been challenged to a game of Rock, Paper, Scissors by <@%s>!",
			challengedID, m.Author.ID),
		acceptDenyButtons("rps", sessionID))
}

func rpsChoiceButtons(sessionID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Rock",
				Style:    discordgo.PrimaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "🪨"},
				CustomID: customID("rps", sessionID, "Rock"),
			},
			discordgo.Button{
				Label:    "Paper",
				Style:    discordgo.PrimaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "📄"},
				CustomID: customID("rps", sessionID, "Paper"),
			},
			discordgo.Button{
				Label:    "Scissors",
				Style:    discordgo.PrimaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "✂️"},
				CustomID: customID("rps", sessionID, "Scissors"),
			},
		}},
	}
}

func (f *Feature) handleRPSButton(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, action string) {
	f.mu.Lock()
	sess, ok := f.rpsGames[sessionID]
	f.mu.Unlock()
	if !ok {
		common.RespondWithError(s, i, "This game is no longer active.")
		return
	}

	userID := interactionUserID(i)
	if userID != sess.challengerID && userID != sess.challengedID {
		common.RespondWithError(s, i, "This is not your game to play.")
		return
	}

	switch action {
	case "deny":
		f.mu.Lock()
		delete(f.rpsGames, sessionID)
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
		sess.accepted = true
		f.mu.Unlock()

		common.UpdateInteractionMessage(s, i,
			fmt.Sprintf("**Rock, Paper, Scissors!**\n<@%s> vs <@%s>\nMake your choice!",
				sess.challengerID, sess.challengedID),
			rpsChoiceButtons(sessionID))

	case "Rock", "Paper", "Scissors":
		f.handleRPSChoice(s, i, sessionID, sess, userID, action)
	}
}

func (f *Feature) handleRPSChoice(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID string, sess *rpsSession, userID, choice string) {
	f.mu.Lock()
	if !sess.accepted {
		f.mu.Unlock()
		common.RespondWithError(s, i, "The challenge hasn't been accepted yet.")
		return
	}
	if sess.choices[userID] != "" {
		f.mu.Unlock()
		common.RespondEphemeral(s, i, "You have already made your choice!")
		return
	}
	sess.choices[userID] = choice
	challengerChoice := sess.choices[sess.challengerID]
	challengedChoice := sess.choices[sess.challengedID]
	done := challengerChoice != "" && challengedChoice != ""
	if done {
		delete(f.rpsGames, sessionID)
	}
	f.mu.Unlock()

	common.RespondEphemeral(s, i, fmt.Sprintf("You chose **%s**. Waiting for the other player.", choice))

	if !done {
		return
	}

	// Take the buttons off the original message before posting results
	if i.Message != nil {
		content := "The game has ended. See results below."
		empty := []discordgo.MessageComponent{}
		if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			ID:         i.Message.ID,
			Channel:    i.ChannelID,
			Content:    &content,
			Components: &empty,
		}); err != nil {
			log.Errorf("Error closing finished game message: %v", err)
		}
	}

	result := fmt.Sprintf("**Rock, Paper, Scissors Results:**\n<@%s> chose **%s**\n<@%s> chose **%s**",
		sess.challengerID, challengerChoice, sess.challengedID, challengedChoice)

	switch {
	case challengerChoice == challengedChoice:
		result += "\n🤝 **It's a tie!** 🤝"
	case rpsBeats[challengerChoice] == challengedChoice:
		result += fmt.Sprintf("\n🎉 **<@%s> wins!** 🎉", sess.challengerID)
	default:
		result += fmt.Sprintf("\n🎉 **<@%s> wins!** 🎉", sess.challengedID)
	}

	common.Reply(s, i.ChannelID, result)
}

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
	rfiSuccessReward         = 100
	rfiCriticalSuccessReward = 1000
)

var rfiCriticalSuccessPhrases = []string{
	"is a Critical success! 🎉",
	"landed a nat 20! Incredible! 🎊",
	"achieved a perfect roll! ✨",
	"rolled a natural 20! The crowd goes wild! 🥳",
	"succeeded with legendary flair! 🌟",
	"aced the roll! It's a masterpiece of luck! 🎨",
	"nailed it! The universe bends to their will. 🌌",
	"achieved a flawless victory! 🏆",
	"is a stunning success! Absolutely brilliant! 💡",
	"pulled it off perfectly! What a legend! 👑",
}

var rfiSuccessPhrases = []string{
	"has succeeded!",
	"passed the check. Well done.",
	"managed to succeed.",
	"got the job done. Solid work.",
	"squeaked by with a success.",
	"has successfully navigated the challenge.",
	"made it look easy. (It wasn't.)",
	"passed. Nothing to see here, move along.",
	"achieved a favorable outcome.",
	"is in the clear. For now.",
}

var rfiFailurePhrases = []string{
	"is a failure!",
	"did not succeed.",
	"failed the check. Better luck next time.",
	"stumbled at the finish line.",
	"missed the mark. Whoops.",
	"couldn't quite make it happen.",
	"has failed. Try, try again?",
	"met with an unfortunate outcome.",
	"fumbled the attempt. It's okay, it happens.",
	"tripped on a conveniently placed banana peel. 🍌",
}

var rfiCriticalFailurePhrases = []string{
	"is a Critical failure! 💀",
	"rolled a nat 1... Ouch. ☠️",
	"failed spectacularly! 💥",
	"somehow managed to set water on fire. 🔥💧",
	"tripped, fell, and discovered a new, embarrassing way to fail.",
	"snatched defeat from the jaws of victory.",
	"has entered a world of comedic failure. 🤡",
	"failed so hard, the universe felt secondhand embarrassment.",
	"rolled a 1. The dice gods are laughing.",
	"achieved a legendary fail. It will be spoken of for generations.",
}

var rfiSavePhrases = []string{
	"but they managed to save themself from disaster!",
	"but narrowly escaped the worst outcome!",
	"but against all odds, they pulled through!",
	"but made a heroic recovery at the last second! 💪",
	"but managed to turn a failure into a... less-failurey situation.",
	"but luck was on their side this time!",
	"but dodged that bullet like a pro! 🏃💨",
	"but somehow, it all worked out in the end.",
	"but pulled a rabbit out of a hat and is safe! 🐇🎩",
	"but their quick thinking saved the day!",
}

var rfiSaveFailedPhrases = []string{
	"and the situation has gone from bad to worse.",
	"and things have escalated into a catastrophe.",
	"and the dice gods demand a sacrifice.",
	"and now everything is on fire. Everything.",
	"and the attempt to save only made it funnier for everyone else.",
	"and it seems luck has completely abandoned them.",
	"and now there are two problems.",
	"and the failure has been upgraded to 'epic'.",
	"and they are now questioning all their life choices.",
	"and the situation is now officially a dumpster fire. 🔥🗑️",
}

var eightBallResponses = []string{
	"It is certain.", "It is decidedly so.", "Without a doubt.", "Yes - definitely.", "You may rely on it.",
	"As I see it, yes.", "Most likely.", "Outlook good.", "Yes.", "Signs point to yes.",
	"Reply hazy, try again.", "Ask again later.", "Better not tell you now.", "Cannot predict now.", "Concentrate and ask again.",
	"Don't count on it.", "My reply is no.", "My sources say no.", "Outlook not so good.", "Very doubtful.",
}

func rollDie(sides int) int {
	return rand.Intn(sides) + 1
}

func pick(phrases []string) string {
	return phrases[rand.Intn(len(phrases))]
}

// HandleRoll rolls dice in NdM format, defaulting to 2d6
func (f *Feature) HandleRoll(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	spec := "2d6"
	if len(args) > 0 {
		spec = strings.ToLower(args[0])
	}

	parts := strings.Split(spec, "d")
	if len(parts) != 2 {
		common.Reply(s, m.ChannelID, "Format must be NdM (e.g., 2d6)")
		return
	}
	rolls, err1 := strconv.Atoi(parts[0])
	sides, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || rolls < 1 || sides < 1 {
		common.Reply(s, m.ChannelID, "Format must be NdM (e.g., 2d6)")
		return
	}
	if rolls > 100 {
		common.Reply(s, m.ChannelID, "Please limit the number of rolls to 100 or less")
		return
	}
	if sides > 100 {
		common.Reply(s, m.ChannelID, "Please limit the number of sides to 100 or less")
		return
	}

	results := make([]string, rolls)
	total := 0
	for i := 0; i < rolls; i++ {
		r := rollDie(sides)
		results[i] = strconv.Itoa(r)
		total += r
	}
	common.Reply(s, m.ChannelID, fmt.Sprintf("Results: [%s]\nTotal: %d", strings.Join(results, ", "), total))
}

// HandleEightBall answers a question with a classic Magic 8-Ball response
func (f *Feature) HandleEightBall(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		common.Reply(s, m.ChannelID, "You need to ask a question!")
		return
	}

	var response string
	normalized := strings.TrimRight(strings.ToLower(question), "?")
	if normalized == "am i dumb" || normalized == "am i stupid" {
		response = "You are holding a coconut."
	} else {
		response = pick(eightBallResponses)
	}

	name := common.GetDisplayName(s, m.GuildID, m.Author.ID)
	common.Reply(s, m.ChannelID, fmt.Sprintf("%s asked: \"%s\"\n🎱 Answer: %s", name, question, response))
}

type rfiSaveSession struct {
	userID  string
	created time.Time
}

// HandleRFI rolls a d20 for success or failure. Successful rolls pay out
// credits once per local day, and a natural 1 offers a save roll.
func (f *Feature) HandleRFI(s *discordgo.Session, m *discordgo.MessageCreate) {
	roll := rollDie(20)

	var phrase string
	var reward int64
	var reason string
	switch {
	case roll == 1:
		phrase = pick(rfiCriticalFailurePhrases)
	case roll < 10:
		phrase = pick(rfiFailurePhrases)
	case roll < 20:
		phrase = pick(rfiSuccessPhrases)
		reward = rfiSuccessReward
		reason = "rfi_success"
	default:
		phrase = pick(rfiCriticalSuccessPhrases)
		reward = rfiCriticalSuccessReward
		reason = "rfi_critical_success"
	}

	name := common.GetDisplayName(s, m.GuildID, m.Author.ID)
	message := fmt.Sprintf("%s rolled a %d\n%s %s\n", name, roll, name, phrase)

	if reward > 0 && f.claimRFIReward(m.Author.ID) {
		ctx := context.Background()
		if _, _, err := f.facade.GetOrCreateBalance(ctx, m.Author.ID, m.GuildID); err != nil {
			log.Errorf("Error ensuring balance for RFI reward: %v", err)
			message += "❌ Failed to award credits."
		} else if _, err := f.facade.AddCredits(ctx, m.Author.ID, m.GuildID, reward, models.TransactionTypeGameWin, reason); err != nil {
			log.Errorf("Error awarding RFI credits to %s: %v", m.Author.ID, err)
			f.refundRFIClaim(m.Author.ID)
			message += "❌ Failed to award credits."
		} else {
			message += fmt.Sprintf("💰 You earned %d credits!", reward)
		}
	}

	if roll != 1 {
		common.Reply(s, m.ChannelID, message)
		return
	}

	sessionID := f.newSessionID()
	f.mu.Lock()
	f.rfiSaves[sessionID] = &rfiSaveSession{userID: m.Author.ID, created: time.Now()}
	f.mu.Unlock()

	common.ReplyWithComponents(s, m.ChannelID, message, []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Roll to Save",
				Style:    discordgo.SecondaryButton,
				Emoji:    &discordgo.ComponentEmoji{Name: "🎲"},
				CustomID: customID("rfisave", sessionID, "roll"),
			},
		}},
	})
}

// claimRFIReward reserves today's reward for a user. Rewards reset at
// local midnight in the configured timezone.
func (f *Feature) claimRFIReward(userID string) bool {
	today := time.Now().In(f.config.DailyResetLocation()).Format("2006-01-02")

	f.rfiMu.Lock()
	defer f.rfiMu.Unlock()
	if f.rfiClaims[userID] == today {
		return false
	}
	f.rfiClaims[userID] = today
	return true
}

func (f *Feature) refundRFIClaim(userID string) {
	f.rfiMu.Lock()
	defer f.rfiMu.Unlock()
	delete(f.rfiClaims, userID)
}

func (f *Feature) handleRFISaveButton(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, action string) {
	if action != "roll" {
		return
	}

	f.mu.Lock()
	sess, ok := f.rfiSaves[sessionID]
	f.mu.Unlock()
	if !ok {
		common.RespondWithError(s, i, "The chance to save has passed.")
		return
	}
	if interactionUserID(i) != sess.userID {
		common.RespondWithError(s, i, "This is not your roll to save.")
		return
	}

	f.mu.Lock()
	delete(f.rfiSaves, sessionID)
	f.mu.Unlock()

	roll := rollDie(20)
	name := common.GetDisplayName(s, i.GuildID, sess.userID)
	saveMessage := fmt.Sprintf("%s rolled a %d to save... ", name, roll)
	if roll >= 10 {
		saveMessage += pick(rfiSavePhrases)
	} else {
		saveMessage += pick(rfiSaveFailedPhrases)
	}

	content := saveMessage
	if i.Message != nil {
		content = i.Message.Content + saveMessage
	}
	common.UpdateInteractionMessage(s, i, content, nil)
}

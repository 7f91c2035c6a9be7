package games

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"creditbot/bot/common"
)

const (
	tttX    = -1
	tttO    = 1
	tttTie  = 2
	tttNone = 0
)

// tttSession is a Tic-Tac-Toe board. The challenger plays X, the
// challenged player (or the bot) plays O.
type tttSession struct {
	challengerID string
	challengedID string
	vsBot        bool
	accepted     bool
	board        [9]int
	current      int
	created      time.Time
}

// HandleTicTacToe starts a game against a member or the bot:
// !ttt @user or !ttt bot
func (f *Feature) HandleTicTacToe(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		common.ReplyError(s, m.ChannelID, fmt.Sprintf("Usage: %sttt @user or %sttt bot", f.config.CommandPrefix, f.config.CommandPrefix))
		return
	}

	vsBot := strings.EqualFold(args[0], "bot")
	var challengedID string
	if vsBot {
		if s.State.User == nil {
			common.ReplyError(s, m.ChannelID, "The bot isn't ready yet. Try again in a moment.")
			return
		}
		challengedID = s.State.User.ID
	} else {
		challengedID = common.ParseMention(args[0])
		challenged, err := s.User(challengedID)
		if err != nil || challenged == nil {
			common.ReplyError(s, m.ChannelID, "Invalid opponent. Please mention a user or type 'bot'.")
			return
		}
		if challengedID == m.Author.ID {
			common.ReplyError(s, m.ChannelID, "You cannot challenge yourself!")
			return
		}
		if challenged.Bot {
			vsBot = true
		}
	}

	sess := &tttSession{
		challengerID: m.Author.ID,
		challengedID: challengedID,
		vsBot:        vsBot,
		current:      []int{tttX, tttO}[rand.Intn(2)],
		created:      time.Now(),
	}

	sessionID := f.newSessionID()
	f.mu.Lock()
	if vsBot {
		// No acceptance step against the bot
		sess.accepted = true
		if sess.current == tttO {
			sess.botMove()
		}
	}
	f.tttGames[sessionID] = sess
	f.mu.Unlock()

	if vsBot {
		common.ReplyWithComponents(s, m.ChannelID, sess.statusLine(), sess.boardButtons(sessionID, false))
		return
	}

	common.ReplyWithComponents(s, m.ChannelID,
		fmt.Sprintf("<@%s>, you have been challenged to a game of Tic-Tac-Toe by <@%s>!",
			challengedID, m.Author.ID),
		acceptDenyButtons("ttt", sessionID))
}

func (sess *tttSession) statusLine() string {
	header := fmt.Sprintf("**Tic-Tac-Toe!**\n<@%s> (X) vs <@%s> (O)\n", sess.challengerID, sess.challengedID)
	if sess.current == tttX {
		return header + fmt.Sprintf("It is now <@%s>'s turn (X)", sess.challengerID)
	}
	return header + fmt.Sprintf("It is now <@%s>'s turn (O)", sess.challengedID)
}

// boardButtons renders the 3x3 grid. Taken cells are disabled; gameOver
// disables everything.
func (sess *tttSession) boardButtons(sessionID string, gameOver bool) []discordgo.MessageComponent {
	rows := make([]discordgo.MessageComponent, 0, 3)
	for y := 0; y < 3; y++ {
		buttons := make([]discordgo.MessageComponent, 0, 3)
		for x := 0; x < 3; x++ {
			cell := y*3 + x
			label := "​"
			style := discordgo.SecondaryButton
			switch sess.board[cell] {
			case tttX:
				label, style = "X", discordgo.DangerButton
			case tttO:
				label, style = "O", discordgo.SuccessButton
			}
			buttons = append(buttons, discordgo.Button{
				Label:    label,
				Style:    style,
				Disabled: gameOver || sess.board[cell] != tttNone,
				CustomID: customID("ttt", sessionID, "c"+strconv.Itoa(cell)),
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

// winner returns tttX, tttO, tttTie, or tttNone if the game continues.
func (sess *tttSession) winner() int {
	lines := [8][3]int{
		{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
		{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
		{0, 4, 8}, {2, 4, 6},
	}
	for _, line := range lines {
		sum := sess.board[line[0]] + sess.board[line[1]] + sess.board[line[2]]
		if sum == 3*tttO {
			return tttO
		}
		if sum == 3*tttX {
			return tttX
		}
	}
	for _, cell := range sess.board {
		if cell == tttNone {
			return tttNone
		}
	}
	return tttTie
}

// botMove fills a random empty cell with O and hands the turn back.
func (sess *tttSession) botMove() {
	var open []int
	for i, cell := range sess.board {
		if cell == tttNone {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return
	}
	sess.board[open[rand.Intn(len(open))]] = tttO
	sess.current = tttX
}

func (f *Feature) handleTicTacToeButton(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, action string) {
	f.mu.Lock()
	sess, ok := f.tttGames[sessionID]
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

	switch {
	case action == "deny":
		f.mu.Lock()
		delete(f.tttGames, sessionID)
		f.mu.Unlock()

		if userID == sess.challengerID {
			common.UpdateInteractionMessage(s, i,
				fmt.Sprintf("<@%s> cancelled the challenge to <@%s>.", sess.challengerID, sess.challengedID), nil)
		} else {
			common.UpdateInteractionMessage(s, i,
				fmt.Sprintf("<@%s> denied the challenge from <@%s>.", sess.challengedID, sess.challengerID), nil)
		}

	case action == "accept":
		if userID != sess.challengedID {
			common.RespondWithError(s, i, "Only the challenged user can accept this challenge.")
			return
		}

		f.mu.Lock()
		sess.accepted = true
		f.mu.Unlock()

		common.UpdateInteractionMessage(s, i, sess.statusLine(), sess.boardButtons(sessionID, false))

	case strings.HasPrefix(action, "c"):
		cell, err := strconv.Atoi(action[1:])
		if err != nil || cell < 0 || cell > 8 {
			return
		}
		f.handleTicTacToeMove(s, i, sessionID, sess, userID, cell)
	}
}

func (f *Feature) handleTicTacToeMove(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID string, sess *tttSession, userID string, cell int) {
	f.mu.Lock()

	if !sess.accepted {
		f.mu.Unlock()
		common.RespondWithError(s, i, "The challenge hasn't been accepted yet.")
		return
	}

	mark := tttX
	if userID == sess.challengedID {
		mark = tttO
	}
	if mark != sess.current {
		f.mu.Unlock()
		common.RespondWithError(s, i, "It's not your turn!")
		return
	}
	if sess.board[cell] != tttNone {
		f.mu.Unlock()
		common.RespondWithError(s, i, "This space is already taken!")
		return
	}

	sess.board[cell] = mark
	sess.current = -mark

	result := sess.winner()
	if result == tttNone && sess.vsBot && sess.current == tttO {
		sess.botMove()
		result = sess.winner()
	}

	gameOver := result != tttNone
	if gameOver {
		delete(f.tttGames, sessionID)
	}
	f.mu.Unlock()

	var content string
	switch result {
	case tttX:
		content = fmt.Sprintf("<@%s> has won!", sess.challengerID)
	case tttO:
		content = fmt.Sprintf("<@%s> has won!", sess.challengedID)
	case tttTie:
		content = "It's a tie!"
	default:
		content = sess.statusLine()
	}

	common.UpdateInteractionMessage(s, i, content, sess.boardButtons(sessionID, gameOver))
}

package games

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"creditbot/config"
	"creditbot/service"
)

// sessionTTL is how long a pending game waits for input before it expires.
const sessionTTL = 5 * time.Minute

// Feature handles the dice, challenge and casino commands. Interactive
// games keep short-lived sessions in memory keyed by a generated ID that
// travels inside each button's custom ID.
type Feature struct {
	facade *service.CreditsFacade
	config *config.Config

	mu         sync.Mutex
	challenges map[string]*challengeSession
	rpsGames   map[string]*rpsSession
	tttGames   map[string]*tttSession
	coinflips  map[string]*coinflipSession
	rfiSaves   map[string]*rfiSaveSession

	rfiMu     sync.Mutex
	rfiClaims map[string]string

	slotsMu     sync.Mutex
	slotsActive map[string]bool
	slotsCount  int

	sessionSeq atomic.Int64
}

func New(facade *service.CreditsFacade, cfg *config.Config) *Feature {
	return &Feature{
		facade:      facade,
		config:      cfg,
		challenges:  make(map[string]*challengeSession),
		rpsGames:    make(map[string]*rpsSession),
		tttGames:    make(map[string]*tttSession),
		coinflips:   make(map[string]*coinflipSession),
		rfiSaves:    make(map[string]*rfiSaveSession),
		rfiClaims:   make(map[string]string),
		slotsActive: make(map[string]bool),
	}
}

func (f *Feature) newSessionID() string {
	return strconv.FormatInt(f.sessionSeq.Add(1), 10)
}

// customID builds "games:<kind>:<sessionID>:<action>" for a button.
func customID(kind, sessionID, action string) string {
	return strings.Join([]string{"games", kind, sessionID, action}, ":")
}

// HandleInteraction dispatches button presses by the kind embedded in the
// custom ID.
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	if len(parts) != 4 || parts[0] != "games" {
		return
	}
	kind, sessionID, action := parts[1], parts[2], parts[3]

	switch kind {
	case "challenge":
		f.handleChallengeButton(s, i, sessionID, action)
	case "rps":
		f.handleRPSButton(s, i, sessionID, action)
	case "ttt":
		f.handleTicTacToeButton(s, i, sessionID, action)
	case "cfc":
		f.handleCoinflipButton(s, i, sessionID, action)
	case "rfisave":
		f.handleRFISaveButton(s, i, sessionID, action)
	default:
		log.Warnf("Unknown game interaction kind %q", kind)
	}
}

// interactionUserID returns the ID of whoever pressed the button.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// StartSessionCleanup periodically drops games nobody finished.
func (f *Feature) StartSessionCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-sessionTTL)

		f.mu.Lock()
		for id, sess := range f.challenges {
			if sess.created.Before(cutoff) {
				delete(f.challenges, id)
			}
		}
		for id, sess := range f.rpsGames {
			if sess.created.Before(cutoff) {
				delete(f.rpsGames, id)
			}
		}
		for id, sess := range f.tttGames {
			if sess.created.Before(cutoff) {
				delete(f.tttGames, id)
			}
		}
		for id, sess := range f.coinflips {
			if sess.created.Before(cutoff) {
				delete(f.coinflips, id)
			}
		}
		for id, sess := range f.rfiSaves {
			if sess.created.Before(cutoff) {
				delete(f.rfiSaves, id)
			}
		}
		f.mu.Unlock()
	}
}

package common

import (
	"github.com/bwmarrin/discordgo"
)

// GetDisplayName returns the server-specific display name for a user
// Falls back to username if nickname is not set or if there's an error
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	member, err := s.GuildMember(guildID, userID)
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			return member.User.Username
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// ParseMention extracts a user ID from a raw <@id> or <@!id> mention.
// Returns the input unchanged if it isn't a mention.
func ParseMention(raw string) string {
	if len(raw) > 3 && raw[0] == '<' && raw[1] == '@' && raw[len(raw)-1] == '>' {
		id := raw[2 : len(raw)-1]
		if len(id) > 0 && id[0] == '!' {
			id = id[1:]
		}
		return id
	}
	return raw
}

package common

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Reply sends a plain message to the channel a command came from
func Reply(s *discordgo.Session, channelID, content string) *discordgo.Message {
	msg, err := s.ChannelMessageSend(channelID, content)
	if err != nil {
		log.Errorf("Error sending message to channel %s: %v", channelID, err)
	}
	return msg
}

// ReplyError sends an error message to the channel
func ReplyError(s *discordgo.Session, channelID, content string) {
	Reply(s, channelID, "❌ "+content)
}

// ReplyEmbed sends an embed to the channel
func ReplyEmbed(s *discordgo.Session, channelID string, embed *discordgo.MessageEmbed) *discordgo.Message {
	msg, err := s.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		log.Errorf("Error sending embed to channel %s: %v", channelID, err)
	}
	return msg
}

// ReplyWithComponents sends a message with button components attached
func ReplyWithComponents(s *discordgo.Session, channelID, content string, components []discordgo.MessageComponent) *discordgo.Message {
	msg, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Components: components,
	})
	if err != nil {
		log.Errorf("Error sending component message to channel %s: %v", channelID, err)
	}
	return msg
}

// RespondEphemeral sends a message only the pressing user can see
func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending ephemeral response: %v", err)
	}
}

// RespondWithError sends an ephemeral error as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// UpdateInteractionMessage edits the message a component interaction came
// from, replacing its content and components
func UpdateInteractionMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		log.Errorf("Error updating interaction message: %v", err)
	}
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/bureau-foundation/pager/lib/pagination"
)

// renderEmbed converts a page to a discordgo embed. A nil page renders
// as nil.
func renderEmbed(page *pagination.Embed) *discordgo.MessageEmbed {
	if page == nil {
		return nil
	}
	embed := &discordgo.MessageEmbed{
		Type:        discordgo.EmbedTypeRich,
		Title:       page.Title,
		Description: page.Description,
		URL:         page.URL,
		Color:       page.Color,
		Timestamp:   page.Timestamp,
	}
	if page.Author != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{
			Name:    page.Author.Name,
			URL:     page.Author.URL,
			IconURL: page.Author.IconURL,
		}
	}
	for _, field := range page.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   field.Name,
			Value:  field.Value,
			Inline: field.Inline,
		})
	}
	if page.Image != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: page.Image}
	}
	if page.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: page.Thumbnail}
	}
	if page.Footer != nil {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text:    page.Footer.Text,
			IconURL: page.Footer.IconURL,
		}
	}
	return embed
}

// renderEmbeds returns the embed list for view: one embed, or none.
func renderEmbeds(view pagination.View) []*discordgo.MessageEmbed {
	if embed := renderEmbed(view.Page); embed != nil {
		return []*discordgo.MessageEmbed{embed}
	}
	return []*discordgo.MessageEmbed{}
}

// renderComponents returns one actions row holding a button per
// control. No controls yields an empty, non-nil list so that edits clear
// the existing row.
func renderComponents(view pagination.View) []discordgo.MessageComponent {
	if len(view.Controls) == 0 {
		return []discordgo.MessageComponent{}
	}
	row := discordgo.ActionsRow{}
	for _, control := range view.Controls {
		button := discordgo.Button{
			Label:    control.Label,
			Style:    buttonStyle(control.Style),
			Disabled: control.Disabled,
			CustomID: control.Action.String(),
		}
		if !control.Emoji.IsZero() {
			button.Emoji = &discordgo.ComponentEmoji{ID: control.Emoji.ID, Name: control.Emoji.Name}
		}
		row.Components = append(row.Components, button)
	}
	return []discordgo.MessageComponent{row}
}

func buttonStyle(style pagination.ButtonStyle) discordgo.ButtonStyle {
	switch style {
	case pagination.StylePrimary:
		return discordgo.PrimaryButton
	case pagination.StyleSuccess:
		return discordgo.SuccessButton
	case pagination.StyleDanger:
		return discordgo.DangerButton
	default:
		return discordgo.SecondaryButton
	}
}

// emojiAPIName is the reaction endpoint form: the unicode character, or
// "name:id" for a custom emoji.
func emojiAPIName(emoji pagination.Emoji) string {
	api := discordgo.Emoji{ID: emoji.ID, Name: emoji.Name}
	return api.APIName()
}

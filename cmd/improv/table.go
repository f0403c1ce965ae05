package main

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/longregen/improv/internal/domain/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// claimsTable renders decoded token claims as a two-column table
func claimsTable(c *models.TokenClaims) string {
	expires := "(none)"
	if !c.ExpiresAt.IsZero() {
		expires = c.ExpiresAt.Local().Format(time.RFC3339) + " (in " + time.Until(c.ExpiresAt).Round(time.Second).String() + ")"
	}

	rows := [][]string{
		{"API Key", c.APIKey},
		{"Identity", c.Identity},
		{"Name", c.Name},
		{"Metadata", c.Metadata},
		{"Room", c.Grant.Room},
		{"Room Join", strconv.FormatBool(c.Grant.RoomJoin)},
		{"Can Publish", strconv.FormatBool(c.Grant.CanPublish)},
		{"Can Subscribe", strconv.FormatBool(c.Grant.CanSubscribe)},
		{"Expires", expires},
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Claim", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return tbl.Render()
}

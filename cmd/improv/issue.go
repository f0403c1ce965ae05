package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/longregen/improv/internal/adapters/livekit"
	"github.com/longregen/improv/internal/domain/models"
	"github.com/spf13/cobra"
)

// connectCmd runs the dynamic-room issuer once and prints the descriptor
func connectCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Issue connection details for a fresh room",
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer, _, err := newIssuer()
			if err != nil {
				return err
			}

			details, err := issuer.IssueConnectionDetails(cmd.Context(), &models.IssuanceRequest{ParticipantName: name})
			if err != nil {
				return fmt.Errorf("failed to create connection details: %w", err)
			}

			logger.Debug("connection details issued", "room", details.RoomName)
			return printJSON(cmd.OutOrStdout(), details)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "player display name (default from config)")
	return cmd
}

// tokenCmd runs the fixed-room issuer once and prints the token
func tokenCmd() *cobra.Command {
	var identity string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a token for the shared battle room",
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer, _, err := newIssuer()
			if err != nil {
				return err
			}

			token, err := issuer.IssueFixedRoomToken(cmd.Context(), &models.FixedIssuanceRequest{Identity: identity})
			if err != nil {
				return fmt.Errorf("failed to create token: %w", err)
			}

			return printJSON(cmd.OutOrStdout(), token)
		},
	}

	cmd.Flags().StringVarP(&identity, "identity", "i", "", "participant identity (default from config)")
	return cmd
}

// inspectCmd verifies a token against the configured key pair and prints its claims
func inspectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Verify a token and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lk, err := livekit.NewService(&livekit.ServiceConfig{
				URL:       cfg.LiveKit.URL,
				APIKey:    cfg.LiveKit.APIKey,
				APISecret: cfg.LiveKit.APISecret,
			})
			if err != nil {
				return err
			}

			claims, err := lk.VerifyToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), claims)
			}
			fmt.Fprintln(cmd.OutOrStdout(), claimsTable(claims))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print claims as JSON")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

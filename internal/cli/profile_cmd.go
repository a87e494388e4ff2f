// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// profile_cmd.go - Profile command.
//
// Command: profile [subcommand]
//
// Subcommands:
//   show (default)      Print the profile
//   set <key> <value>   name, email, avatar, language, font_size, dark_mode
//   feedback            List submitted feedback
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/pocketstudio/internal/profile"
	"github.com/jeranaias/pocketstudio/internal/ui/i18n"
)

var profileSubcommands = []string{"show", "set", "feedback"}

// HandleProfile handles the "profile" command.
func HandleProfile(args Args) error {
	rt, err := OpenRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()
	return RunProfile(rt.Profiles, args)
}

// RunProfile dispatches a profile subcommand.
func RunProfile(store *profile.Store, args Args) error {
	p := NewArgParser(args.Raw)
	switch sub := p.Subcommand(); sub {
	case "", "show":
		return showProfile(store, args.JSON)

	case "set":
		key, value := p.Positional(1), strings.Join(p.PositionalFrom(2), " ")
		if key == "" || p.PositionalCount() < 3 {
			return ErrMissingArgument("key and value", "pocketstudio profile set font_size large")
		}
		if _, err := store.Set(key, value); err != nil {
			return &ValidationError{Field: "profile", Value: key, Reason: err.Error(),
				Example: "keys: name, email, avatar, language, font_size, dark_mode"}
		}
		fmt.Fprintln(stdout, SuccessStyle.Render("Set ")+key+" = "+value)
		return nil

	case "feedback":
		return OutputJSON(args.JSON, "profile feedback", func() (any, error) {
			entries := store.Feedback()
			if args.JSON {
				return entries, nil
			}
			if len(entries) == 0 {
				fmt.Fprintln(stdout, DimStyle.Render("No feedback submitted."))
			}
			for _, e := range entries {
				when := time.UnixMilli(e.Timestamp).Format("2006-01-02 15:04")
				fmt.Fprintf(stdout, "%s  %s\n", DimStyle.Render(when), e.Text)
			}
			return entries, nil
		})

	default:
		return ErrUnknownSubcommand("profile", sub, profileSubcommands)
	}
}

func showProfile(store *profile.Store, jsonMode bool) error {
	pr := store.Profile()
	if jsonMode {
		return NewJSONResponse("profile show", pr).Print()
	}
	dark := "off"
	if pr.DarkMode {
		dark = "on"
	}
	fmt.Fprintln(stdout, TitleStyle.Render("Profile"))
	fmt.Fprintln(stdout, field("Name", pr.Name))
	fmt.Fprintln(stdout, field("Email", pr.Email))
	fmt.Fprintln(stdout, field("Avatar", pr.Avatar))
	fmt.Fprintln(stdout, field("Language", pr.Language+" ("+i18n.LanguageName(pr.Language)+")"))
	fmt.Fprintln(stdout, field("Font size", string(pr.FontSize)))
	fmt.Fprintln(stdout, field("Dark mode", dark))
	fmt.Fprintln(stdout, field("Onboarding", fmt.Sprint(store.HasSeenOnboarding())))
	return nil
}

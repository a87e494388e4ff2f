// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for pocketstudio.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output streams. Tests swap them for buffers.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdSpeak
	CmdProfile
	CmdConfig
	CmdDoctor
	CmdVersion
	CmdHelp
	CmdUnknown
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdSessions:
		return "sessions"
	case CmdSpeak:
		return "speak"
	case CmdProfile:
		return "profile"
	case CmdConfig:
		return "config"
	case CmdDoctor:
		return "doctor"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose  bool
	JSON     bool
	Provider string
	Model    string
	Storage  string

	// Command-specific
	Query      string
	Image      string
	Subcommand string

	// Name is the unrecognized command word for CmdUnknown.
	Name string

	// Raw args (remaining after the command word)
	Raw []string
}

const usageText = `pocketstudio %s - a pocket AI chat client for the terminal

Usage:
  pocketstudio                         Start the app (default)
  pocketstudio tui                     Start the app
  pocketstudio ask [--image PATH] "prompt"
                                       Ask one question in a new chat
  pocketstudio chat                    Line-based chat (/new, /image, /speak, /sessions, /quit)
  pocketstudio sessions [subcommand]   Saved chats
      list                             List chats (default)
      show <id>                        Print a chat
      export <id> [--format F] [--out FILE]
                                       Export as md, json, yaml or html
      clear --yes                      Delete every chat
  pocketstudio speak "text"            Read text aloud
  pocketstudio profile [show|set KEY VALUE|feedback]
                                       Show or edit the profile
                                       (name, email, avatar, language, font_size, dark_mode)
  pocketstudio config [subcommand]
      show                             Print the effective config (API key redacted)
      path                             Print the config file path
      init                             Write a default config file
      get <key>                        Print one value (e.g. provider.model)
      set <key> <value>                Change one value and save
      keys                             List every key
  pocketstudio doctor                  Check config, provider, storage and audio
  pocketstudio version                 Print version information
  pocketstudio help                    Show this help

Global flags:
  -v, --verbose          Log debug output to stderr
  --json                 JSON output (version, sessions list, profile show)
  --provider NAME        Override the provider (gemini, openai, scripted)
  --model NAME           Override the chat model
  --storage BACKEND      Override the storage backend (file, sqlite, memory)

Environment:
  GEMINI_API_KEY, OPENAI_API_KEY, POCKETSTUDIO_API_KEY
  POCKETSTUDIO_PROVIDER, POCKETSTUDIO_MODEL, POCKETSTUDIO_STORAGE, POCKETSTUDIO_DATA_DIR
  A .env file in the working directory or ~/.pocketstudio is loaded first.
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Fprintf(stdout, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Fprintf(stdout, "pocketstudio version %s\n", Version)
	fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(stdout, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(stdout, "  Go:         %s\n", runtime.Version())
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv (without the program name) into a command.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui", "app":
		return CmdTUI, parsed
	case "ask", "a":
		parseAskArgs(&parsed, remaining)
		return CmdAsk, parsed
	case "chat", "c":
		return CmdChat, parsed
	case "sessions", "session", "history":
		if len(remaining) > 0 {
			parsed.Subcommand = strings.ToLower(remaining[0])
		}
		return CmdSessions, parsed
	case "speak", "say":
		parsed.Query = strings.Join(remaining, " ")
		return CmdSpeak, parsed
	case "profile", "me":
		if len(remaining) > 0 {
			parsed.Subcommand = strings.ToLower(remaining[0])
		}
		return CmdProfile, parsed
	case "config", "cfg":
		if len(remaining) > 0 {
			parsed.Subcommand = strings.ToLower(remaining[0])
		}
		return CmdConfig, parsed
	case "doctor", "check":
		return CmdDoctor, parsed
	case "version", "--version", "-V":
		return CmdVersion, parsed
	case "help", "--help", "-h":
		return CmdHelp, parsed
	}
	parsed.Name = cmd
	return CmdUnknown, parsed
}

// parseGlobalFlags pulls the global flags out of args, wherever they appear.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	value := func(i *int, arg, name string) (string, bool) {
		if strings.HasPrefix(arg, name+"=") {
			return strings.TrimPrefix(arg, name+"="), true
		}
		if arg == name && *i+1 < len(args) {
			*i++
			return args[*i], true
		}
		return "", false
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-v", "--verbose":
			parsed.Verbose = true
			continue
		case "--json":
			parsed.JSON = true
			continue
		}
		if v, ok := value(&i, arg, "--provider"); ok {
			parsed.Provider = v
			continue
		}
		if v, ok := value(&i, arg, "--model"); ok {
			parsed.Model = v
			continue
		}
		if v, ok := value(&i, arg, "--storage"); ok {
			parsed.Storage = v
			continue
		}
		remaining = append(remaining, arg)
	}
	return remaining, parsed
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "-i" || arg == "--image":
			if i+1 < len(remaining) {
				i++
				args.Image = remaining[i]
			}
		case strings.HasPrefix(arg, "--image="):
			args.Image = strings.TrimPrefix(arg, "--image=")
		default:
			query = append(query, arg)
		}
	}
	args.Query = strings.Join(query, " ")
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print()
	}
	PrintVersion()
	return nil
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}

// HandleUnknown reports an unknown command with a suggestion.
func HandleUnknown(args Args) error {
	if s := suggestCommand(args.Name); s != "" {
		return fmt.Errorf("unknown command %q (did you mean %q?)", args.Name, s)
	}
	return fmt.Errorf("unknown command %q (run 'pocketstudio help')", args.Name)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Environment health checks.
//
// Command: doctor
//
// Checks:
//   - Config file parses and validates
//   - The provider is known and has an API key
//   - The storage backend opens and accepts writes
//   - An audio player is on PATH (warning only)
//   - The clipboard is reachable (warning only)
//
// Exit Codes:
//   0   No check failed
//   1   One or more checks failed
package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/jeranaias/pocketstudio/internal/audio"
	"github.com/jeranaias/pocketstudio/internal/config"
	"github.com/jeranaias/pocketstudio/internal/storage"
)

// =============================================================================
// HEALTH CHECK TYPES
// =============================================================================

// CheckStatus represents the status of a health check.
type CheckStatus int

const (
	CheckPass CheckStatus = iota
	CheckWarn
	CheckFail
)

// String returns the lowercase status name used in JSON output.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarn:
		return "warn"
	case CheckFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Symbol returns the styled marker for the status.
func (s CheckStatus) Symbol() string {
	switch s {
	case CheckPass:
		return SuccessStyle.Render("[OK]")
	case CheckWarn:
		return WarningStyle.Render("[!!]")
	case CheckFail:
		return ErrorStyle.Render("[FAIL]")
	default:
		return "?"
	}
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`

	status CheckStatus
}

func newCheck(name string, status CheckStatus, msg, fix string) *HealthCheck {
	return &HealthCheck{Name: name, Status: status.String(), Message: msg, Fix: fix, status: status}
}

// Render returns the check as one or two lines.
func (c *HealthCheck) Render() string {
	out := fmt.Sprintf("%s %s", c.status.Symbol(), ValueStyle.Render(c.Message))
	if c.status != CheckPass && c.Fix != "" {
		out += "\n     " + DimStyle.Render("-> "+c.Fix)
	}
	return out
}

// DoctorData is the payload of "doctor --json".
type DoctorData struct {
	Checks  []*HealthCheck `json:"checks"`
	Passed  int            `json:"passed"`
	Warned  int            `json:"warned"`
	Failed  int            `json:"failed"`
	Healthy bool           `json:"healthy"`
}

// =============================================================================
// HANDLE DOCTOR
// =============================================================================

// HandleDoctor handles the "doctor" command.
func HandleDoctor(args Args) error {
	cfg, loadErr := config.Load()
	if cfg == nil {
		cfg = config.Default()
	}
	return RunDoctor(args, RunChecks(ApplyFlags(cfg, args), loadErr))
}

// RunDoctor prints checks and fails when any check failed.
func RunDoctor(args Args, checks []*HealthCheck) error {
	data := DoctorData{Checks: checks}
	for _, c := range checks {
		switch c.status {
		case CheckPass:
			data.Passed++
		case CheckWarn:
			data.Warned++
		case CheckFail:
			data.Failed++
		}
	}
	data.Healthy = data.Failed == 0

	var err error
	if data.Failed > 0 {
		err = fmt.Errorf("%d health check(s) failed", data.Failed)
	}

	if args.JSON {
		resp := NewJSONResponse("doctor", data)
		if err != nil {
			msg := err.Error()
			resp.Success = false
			resp.Error = &msg
		}
		if perr := resp.Print(); perr != nil {
			return perr
		}
		return err
	}

	fmt.Fprintln(stdout, TitleStyle.Render("pocketstudio doctor"))
	fmt.Fprintln(stdout, Separator(41))
	for _, c := range checks {
		fmt.Fprintln(stdout, c.Render())
	}
	fmt.Fprintln(stdout, Separator(41))

	parts := []string{fmt.Sprintf("%d passed", data.Passed)}
	if data.Warned > 0 {
		parts = append(parts, WarningStyle.Render(fmt.Sprintf("%d warning", data.Warned)))
	}
	if data.Failed > 0 {
		parts = append(parts, ErrorStyle.Render(fmt.Sprintf("%d failed", data.Failed)))
	}
	fmt.Fprintln(stdout, strings.Join(parts, ", "))
	return err
}

// =============================================================================
// HEALTH CHECK FUNCTIONS
// =============================================================================

// RunChecks evaluates cfg. loadErr is the error config.Load reported.
func RunChecks(cfg *config.Config, loadErr error) []*HealthCheck {
	return []*HealthCheck{
		checkConfig(cfg, loadErr),
		checkProvider(cfg),
		checkStorage(cfg),
		checkAudio(cfg),
		checkClipboard(),
	}
}

func checkConfig(cfg *config.Config, loadErr error) *HealthCheck {
	if loadErr != nil {
		return newCheck("config", CheckFail, "Config file invalid: "+loadErr.Error(),
			"Run: pocketstudio config init --force")
	}
	if err := cfg.Validate(); err != nil {
		return newCheck("config", CheckFail, "Config invalid: "+err.Error(), "Run: pocketstudio config show")
	}
	return newCheck("config", CheckPass, "Config valid", "")
}

func checkProvider(cfg *config.Config) *HealthCheck {
	name := cfg.Provider.Name
	if !slices.Contains(config.KnownProviders, name) {
		return newCheck("provider", CheckFail, fmt.Sprintf("Unknown provider %q", name),
			"Use one of: "+strings.Join(config.KnownProviders, ", "))
	}
	if cfg.Provider.APIKey != "" {
		return newCheck("provider", CheckPass, fmt.Sprintf("Provider %s (%s) has an API key", name, cfg.Provider.Model), "")
	}
	switch {
	case name == "gemini":
		return newCheck("provider", CheckFail, "No Gemini API key", "Set GEMINI_API_KEY or provider.api_key")
	case name == "openai" && cfg.Provider.BaseURL == "":
		return newCheck("provider", CheckFail, "No OpenAI API key", "Set OPENAI_API_KEY or provider.api_key")
	case name == "openai":
		return newCheck("provider", CheckWarn, "No API key for "+cfg.Provider.BaseURL, "Set provider.api_key if the server needs one")
	}
	return newCheck("provider", CheckPass, fmt.Sprintf("Provider %s needs no API key", name), "")
}

func checkStorage(cfg *config.Config) *HealthCheck {
	dir, err := cfg.DataDir()
	if err != nil {
		return newCheck("storage", CheckFail, "Could not resolve data directory: "+err.Error(), "Set storage.dir")
	}
	kv, err := storage.Open(cfg.Storage.Backend, dir)
	if err != nil {
		return newCheck("storage", CheckFail, "Could not open storage: "+err.Error(),
			"Check permissions on "+dir)
	}
	defer kv.Close()

	const probe = "doctor_probe"
	if err := kv.Save(probe, []byte("ok")); err != nil {
		return newCheck("storage", CheckFail, "Storage not writable: "+err.Error(), "Check permissions on "+dir)
	}
	_ = kv.Delete(probe)
	return newCheck("storage", CheckPass, fmt.Sprintf("Storage %s writable (%s)", cfg.Storage.Backend, dir), "")
}

func checkAudio(cfg *config.Config) *HealthCheck {
	player, err := audio.NewExecOutput(cfg.Audio.Player).Detect()
	if err != nil {
		return newCheck("audio", CheckWarn, "No audio player found", "Install ffplay, paplay or aplay, or set audio.player")
	}
	return newCheck("audio", CheckPass, "Audio player: "+player, "")
}

func checkClipboard() *HealthCheck {
	if clipboard.Unsupported {
		return newCheck("clipboard", CheckWarn, "Clipboard not available", "Install xclip, xsel or wl-clipboard")
	}
	return newCheck("clipboard", CheckPass, "Clipboard available", "")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pocketstudio/internal/audio"
	"github.com/jeranaias/pocketstudio/internal/chat"
	"github.com/jeranaias/pocketstudio/internal/config"
	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/nav"
	"github.com/jeranaias/pocketstudio/internal/profile"
	"github.com/jeranaias/pocketstudio/internal/session"
	"github.com/jeranaias/pocketstudio/internal/ui/components"
	"github.com/jeranaias/pocketstudio/internal/ui/i18n"
	"github.com/jeranaias/pocketstudio/internal/ui/styles"
)

// FeedbackBannerDuration is how long the "sent" banner stays up.
const FeedbackBannerDuration = 5 * time.Second

// Deps are the services the app drives.
type Deps struct {
	Config   *config.Config
	Profiles *profile.Store
	Reducer  *chat.Reducer
	Notes    *chat.Notifications
	Speaker  *audio.Speaker // nil disables speech
	Logger   *slog.Logger

	// ExportDir receives shared chats. Default: current directory.
	ExportDir string

	// Clipboard copies text. Default: the system clipboard.
	Clipboard func(string) error
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	cfg       *config.Config
	profiles  *profile.Store
	reducer   *chat.Reducer
	sessions  *session.Store
	notes     *chat.Notifications
	speaker   *audio.Speaker
	logger    *slog.Logger
	exportDir string
	copyText  func(string) error

	ctx    context.Context
	cancel context.CancelFunc

	theme    *styles.Theme
	tr       *i18n.Printer
	keys     KeyMap
	help     help.Model
	showHelp bool

	screen        model.Screen
	width, height int
	ready         bool

	// Dashboard
	viewport  viewport.Model
	input     textarea.Model
	pathInput textinput.Model
	attaching bool
	spinner   spinner.Model
	messages  *components.MessageList
	sending   bool

	// Login / onboarding
	loginCursor    int
	onboardingPage int

	// Profile / settings
	profileCursor  int
	settingsCursor int

	// Feedback
	feedback     textarea.Model
	feedbackSent bool
	bannerSeq    int

	toasts  *components.ToastManager
	confirm *components.Confirm
	watcher *session.Watcher
}

// New builds the root model. Profiles and Reducer are required.
func New(deps Deps) *Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	copyText := deps.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}
	exportDir := deps.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	p := deps.Profiles.Profile()
	theme := styles.NewTheme(resolveDark(cfg.UI.Theme, p), p.FontSize)
	tr := i18n.New(p.Language)
	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		cfg:       cfg,
		profiles:  deps.Profiles,
		reducer:   deps.Reducer,
		sessions:  deps.Reducer.Store(),
		notes:     deps.Notes,
		speaker:   deps.Speaker,
		logger:    logger,
		exportDir: exportDir,
		copyText:  copyText,
		ctx:       ctx,
		cancel:    cancel,
		theme:     theme,
		tr:        tr,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		screen:    model.ScreenLogin,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		messages:  components.NewMessageList(theme, tr, cfg.UI.WordWrap, cfg.UI.ShowTimestamps),
		toasts:    components.NewToastManager(),
		confirm:   components.NewConfirm(theme),
	}

	m.input = textarea.New()
	m.input.ShowLineNumbers = false
	m.input.Prompt = ""
	m.input.CharLimit = 0
	m.input.SetHeight(3)
	m.input.KeyMap.InsertNewline = m.keys.Newline

	m.feedback = textarea.New()
	m.feedback.ShowLineNumbers = false
	m.feedback.SetHeight(6)
	m.feedback.KeyMap.InsertNewline = m.keys.Newline

	m.pathInput = textinput.New()
	m.pathInput.Prompt = "▣ "

	m.viewport = viewport.New(80, 20)
	m.applyTranslations()
	m.watcher = session.Watch(m.sessions)
	return m
}

// Screen returns the visible screen.
func (m *Model) Screen() model.Screen { return m.screen }

// resolveDark applies the config theme override to the profile setting.
func resolveDark(setting string, p model.UserProfile) bool {
	switch setting {
	case "dark":
		return true
	case "light":
		return false
	case "terminal":
		return styles.TerminalIsDark()
	}
	return p.DarkMode
}

// applyProfile re-themes and re-translates after a profile change.
func (m *Model) applyProfile(p model.UserProfile) {
	m.theme.Apply(resolveDark(m.cfg.UI.Theme, p), p.FontSize)
	if m.tr.Lang() != p.Language {
		m.tr = i18n.New(p.Language)
		m.messages.SetPrinter(m.tr)
		m.applyTranslations()
	}
	m.layout()
	m.refreshChat()
}

func (m *Model) applyTranslations() {
	m.input.Placeholder = m.tr.T("Ask anything…")
	m.feedback.Placeholder = m.tr.T("Tell us what you think…")
	m.pathInput.Placeholder = m.tr.T("Path to an image file")
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	var ch <-chan chat.Notification
	if m.notes != nil {
		ch = m.notes.C()
	}
	return tea.Batch(m.watcher.Next(), waitNotification(ch), textarea.Blink)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.ready = true
		m.layout()
		m.refreshChat()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.screen == model.ScreenDashboard {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case session.ChangedMsg:
		m.refreshChat()
		m.clampCursors()
		return m, m.watcher.Next()

	case notificationMsg:
		kind := components.ToastKindInfo
		switch msg.Level {
		case chat.LevelError:
			kind = components.ToastKindError
		case chat.LevelSuccess:
			kind = components.ToastKindSuccess
		}
		return m, tea.Batch(m.toast(kind, m.tr.T(msg.Message)), waitNotification(m.notes.C()))

	case sendDoneMsg:
		m.sending = false
		m.refreshChat()
		if msg.err == nil && msg.result.Canceled {
			return m, m.toast(components.ToastKindInfo, m.tr.T("Reply stopped"))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.reducer.Thinking() && !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshChat()
		return m, cmd

	case speakDoneMsg:
		return m, m.speakFailed(msg.err)

	case shareDoneMsg:
		if msg.err != nil {
			m.logger.Warn("share failed", "error", msg.err)
			return m, m.toast(components.ToastKindError, m.tr.T("Could not share chat"))
		}
		return m, m.toast(components.ToastKindSuccess, m.tr.T("Saved to %s", msg.path))

	case components.ToastTickMsg:
		m.toasts.Tick()
		m.layout()
		return m, nil

	case components.ConfirmResult:
		return m, m.handleConfirm(msg)

	case bannerExpiredMsg:
		if msg.seq == m.bannerSeq && m.feedbackSent {
			m.feedbackSent = false
			return m, m.focusScreen()
		}
		return m, nil

	case ConfigReloadedMsg:
		return m, m.handleConfigReload(msg)
	}

	// Cursor blinks and other component messages.
	return m, m.updateInputs(msg)
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch {
	case m.screen == model.ScreenDashboard && m.attaching:
		m.pathInput, cmd = m.pathInput.Update(msg)
		cmds = append(cmds, cmd)
	case m.screen == model.ScreenDashboard:
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	case m.screen == model.ScreenFeedback && !m.feedbackSent:
		m.feedback, cmd = m.feedback.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// typing reports whether printable keys belong to a text field.
func (m *Model) typing() bool {
	switch m.screen {
	case model.ScreenDashboard:
		return true
	case model.ScreenFeedback:
		return !m.feedbackSent
	}
	return false
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, handled := m.confirm.Update(msg); handled {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case msg.String() == "f1" || (msg.String() == "?" && !m.typing()):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layout()
		return m, nil
	}

	if nav.ShowsChrome(m.screen) {
		switch {
		case key.Matches(msg, m.keys.NextTab):
			return m, m.goTo(nav.Cycle(m.screen, 1))
		case key.Matches(msg, m.keys.PrevTab):
			return m, m.goTo(nav.Cycle(m.screen, -1))
		case key.Matches(msg, m.keys.JumpTab):
			if s, ok := nav.ForKey(strings.TrimPrefix(msg.String(), "alt+")); ok {
				return m, m.goTo(s)
			}
		}
		if !m.typing() {
			if s, ok := nav.ForKey(msg.String()); ok {
				return m, m.goTo(s)
			}
		}
	}

	switch m.screen {
	case model.ScreenLogin:
		return m, m.updateLogin(msg)
	case model.ScreenOnboarding:
		return m, m.updateOnboarding(msg)
	case model.ScreenDashboard:
		return m, m.updateDashboard(msg)
	case model.ScreenProfile:
		return m, m.updateProfile(msg)
	case model.ScreenSettings:
		return m, m.updateSettings(msg)
	case model.ScreenFeedback:
		return m, m.updateFeedback(msg)
	}
	return m, nil
}

// navigate applies a navigation action.
func (m *Model) navigate(action nav.Action) tea.Cmd {
	return m.goTo(nav.Next(m.screen, action))
}

func (m *Model) goTo(s model.Screen) tea.Cmd {
	if s == m.screen {
		return nil
	}
	m.logger.Debug("navigate", "from", m.screen.String(), "to", s.String())
	m.screen = s
	m.attaching = false
	m.layout()
	m.refreshChat()
	return m.focusScreen()
}

// focusScreen focuses the text field of the current screen.
func (m *Model) focusScreen() tea.Cmd {
	m.input.Blur()
	m.feedback.Blur()
	m.pathInput.Blur()
	switch {
	case m.screen == model.ScreenDashboard && m.attaching:
		return m.pathInput.Focus()
	case m.screen == model.ScreenDashboard:
		return m.input.Focus()
	case m.screen == model.ScreenFeedback && !m.feedbackSent:
		return m.feedback.Focus()
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.reducer.Cancel()
	if m.speaker != nil {
		m.speaker.Stop()
	}
	m.watcher.Stop()
	m.cancel()
	return tea.Quit
}

func (m *Model) toast(kind components.ToastKind, text string) tea.Cmd {
	cmd := m.toasts.Add(kind, text)
	m.layout()
	return cmd
}

func (m *Model) handleConfirm(res components.ConfirmResult) tea.Cmd {
	if !res.Confirmed {
		return nil
	}
	switch res.ID {
	case confirmClearHistory:
		m.reducer.Cancel()
		m.sessions.ClearAll()
		m.reducer.Deselect()
		m.profileCursor = 0
		m.logger.Info("history cleared")
		return m.toast(components.ToastKindSuccess, m.tr.T("History cleared"))
	}
	return nil
}

func (m *Model) handleConfigReload(msg ConfigReloadedMsg) tea.Cmd {
	if msg.Err != nil {
		m.logger.Warn("config reload failed", "error", msg.Err)
		return m.toast(components.ToastKindError, m.tr.T("Config file has errors; keeping current settings"))
	}
	prev := m.cfg
	m.cfg = msg.Config
	m.messages = components.NewMessageList(m.theme, m.tr, m.cfg.UI.WordWrap, m.cfg.UI.ShowTimestamps)
	m.applyProfile(m.profiles.Profile())
	m.logger.Info("config reloaded")
	if prev.Provider != m.cfg.Provider {
		return m.toast(components.ToastKindInfo, m.tr.T("Provider changes apply after restart"))
	}
	return m.toast(components.ToastKindInfo, m.tr.T("Settings reloaded"))
}

// =============================================================================
// LAYOUT / VIEW
// =============================================================================

func (m *Model) layout() {
	if !m.ready {
		return
	}
	w := m.width
	m.input.SetWidth(max(w-4, 10))
	m.feedback.SetWidth(max(min(w-6, 70), 10))
	m.pathInput.Width = max(w-8, 10)

	chrome := 0
	if nav.ShowsChrome(m.screen) {
		chrome = lipgloss.Height(m.headerView()) + lipgloss.Height(m.navView())
	}
	if t := m.toastView(); t != "" {
		chrome += lipgloss.Height(t)
	}
	if h := m.helpView(); h != "" {
		chrome += lipgloss.Height(h)
	}

	composer := lipgloss.Height(m.composerView())
	m.viewport.Width = w
	m.viewport.Height = max(m.height-chrome-composer, 3)
}

func (m *Model) headerView() string {
	title := m.tr.T(m.screen.Title())
	if m.screen == model.ScreenDashboard {
		if s, ok := m.reducer.Active(); ok {
			title = s.Title
		}
	}
	status := ""
	if m.reducer.Thinking() {
		status = m.spinner.View()
	}
	return components.RenderHeader(m.theme, title, status, m.profiles.Profile(), m.width)
}

func (m *Model) navView() string {
	return components.RenderNavBar(m.theme, m.tr, m.screen, m.width)
}

func (m *Model) toastView() string {
	return components.RenderToasts(m.theme, m.toasts.Toasts(), m.width)
}

func (m *Model) helpView() string {
	m.help.Width = m.width
	var km help.KeyMap
	switch m.screen {
	case model.ScreenDashboard:
		km = dashboardHelp{m.keys}
	case model.ScreenProfile:
		km = screenHelp{m.keys, []key.Binding{m.keys.ClearHistory, m.keys.Logout}}
	case model.ScreenSettings:
		km = screenHelp{m.keys, []key.Binding{m.keys.ToggleDark, m.keys.CycleFont, m.keys.ToggleLang}}
	case model.ScreenLogin:
		km = screenHelp{m.keys, []key.Binding{m.keys.LoginGoogle, m.keys.LoginEmail}}
	case model.ScreenOnboarding:
		km = screenHelp{m.keys, []key.Binding{m.keys.Left, m.keys.Right, m.keys.Skip}}
	default:
		km = screenHelp{m.keys, []key.Binding{m.keys.Send, m.keys.Newline}}
	}
	return m.theme.Help.Render(m.help.View(km))
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return m.tr.T("Loading…")
	}
	if m.confirm.Visible() {
		return m.confirm.View(m.width, m.height)
	}

	var body string
	switch m.screen {
	case model.ScreenLogin:
		body = m.viewLogin()
	case model.ScreenOnboarding:
		body = m.viewOnboarding()
	case model.ScreenDashboard:
		body = m.viewDashboard()
	case model.ScreenProfile:
		body = m.viewProfile()
	case model.ScreenSettings:
		body = m.viewSettings()
	case model.ScreenFeedback:
		body = m.viewFeedback()
	}

	if !nav.ShowsChrome(m.screen) {
		parts := []string{lipgloss.Place(m.width, max(m.height-lipgloss.Height(m.helpView()), 1), lipgloss.Center, lipgloss.Center, body)}
		if h := m.helpView(); h != "" {
			parts = append(parts, h)
		}
		return m.theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	}

	header := m.headerView()
	footer := []string{}
	if t := m.toastView(); t != "" {
		footer = append(footer, t)
	}
	if h := m.helpView(); h != "" {
		footer = append(footer, h)
	}
	footer = append(footer, m.navView())

	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(lipgloss.JoinVertical(lipgloss.Left, footer...)), 1)
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return m.theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, append([]string{header, body}, footer...)...))
}

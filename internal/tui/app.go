// Package tui is the terminal front end: a tview application over the
// client's stores, redrawn from bus events.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/mvolkoff/beseda/internal/bus"
	"github.com/mvolkoff/beseda/internal/client"
	"github.com/mvolkoff/beseda/internal/config"
	"github.com/mvolkoff/beseda/internal/precond"
	"github.com/mvolkoff/beseda/internal/tui/keys"
	"github.com/mvolkoff/beseda/internal/tui/ui"
	"github.com/mvolkoff/beseda/internal/tui/views"
)

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	client   *client.Client
	cfg      *config.Config
	cfgPath  string
	bus      *bus.Bus
	logger   *zap.Logger
	registry *keys.Registry
	theme    *ui.Theme

	statusBar *views.StatusBar
	roster    *views.RosterList
	thread    *views.ThreadView
	composer  *views.Composer
	filter    *tview.InputField
	callV     *views.CallView
	profileV  *views.ProfileView
	feedV     *views.FeedView
	settingsV *views.SettingsView

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application for a bootstrapped client.
func NewApp(c *client.Client, cfg *config.Config, cfgPath, profileName string, b *bus.Bus, logger *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.Pick(cfg.Settings.DarkTheme)

	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		client:    c,
		cfg:       cfg,
		cfgPath:   cfgPath,
		bus:       b,
		logger:    logger,
		registry:  keys.NewRegistry(),
		theme:     theme,
		statusBar: views.NewStatusBar(theme),
		roster:    views.NewRosterList(theme),
		thread:    views.NewThreadView(theme, c.UserID()),
		composer:  views.NewComposer(),
		callV:     views.NewCallView(theme),
		profileV:  views.NewProfileView(theme),
		feedV:     views.NewFeedView(theme),
		ctx:       ctx,
		cancel:    cancel,
	}
	a.settingsV = views.NewSettingsView(theme, cfg.Settings, a.saveSettings)
	a.filter = tview.NewInputField().SetLabel(" / ").SetFieldWidth(0)

	a.statusBar.SetProfile(profileName)
	a.statusBar.SetStatus("connecting")
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	a.applyTheme(theme)

	return a
}

// applyTheme recolors every widget from the palette. Views keep a
// pointer to the shared palette and read it at render time, so the
// copy below is enough for text colors; box chrome is restyled
// explicitly.
func (a *App) applyTheme(t *ui.Theme) {
	*a.theme = *t

	for _, box := range []*tview.Box{
		a.roster.Box, a.thread.Box, a.profileV.Box,
		a.feedV.Box, a.settingsV.Box,
	} {
		box.SetBackgroundColor(a.theme.BgColor)
		box.SetBorderColor(a.theme.BorderColor)
		box.SetTitleColor(a.theme.TitleColor)
	}
	a.callV.SetBackgroundColor(a.theme.BgColor)
	a.callV.SetBorderColor(a.theme.CallAccentColor)
	a.callV.SetTitleColor(a.theme.TitleColor)

	a.thread.SetTextColor(a.theme.FgColor)
	a.profileV.SetTextColor(a.theme.FgColor)
	a.feedV.SetTextColor(a.theme.FgColor)
	a.filter.SetLabelColor(a.theme.TitleColor)

	a.refreshMain()
	a.profileV.Update(a.client.Profile())
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.Stop() },
	})
	a.registry.AddGlobal("profile", &keys.Action{
		Rune: 'p', Key: tcell.KeyRune,
		Description: "p:profile", Visible: true,
		Handler: func() { a.showPage("profile") },
	})
	a.registry.AddGlobal("feed", &keys.Action{
		Rune: 'n', Key: tcell.KeyRune,
		Description: "n:notifications", Visible: true,
		Handler: func() { a.showFeed() },
	})
	a.registry.AddGlobal("settings", &keys.Action{
		Rune: 'o', Key: tcell.KeyRune,
		Description: "o:settings", Visible: true,
		Handler: func() { a.showSettings() },
	})

	a.registry.AddPage("main", "call", &keys.Action{
		Rune: 'c', Key: tcell.KeyRune,
		Description: "c:call", Visible: true,
		Handler: func() { a.startCall(false) },
	})
	a.registry.AddPage("main", "conference", &keys.Action{
		Rune: 'C', Key: tcell.KeyRune,
		Description: "C:conf", Visible: true,
		Handler: func() { a.startCall(true) },
	})
	a.registry.AddPage("main", "record", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:record", Visible: true,
		Handler: func() { a.toggleRecording() },
	})
	a.registry.AddPage("main", "reload", &keys.Action{
		Rune: 'u', Key: tcell.KeyRune,
		Description: "u:update", Visible: true,
		Handler: func() { a.reload() },
	})
	a.registry.AddPage("main", "filter", &keys.Action{
		Rune: '/', Key: tcell.KeyRune,
		Description: "/:filter", Visible: true,
		Handler: func() { a.app.SetFocus(a.filter) },
	})
	a.registry.AddPage("call", "end", &keys.Action{
		Rune: 'e', Key: tcell.KeyRune,
		Description: "e:end call", Visible: true,
		Handler: func() { a.client.EndCall() },
	})
}

func (a *App) setupCallbacks() {
	a.roster.SetSelectedFunc(func(row, col int) {
		chatID := a.roster.SelectedChat()
		if chatID == 0 {
			return
		}
		go func() {
			if err := a.client.SelectChat(a.ctx, chatID); err != nil {
				a.redraw()
				return
			}
			a.app.QueueUpdateDraw(func() {
				a.refreshThread()
				a.app.SetFocus(a.composer.InputField)
			})
		}()
	})

	a.composer.SetOnChange(func(text string) {
		a.client.Thread.SetDraft(text)
	})
	a.composer.SetOnSend(func(text string) {
		go func() {
			err := a.client.SendDraft(a.ctx)
			a.app.QueueUpdateDraw(func() {
				if err == nil {
					a.composer.SetText("")
				}
				a.refreshMain()
				a.statusBar.SetFlash(a.client.Flash.Get())
			})
		}()
	})

	a.filter.SetChangedFunc(func(text string) {
		a.roster.SetFilter(text)
	})
	a.filter.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			a.filter.SetText("")
			a.roster.SetFilter("")
		}
		a.app.SetFocus(a.roster)
	})
}

func (a *App) setupLayout() {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.thread, 0, 1, false).
		AddItem(a.composer, 1, 0, false)

	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.roster, 0, 1, true).
		AddItem(a.filter, 1, 0, false)

	main := tview.NewFlex().
		AddItem(left, 0, 1, true).
		AddItem(right, 0, 2, false)

	a.pages.AddPage("main", main, true, true)
	a.pages.AddPage("profile", a.profileV, true, false)
	a.pages.AddPage("feed", a.feedV, true, false)
	a.pages.AddPage("settings", a.settingsV, true, false)
	a.pages.AddPage("call", a.callV, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch currentPage {
			case "profile", "feed", "settings":
				a.showPage("main")
				a.app.SetFocus(a.roster)
				return nil
			case "call":
				// The call keeps running; Esc only hides the overlay.
				a.showPage("main")
				a.app.SetFocus(a.roster)
				return nil
			}
		}

		// Text inputs consume their own keys.
		focused := a.app.GetFocus()
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}
		if currentPage == "settings" {
			return event
		}

		if currentPage == "main" && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
			a.app.SetFocus(a.composer.InputField)
			return nil
		}

		if a.registry.HandleEvent(currentPage, event) {
			return nil
		}
		return event
	})
}

func (a *App) startCall(conference bool) {
	var err error
	if conference {
		err = a.client.StartConference()
	} else {
		err = a.client.StartCall()
	}
	if err != nil {
		if precond.Is(err) {
			a.client.Flash.Set(err.Error(), 3*time.Second)
			a.statusBar.SetFlash(a.client.Flash.Get())
		}
		return
	}
	a.showPage("call")
	a.refreshCall()
}

// reload re-fetches roster and thread on user request.
func (a *App) reload() {
	go func() {
		if err := a.client.Roster.Load(a.ctx); err != nil {
			a.logger.Warn("roster reload failed", zap.Error(err))
		}
		if id := a.client.Roster.SelectedID(); id != 0 {
			if err := a.client.Thread.Load(a.ctx, id); err != nil {
				a.logger.Warn("thread reload failed", zap.Error(err))
			}
		}
		a.redraw()
	}()
}

func (a *App) toggleRecording() {
	if a.client.Recorder.Recording() {
		go func() {
			if err := a.client.Recorder.Stop(a.ctx); err != nil && !precond.Is(err) {
				a.client.Flash.Set("voice send failed", 5*time.Second)
			}
			a.redraw()
		}()
		return
	}
	if err := a.client.Recorder.Start(); err != nil {
		return
	}
	a.statusBar.SetRecording(true)
}

func (a *App) saveSettings(s config.Settings) {
	darkChanged := s.DarkTheme != a.cfg.Settings.DarkTheme
	a.cfg.Settings = s
	if darkChanged {
		a.applyTheme(ui.Pick(s.DarkTheme))
	}
	if err := config.Save(a.cfgPath, a.cfg); err != nil {
		a.logger.Error("save settings failed", zap.Error(err))
		a.client.Flash.Set("settings not saved: "+err.Error(), 5*time.Second)
	} else {
		a.client.Flash.Set("settings saved", 3*time.Second)
	}
	a.statusBar.SetFlash(a.client.Flash.Get())
	a.showPage("main")
	a.app.SetFocus(a.roster)
}

func (a *App) showPage(name string) {
	a.pages.SwitchToPage(name)
	a.statusBar.SetHints(a.registry.Hints(name))
}

func (a *App) showFeed() {
	a.feedV.Update(a.client.Feed(a.cfg.Settings.MessagePreviews))
	a.showPage("feed")
}

func (a *App) showSettings() {
	a.settingsV.Reset(a.cfg.Settings)
	a.showPage("settings")
	a.app.SetFocus(a.settingsV)
}

func (a *App) refreshMain() {
	a.roster.Update(a.client.Roster.Chats(), a.client.Roster.SelectedID())
	a.refreshThread()
}

func (a *App) refreshThread() {
	if selected, ok := a.client.Roster.Selected(); ok {
		a.thread.SetChatName(selected.Name)
	}
	a.thread.Update(a.client.Thread.Messages())
}

func (a *App) refreshCall() {
	if info, ok := a.client.Call.Active(); ok {
		a.callV.Update(info, time.Now())
	}
}

// redraw schedules a full refresh from outside the UI goroutine.
func (a *App) redraw() {
	a.app.QueueUpdateDraw(func() {
		a.refreshMain()
		a.statusBar.SetRecording(a.client.Recorder.Recording())
		a.statusBar.SetFlash(a.client.Flash.Get())
	})
}

// Run bootstraps the client, starts the event and clock loops and
// blocks until the user quits.
func (a *App) Run() error {
	go func() {
		a.client.Bootstrap(a.ctx)
		a.app.QueueUpdateDraw(func() {
			a.refreshMain()
			a.profileV.Update(a.client.Profile())
			a.statusBar.SetHints(a.registry.Hints("main"))
			a.statusBar.SetFlash(a.client.Flash.Get())
		})
		a.startEventLoop()
		a.startClockLoop()
	}()

	return a.app.Run()
}

// startEventLoop mirrors store events into the UI.
func (a *App) startEventLoop() {
	events, unsubscribe := a.bus.Subscribe("", 64)
	go func() {
		defer unsubscribe()
		for {
			select {
			case ev := <-events:
				a.handleEvent(ev)
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// connState maps a store event onto the status-bar connection label.
// Completed loads mean the server answered; an error flash means the
// last request did not.
func connState(ev bus.Event) (string, bool) {
	switch ev.Kind {
	case bus.KindRosterUpdated, bus.KindThreadUpdated:
		return "connected", true
	case bus.KindFlash:
		if f, ok := ev.Payload.(bus.Flash); ok && f.Level == "error" {
			return "disconnected", true
		}
	}
	return "", false
}

func (a *App) handleEvent(ev bus.Event) {
	if state, ok := connState(ev); ok {
		a.app.QueueUpdateDraw(func() {
			a.statusBar.SetStatus(state)
		})
	}
	switch ev.Kind {
	case bus.KindRosterUpdated, bus.KindRosterSelected, bus.KindThreadUpdated:
		a.app.QueueUpdateDraw(a.refreshMain)
	case bus.KindCallStarted:
		a.app.QueueUpdateDraw(func() {
			a.showPage("call")
			a.refreshCall()
		})
	case bus.KindCallEnded:
		a.app.QueueUpdateDraw(func() {
			if page, _ := a.pages.GetFrontPage(); page == "call" {
				a.showPage("main")
				a.app.SetFocus(a.roster)
			}
		})
	case bus.KindRecorderStart, bus.KindRecorderStop:
		a.app.QueueUpdateDraw(func() {
			a.statusBar.SetRecording(a.client.Recorder.Recording())
		})
	case bus.KindFlash:
		a.app.QueueUpdateDraw(func() {
			a.statusBar.SetFlash(a.client.Flash.Get())
		})
	}
}

// startClockLoop drives the status-bar clock, flash expiry and the
// call timer. Purely visual; store state only changes on user input
// and completed adapter responses.
func (a *App) startClockLoop() {
	clock := time.NewTicker(time.Second)
	go func() {
		defer clock.Stop()
		for {
			select {
			case <-clock.C:
				a.app.QueueUpdateDraw(func() {
					a.statusBar.SetFlash(a.client.Flash.Get())
					if page, _ := a.pages.GetFrontPage(); page == "call" {
						a.refreshCall()
					}
				})
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// Stop shuts the TUI down.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

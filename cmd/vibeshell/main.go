// Command vibeshell runs the tabbed shell: one window with tabs for the
// given URLs, or for the tabs open when the session last ended.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2/app"

	"github.com/chrisuehlinger/vibeshell/config"
	"github.com/chrisuehlinger/vibeshell/content"
	"github.com/chrisuehlinger/vibeshell/engine"
	"github.com/chrisuehlinger/vibeshell/headless"
	"github.com/chrisuehlinger/vibeshell/host"
	"github.com/chrisuehlinger/vibeshell/logging"
	"github.com/chrisuehlinger/vibeshell/storage"
	"github.com/chrisuehlinger/vibeshell/ui"
)

const appID = "io.github.chrisuehlinger.vibeshell"

func main() {
	configPath := flag.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/vibeshell/config.toml)")
	headlessMode := flag.Bool("headless", false, "Load the tabs without opening a window, print them and exit")
	timeout := flag.Duration("timeout", 30*time.Second, "How long a headless run waits for pages to load")
	noRestore := flag.Bool("no-restore", false, "Do not reopen the tabs of the last session")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [url]...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *headlessMode {
		cfg.Host = "headless"
	}
	logging.SetLevel(cfg.Log.Level)

	if err := run(cfg, flag.Args(), *timeout, !*noRestore); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, urls []string, timeout time.Duration, restore bool) error {
	log := logging.New("main")

	var (
		appStore      storage.Provider
		partitionOpen func(string) storage.Provider
	)
	switch cfg.Storage.Driver {
	case "sqlite":
		db, err := storage.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		appStore = db.Namespace("session/" + cfg.Session.ID)
		partitionOpen = func(name string) storage.Provider { return db.Namespace("partition/" + name) }
	default:
		appStore = storage.NewMemory()
	}

	contentOpts := []content.Option{
		content.WithUserAgent(cfg.Content.UserAgent),
		content.WithTimeout(cfg.Content.Timeout),
		content.WithScriptTimeout(cfg.Content.ScriptTimeout),
	}
	if partitionOpen != nil {
		contentOpts = append(contentOpts, content.WithStore(partitionOpen))
	}

	if len(urls) == 0 && restore {
		saved, err := loadTabs(context.Background(), appStore)
		if err != nil {
			log.Warn("restore tabs", "error", err)
		}
		urls = saved
	}
	if len(urls) == 0 {
		urls = []string{cfg.Tabs.StartURL}
	}

	if cfg.Host == "headless" {
		loop := content.NewLoop()
		ch := content.NewHost(loop, contentOpts...)
		return runHeadless(cfg, ch, headless.NewHost(ch), loop, urls, timeout, appStore)
	}

	a := app.NewWithID(appID)
	ch := content.NewHost(ui.Dispatcher{}, contentOpts...)
	wh := ui.NewHost(a, ch)
	shell, err := open(cfg, wh, ch, urls, appStore)
	if err != nil {
		return err
	}
	shell.windows.OnWindowRemoved(func(*engine.Window) {
		if shell.windows.Len() == 0 {
			wh.Quit()
		}
	})
	wh.Run()
	return shell.close()
}

func runHeadless(cfg config.Config, ch *content.Host, wh *headless.Host, loop *content.Loop, urls []string, timeout time.Duration, appStore storage.Provider) error {
	shell, err := open(cfg, wh, ch, urls, appStore)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := loop.Drain(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	for _, w := range shell.windows.Windows() {
		for i, t := range w.Tabs().Tabs() {
			title, _ := t.Title()
			marker := " "
			if t == w.Tabs().ActiveTab() {
				marker = "*"
			}
			fmt.Printf("%s %d\t%s\t%s\n", marker, i, t.URL(), title)
		}
	}
	return shell.close()
}

// shell is the running window set with the state it saves on exit.
type shell struct {
	windows *engine.WindowManager
	store   storage.Provider
	tabs    []string
}

func open(cfg config.Config, wh host.WindowHost, ch *content.Host, urls []string, appStore storage.Provider) (*shell, error) {
	session, err := engine.NewSession(ch, engine.SessionOptions{
		ID:      cfg.Session.ID,
		Persist: cfg.Session.Persist,
		Cache:   cfg.Session.Cache,
		Storage: appStore,
	})
	if err != nil {
		return nil, err
	}

	s := &shell{
		windows: engine.NewWindowManager(wh, ch, engine.WithDefaultSession(session)),
		store:   appStore,
	}
	w, err := s.windows.CreateWindow(engine.WindowOptions{
		Title:           cfg.Window.Title,
		Width:           cfg.Window.Width,
		Height:          cfg.Window.Height,
		BackgroundColor: cfg.Window.BackgroundColor,
		Offset:          cfg.Window.Offset.Geometry(),
		URL:             cfg.Window.ChromeURL,
		File:            cfg.Window.ChromeFile,
		WaitForLoad:     cfg.Window.WaitForLoad,
	})
	if err != nil {
		return nil, err
	}
	s.track(w)

	for i, u := range urls {
		_, _, err := w.Tabs().CreateTab(engine.TabOptions{
			URL:             u,
			BackgroundColor: cfg.Tabs.BackgroundColor,
		}, engine.Append, i == 0)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", u, err)
		}
	}
	return s, nil
}

// track keeps s.tabs in step with the addresses open in w, so they can be
// saved after the window is gone.
func (s *shell) track(w *engine.Window) {
	var subs []func()
	update := func() { s.tabs = tabURLs(w.Tabs()) }
	watch := func(t *engine.Tab) {
		subs = append(subs, t.OnUpdated(func(u engine.TabUpdate) {
			if u.Field == engine.FieldURL || u.Field == engine.FieldNavigation {
				update()
			}
		}))
	}
	w.Tabs().OnTabAdded(func(e engine.TabEvent) {
		watch(e.Tab)
		update()
	})
	w.Tabs().OnTabRemoved(func(e engine.TabEvent) {
		// The last tab closes the window; keep what was open.
		if w.Tabs().Len() > 0 {
			update()
		}
	})
	s.windows.OnWindowRemoved(func(removed *engine.Window) {
		if removed != w {
			return
		}
		for _, off := range subs {
			off()
		}
	})
}

func (s *shell) close() error {
	err := s.windows.Close()
	if errors.Is(err, engine.ErrClosed) {
		err = nil
	}
	if saveErr := saveTabs(context.Background(), s.store, s.tabs); saveErr != nil {
		err = errors.Join(err, saveErr)
	}
	return err
}

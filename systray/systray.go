package systray

import (
	"fmt"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/getlantern/systray"

	"hxanywhere/terminal"
)

// Manager manages the menu bar item: current hotkey display, hotkey
// recording and reset, terminal selection, dashboard link and quit.
// User actions are surfaced as channels for the agent to consume.
type Manager struct {
	webPort int

	recordCh   chan struct{}
	resetCh    chan struct{}
	terminalCh chan string
	quit       chan struct{}
	quitOnce   sync.Once

	mu            sync.Mutex
	statusItem    *systray.MenuItem
	terminalItems map[string]*systray.MenuItem
	hotkeyDisplay string
	terminalName  string
}

// NewManager creates a new menu bar manager
func NewManager(webPort int, hotkeyDisplay, terminalName string) *Manager {
	return &Manager{
		webPort:       webPort,
		recordCh:      make(chan struct{}, 1),
		resetCh:       make(chan struct{}, 1),
		terminalCh:    make(chan string, 1),
		quit:          make(chan struct{}),
		terminalItems: make(map[string]*systray.MenuItem),
		hotkeyDisplay: hotkeyDisplay,
		terminalName:  terminalName,
	}
}

// Run starts the menu bar item (blocking; must run on the main thread on
// macOS). onReady is invoked once the menu is built.
func (m *Manager) Run(onReady func()) {
	systray.Run(func() {
		m.onReady()
		if onReady != nil {
			onReady()
		}
	}, m.onExit)
}

// Stop removes the menu bar item.
func (m *Manager) Stop() {
	systray.Quit()
}

// RecordRequests delivers one value per "Change Hotkey" click.
func (m *Manager) RecordRequests() <-chan struct{} { return m.recordCh }

// ResetRequests delivers one value per "Reset Hotkey to Default" click.
func (m *Manager) ResetRequests() <-chan struct{} { return m.resetCh }

// TerminalSelections delivers the config name of each terminal the user
// picks from the submenu.
func (m *Manager) TerminalSelections() <-chan string { return m.terminalCh }

// WaitForQuit returns a channel closed when the user clicks Quit.
func (m *Manager) WaitForQuit() <-chan struct{} { return m.quit }

// SetHotkeyDisplay updates the hotkey shown in the status line.
func (m *Manager) SetHotkeyDisplay(display string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeyDisplay = display
	if m.statusItem != nil {
		m.statusItem.SetTitle(fmt.Sprintf("Hotkey: %s", display))
	}
}

// SetTerminal moves the checkmark in the terminal submenu.
func (m *Manager) SetTerminal(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terminalName = name
	for itemName, item := range m.terminalItems {
		if itemName == name {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

// onReady builds the menu once the tray is available
func (m *Manager) onReady() {
	systray.SetTitle("hx")
	systray.SetTooltip("hxanywhere - edit any text in your terminal editor")

	about := systray.AddMenuItem("hxanywhere v0.1.0", "")
	about.Disable()
	systray.AddSeparator()

	m.mu.Lock()
	m.statusItem = systray.AddMenuItem(fmt.Sprintf("Hotkey: %s", m.hotkeyDisplay), "Current edit hotkey")
	m.statusItem.Disable()
	m.mu.Unlock()

	record := systray.AddMenuItem("Change Hotkey…", "Record a new hotkey")
	reset := systray.AddMenuItem("Reset Hotkey to Default", "Revert to the default combination")
	systray.AddSeparator()

	terminals := systray.AddMenuItem("Terminal", "Choose the terminal used for editing")
	for _, prog := range terminal.All() {
		if prog.IsInstalled() {
			item := terminals.AddSubMenuItemCheckbox(prog.DisplayName, "", prog.Name == m.terminalName)
			m.mu.Lock()
			m.terminalItems[prog.Name] = item
			m.mu.Unlock()

			go func(name string, item *systray.MenuItem) {
				for {
					select {
					case <-m.quit:
						return
					case <-item.ClickedCh:
						select {
						case m.terminalCh <- name:
						default:
						}
					}
				}
			}(prog.Name, item)
		} else {
			item := terminals.AddSubMenuItem(fmt.Sprintf("%s (not installed)", prog.DisplayName), "")
			item.Disable()
		}
	}

	systray.AddSeparator()
	dashboard := systray.AddMenuItem("Open Dashboard", "Open the session history dashboard")
	quit := systray.AddMenuItem("Quit", "Exit hxanywhere")

	go func() {
		for {
			select {
			case <-record.ClickedCh:
				select {
				case m.recordCh <- struct{}{}:
				default:
				}
			case <-reset.ClickedCh:
				select {
				case m.resetCh <- struct{}{}:
				default:
				}
			case <-dashboard.ClickedCh:
				m.openDashboard()
			case <-quit.ClickedCh:
				slog.Info("User requested quit from menu bar")
				m.quitOnce.Do(func() { close(m.quit) })
				systray.Quit()
				return
			}
		}
	}()
}

// onExit is called when the tray is exiting
func (m *Manager) onExit() {
	m.quitOnce.Do(func() { close(m.quit) })
	slog.Info("Menu bar item removed")
}

// openDashboard opens the web dashboard in the default browser
func (m *Manager) openDashboard() {
	url := fmt.Sprintf("http://localhost:%d", m.webPort)
	slog.Info("Opening dashboard", "url", url)

	if err := exec.Command("open", url).Start(); err != nil {
		slog.Error("Failed to open dashboard", "error", err)
	}
}

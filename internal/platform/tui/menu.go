package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/kitty-madness/internal/config"
	"github.com/vovakirdan/kitty-madness/internal/core"
	"github.com/vovakirdan/kitty-madness/internal/registry"
)

// MenuItemKind distinguishes menu entries.
type MenuItemKind int

const (
	MenuItemVariant MenuItemKind = iota
	MenuItemLobby
	MenuItemScores
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Kind    MenuItemKind
	Variant registry.VariantInfo
	Title   string
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	menuCursor     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// MenuModel is the Bubble Tea model for the variant picker.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	preset   int
	width    int
	height   int
	config   core.RuntimeConfig
	keys     MenuKeyMap
	help     help.Model
	quitting bool
	selected *MenuItem
	greeting string
}

// NewMenuModel creates a new menu model. withLobby adds the online lobby entry.
func NewMenuModel(reg *registry.Registry, cfg core.RuntimeConfig, preset config.DifficultyPreset, withLobby bool) MenuModel {
	variants := reg.List()
	items := make([]MenuItem, 0, len(variants)+2)
	for _, v := range variants {
		items = append(items, MenuItem{Kind: MenuItemVariant, Variant: v, Title: v.Title})
	}
	if withLobby {
		items = append(items, MenuItem{Kind: MenuItemLobby, Title: "Online rooms"})
	}
	items = append(items, MenuItem{Kind: MenuItemScores, Title: "High scores"})

	m := MenuModel{
		items:  items,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
		preset: 1,
	}
	for i, p := range config.Presets {
		if p == preset {
			m.preset = i
		}
	}
	return m
}

// WithGreeting sets a line shown under the title.
func (m MenuModel) WithGreeting(s string) MenuModel {
	m.greeting = s
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case msg.String() == "left" || msg.String() == "h":
		if m.preset > 0 {
			m.preset--
		}

	case msg.String() == "right" || msg.String() == "l":
		if m.preset < len(config.Presets)-1 {
			m.preset++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case key.Matches(msg, m.keys.Scores):
		m.selected = &MenuItem{Kind: MenuItemScores, Title: "High scores"}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("=^.^=  K I T T Y   M A D N E S S  =^.^="), m.width))
	b.WriteString("\n\n")
	if m.greeting != "" {
		b.WriteString(centerText(m.greeting, m.width))
		b.WriteString("\n\n")
	}

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = menuCursor.Render("> " + item.Title)
		}
		if item.Kind == MenuItemVariant {
			line += menuDimStyle.Render(" " + variantSummary(item.Variant))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("Difficulty: < %s >", m.Preset()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(helpStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

func variantSummary(v registry.VariantInfo) string {
	mode := "collect all fish"
	if v.RequireDelivery {
		mode = "collect and deliver"
	}
	return fmt.Sprintf("(%ds, %s)", v.TimeLimit, mode)
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Preset returns the chosen difficulty.
func (m MenuModel) Preset() config.DifficultyPreset {
	return config.Presets[m.preset]
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// menuProgram quits as soon as the menu has an answer.
type menuProgram struct {
	MenuModel
}

func (p menuProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := p.MenuModel.Update(msg)
	p.MenuModel = next.(MenuModel)
	if p.selected != nil {
		return p, tea.Quit
	}
	return p, cmd
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Variant         string
	Preset          config.DifficultyPreset
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(reg *registry.Registry, cfg core.RuntimeConfig, preset config.DifficultyPreset) (MenuResult, error) {
	model := menuProgram{NewMenuModel(reg, cfg, preset, false)}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	fm, ok := finalModel.(menuProgram)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	m := fm.MenuModel

	result := MenuResult{
		Config: m.Config(),
		Preset: m.Preset(),
	}

	sel := m.Selected()
	switch {
	case m.IsQuitting() || sel == nil:
		result.Quit = true
	case sel.Kind == MenuItemScores:
		result.WantsScoreboard = true
	default:
		result.Variant = sel.Variant.ID
	}
	return result, nil
}

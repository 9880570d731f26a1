package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

// Model defines the application state
type Model struct {
	mainMenu       list.Model
	recipeList     list.Model
	inventoryView  table.Model
	conversionView table.Model
	breakdown      *BreakdownResponse
	breakdownName  string
	spinner        spinner.Model
	client         *ApiClient
	currentView    string
	error          string
}

// item represents a list item
type item struct {
	title, desc string
}

// FilterValue implements list.Item interface
func (i item) FilterValue() string { return i.title }

// Title implements list.Item interface
func (i item) Title() string { return i.title }

// Description implements list.Item interface
func (i item) Description() string { return i.desc }

// Initialize the model
func initialModel() Model {
	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	// Initialize main menu items
	items := []list.Item{
		item{title: "Recipes", desc: "Browse recipes and their costs"},
		item{title: "Inventory", desc: "View purchase prices and units"},
		item{title: "Conversions", desc: "View custom unit conversions"},
		item{title: "Exit", desc: "Exit the application"},
	}

	// Initialize main menu
	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "Larder CLI"

	// Initialize recipe list view
	recipeList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	recipeList.Title = "Recipes"

	// Initialize inventory view
	inventoryColumns := []table.Column{
		{Title: "Item", Width: 24},
		{Title: "Category", Width: 12},
		{Title: "Pack Size", Width: 14},
		{Title: "Price", Width: 10},
	}
	inventoryTable := table.New(
		table.WithColumns(inventoryColumns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	// Initialize conversion view
	conversionColumns := []table.Column{
		{Title: "Item", Width: 24},
		{Title: "From", Width: 10},
		{Title: "To", Width: 10},
		{Title: "Factor", Width: 10},
	}
	conversionTable := table.New(
		table.WithColumns(conversionColumns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	// Initialize API client
	client := NewApiClient()

	return Model{
		mainMenu:       mainMenu,
		recipeList:     recipeList,
		inventoryView:  inventoryTable,
		conversionView: conversionTable,
		spinner:        s,
		client:         client,
		currentView:    "main",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.EnterAltScreen)
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			if m.currentView == "main" {
				selected, ok := m.mainMenu.SelectedItem().(item)
				if ok {
					switch selected.title {
					case "Exit":
						return m, tea.Quit
					case "Recipes":
						m.currentView = "recipes"
						return m, fetchRecipes(m.client)
					case "Inventory":
						m.currentView = "inventory"
						return m, fetchInventory(m.client)
					case "Conversions":
						m.currentView = "conversions"
						return m, fetchConversions(m.client)
					}
				}
			} else if m.currentView == "recipes" {
				if selected, ok := m.recipeList.SelectedItem().(recipeItem); ok {
					m.currentView = "breakdown"
					m.breakdownName = selected.title
					return m, fetchBreakdown(m.client, selected.id)
				}
			} else if m.currentView == "breakdown" {
				m.currentView = "recipes"
				return m, fetchRecipes(m.client)
			}
		case "esc":
			if m.currentView == "breakdown" {
				m.currentView = "recipes"
				return m, fetchRecipes(m.client)
			} else if m.currentView != "main" {
				m.currentView = "main"
			}
		}
	case recipesMsg:
		m.error = ""
		m.recipeList.SetItems(convertRecipesToItems(msg.recipes))
		return m, nil
	case breakdownMsg:
		m.error = ""
		m.breakdown = msg.breakdown
		return m, nil
	case inventoryMsg:
		m.error = ""
		m.inventoryView.SetRows(convertInventoryToRows(msg.items))
		return m, nil
	case conversionsMsg:
		m.error = ""
		m.conversionView.SetRows(convertConversionsToRows(msg.conversions))
		return m, nil
	case errorMsg:
		m.error = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	switch m.currentView {
	case "main":
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case "recipes":
		m.recipeList, cmd = m.recipeList.Update(msg)
	case "inventory":
		m.inventoryView, cmd = m.inventoryView.Update(msg)
	case "conversions":
		m.conversionView, cmd = m.conversionView.Update(msg)
	}

	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	switch m.currentView {
	case "main":
		return docStyle.Render(m.mainMenu.View())
	case "recipes":
		help := "\nPress 'enter' to view the cost breakdown, 'esc' to go back\n"
		if m.error != "" {
			help += errorStyle.Render(m.error) + "\n"
		}
		return docStyle.Render(titleStyle.Render("Recipes") + "\n\n" + m.recipeList.View() + help)
	case "breakdown":
		if m.breakdown == nil {
			return docStyle.Render(titleStyle.Render(m.breakdownName) + "\n\n" + m.spinner.View() + " Costing recipe...")
		}
		return docStyle.Render(breakdownView(m.breakdownName, m.breakdown))
	case "inventory":
		help := "\nPress 'esc' to go back\n"
		if m.error != "" {
			help += errorStyle.Render(m.error) + "\n"
		}
		return docStyle.Render(titleStyle.Render("Inventory") + "\n\n" + m.inventoryView.View() + help)
	case "conversions":
		help := "\nPress 'esc' to go back\n"
		if m.error != "" {
			help += errorStyle.Render(m.error) + "\n"
		}
		return docStyle.Render(titleStyle.Render("Custom Conversions") + "\n\n" + m.conversionView.View() + help)
	default:
		return "Loading..."
	}
}

// Custom message types for the tea.Model
type recipesMsg struct {
	recipes []Recipe
}

type breakdownMsg struct {
	breakdown *BreakdownResponse
}

type inventoryMsg struct {
	items []InventoryItem
}

type conversionsMsg struct {
	conversions []Conversion
}

type errorMsg struct {
	err string
}

// recipeItem represents a recipe in the list
type recipeItem struct {
	id    string
	title string
	desc  string
}

func (i recipeItem) Title() string       { return i.title }
func (i recipeItem) Description() string { return i.desc }
func (i recipeItem) FilterValue() string { return i.title }

// fetchRecipes retrieves recipes from the API
func fetchRecipes(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		recipes, err := client.GetRecipes()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching recipes: %v", err)}
		}
		return recipesMsg{recipes: recipes}
	}
}

// fetchBreakdown retrieves the cost breakdown for a recipe
func fetchBreakdown(client *ApiClient, id string) tea.Cmd {
	return func() tea.Msg {
		breakdown, err := client.GetBreakdown(id)
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching breakdown: %v", err)}
		}
		return breakdownMsg{breakdown: breakdown}
	}
}

// fetchInventory retrieves inventory items from the API
func fetchInventory(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		items, err := client.GetInventory()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching inventory: %v", err)}
		}
		return inventoryMsg{items: items}
	}
}

// fetchConversions retrieves custom unit conversions from the API
func fetchConversions(client *ApiClient) tea.Cmd {
	return func() tea.Msg {
		conversions, err := client.GetConversions()
		if err != nil {
			return errorMsg{err: fmt.Sprintf("Error fetching conversions: %v", err)}
		}
		return conversionsMsg{conversions: conversions}
	}
}

// convertRecipesToItems converts API recipes to list items
func convertRecipesToItems(recipes []Recipe) []list.Item {
	items := make([]list.Item, len(recipes))
	for i, recipe := range recipes {
		desc := fmt.Sprintf("%d ingredients - Serves %d", len(recipe.Ingredients), recipe.Servings)
		if len(recipe.Tags) > 0 {
			desc += " - " + strings.Join(recipe.Tags, ", ")
		}
		items[i] = recipeItem{
			id:    recipe.RecipeID,
			title: recipe.Name,
			desc:  desc,
		}
	}
	return items
}

// convertInventoryToRows converts API inventory items to table rows
func convertInventoryToRows(items []InventoryItem) []table.Row {
	rows := make([]table.Row, len(items))
	for i, inv := range items {
		rows[i] = table.Row{
			inv.Name,
			inv.Category,
			inv.PurchaseQuantity + " " + inv.PurchaseUnit,
			inv.PurchasePrice,
		}
	}
	return rows
}

// convertConversionsToRows converts API conversions to table rows
func convertConversionsToRows(conversions []Conversion) []table.Row {
	rows := make([]table.Row, len(conversions))
	for i, conv := range conversions {
		rows[i] = table.Row{
			conv.InventoryItemID,
			conv.RecipeUnit,
			conv.InventoryUnit,
			conv.Factor,
		}
	}
	return rows
}

// breakdownView creates a detailed view of a recipe cost breakdown
func breakdownView(name string, resp *BreakdownResponse) string {
	view := titleStyle.Render(name+" Cost Breakdown") + "\n\n"
	view += fmt.Sprintf("Total: %s\n\n", successStyle.Render(resp.Formatted))

	view += "Lines:\n"
	for i, line := range resp.Breakdown.Lines {
		marker := " "
		if line.HasUnitMismatch {
			marker = errorStyle.Render("!")
		}
		view += fmt.Sprintf("%d. %s %s - %s\n", i+1, marker, line.IngredientName, line.Cost)
	}

	if len(resp.Breakdown.Mismatches) > 0 {
		view += "\n" + infoStyle.Render("Unit mismatches:") + "\n"
		for _, mismatch := range resp.Breakdown.Mismatches {
			view += fmt.Sprintf("• %s: recipe uses %s, inventory priced in %s\n",
				mismatch.ItemName, mismatch.RecipeUnit, mismatch.InventoryUnit)
		}
	}

	view += "\nPress 'enter' or 'esc' to go back to the recipe list"

	return view
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v", err)
		os.Exit(1)
	}
}

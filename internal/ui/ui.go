package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/shared"
	"github.com/desertthunder/dish/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MealListView ViewState = iota
	SearchView
	DetailView
	FavoritesView
)

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	engine        *tasks.Engine
	view          ViewState
	prev          ViewState
	filter        models.FilterType
	query         string
	width         int
	height        int
	mealList      list.Model
	favList       list.Model
	input         textinput.Model
	detail        tasks.DetailResult
	listLoading   bool
	detailLoading bool
	status        string
	err           error
	help          help.Model
	keys          keyMap
	openURL       func(string) error
}

// NewModel creates a TUI model that starts by browsing meals matching ft and query.
func NewModel(ctx context.Context, engine *tasks.Engine, ft models.FilterType, query string) *Model {
	input := textinput.New()
	input.CharLimit = 64

	return &Model{
		ctx:      ctx,
		engine:   engine,
		view:     MealListView,
		filter:   ft,
		query:    query,
		mealList: newList("", nil),
		favList:  newList("Favorites", nil),
		input:    input,
		help:     help.New(),
		keys:     newKeyMap(),
		openURL:  shared.OpenBrowser,
	}
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return l
}

// Init fetches the initial meal list and the favorites for the current session.
func (m *Model) Init() tea.Cmd {
	m.listLoading = true
	return tea.Batch(m.fetchMeals(), m.loadFavorites())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mealList.SetSize(msg.Width-4, msg.Height-8)
		m.favList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MealListView:
			return m.handleMealListKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case FavoritesView:
			return m.handleFavoritesKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgMealsFetched:
		data := msg.data.(mealsFetched)
		m.listLoading = false
		m.err = data.err
		m.mealList.Title = m.listTitle()
		m.refreshMealItems(data.meals)
		if data.err == nil && len(data.meals) == 0 {
			m.status = fmt.Sprintf("No meals found for %s %q", m.filter, m.query)
		}

	case MsgDetailFetched:
		res := msg.data.(tasks.DetailResult)
		if res.Stale {
			return m, nil
		}
		m.detailLoading = false
		m.detail = res

	case MsgFavoritesLoaded:
		err, _ := msg.data.(error)
		m.syncFavorites()
		if err != nil {
			m.status = describeError(err)
		}

	case MsgFavoriteToggled:
		data := msg.data.(favoriteToggled)
		m.syncFavorites()
		switch {
		case data.err == nil && data.on:
			m.status = styles.ok.Render(fmt.Sprintf("★ Saved %s", data.meal.Name))
		case data.err == nil:
			m.status = fmt.Sprintf("Removed %s", data.meal.Name)
		default:
			m.status = describeError(data.err)
		}

	case MsgBrowserOpened:
		if err, _ := msg.data.(error); err != nil {
			m.status = describeError(err)
		}
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case MealListView:
		return m.renderMealList()
	case SearchView:
		return m.renderSearch()
	case DetailView:
		return m.renderDetail()
	case FavoritesView:
		return m.renderFavorites()
	default:
		return ""
	}
}

func (m *Model) handleMealListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		return m, m.startSearch()
	case key.Matches(msg, m.keys.favorites):
		m.showFavorites()
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		m.listLoading = true
		return m, m.fetchMeals()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.mealList.SelectedItem().(mealItem); ok {
			return m, m.openDetail(item.meal.Name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.mealList, cmd = m.mealList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.input.Blur()
		m.view = MealListView
		return m, nil
	case tea.KeyTab:
		m.filter = nextFilter(m.filter)
		m.input.Placeholder = placeholder(m.filter)
		return m, nil
	case tea.KeyEnter:
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.query = query
		m.input.Blur()
		m.view = MealListView
		m.status = ""
		m.listLoading = true
		return m, m.fetchMeals()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = m.prev
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.favorites):
		m.showFavorites()
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if m.detail.Meal == nil {
			return m, nil
		}
		return m, m.toggleFavorite(m.detail.Meal.Summary())
	case key.Matches(msg, m.keys.open):
		if m.detail.Meal == nil {
			return m, nil
		}
		return m, m.openSource(m.detail.Meal)
	}
	return m, nil
}

func (m *Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = MealListView
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.loadFavorites()
	case key.Matches(msg, m.keys.favorite):
		if item, ok := m.favList.SelectedItem().(favoriteItem); ok {
			return m, m.toggleFavorite(item.entry.Summary())
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.favList.SelectedItem().(favoriteItem); ok {
			return m, m.openDetail(item.entry.MealName)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.favList, cmd = m.favList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case MealListView:
		m.mealList, cmd = m.mealList.Update(msg)
	case FavoritesView:
		m.favList, cmd = m.favList.Update(msg)
	case SearchView:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) startSearch() tea.Cmd {
	m.view = SearchView
	m.input.SetValue("")
	m.input.Placeholder = placeholder(m.filter)
	return m.input.Focus()
}

func (m *Model) showFavorites() {
	m.syncFavorites()
	m.view = FavoritesView
	m.status = ""
}

func (m *Model) openDetail(name string) tea.Cmd {
	if m.view != DetailView {
		m.prev = m.view
	}
	m.view = DetailView
	m.detail = tasks.DetailResult{Name: name}
	m.detailLoading = true
	m.status = ""
	return m.fetchDetail(name)
}

// syncFavorites rebuilds both lists from the favorites store.
func (m *Model) syncFavorites() {
	store := m.engine.Favorites()
	m.favList.SetItems(favoriteItems(store.Favorites()))
	m.refreshMealItems(m.engine.Lookup().Results())
}

func (m *Model) refreshMealItems(meals []models.MealSummary) {
	m.mealList.SetItems(mealItems(meals, m.engine.Favorites().Contains))
}

func (m *Model) fetchMeals() tea.Cmd {
	ft, query := m.filter, m.query
	return func() tea.Msg {
		meals, err := m.engine.Lookup().SearchByFilter(m.ctx, ft, query)
		return mealsFetchedMsg(meals, err)
	}
}

func (m *Model) fetchDetail(name string) tea.Cmd {
	return func() tea.Msg {
		return detailFetchedMsg(m.engine.Lookup().FetchDetail(m.ctx, name))
	}
}

func (m *Model) loadFavorites() tea.Cmd {
	return func() tea.Msg {
		return favoritesLoadedMsg(m.engine.Restore(m.ctx))
	}
}

func (m *Model) toggleFavorite(meal models.MealSummary) tea.Cmd {
	return func() tea.Msg {
		on, err := m.engine.Favorites().Toggle(m.ctx, meal)
		return favoriteToggledMsg(meal, on, err)
	}
}

func (m *Model) openSource(meal *models.MealDetail) tea.Cmd {
	link := meal.Source
	if link == "" {
		link = meal.Video
	}
	return func() tea.Msg {
		if link == "" {
			return browserOpenedMsg(fmt.Errorf("%w: %s has no source link", shared.ErrMissingArgument, meal.Name))
		}
		return browserOpenedMsg(m.openURL(link))
	}
}

func (m *Model) listTitle() string {
	if m.query == "" {
		return "Meals"
	}
	return fmt.Sprintf("Meals · %s: %s", m.filter, m.query)
}

func (m *Model) renderMealList() string {
	var b strings.Builder
	b.WriteString(m.mealList.View())
	b.WriteString("\n")

	switch {
	case m.listLoading:
		b.WriteString(styles.meta.Render("Loading..."))
	case m.err != nil:
		b.WriteString(styles.err.Render(describeError(m.err)))
	case m.status != "":
		b.WriteString(m.status)
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.favorites, m.keys.refresh, m.keys.quit}
	fmt.Fprintf(&b, "\n\n%s", m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderSearch() string {
	title := styles.title.Render(fmt.Sprintf("Search by %s", m.filter))

	var suggestions string
	if hints := tasks.Suggest(m.filter, m.input.Value()); len(hints) > 0 {
		if len(hints) > 6 {
			hints = hints[:6]
		}
		suggestions = "\n\n" + styles.meta.Render(strings.Join(hints, " · "))
	}

	helpKeys := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		m.keys.filter,
		m.keys.back,
	}
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, m.input.View(), suggestions, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	helpKeys := []key.Binding{m.keys.favorite, m.keys.open, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	res := m.detail
	switch {
	case m.detailLoading:
		return fmt.Sprintf("%s\n\n%s", styles.meta.Render(fmt.Sprintf("Loading %s...", res.Name)), helpView)
	case res.Err != nil:
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(describeError(res.Err)), helpView)
	case res.NotFound || res.Meal == nil:
		return fmt.Sprintf("%s\n\n%s", styles.warn.Render(fmt.Sprintf("No recipe found for %q", res.Name)), helpView)
	}

	meal := res.Meal
	name := meal.Name
	if m.engine.Favorites().Contains(meal.ID) {
		name = styles.star.Render("★ ") + name
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(name))
	b.WriteString("\n")

	meta := slices.DeleteFunc([]string{meal.Category, meal.Area, strings.Join(meal.Tags, ", ")}, func(s string) bool { return s == "" })
	b.WriteString(styles.meta.Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")

	for i, ing := range meal.Ingredients {
		line := "• " + ing
		if i < len(meal.Measures) && meal.Measures[i] != "" {
			line += " " + styles.meta.Render("("+meal.Measures[i]+")")
		}
		b.WriteString(line + "\n")
	}

	if meal.Instructions != "" {
		width := m.width - 4
		if width < 20 {
			width = 80
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(meal.Instructions)))
		b.WriteString("\n")
	}

	if m.status != "" {
		fmt.Fprintf(&b, "\n%s\n", m.status)
	}
	fmt.Fprintf(&b, "\n%s", helpView)
	return b.String()
}

func (m *Model) renderFavorites() string {
	store := m.engine.Favorites()

	var body string
	switch {
	case !m.engine.Session().Authenticated():
		body = styles.warn.Render("Not logged in. Run `dish auth login` to see your favorites.")
	case store.State() == tasks.StateLoading:
		body = styles.meta.Render("Loading favorites...")
	case store.State() == tasks.StateErrored && len(store.Favorites()) == 0:
		body = styles.err.Render(describeError(store.Err()))
	default:
		body = m.favList.View()
	}

	if m.status != "" {
		body += "\n" + m.status
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.favorite, m.keys.refresh, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", body, m.help.ShortHelpView(helpKeys))
}

// describeError turns store errors into something a user can act on.
func describeError(err error) string {
	switch shared.Classify(err) {
	case shared.KindNone:
		return ""
	case shared.KindUnauthenticated:
		return styles.warn.Render("Log in with `dish auth login` to save favorites.")
	case shared.KindSessionExpired:
		return styles.warn.Render("Your session has expired. Run `dish auth login` again.")
	case shared.KindConflict:
		return styles.warn.Render("Already in favorites.")
	case shared.KindNotFound:
		return styles.warn.Render("Not found.")
	}
	if errors.Is(err, shared.ErrServiceUnavailable) {
		return styles.err.Render("The service is unavailable. Try again shortly.")
	}
	return styles.err.Render(fmt.Sprintf("Error: %v", err))
}

func nextFilter(ft models.FilterType) models.FilterType {
	i := slices.Index(models.FilterTypes, ft)
	return models.FilterTypes[(i+1)%len(models.FilterTypes)]
}

func placeholder(ft models.FilterType) string {
	switch ft {
	case models.FilterCategory:
		return "Seafood"
	case models.FilterArea:
		return "Italian"
	case models.FilterIngredient:
		return "chicken_breast"
	case models.FilterFirstLetter:
		return "a"
	default:
		return ""
	}
}

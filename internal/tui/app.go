package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/endpoint/internal/config"
	"github.com/jask/endpoint/internal/database/repository"
	"github.com/jask/endpoint/internal/grid"
	"github.com/jask/endpoint/internal/keys"
	"github.com/jask/endpoint/internal/service"
)

// App ties together views.
type App struct {
	ctx      context.Context
	cfg      config.Config
	repos    Repos
	services Services
	keys     *keys.Registry
	state    appState

	view   *grid.View
	table  table.Model
	rowIDs []grid.RecordID

	requests       []repository.DataRequest
	registers      []repository.Register
	registerCursor int
	source         *repository.DataSource
	lines          []repository.SourcePoint
	bars           []repository.SourcePoint
	duplicates     []service.DuplicatePair

	help         help.Model
	showHelp     bool
	confirmReset bool
	status       string
	lastImport   *service.IngestResult
	width        int
	height       int
}

type Repos struct {
	Requests  *repository.RequestRepo
	Registers *repository.RegisterRepo
	Sources   *repository.SourceRepo
}

type Services struct {
	Ingest      *service.IngestService
	Status      *service.StatusService
	Duplicates  *service.DuplicateFinder
	Maintenance *service.MaintenanceService
}

type appState string

const (
	viewDashboard appState = "dashboard"
	viewSource    appState = "source"
)

func New(ctx context.Context, cfg config.Config, repos Repos, services Services, registry *keys.Registry) *App {
	if registry == nil {
		registry = keys.NewRegistry()
	}
	t := table.New(table.WithFocused(true), table.WithHeight(10))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = styles.Selected.Bold(true)
	t.SetStyles(styles)
	return &App{
		ctx:      ctx,
		cfg:      cfg,
		repos:    repos,
		services: services,
		keys:     registry,
		state:    viewDashboard,
		table:    t,
		help:     help.New(),
		width:    110,
		height:   40,
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadCmd()
}

func (a *App) loadCmd() tea.Cmd {
	return func() tea.Msg {
		reqs, err := a.repos.Requests.List(a.ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load requests: %w", err)}
		}
		regs, err := a.repos.Registers.List(a.ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load registers: %w", err)}
		}
		msg := dataMsg{requests: reqs, registers: regs}
		sources, err := a.repos.Sources.List(a.ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load sources: %w", err)}
		}
		if len(sources) > 0 {
			src := sources[0]
			msg.source = &src
			if msg.lines, err = a.repos.Sources.Points(a.ctx, src.ID, repository.PointLine); err != nil {
				return errMsg{err}
			}
			if msg.bars, err = a.repos.Sources.Points(a.ctx, src.ID, repository.PointBar); err != nil {
				return errMsg{err}
			}
		}
		if a.services.Duplicates != nil {
			msg.duplicates = a.services.Duplicates.Pairs(reqs)
		}
		return msg
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.syncTable()
	case tea.KeyMsg:
		return a.handleKey(m)
	case dataMsg:
		a.applyData(m)
	case advancedMsg:
		a.status = fmt.Sprintf("advanced %d of %d requests", m.changed, m.requested)
		return a, a.loadCmd()
	case ingestDoneMsg:
		a.lastImport = &m.Result
		summary := fmt.Sprintf("imported %d, skipped %d", m.Result.Imported, m.Result.Skipped)
		if len(m.Result.Errors) > 0 {
			summary += fmt.Sprintf(", errors %d (first: %v)", len(m.Result.Errors), m.Result.Errors[0])
		}
		a.status = summary
		return a, a.loadCmd()
	case resetDoneMsg:
		a.status = "data reset"
		a.registerCursor = 0
		if a.view != nil {
			a.view.ClearSelection()
		}
		return a, a.loadCmd()
	case ReloadMsg:
		return a, a.loadCmd()
	case FileChangedMsg:
		return a, a.ingestCmd()
	case statusMsg:
		a.status = string(m)
		return a, a.loadCmd()
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) scope() string {
	if a.state == viewSource {
		return keys.ScopeSource
	}
	return keys.ScopeDashboard
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.confirmReset {
		a.confirmReset = false
		if m.String() == "y" {
			a.status = "resetting..."
			return a, a.resetCmd()
		}
		a.status = "reset cancelled"
		return a, nil
	}
	action := a.keys.Action(m.String(), a.scope())
	if col, ok := keys.SortColumn(action); ok {
		a.sortBy(col)
		return a, nil
	}
	switch action {
	case keys.ActionQuit:
		return a, tea.Quit
	case keys.ActionSwitch:
		if a.state == viewDashboard {
			a.state = viewSource
		} else {
			a.state = viewDashboard
		}
	case keys.ActionHelp:
		a.showHelp = !a.showHelp
	case keys.ActionUp:
		a.table.MoveUp(1)
	case keys.ActionDown:
		a.table.MoveDown(1)
	case keys.ActionToggle:
		if id, ok := a.cursorID(); ok && a.view != nil {
			a.view.ToggleSelect(id)
			a.syncTable()
		}
	case keys.ActionClear:
		if a.view != nil {
			a.view.ClearSelection()
			a.syncTable()
		}
	case keys.ActionAdvance:
		return a, a.advanceCmd()
	case keys.ActionRefresh:
		a.status = "refreshing..."
		return a, a.loadCmd()
	case keys.ActionImport:
		return a, a.ingestCmd()
	case keys.ActionRegister:
		if len(a.registers) > 0 {
			a.registerCursor = (a.registerCursor + 1) % len(a.registers)
		}
	case keys.ActionStage:
		return a, a.registerStageCmd()
	case keys.ActionReset:
		if a.services.Maintenance != nil {
			a.confirmReset = true
			a.status = "reset all data? press y to confirm"
		}
	}
	return a, nil
}

func (a *App) sortBy(col int) {
	if a.view == nil || col >= len(requestColumns) {
		return
	}
	if err := a.view.Sort(requestColumns[col].Name); err != nil {
		a.status = "error: " + err.Error()
		return
	}
	a.syncTable()
}

func (a *App) applyData(m dataMsg) {
	a.requests = m.requests
	a.registers = m.registers
	a.source = m.source
	a.lines = m.lines
	a.bars = m.bars
	a.duplicates = m.duplicates
	if a.registerCursor >= len(a.registers) {
		a.registerCursor = 0
	}
	records := toRecords(m.requests)
	if a.view == nil {
		v, err := a.newView(records)
		if err != nil {
			a.status = "error: " + err.Error()
			return
		}
		a.view = v
	} else if err := a.view.Refresh(records); err != nil {
		a.status = "error: " + err.Error()
		return
	}
	a.syncTable()
}

// newView builds the grid with the configured initial sort, falling back to
// date descending when the configured sort is unusable.
func (a *App) newView(records []grid.Record) (*grid.View, error) {
	dir, err := a.cfg.Direction()
	if err == nil {
		v, err := grid.New(requestColumns, records, grid.WithInitialSort(a.cfg.Table.SortColumn, dir))
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, grid.ErrUnknownColumn) {
			return nil, err
		}
	}
	a.status = "invalid table sort config, using date desc"
	return grid.New(requestColumns, records, grid.WithInitialSort("date", grid.Descending))
}

// syncTable repaints the table from the grid read model and keeps the cursor
// on the same record when it is still present.
func (a *App) syncTable() {
	if a.view == nil {
		return
	}
	current, hadCursor := a.cursorID()
	rm := a.view.ReadModel()
	a.rowIDs = rm.IDs()
	a.table.SetColumns(tableColumns(rm))
	a.table.SetRows(tableRows(rm, a.cfg.UI.DateFormat))
	a.table.SetWidth(max(40, a.width-4))
	a.table.SetHeight(max(3, min(len(a.rowIDs)+1, a.height/3)))
	cursor := a.table.Cursor()
	if hadCursor {
		if i := slices.Index(a.rowIDs, current); i >= 0 {
			cursor = i
		}
	}
	cursor = min(cursor, len(a.rowIDs)-1)
	a.table.SetCursor(max(cursor, 0))
}

func (a *App) cursorID() (grid.RecordID, bool) {
	i := a.table.Cursor()
	if i < 0 || i >= len(a.rowIDs) {
		return "", false
	}
	return a.rowIDs[i], true
}

// targetIDs is the selection, or the cursor row when nothing is selected.
func (a *App) targetIDs() []int64 {
	var ids []grid.RecordID
	if a.view != nil {
		ids = a.view.SelectedIDs()
	}
	if len(ids) == 0 {
		if id, ok := a.cursorID(); ok {
			ids = []grid.RecordID{id}
		}
	}
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if n, ok := recordIDToInt(id); ok {
			out = append(out, n)
		}
	}
	return out
}

// commands

func (a *App) advanceCmd() tea.Cmd {
	ids := a.targetIDs()
	if len(ids) == 0 || a.services.Status == nil {
		return nil
	}
	return func() tea.Msg {
		n, err := a.services.Status.Advance(a.ctx, ids)
		if err != nil {
			return errMsg{err}
		}
		return advancedMsg{changed: n, requested: len(ids)}
	}
}

func (a *App) ingestCmd() tea.Cmd {
	path := a.cfg.Import.Path
	if path == "" || a.services.Ingest == nil {
		return func() tea.Msg { return errMsg{errors.New("no import path configured")} }
	}
	return func() tea.Msg {
		res, err := a.services.Ingest.ImportFile(a.ctx, path)
		if err != nil {
			return errMsg{err}
		}
		return ingestDoneMsg{Result: res}
	}
}

func (a *App) registerStageCmd() tea.Cmd {
	if len(a.registers) == 0 {
		return nil
	}
	reg := a.registers[a.registerCursor]
	next := (reg.Stage + 1) % len(repository.Stages)
	return func() tea.Msg {
		if err := a.repos.Registers.SetStage(a.ctx, reg.ID, next); err != nil {
			return errMsg{err}
		}
		return statusMsg(fmt.Sprintf("%s: %s", reg.Name, repository.Stages[next]))
	}
}

func (a *App) resetCmd() tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Maintenance.Reset(a.ctx); err != nil {
			return errMsg{err}
		}
		return resetDoneMsg{}
	}
}

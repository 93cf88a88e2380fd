package tui

import (
	"github.com/jask/endpoint/internal/database/repository"
	"github.com/jask/endpoint/internal/service"
)

type errMsg struct{ error }

type statusMsg string

type dataMsg struct {
	requests   []repository.DataRequest
	registers  []repository.Register
	source     *repository.DataSource
	lines      []repository.SourcePoint
	bars       []repository.SourcePoint
	duplicates []service.DuplicatePair
}

type advancedMsg struct {
	changed, requested int
}

type ingestDoneMsg struct {
	Result service.IngestResult
}

type resetDoneMsg struct{}

// ReloadMsg asks the app to reload everything from the database. It is sent
// by the refresh scheduler.
type ReloadMsg struct{}

// FileChangedMsg asks the app to re-import the configured CSV. It is sent by
// the import watcher.
type FileChangedMsg struct{}

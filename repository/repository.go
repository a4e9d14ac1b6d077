// Package repository loads the historical and future exogenous tables of each entity and
// prepares them for training.
package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/aouyang1/go-salesforecaster/segment"
	"github.com/aouyang1/go-salesforecaster/timedataset"
)

var (
	ErrDataUnavailable = errors.New("entity data unavailable")
	ErrMalformedData   = errors.New("malformed entity data")
)

// DateColumn is the date index column of every entity file
const DateColumn = "Date"

// DataSource returns the history and future exogenous frames of an entity. Callers own the
// returned frames.
type DataSource interface {
	Fetch(entity segment.Entity) (history, exog *timedataset.Frame, err error)
}

// CSVRepository reads {slug}_history.csv and {slug}_exog.csv for each entity
type CSVRepository struct {
	fsys fs.FS
}

// NewCSVRepository reads entity files from dir on disk
func NewCSVRepository(dir string) *CSVRepository {
	return NewCSVRepositoryFS(os.DirFS(dir))
}

// NewCSVRepositoryFS reads entity files from the root of fsys
func NewCSVRepositoryFS(fsys fs.FS) *CSVRepository {
	return &CSVRepository{fsys: fsys}
}

func HistoryFile(entity segment.Entity) string {
	return entity.Slug() + "_history.csv"
}

func ExogFile(entity segment.Entity) string {
	return entity.Slug() + "_exog.csv"
}

func (r *CSVRepository) Fetch(entity segment.Entity) (*timedataset.Frame, *timedataset.Frame, error) {
	if !entity.Valid() {
		return nil, nil, fmt.Errorf("%s, %w", entity, ErrDataUnavailable)
	}
	history, err := r.read(HistoryFile(entity))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load %s history, %w", entity, err)
	}
	exog, err := r.read(ExogFile(entity))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load %s exogenous data, %w", entity, err)
	}
	return history, exog, nil
}

func (r *CSVRepository) read(name string) (*timedataset.Frame, error) {
	f, err := r.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%v, %w", err, ErrDataUnavailable)
	}
	defer f.Close()

	frame, err := timedataset.ReadCSV(f, DateColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %v, %w", name, err, ErrMalformedData)
	}
	return frame, nil
}

type entry struct {
	history *timedataset.Frame
	exog    *timedataset.Frame
}

// Memory is an in process DataSource
type Memory struct {
	mu      sync.RWMutex
	entries map[segment.Entity]entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[segment.Entity]entry)}
}

// Put stores copies of the entity frames
func (m *Memory) Put(entity segment.Entity, history, exog *timedataset.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entity] = entry{history: history.Copy(), exog: exog.Copy()}
}

func (m *Memory) Fetch(entity segment.Entity) (*timedataset.Frame, *timedataset.Frame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, exists := m.entries[entity]
	if !exists {
		return nil, nil, fmt.Errorf("%s, %w", entity, ErrDataUnavailable)
	}
	return e.history.Copy(), e.exog.Copy(), nil
}

package packs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/mushroomman/game/engine"
	"github.com/wricardo/mushroomman/game/service"
	"github.com/wricardo/mushroomman/levels"
)

var (
	ErrPackNotFound = errors.New("level pack not found")
	ErrInvalidPack  = errors.New("invalid level pack")
)

// Ext is the file extension of level packs
const Ext = ".dat"

// Manager handles level pack loading and caching
type Manager struct {
	packDir     string
	seq         *engine.Sequence
	opts        []engine.ParseOption
	defaultID   string
	defaultPack *engine.LevelPack
	packs       map[string]*engine.LevelPack
	mu          sync.RWMutex
}

// NewManager creates a new pack manager. Levels of every pack it parses are
// numbered from one shared sequence. The embedded classic pack is always
// available, even when packDir is missing.
func NewManager(packDir, defaultID string, opts ...engine.ParseOption) (*Manager, error) {
	if _, err := os.Stat(packDir); os.IsNotExist(err) {
		log.Warnf("Level pack directory %s does not exist, only the embedded pack is available", packDir)
	}
	if defaultID == "" {
		defaultID = levels.BuiltinID
	}

	m := &Manager{
		packDir: packDir,
		seq:     engine.NewSequence(),
		opts:    opts,
		packs:   make(map[string]*engine.LevelPack),
	}

	if err := m.loadDefaultPack(defaultID); err != nil {
		return nil, fmt.Errorf("failed to load default pack: %w", err)
	}

	return m, nil
}

// PackID normalises a pack name or filename into its id
func PackID(name string) string {
	return strings.TrimSuffix(strings.TrimSpace(name), Ext)
}

// LoadPack loads a level pack by id or filename
func (m *Manager) LoadPack(name string) (*engine.LevelPack, error) {
	id := PackID(name)

	m.mu.RLock()
	// Check cache first
	if pack, exists := m.packs[id]; exists {
		m.mu.RUnlock()
		return pack, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if pack, exists := m.packs[id]; exists {
		return pack, nil
	}

	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return nil, fmt.Errorf("%w: %q", ErrPackNotFound, name)
	}

	filename := id + Ext
	data, err := os.ReadFile(filepath.Join(m.packDir, filename))
	switch {
	case err == nil:
	case os.IsNotExist(err) && id == levels.BuiltinID:
		filename = "embedded " + filename
		data = levels.Classic
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %s", ErrPackNotFound, id)
	default:
		return nil, fmt.Errorf("failed to read level pack: %w", err)
	}

	pack, err := engine.ParseLevelPack(data, m.seq, m.opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPack, id, err)
	}
	log.Printf("Found %d levels in %s", pack.Len(), filename)

	m.packs[id] = pack
	return pack, nil
}

// ListPacks returns information about all available packs
func (m *Manager) ListPacks() ([]*service.PackInfo, error) {
	var names []string
	entries, err := os.ReadDir(m.packDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read pack directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	builtinOnDisk := false
	defaultID := m.DefaultID()
	var infos []*service.PackInfo

	for _, filename := range names {
		id := PackID(filename)
		if id == levels.BuiltinID {
			builtinOnDisk = true
		}
		pack, err := m.LoadPack(id)
		if err != nil {
			// Skip invalid packs
			log.Debugf("Skipping level pack %s: %v", filename, err)
			continue
		}
		infos = append(infos, packInfo(id, filename, pack, id == defaultID))
	}

	if !builtinOnDisk {
		if pack, err := m.LoadPack(levels.BuiltinID); err == nil {
			infos = append(infos, packInfo(levels.BuiltinID, "", pack, defaultID == levels.BuiltinID))
		}
	}

	return infos, nil
}

func packInfo(id, filename string, pack *engine.LevelPack, isDefault bool) *service.PackInfo {
	return &service.PackInfo{
		PackID:     id,
		Filename:   filename,
		Levels:     pack.Len(),
		FirstLevel: pack.First().Number,
		Checksum:   pack.Checksum,
		Default:    isDefault,
	}
}

// GetDefault returns the default pack
func (m *Manager) GetDefault() *engine.LevelPack {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultPack
}

// DefaultID returns the id of the default pack
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default pack by id
func (m *Manager) SetDefault(name string) error {
	pack, err := m.LoadPack(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = PackID(name)
	m.defaultPack = pack
	return nil
}

// ReloadPack forces a reload of one pack from disk
func (m *Manager) ReloadPack(name string) error {
	id := PackID(name)

	m.mu.Lock()
	delete(m.packs, id)
	isDefault := id == m.defaultID
	m.mu.Unlock()

	pack, err := m.LoadPack(id)
	if err != nil {
		return err
	}
	if isDefault {
		m.mu.Lock()
		m.defaultPack = pack
		m.mu.Unlock()
	}
	return nil
}

// Count returns the number of cached packs
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.packs)
}

// RefreshCache drops every cached pack and reloads the default from disk.
// Reloaded packs draw new level numbers from the shared sequence.
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.packs = make(map[string]*engine.LevelPack)
	id := m.defaultID
	m.mu.Unlock()

	return m.loadDefaultPack(id)
}

// loadDefaultPack loads the named pack as default, falling back to the embedded pack
func (m *Manager) loadDefaultPack(id string) error {
	if err := m.SetDefault(id); err != nil {
		if id == levels.BuiltinID {
			return err
		}
		log.Warnf("Default pack %s unavailable (%v), using %s", id, err, levels.BuiltinID)
		return m.SetDefault(levels.BuiltinID)
	}
	return nil
}

package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/graphsim/internal/config"
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/forcegraph"
)

const (
	metadataFile  = "metadata.json"
	configFile    = "config.yaml"
	historyFile   = "history.csv"
	positionsFile = "positions.csv"
)

// ErrRaggedHistory is returned by Save when metric series differ in length.
var ErrRaggedHistory = errors.New("metric history series differ in length")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata summarises a saved run. The graph itself is not stored; it is
// rebuilt from the saved config.
type RunMetadata struct {
	ID         string             `json:"id"`
	Generator  string             `json:"generator"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Nodes      int                `json:"nodes"`
	Edges      int                `json:"edges"`
	Ticks      int                `json:"ticks"`
	ElapsedSec float64            `json:"elapsed_sec"`
	Settled    bool               `json:"settled"`
	Radius     float64            `json:"radius"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// NodeRecord is one row of positions.csv.
type NodeRecord struct {
	ID       forcegraph.NodeID `json:"id"`
	Location r3.Vec            `json:"location"`
	Velocity r3.Vec            `json:"velocity"`
	Mass     float64           `json:"mass"`
	Group    uuid.UUID         `json:"group"`
	Locked   bool              `json:"locked"`
}

func newRunID(generator string) string {
	return fmt.Sprintf("%s_%s", generator, uuid.NewString()[:8])
}

// Save writes the run's metadata, config, metric history and final node
// kinematics under a fresh run directory and returns the run ID.
func (s *Store) Save(cfg *config.Config, w *forcegraph.World, result *dynamo.Result) (string, error) {
	runID := newRunID(cfg.Graph.Generator)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Generator:  cfg.Graph.Generator,
		Timestamp:  time.Now(),
		Seed:       cfg.Graph.Seed,
		Nodes:      w.NodeCount(),
		Edges:      w.EdgeCount(),
		Ticks:      result.TicksTaken,
		ElapsedSec: result.Elapsed.Seconds(),
		Settled:    result.Settled,
		Radius:     w.Radius(),
		Metrics:    result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeRun(runDir, cfg, w, result, meta); err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			slog.Warn("failed to remove partial run", "dir", runDir, "err", rmErr)
		}
		return "", fmt.Errorf("save run %s: %w", runID, err)
	}

	slog.Info("saved run", "id", runID, "dir", runDir, "ticks", result.TicksTaken)
	return runID, nil
}

// writeRun writes metadata.json last, so List never sees a run whose data
// files are missing.
func writeRun(runDir string, cfg *config.Config, w *forcegraph.World, result *dynamo.Result, meta RunMetadata) error {
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return err
	}
	if err := writeHistory(filepath.Join(runDir, historyFile), result.History); err != nil {
		return err
	}
	if err := writePositions(filepath.Join(runDir, positionsFile), w.Snapshot()); err != nil {
		return err
	}
	return writeJSON(filepath.Join(runDir, metadataFile), meta)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func metricNames(history map[string][]float64) []string {
	names := make([]string, 0, len(history))
	for name := range history {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeHistory(path string, history map[string][]float64) error {
	names := metricNames(history)
	rows := 0
	if len(names) > 0 {
		rows = len(history[names[0]])
	}
	for _, name := range names {
		if len(history[name]) != rows {
			return fmt.Errorf("%w: %s has %d values, %s has %d", ErrRaggedHistory, name, len(history[name]), names[0], rows)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"tick"}, names...)); err != nil {
		return err
	}

	for i := 0; i < rows; i++ {
		row := []string{strconv.Itoa(i)}
		for _, name := range names {
			row = append(row, strconv.FormatFloat(history[name][i], 'g', 10, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writePositions(path string, nodes []forcegraph.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "x", "y", "z", "vx", "vy", "vz", "mass", "group", "locked"}); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i, n := range nodes {
		row := []string{
			strconv.Itoa(i),
			format(n.Location.X), format(n.Location.Y), format(n.Location.Z),
			format(n.Velocity.X), format(n.Velocity.Y), format(n.Velocity.Z),
			format(n.Mass()),
			n.Group.String(),
			strconv.FormatBool(n.Locked),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			slog.Debug("skipping run directory", "dir", entry.Name(), "err", err)
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadConfig returns the configuration the run was made with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile), nil)
}

// Path returns the path of a file inside a run directory.
func (s *Store) Path(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name)
}

// HistoryPath is the path of the run's metric history CSV.
func (s *Store) HistoryPath(runID string) string { return s.Path(runID, historyFile) }

// PositionsPath is the path of the run's final positions CSV.
func (s *Store) PositionsPath(runID string) string { return s.Path(runID, positionsFile) }

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadHistory returns the per-tick series of every metric recorded in the run.
func (s *Store) LoadHistory(runID string) (map[string][]float64, error) {
	records, err := readCSV(s.HistoryPath(runID))
	if err != nil {
		return nil, err
	}

	history := make(map[string][]float64)
	if len(records) == 0 {
		return history, nil
	}

	header := records[0]
	for _, name := range header[1:] {
		history[name] = make([]float64, 0, len(records)-1)
	}

	for _, record := range records[1:] {
		for j := 1; j < len(record) && j < len(header); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: %s: %w", runID, historyFile, err)
			}
			history[header[j]] = append(history[header[j]], val)
		}
	}

	return history, nil
}

// LoadPositions returns the final kinematics of every node in the run.
func (s *Store) LoadPositions(runID string) ([]NodeRecord, error) {
	records, err := readCSV(s.PositionsPath(runID))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []NodeRecord{}, nil
	}

	out := make([]NodeRecord, 0, len(records)-1)
	for line, record := range records[1:] {
		rec, err := parseNode(record)
		if err != nil {
			return nil, fmt.Errorf("run %s: %s line %d: %w", runID, positionsFile, line+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseNode(record []string) (NodeRecord, error) {
	if len(record) != 10 {
		return NodeRecord{}, fmt.Errorf("expected 10 fields, got %d", len(record))
	}

	id, err := strconv.Atoi(record[0])
	if err != nil {
		return NodeRecord{}, err
	}
	nums := make([]float64, 7)
	for i := range nums {
		if nums[i], err = strconv.ParseFloat(record[i+1], 64); err != nil {
			return NodeRecord{}, err
		}
	}
	group, err := uuid.Parse(record[8])
	if err != nil {
		return NodeRecord{}, err
	}
	locked, err := strconv.ParseBool(record[9])
	if err != nil {
		return NodeRecord{}, err
	}

	return NodeRecord{
		ID:       forcegraph.NodeID(id),
		Location: r3.Vec{X: nums[0], Y: nums[1], Z: nums[2]},
		Velocity: r3.Vec{X: nums[3], Y: nums[4], Z: nums[5]},
		Mass:     nums[6],
		Group:    group,
		Locked:   locked,
	}, nil
}

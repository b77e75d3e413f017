package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/dan-solli/retrospect/pkg/analysis"
)

// SQLiteArtifactStore implements ArtifactStore using SQLite as the backend.
type SQLiteArtifactStore struct {
	db *sql.DB
}

// NewSQLiteArtifactStore creates a new SQLite-backed artifact store.
// The dbPath can be a file path or ":memory:" for an in-memory database.
// Creates tables if they don't exist.
func NewSQLiteArtifactStore(dbPath string) (*SQLiteArtifactStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteArtifactStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates the artifact tables if they don't exist. Scalar fields
// are stored directly; list- and map-valued fields are serialized as JSON
// text.
func (s *SQLiteArtifactStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS causal_chains (
		id TEXT PRIMARY KEY,
		root_cause TEXT NOT NULL,
		sequence TEXT NOT NULL,
		chain_type TEXT NOT NULL,
		strength REAL NOT NULL,
		time_span_seconds REAL NOT NULL,
		resolution_fragment TEXT,
		mechanisms TEXT,
		branch_points TEXT,
		confidence_evolution TEXT,
		goal_connections TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_causal_chains_type ON causal_chains(chain_type);

	CREATE TABLE IF NOT EXISTS emotional_trajectories (
		id TEXT PRIMARY KEY,
		fragment_sequence TEXT NOT NULL,
		emotional_states TEXT NOT NULL,
		intensity_scores TEXT NOT NULL,
		transition_triggers TEXT,
		peak_moments TEXT,
		recovery_patterns TEXT,
		growth_indicators TEXT,
		trend TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_trajectories_trend ON emotional_trajectories(trend);

	CREATE TABLE IF NOT EXISTS milestone_events (
		id TEXT PRIMARY KEY,
		fragment_id TEXT NOT NULL,
		milestone_type TEXT NOT NULL,
		significance REAL NOT NULL,
		prerequisites TEXT,
		consequences TEXT,
		learning_summary TEXT,
		competency_impact TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_milestones_type ON milestone_events(milestone_type);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveCausalChains upserts a batch of chains in one transaction.
func (s *SQLiteArtifactStore) SaveCausalChains(ctx context.Context, chains []analysis.CausalChain) error {
	if len(chains) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT OR REPLACE INTO causal_chains
		(id, root_cause, sequence, chain_type, strength, time_span_seconds,
		 resolution_fragment, mechanisms, branch_points, confidence_evolution,
		 goal_connections, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, chain := range chains {
		cols, err := marshalAll(chain.Sequence, chain.CausalMechanisms, chain.BranchPoints,
			chain.ConfidenceEvolution, chain.GoalConnections)
		if err != nil {
			return fmt.Errorf("failed to marshal chain %s: %w", chain.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query,
			chain.ID,
			chain.RootCause,
			cols[0],
			string(chain.ChainType),
			chain.Strength,
			chain.TimeSpan.Seconds(),
			nullable(chain.ResolutionFragment),
			cols[1],
			cols[2],
			cols[3],
			cols[4],
			chain.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to save chain %s: %w", chain.ID, err)
		}
	}

	return tx.Commit()
}

// SaveEmotionalTrajectories upserts a batch of trajectories in one
// transaction.
func (s *SQLiteArtifactStore) SaveEmotionalTrajectories(ctx context.Context, trajectories []analysis.EmotionalTrajectory) error {
	if len(trajectories) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT OR REPLACE INTO emotional_trajectories
		(id, fragment_sequence, emotional_states, intensity_scores,
		 transition_triggers, peak_moments, recovery_patterns,
		 growth_indicators, trend, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, traj := range trajectories {
		cols, err := marshalAll(traj.FragmentSequence, traj.EmotionalStates, traj.IntensityScores,
			traj.TransitionTriggers, traj.PeakMoments, traj.RecoveryPatterns, traj.GrowthIndicators)
		if err != nil {
			return fmt.Errorf("failed to marshal trajectory %s: %w", traj.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query,
			traj.ID,
			cols[0],
			cols[1],
			cols[2],
			cols[3],
			cols[4],
			cols[5],
			cols[6],
			traj.Trend,
			traj.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to save trajectory %s: %w", traj.ID, err)
		}
	}

	return tx.Commit()
}

// SaveMilestones upserts a batch of milestones in one transaction.
func (s *SQLiteArtifactStore) SaveMilestones(ctx context.Context, milestones []analysis.MilestoneEvent) error {
	if len(milestones) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT OR REPLACE INTO milestone_events
		(id, fragment_id, milestone_type, significance, prerequisites,
		 consequences, learning_summary, competency_impact, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, m := range milestones {
		cols, err := marshalAll(m.Prerequisites, m.Consequences, m.CompetencyImpact)
		if err != nil {
			return fmt.Errorf("failed to marshal milestone %s: %w", m.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query,
			m.ID,
			m.FragmentID,
			string(m.MilestoneType),
			m.Significance,
			cols[0],
			cols[1],
			m.LearningSummary,
			cols[2],
			m.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to save milestone %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// LoadCausalChains hydrates every stored chain.
func (s *SQLiteArtifactStore) LoadCausalChains(ctx context.Context) ([]analysis.CausalChain, error) {
	query := `
		SELECT id, root_cause, sequence, chain_type, strength, time_span_seconds,
		       resolution_fragment, mechanisms, branch_points,
		       confidence_evolution, goal_connections, created_at
		FROM causal_chains
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query causal chains: %w", err)
	}
	defer rows.Close()

	var chains []analysis.CausalChain
	for rows.Next() {
		var chain analysis.CausalChain
		var chainType string
		var spanSeconds float64
		var resolution sql.NullString
		var seqJSON, mechJSON, branchJSON, confJSON, goalJSON []byte

		if err := rows.Scan(
			&chain.ID,
			&chain.RootCause,
			&seqJSON,
			&chainType,
			&chain.Strength,
			&spanSeconds,
			&resolution,
			&mechJSON,
			&branchJSON,
			&confJSON,
			&goalJSON,
			&chain.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chain: %w", err)
		}

		chain.ChainType = analysis.ChainType(chainType)
		chain.TimeSpan = time.Duration(spanSeconds * float64(time.Second))
		if resolution.Valid {
			chain.ResolutionFragment = resolution.String
		}
		if err := unmarshalAll(
			jsonCol{seqJSON, &chain.Sequence},
			jsonCol{mechJSON, &chain.CausalMechanisms},
			jsonCol{branchJSON, &chain.BranchPoints},
			jsonCol{confJSON, &chain.ConfidenceEvolution},
			jsonCol{goalJSON, &chain.GoalConnections},
		); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chain %s: %w", chain.ID, err)
		}

		chains = append(chains, chain)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chains: %w", err)
	}

	return chains, nil
}

// LoadEmotionalTrajectories hydrates every stored trajectory.
func (s *SQLiteArtifactStore) LoadEmotionalTrajectories(ctx context.Context) ([]analysis.EmotionalTrajectory, error) {
	query := `
		SELECT id, fragment_sequence, emotional_states, intensity_scores,
		       transition_triggers, peak_moments, recovery_patterns,
		       growth_indicators, trend, created_at
		FROM emotional_trajectories
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trajectories: %w", err)
	}
	defer rows.Close()

	var trajectories []analysis.EmotionalTrajectory
	for rows.Next() {
		var traj analysis.EmotionalTrajectory
		var seqJSON, statesJSON, intensityJSON, triggersJSON, peaksJSON, recoveryJSON, growthJSON []byte

		if err := rows.Scan(
			&traj.ID,
			&seqJSON,
			&statesJSON,
			&intensityJSON,
			&triggersJSON,
			&peaksJSON,
			&recoveryJSON,
			&growthJSON,
			&traj.Trend,
			&traj.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trajectory: %w", err)
		}

		if err := unmarshalAll(
			jsonCol{seqJSON, &traj.FragmentSequence},
			jsonCol{statesJSON, &traj.EmotionalStates},
			jsonCol{intensityJSON, &traj.IntensityScores},
			jsonCol{triggersJSON, &traj.TransitionTriggers},
			jsonCol{peaksJSON, &traj.PeakMoments},
			jsonCol{recoveryJSON, &traj.RecoveryPatterns},
			jsonCol{growthJSON, &traj.GrowthIndicators},
		); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trajectory %s: %w", traj.ID, err)
		}

		trajectories = append(trajectories, traj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trajectories: %w", err)
	}

	return trajectories, nil
}

// LoadMilestones hydrates every stored milestone.
func (s *SQLiteArtifactStore) LoadMilestones(ctx context.Context) ([]analysis.MilestoneEvent, error) {
	query := `
		SELECT id, fragment_id, milestone_type, significance, prerequisites,
		       consequences, learning_summary, competency_impact, created_at
		FROM milestone_events
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	defer rows.Close()

	var milestones []analysis.MilestoneEvent
	for rows.Next() {
		var m analysis.MilestoneEvent
		var mtype string
		var prereqJSON, conseqJSON, impactJSON []byte

		if err := rows.Scan(
			&m.ID,
			&m.FragmentID,
			&mtype,
			&m.Significance,
			&prereqJSON,
			&conseqJSON,
			&m.LearningSummary,
			&impactJSON,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}

		m.MilestoneType = analysis.MilestoneType(mtype)
		if err := unmarshalAll(
			jsonCol{prereqJSON, &m.Prerequisites},
			jsonCol{conseqJSON, &m.Consequences},
			jsonCol{impactJSON, &m.CompetencyImpact},
		); err != nil {
			return nil, fmt.Errorf("failed to unmarshal milestone %s: %w", m.ID, err)
		}

		milestones = append(milestones, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating milestones: %w", err)
	}

	return milestones, nil
}

// Close releases database resources.
func (s *SQLiteArtifactStore) Close() error {
	return s.db.Close()
}

// marshalAll serializes each value to JSON, mapping nil/empty collections to
// SQL NULL.
func marshalAll(values ...interface{}) ([]interface{}, error) {
	out := make([]interface{}, len(values))
	for i, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if string(data) == "null" {
			out[i] = nil
			continue
		}
		out[i] = string(data)
	}
	return out, nil
}

// jsonCol pairs a scanned JSON column with its destination field.
type jsonCol struct {
	data []byte
	dst  interface{}
}

func unmarshalAll(cols ...jsonCol) error {
	for _, c := range cols {
		if len(c.data) == 0 {
			continue
		}
		if err := json.Unmarshal(c.data, c.dst); err != nil {
			return err
		}
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

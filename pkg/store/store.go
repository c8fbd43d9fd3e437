/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: store.go
Description: SQLite model store. Trained models are kept as JSON documents next to a few
summary columns so they can be listed without decoding, and evaluation results are
recorded against the model they were measured on.
*/

package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kleascm/frbdt/pkg/ruleset"
	_ "modernc.org/sqlite"
)

var (
	// ErrModelNotFound is returned when no stored model matches an ID
	ErrModelNotFound = errors.New("model not found")
	// ErrAmbiguousID is returned when an ID prefix matches more than one model
	ErrAmbiguousID = errors.New("model id prefix is ambiguous")
)

const schema = `
CREATE TABLE IF NOT EXISTS models (
	id                TEXT PRIMARY KEY,
	relation          TEXT NOT NULL,
	created_at        TEXT NOT NULL,
	layers            INTEGER NOT NULL,
	rules             INTEGER NOT NULL,
	average_rule_size REAL NOT NULL,
	max_attributes    INTEGER NOT NULL,
	threshold         REAL NOT NULL,
	alpha             REAL NOT NULL,
	body              BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS evaluations (
	model_id    TEXT NOT NULL REFERENCES models(id) ON DELETE CASCADE,
	dataset     TEXT NOT NULL,
	accuracy    REAL NOT NULL,
	instances   INTEGER NOT NULL,
	recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS evaluations_model ON evaluations(model_id);`

// Summary describes a stored model without its rules
type Summary struct {
	ID              string    `json:"id"`
	Relation        string    `json:"relation"`
	CreatedAt       time.Time `json:"created_at"`
	Layers          int       `json:"layers"`
	Rules           int       `json:"rules"`
	AverageRuleSize float64   `json:"average_rule_size"`
	MaxAttributes   int       `json:"max_attributes"`
	Threshold       float64   `json:"threshold"`
	Alpha           float64   `json:"alpha"`
}

// Evaluation is one recorded accuracy measurement
type Evaluation struct {
	ModelID    string    `json:"model_id"`
	Dataset    string    `json:"dataset"`
	Accuracy   float64   `json:"accuracy"`
	Instances  int       `json:"instances"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ModelStore persists models in a SQLite database
type ModelStore struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the store at path
func Open(path string) (*ModelStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init model store: %w", err)
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA foreign_keys = ON;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure model store: %w", err)
	}

	return &ModelStore{db: db}, nil
}

// Close closes the database
func (s *ModelStore) Close() error {
	return s.db.Close()
}

// Save stores the model, replacing any model with the same ID
func (s *ModelStore) Save(ctx context.Context, m *ruleset.Model) error {
	var body bytes.Buffer
	if err := ruleset.WriteModel(&body, m); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO models
			(id, relation, created_at, layers, rules, average_rule_size, max_attributes, threshold, alpha, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Relation, m.CreatedAt.UTC().Format(time.RFC3339Nano),
		m.LayerCount(), m.RuleCount(), m.AverageRuleSize(),
		m.Params.MaxAttributes, m.Params.Threshold, m.Params.Alpha,
		body.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("failed to save model %s: %w", m.ID, err)
	}
	return nil
}

// Load returns the model whose ID equals or uniquely starts with id
func (s *ModelStore) Load(ctx context.Context, id string) (*ruleset.Model, error) {
	full, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	var body []byte
	err = s.db.QueryRowContext(ctx, "SELECT body FROM models WHERE id = ?", full).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", full, err)
	}

	return ruleset.ReadModel(bytes.NewReader(body))
}

// List returns summaries of all stored models, newest first
func (s *ModelStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, relation, created_at, layers, rules, average_rule_size, max_attributes, threshold, alpha
		FROM models ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		var created string
		if err := rows.Scan(&sum.ID, &sum.Relation, &created, &sum.Layers, &sum.Rules,
			&sum.AverageRuleSize, &sum.MaxAttributes, &sum.Threshold, &sum.Alpha); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("model %s has a bad timestamp: %w", sum.ID, err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Delete removes a model and its evaluations
func (s *ModelStore) Delete(ctx context.Context, id string) error {
	full, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM evaluations WHERE model_id = ?", full); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete evaluations of %s: %w", full, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM models WHERE id = ?", full); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete model %s: %w", full, err)
	}
	return tx.Commit()
}

// RecordEvaluation stores an accuracy measurement for a stored model
func (s *ModelStore) RecordEvaluation(ctx context.Context, e Evaluation) error {
	full, err := s.resolve(ctx, e.ModelID)
	if err != nil {
		return err
	}
	e.ModelID = full
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evaluations (model_id, dataset, accuracy, instances, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ModelID, e.Dataset, e.Accuracy, e.Instances, e.RecordedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record evaluation of %s: %w", e.ModelID, err)
	}
	return nil
}

// Evaluations returns the recorded evaluations of a model, oldest first
func (s *ModelStore) Evaluations(ctx context.Context, id string) ([]Evaluation, error) {
	full, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT model_id, dataset, accuracy, instances, recorded_at
		FROM evaluations WHERE model_id = ? ORDER BY rowid ASC`, full)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	var evaluations []Evaluation
	for rows.Next() {
		var e Evaluation
		var recorded string
		if err := rows.Scan(&e.ModelID, &e.Dataset, &e.Accuracy, &e.Instances, &recorded); err != nil {
			return nil, err
		}
		if e.RecordedAt, err = time.Parse(time.RFC3339Nano, recorded); err != nil {
			return nil, err
		}
		evaluations = append(evaluations, e)
	}
	return evaluations, rows.Err()
}

// resolve expands an ID prefix to a full model ID
func (s *ModelStore) resolve(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrModelNotFound)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM models WHERE substr(id, 1, ?) = ? LIMIT 2", len(id), id)
	if err != nil {
		return "", fmt.Errorf("failed to look up model %s: %w", id, err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var full string
		if err := rows.Scan(&full); err != nil {
			return "", err
		}
		matches = append(matches, full)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrModelNotFound, id)
	case 1:
		return matches[0], nil
	default:
		for _, m := range matches {
			if m == id {
				return m, nil
			}
		}
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

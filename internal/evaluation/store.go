package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git-repository-analyzer/internal/database"
)

// FileName is the evaluation file written per repository by FileStore
const FileName = "evaluation.json"

var (
	ErrNotFound          = errors.New("evaluation not found")
	ErrInvalidRepository = errors.New("invalid repository name")
)

// Store loads and saves evaluations by repository name ("group/repo")
type Store interface {
	Load(ctx context.Context, repo string) (*Evaluation, error)
	Save(ctx context.Context, repo string, e *Evaluation) error
	Delete(ctx context.Context, repo string) error
}

func checkName(repo string) error {
	if repo == "" || strings.HasPrefix(repo, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidRepository, repo)
	}
	for _, seg := range strings.Split(repo, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidRepository, repo)
		}
	}
	return nil
}

// FileStore keeps one JSON file per repository under a root directory
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(repo string) string {
	return filepath.Join(s.dir, filepath.FromSlash(repo), FileName)
}

func (s *FileStore) Load(ctx context.Context, repo string) (*Evaluation, error) {
	if err := checkName(repo); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(repo))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, repo)
		}
		return nil, fmt.Errorf("failed to read evaluation: %w", err)
	}

	return decode(data)
}

func (s *FileStore) Save(ctx context.Context, repo string, e *Evaluation) error {
	if err := checkName(repo); err != nil {
		return err
	}
	if err := Validate(e); err != nil {
		return err
	}

	data, err := json.MarshalIndent(e, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode evaluation: %w", err)
	}

	p := s.path(repo)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("failed to create evaluation directory: %w", err)
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write evaluation: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write evaluation: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, repo string) error {
	if err := checkName(repo); err != nil {
		return err
	}

	if err := os.Remove(s.path(repo)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, repo)
		}
		return fmt.Errorf("failed to delete evaluation: %w", err)
	}
	return nil
}

// PostgresStore keeps evaluations in the evaluations table as JSONB
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, repo string) (*Evaluation, error) {
	if err := checkName(repo); err != nil {
		return nil, err
	}

	rec, err := s.db.GetEvaluation(ctx, repo)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, repo)
		}
		return nil, err
	}

	return decode(rec.Data)
}

func (s *PostgresStore) Save(ctx context.Context, repo string, e *Evaluation) error {
	if err := checkName(repo); err != nil {
		return err
	}
	if err := Validate(e); err != nil {
		return err
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation: %w", err)
	}

	return s.db.UpsertEvaluation(ctx, &database.EvaluationRecord{
		Repository: repo,
		Data:       data,
	})
}

func (s *PostgresStore) Delete(ctx context.Context, repo string) error {
	if err := checkName(repo); err != nil {
		return err
	}

	if err := s.db.DeleteEvaluation(ctx, repo); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, repo)
		}
		return err
	}
	return nil
}

// decode parses and validates a stored evaluation
func decode(data []byte) (*Evaluation, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("failed to decode evaluation: empty document")
	}

	var e Evaluation
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation: %w", err)
	}
	if err := Validate(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

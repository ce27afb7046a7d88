package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"git-repository-analyzer/internal/database"
	"git-repository-analyzer/internal/validation"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullMarks() *Evaluation {
	e := &Evaluation{}
	for _, f := range e.Fields() {
		*f.Score = f.Max
	}
	return e
}

func TestFields_Maxima(t *testing.T) {
	totals := map[string]int{}
	for _, f := range (&Evaluation{}).Fields() {
		totals[f.Section] += f.Max
	}

	assert.Equal(t, map[string]int{
		"structure":     StructureMax,
		"collaboration": CollaborationMax,
		"documentation": DocumentationMax,
		"bonus_ml":      BonusMLMax,
		"bonus_tech":    BonusTechMax,
	}, totals)
}

func TestScore(t *testing.T) {
	scores := Score(fullMarks())
	assert.Equal(t, Scores{
		Structure:     40,
		Collaboration: 25,
		Documentation: 35,
		Main:          100,
		BonusML:       5,
		BonusTech:     5,
		Bonus:         10,
		Final:         110,
		Percentage:    100,
		Grade:         "A",
	}, scores)

	empty := Score(&Evaluation{})
	assert.Equal(t, 0, empty.Final)
	assert.Equal(t, "F", empty.Grade)

	e := &Evaluation{}
	e.Structure.Architecture = 8
	e.Collaboration.TaskSplit = 12
	e.Documentation.Readme = 9
	e.BonusTech.Pipeline = 1
	partial := Score(e)
	assert.Equal(t, 29, partial.Main)
	assert.Equal(t, 30, partial.Final)
	assert.Equal(t, 29.0, partial.Percentage)
}

func TestGrade(t *testing.T) {
	cases := map[float64]string{100: "A", 90: "A", 89.9: "B", 80: "B", 70: "C", 60: "D", 59.9: "F", 0: "F"}
	for pct, want := range cases {
		assert.Equal(t, want, Grade(pct), "percentage=%v", pct)
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(fullMarks()))

	e := fullMarks()
	e.Collaboration.TaskSplit = 16
	e.BonusML.ModelChoice = -1
	err := Validate(e)
	require.Error(t, err)

	var verr *validation.ValidationErrors
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 2)
	assert.Equal(t, "collaboration.task_split", verr.Errors[0].Field)
	assert.Equal(t, "collaboration.task_split must be at most 15", verr.Errors[0].Message)
	assert.Equal(t, "bonus_ml.model_choice", verr.Errors[1].Field)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStore(dir)

	_, err := s.Load(ctx, "gr01/demo")
	assert.ErrorIs(t, err, ErrNotFound)

	e := fullMarks()
	e.Documentation.ReadmeComment = "Clear setup section"
	require.NoError(t, s.Save(ctx, "gr01/demo", e))
	assert.FileExists(t, filepath.Join(dir, "gr01", "demo", FileName))

	loaded, err := s.Load(ctx, "gr01/demo")
	require.NoError(t, err)
	assert.Equal(t, e, loaded)

	invalid := fullMarks()
	invalid.Structure.Readability = 6
	assert.Error(t, s.Save(ctx, "gr01/demo", invalid))

	require.NoError(t, s.Delete(ctx, "gr01/demo"))
	assert.NoFileExists(t, filepath.Join(dir, "gr01", "demo", FileName))
	assert.ErrorIs(t, s.Delete(ctx, "gr01/demo"), ErrNotFound)

	assert.ErrorIs(t, s.Save(ctx, "../escape", e), ErrInvalidRepository)
	_, err = s.Load(ctx, "gr01/../../etc")
	assert.ErrorIs(t, err, ErrInvalidRepository)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "gr01", "demo", FileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0644))

	_, err := NewFileStore(dir).Load(context.Background(), "gr01/demo")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestPostgresStore(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewPostgresStore(database.NewTestDB(mock))
	ctx := context.Background()

	e := fullMarks()
	data, err := json.Marshal(e)
	require.NoError(t, err)

	mock.ExpectQuery("INSERT INTO evaluations").
		WithArgs("gr01/demo", json.RawMessage(data)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow(time.Now(), time.Now()))
	mock.ExpectQuery("SELECT repository, data, created_at, updated_at").
		WithArgs("gr01/demo").
		WillReturnRows(pgxmock.NewRows([]string{"repository", "data", "created_at", "updated_at"}).
			AddRow("gr01/demo", json.RawMessage(data), time.Now(), time.Now()))

	require.NoError(t, s.Save(ctx, "gr01/demo", e))

	loaded, err := s.Load(ctx, "gr01/demo")
	require.NoError(t, err)
	assert.Equal(t, e, loaded)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT repository, data, created_at, updated_at").
		WithArgs("gr01/none").
		WillReturnError(pgx.ErrNoRows)

	_, err = NewPostgresStore(database.NewTestDB(mock)).Load(context.Background(), "gr01/none")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM evaluations").
		WithArgs("gr01/demo").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM evaluations").
		WithArgs("gr01/demo").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	s := NewPostgresStore(database.NewTestDB(mock))
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "gr01/demo"))
	assert.ErrorIs(t, s.Delete(ctx, "gr01/demo"), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "../escape"), ErrInvalidRepository)

	assert.NoError(t, mock.ExpectationsWereMet())
}

package validation

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database error kinds surfaced to clients
const (
	ErrorTypeUniqueViolation = "unique_violation"
	ErrorTypeInvalidData     = "invalid_data"
	ErrorTypeSchema          = "schema_missing"
	ErrorTypeUnavailable     = "database_unavailable"
	ErrorTypeNotFound        = "not_found"
	ErrorTypeInternal        = "internal"
)

// DatabaseError is a PostgreSQL failure translated for the evaluation store
type DatabaseError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (de *DatabaseError) Error() string {
	return de.Message
}

// ParseDatabaseError translates the PostgreSQL errors the evaluations table can
// raise. Anything else is returned unchanged.
func ParseDatabaseError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgerrcode.UniqueViolation:
		return &DatabaseError{
			Type:    ErrorTypeUniqueViolation,
			Message: "An evaluation for this repository was saved concurrently",
			Field:   columnOf(pgErr, "repository"),
		}
	case pgErr.Code == pgerrcode.NotNullViolation:
		field := columnOf(pgErr, "")
		return &DatabaseError{
			Type:    ErrorTypeInvalidData,
			Message: "Evaluation is missing " + field,
			Field:   field,
		}
	case pgErr.Code == pgerrcode.InvalidTextRepresentation,
		pgErr.Code == pgerrcode.InvalidJSONText,
		pgErr.Code == pgerrcode.CheckViolation:
		return &DatabaseError{
			Type:    ErrorTypeInvalidData,
			Message: "Evaluation data was rejected by the database",
			Field:   columnOf(pgErr, "data"),
		}
	case pgErr.Code == pgerrcode.UndefinedTable:
		return &DatabaseError{
			Type:    ErrorTypeSchema,
			Message: "The evaluations table does not exist; run the migrations",
		}
	case pgerrcode.IsConnectionException(pgErr.Code),
		pgerrcode.IsOperatorIntervention(pgErr.Code),
		pgerrcode.IsInsufficientResources(pgErr.Code):
		return &DatabaseError{
			Type:    ErrorTypeUnavailable,
			Message: "The evaluation database is unavailable",
		}
	}
	return err
}

// columnOf names the offending column, falling back to the column encoded in
// the constraint name ("evaluations_repository_key" -> "repository").
func columnOf(pgErr *pgconn.PgError, fallback string) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	name := pgErr.ConstraintName
	if pgErr.TableName != "" {
		name = strings.TrimPrefix(name, pgErr.TableName+"_")
	} else if i := strings.IndexByte(name, '_'); i >= 0 {
		name = name[i+1:]
	}
	for _, suffix := range []string{"_key", "_pkey", "_check", "_not_null"} {
		name = strings.TrimSuffix(name, suffix)
	}
	if name == "" || name == "pkey" {
		return fallback
	}
	return name
}

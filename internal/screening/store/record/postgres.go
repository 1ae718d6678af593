package record

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/rules"
	id "lexscreen/pkg/domain"
	"lexscreen/pkg/platform/sentinel"
	txctx "lexscreen/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// Migrate creates the records table and its indexes if missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate screening records: %w", err)
	}
	return nil
}

// Postgres persists records in PostgreSQL. The unique screening_id column
// makes Save idempotent across processes.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

const recordColumns = `id, screening_id, variant, facts, classification, risk_level, risk_score,
	probability, flags, remedies, unanswered, verified, contact, source, rule_version,
	started_at, submitted_at`

type recordRow struct {
	ID             uuid.UUID      `db:"id"`
	ScreeningID    uuid.UUID      `db:"screening_id"`
	Variant        string         `db:"variant"`
	Facts          []byte         `db:"facts"`
	Classification []byte         `db:"classification"`
	RiskLevel      string         `db:"risk_level"`
	RiskScore      int            `db:"risk_score"`
	Probability    string         `db:"probability"`
	Flags          pq.StringArray `db:"flags"`
	Remedies       pq.StringArray `db:"remedies"`
	Unanswered     pq.StringArray `db:"unanswered"`
	Verified       bool           `db:"verified"`
	Contact        []byte         `db:"contact"`
	Source         []byte         `db:"source"`
	RuleVersion    string         `db:"rule_version"`
	StartedAt      time.Time      `db:"started_at"`
	SubmittedAt    time.Time      `db:"submitted_at"`
}

// Save inserts the record. When the screening id is already stored the
// existing row is returned with created=false.
func (s *Postgres) Save(ctx context.Context, record *models.Record) (*models.Record, bool, error) {
	if record == nil {
		return nil, false, errNilRecord
	}
	row, err := toRow(record)
	if err != nil {
		return nil, false, err
	}

	var (
		stored  *models.Record
		created bool
	)
	err = txctx.RunInTx(ctx, s.db.DB, func(ctx context.Context) error {
		q := s.queryer(ctx)
		res, err := q.ExecContext(ctx, `
			INSERT INTO screening_records (`+recordColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			ON CONFLICT (screening_id) DO NOTHING
		`,
			row.ID, row.ScreeningID, row.Variant, row.Facts, row.Classification, row.RiskLevel, row.RiskScore,
			row.Probability, row.Flags, row.Remedies, row.Unanswered, row.Verified, row.Contact, row.Source,
			row.RuleVersion, row.StartedAt, row.SubmittedAt,
		)
		if err != nil {
			return fmt.Errorf("insert screening record: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert screening record: %w", err)
		}
		if n == 1 {
			created = true
			stored, err = fromRow(row)
			return err
		}
		var existing recordRow
		err = sqlx.GetContext(ctx, q, &existing,
			`SELECT `+recordColumns+` FROM screening_records WHERE screening_id = $1`, row.ScreeningID)
		if err != nil {
			return fmt.Errorf("load existing screening record: %w", err)
		}
		stored, err = fromRow(existing)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func (s *Postgres) FindByID(ctx context.Context, recordID id.RecordID) (*models.Record, error) {
	return s.findOne(ctx, "id", uuid.UUID(recordID))
}

func (s *Postgres) FindByScreeningID(ctx context.Context, screeningID id.ScreeningID) (*models.Record, error) {
	return s.findOne(ctx, "screening_id", uuid.UUID(screeningID))
}

func (s *Postgres) findOne(ctx context.Context, column string, key uuid.UUID) (*models.Record, error) {
	var row recordRow
	err := sqlx.GetContext(ctx, s.queryer(ctx), &row,
		`SELECT `+recordColumns+` FROM screening_records WHERE `+column+` = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find screening record by %s: %w", column, err)
	}
	return fromRow(row)
}

// List returns matching records, newest first.
func (s *Postgres) List(ctx context.Context, filter models.RecordFilter) ([]*models.Record, error) {
	filter = filter.Normalize()

	var (
		where []string
		args  []any
	)
	if filter.Variant != "" {
		args = append(args, string(filter.Variant))
		where = append(where, fmt.Sprintf("variant = $%d", len(args)))
	}
	if filter.Risk != "" {
		args = append(args, string(filter.Risk))
		where = append(where, fmt.Sprintf("risk_level = $%d", len(args)))
	}
	query := `SELECT ` + recordColumns + ` FROM screening_records`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(` ORDER BY submitted_at DESC, id LIMIT $%d`, len(args))

	var rows []recordRow
	if err := sqlx.SelectContext(ctx, s.queryer(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list screening records: %w", err)
	}
	out := make([]*models.Record, 0, len(rows))
	for _, row := range rows {
		r, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// queryer prefers a transaction carried on ctx.
func (s *Postgres) queryer(ctx context.Context) queryer {
	if tx, ok := txctx.From(ctx); ok {
		return &sqlx.Tx{Tx: tx, Mapper: s.db.Mapper}
	}
	return s.db
}

func toRow(r *models.Record) (recordRow, error) {
	facts, err := json.Marshal(r.Facts)
	if err != nil {
		return recordRow{}, fmt.Errorf("marshal facts: %w", err)
	}
	classification, err := json.Marshal(r.Classification)
	if err != nil {
		return recordRow{}, fmt.Errorf("marshal classification: %w", err)
	}
	contact, err := json.Marshal(r.Contact)
	if err != nil {
		return recordRow{}, fmt.Errorf("marshal contact: %w", err)
	}
	source, err := json.Marshal(r.Source)
	if err != nil {
		return recordRow{}, fmt.Errorf("marshal source: %w", err)
	}
	c := r.Classification
	return recordRow{
		ID:             uuid.UUID(r.ID),
		ScreeningID:    uuid.UUID(r.ScreeningID),
		Variant:        string(r.Variant),
		Facts:          facts,
		Classification: classification,
		RiskLevel:      string(c.Risk),
		RiskScore:      c.RiskScore,
		Probability:    string(c.Probability),
		Flags:          codes(c.Flags),
		Remedies:       codes(c.Remedies),
		Unanswered:     codes(r.Unanswered),
		Verified:       r.Verified,
		Contact:        contact,
		Source:         source,
		RuleVersion:    c.RuleVersion,
		StartedAt:      r.StartedAt.UTC(),
		SubmittedAt:    r.SubmittedAt.UTC(),
	}, nil
}

func fromRow(row recordRow) (*models.Record, error) {
	r := &models.Record{
		ID:          id.RecordID(row.ID),
		ScreeningID: id.ScreeningID(row.ScreeningID),
		Variant:     intake.Variant(row.Variant),
		Verified:    row.Verified,
		StartedAt:   row.StartedAt.UTC(),
		SubmittedAt: row.SubmittedAt.UTC(),
		Unanswered:  make([]intake.FieldKey, 0, len(row.Unanswered)),
	}
	for _, k := range row.Unanswered {
		r.Unanswered = append(r.Unanswered, intake.FieldKey(k))
	}
	if err := json.Unmarshal(row.Facts, &r.Facts); err != nil {
		return nil, fmt.Errorf("decode facts of record %s: %w", row.ID, err)
	}
	var c rules.Classification
	if err := json.Unmarshal(row.Classification, &c); err != nil {
		return nil, fmt.Errorf("decode classification of record %s: %w", row.ID, err)
	}
	r.Classification = c
	if err := json.Unmarshal(row.Contact, &r.Contact); err != nil {
		return nil, fmt.Errorf("decode contact of record %s: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.Source, &r.Source); err != nil {
		return nil, fmt.Errorf("decode source of record %s: %w", row.ID, err)
	}
	return r, nil
}

func codes[T ~string](in []T) pq.StringArray {
	out := make(pq.StringArray, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

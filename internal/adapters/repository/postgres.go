package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"github.com/okian/termico/internal/domain/casestatus"
)

var openDB = sql.Open

// OpenPostgres opens a *sql.DB for databaseURL and verifies connectivity.
func OpenPostgres(ctx context.Context, databaseURL string, opts PoolOptions) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, ErrEmptyDSN
	}

	db, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applyPoolOptions(db, opts)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func applyPoolOptions(db *sql.DB, opts PoolOptions) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

// PostgresStore reads and writes case records in the incentive_cases table.
type PostgresStore struct {
	DB *sql.DB
}

// NewPostgresStore wraps an open database.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

const findCaseQuery = `
SELECT case_code, applicant_type, applicant_name, intervention_description, installation_address,
       work_completed_on, submitted_on, filing_status, power_kw, surface_m2,
       estimated_annual_incentive, duration_years, estimated_total_incentive,
       documents_present, documents_missing, notes, responsible_technician, equipment_model, certified_cop
FROM incentive_cases
WHERE case_code = $1
LIMIT 1`

// FindByCaseCode returns the record with the exact case code.
func (s *PostgresStore) FindByCaseCode(ctx context.Context, code string) (rec casestatus.Record, err error) {
	defer func(start time.Time) { observe(storePostgres, "find", start, err) }(time.Now())

	var (
		applicantName, address, notes, technician, model sql.NullString
		completed, submitted                             sql.NullTime
		power, surface, annual, total, cop               sql.NullFloat64
		duration                                         sql.NullInt64
		present, missing                                 []byte
	)
	err = s.DB.QueryRowContext(ctx, findCaseQuery, code).Scan(
		&rec.CaseCode,
		&rec.ApplicantType,
		&applicantName,
		&rec.InterventionDescription,
		&address,
		&completed,
		&submitted,
		&rec.Status,
		&power,
		&surface,
		&annual,
		&duration,
		&total,
		&present,
		&missing,
		&notes,
		&technician,
		&model,
		&cop,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return casestatus.Record{}, fmt.Errorf("%w: %s", casestatus.ErrNotFound, code)
	}
	if err != nil {
		return casestatus.Record{}, fmt.Errorf("query case %s: %w", code, err)
	}

	rec.ApplicantName = applicantName.String
	rec.InstallationAddress = address.String
	rec.Notes = notes.String
	rec.ResponsibleTechnician = technician.String
	rec.EquipmentModel = model.String
	rec.WorkCompletedOn = nullTime(completed)
	rec.SubmittedOn = nullTime(submitted)
	rec.PowerKW = nullFloat(power)
	rec.SurfaceM2 = nullFloat(surface)
	rec.EstimatedAnnualIncentive = nullFloat(annual)
	rec.EstimatedTotalIncentive = nullFloat(total)
	rec.CertifiedCOP = nullFloat(cop)
	if duration.Valid {
		d := int(duration.Int64)
		rec.DurationYears = &d
	}
	if rec.DocumentsPresent, err = decodeDocuments(present); err != nil {
		return casestatus.Record{}, err
	}
	if rec.DocumentsMissing, err = decodeDocuments(missing); err != nil {
		return casestatus.Record{}, err
	}
	return rec, nil
}

const upsertCaseQuery = `
INSERT INTO incentive_cases (
    case_code,
    applicant_type,
    applicant_name,
    intervention_description,
    installation_address,
    work_completed_on,
    submitted_on,
    filing_status,
    power_kw,
    surface_m2,
    estimated_annual_incentive,
    duration_years,
    estimated_total_incentive,
    documents_present,
    documents_missing,
    notes,
    responsible_technician,
    equipment_model,
    certified_cop
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
ON CONFLICT (case_code) DO UPDATE SET
    applicant_type = EXCLUDED.applicant_type,
    applicant_name = EXCLUDED.applicant_name,
    intervention_description = EXCLUDED.intervention_description,
    installation_address = EXCLUDED.installation_address,
    work_completed_on = EXCLUDED.work_completed_on,
    submitted_on = EXCLUDED.submitted_on,
    filing_status = EXCLUDED.filing_status,
    power_kw = EXCLUDED.power_kw,
    surface_m2 = EXCLUDED.surface_m2,
    estimated_annual_incentive = EXCLUDED.estimated_annual_incentive,
    duration_years = EXCLUDED.duration_years,
    estimated_total_incentive = EXCLUDED.estimated_total_incentive,
    documents_present = EXCLUDED.documents_present,
    documents_missing = EXCLUDED.documents_missing,
    notes = EXCLUDED.notes,
    responsible_technician = EXCLUDED.responsible_technician,
    equipment_model = EXCLUDED.equipment_model,
    certified_cop = EXCLUDED.certified_cop,
    updated_at = now()`

// Save inserts or replaces a record.
func (s *PostgresStore) Save(ctx context.Context, rec casestatus.Record) (err error) {
	defer func(start time.Time) { observe(storePostgres, "save", start, err) }(time.Now())

	if strings.TrimSpace(rec.CaseCode) == "" {
		return fmt.Errorf("%w: empty case code", ErrInvalidRecord)
	}
	present, err := encodeDocuments(rec.DocumentsPresent)
	if err != nil {
		return err
	}
	missing, err := encodeDocuments(rec.DocumentsMissing)
	if err != nil {
		return err
	}

	var duration sql.NullInt64
	if rec.DurationYears != nil {
		duration = sql.NullInt64{Int64: int64(*rec.DurationYears), Valid: true}
	}

	_, err = s.DB.ExecContext(ctx, upsertCaseQuery,
		rec.CaseCode,
		rec.ApplicantType,
		nullString(rec.ApplicantName),
		rec.InterventionDescription,
		nullString(rec.InstallationAddress),
		toNullTime(rec.WorkCompletedOn),
		toNullTime(rec.SubmittedOn),
		rec.Status,
		toNullFloat(rec.PowerKW),
		toNullFloat(rec.SurfaceM2),
		toNullFloat(rec.EstimatedAnnualIncentive),
		duration,
		toNullFloat(rec.EstimatedTotalIncentive),
		present,
		missing,
		nullString(rec.Notes),
		nullString(rec.ResponsibleTechnician),
		nullString(rec.EquipmentModel),
		toNullFloat(rec.CertifiedCOP),
	)
	if err != nil {
		return fmt.Errorf("upsert case %s: %w", rec.CaseCode, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close closes the underlying pool.
func (s *PostgresStore) Close() error {
	return s.DB.Close()
}

func decodeDocuments(raw []byte) ([]string, error) {
	docs := []string{}
	if len(raw) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeDocument, err)
	}
	return docs, nil
}

func encodeDocuments(docs []string) (string, error) {
	if docs == nil {
		docs = []string{}
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/memoria-cli/internal/core/domain"
	"github.com/custodia-labs/memoria-cli/internal/core/ports/driven"
)

// unitStore implements driven.UnitStore scoped to one named TM store.
type unitStore struct {
	store *Store
	name  string
}

var _ driven.UnitStore = (*unitStore)(nil)

// unitColumns is the column list shared by every unit query.
const unitColumns = `id, store_id, source_text, target_text, source_lang, target_lang,
	content_hash, usage_count, context_before, context_after, created_at, modified_at`

// Name returns the store's name.
func (s *unitStore) Name() string {
	return s.name
}

// Insert writes a unit, overwriting any previous pair with the same
// source text (last-write-wins). The row and its full-text entry commit
// together; the sync triggers fire inside the insert's transaction.
func (s *unitStore) Insert(ctx context.Context, unit *domain.TranslationUnit) (int64, error) {
	if unit.SourceText == "" {
		return 0, fmt.Errorf("source text must not be empty: %w", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	if unit.CreatedAt.IsZero() {
		unit.CreatedAt = now
	}
	unit.ModifiedAt = now
	unit.StoreID = s.name
	unit.ContentHash = domain.ContentHash(unit.SourceText)

	var id int64
	err := s.store.db.QueryRowContext(ctx, `
		INSERT INTO units (store_id, source_text, target_text, source_lang, target_lang,
			content_hash, usage_count, context_before, context_after, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(store_id, content_hash) DO UPDATE SET
			source_text = excluded.source_text,
			target_text = excluded.target_text,
			source_lang = excluded.source_lang,
			target_lang = excluded.target_lang,
			context_before = excluded.context_before,
			context_after = excluded.context_after,
			modified_at = excluded.modified_at
		RETURNING id
	`, unit.StoreID, unit.SourceText, unit.TargetText, unit.SourceLang, unit.TargetLang,
		int64(unit.ContentHash), unit.UsageCount, unit.ContextBefore, unit.ContextAfter,
		unit.CreatedAt, unit.ModifiedAt).Scan(&id)

	if err != nil {
		return 0, s.ioErr("inserting unit", err)
	}

	unit.ID = id
	return id, nil
}

// GetExact looks a unit up by content hash. A non-zero pair narrows the
// lookup to that language pair. The stored source text is compared as
// well, so a hash collision can never return the wrong unit.
func (s *unitStore) GetExact(ctx context.Context, sourceText string, pair domain.LangPair) (*domain.TranslationUnit, error) {
	query := `SELECT ` + unitColumns + `
		FROM units
		WHERE store_id = ? AND content_hash = ? AND source_text = ?`
	args := []any{s.name, int64(domain.ContentHash(sourceText)), sourceText}

	if !pair.IsZero() {
		query += " AND source_lang = ? AND target_lang = ?"
		args = append(args, pair.Source, pair.Target)
	}
	query += " LIMIT 1"

	row := s.store.db.QueryRowContext(ctx, query, args...)
	unit, err := scanUnitRow(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, s.ioErr("looking up exact match", err)
	}
	return unit, nil
}

// Candidates returns units whose indexed text matches ANY of the given
// terms, in bm25 relevance order. The MATCH expression is assembled
// only from pre-sanitised terms; raw user text never reaches the FTS
// query grammar.
func (s *unitStore) Candidates(ctx context.Context, terms []string, limit int) ([]domain.TranslationUnit, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = domain.DefaultCandidateLimit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+prefixedUnitColumns("u")+`
		FROM units_fts
		JOIN units u ON u.id = units_fts.rowid
		WHERE units_fts MATCH ? AND u.store_id = ?
		ORDER BY bm25(units_fts)
		LIMIT ?
	`, matchExpr(terms), s.name, limit)
	if err != nil {
		return nil, s.ioErr("querying candidates", err)
	}
	defer rows.Close()

	units, err := scanUnits(rows)
	if err != nil {
		return nil, s.ioErr("scanning candidates", err)
	}
	return units, nil
}

// Concordance returns units containing term as a substring of their
// source or target text, ordered by id.
func (s *unitStore) Concordance(ctx context.Context, term string, limit int) ([]domain.TranslationUnit, error) {
	if term == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = domain.DefaultCandidateLimit
	}

	pattern := "%" + escapeLike(term) + "%"
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+unitColumns+`
		FROM units
		WHERE store_id = ?
		  AND (source_text LIKE ? ESCAPE '\' OR target_text LIKE ? ESCAPE '\')
		ORDER BY id
		LIMIT ?
	`, s.name, pattern, pattern, limit)
	if err != nil {
		return nil, s.ioErr("querying concordance", err)
	}
	defer rows.Close()

	units, err := scanUnits(rows)
	if err != nil {
		return nil, s.ioErr("scanning concordance", err)
	}
	return units, nil
}

// Update rewrites the source and/or target of an existing unit. A
// changed source re-derives the content hash; the sync triggers update
// the full-text entry inside the same transaction.
func (s *unitStore) Update(ctx context.Context, id int64, source, target *string) error {
	if source == nil && target == nil {
		return nil
	}
	if source != nil && *source == "" {
		return fmt.Errorf("source text must not be empty: %w", domain.ErrInvalidInput)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return s.ioErr("beginning transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var curSource, curTarget string
	err = tx.QueryRowContext(ctx,
		"SELECT source_text, target_text FROM units WHERE id = ? AND store_id = ?",
		id, s.name).Scan(&curSource, &curTarget)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return s.ioErr("reading unit", err)
	}

	if source != nil {
		curSource = *source
	}
	if target != nil {
		curTarget = *target
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE units
		SET source_text = ?, target_text = ?, content_hash = ?, modified_at = ?
		WHERE id = ? AND store_id = ?
	`, curSource, curTarget, int64(domain.ContentHash(curSource)), time.Now().UTC(), id, s.name)
	if err != nil {
		return s.ioErr("updating unit", err)
	}

	if err := tx.Commit(); err != nil {
		return s.ioErr("committing update", err)
	}
	return nil
}

// Delete removes one unit.
func (s *unitStore) Delete(ctx context.Context, id int64) error {
	res, err := s.store.db.ExecContext(ctx,
		"DELETE FROM units WHERE id = ? AND store_id = ?", id, s.name)
	if err != nil {
		return s.ioErr("deleting unit", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return s.ioErr("deleting unit", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Clear removes every unit in the store.
func (s *unitStore) Clear(ctx context.Context) (int64, error) {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM units WHERE store_id = ?", s.name)
	if err != nil {
		return 0, s.ioErr("clearing store", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, s.ioErr("clearing store", err)
	}
	return affected, nil
}

// Count returns the number of units in the store.
func (s *unitStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM units WHERE store_id = ?", s.name).Scan(&count)
	if err != nil {
		return 0, s.ioErr("counting units", err)
	}
	return count, nil
}

// IncrementUsage bumps a unit's usage counter in a single UPDATE, so
// concurrent increments serialise inside SQLite and never lose updates.
func (s *unitStore) IncrementUsage(ctx context.Context, id int64) error {
	res, err := s.store.db.ExecContext(ctx, `
		UPDATE units
		SET usage_count = usage_count + 1, modified_at = ?
		WHERE id = ? AND store_id = ?
	`, time.Now().UTC(), id, s.name)
	if err != nil {
		return s.ioErr("incrementing usage", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return s.ioErr("incrementing usage", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// All streams every unit to fn in id order.
func (s *unitStore) All(ctx context.Context, fn func(domain.TranslationUnit) error) error {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+unitColumns+`
		FROM units WHERE store_id = ?
		ORDER BY id
	`, s.name)
	if err != nil {
		return s.ioErr("querying units", err)
	}
	defer rows.Close()

	for rows.Next() {
		unit, err := scanUnitRows(rows)
		if err != nil {
			return s.ioErr("scanning unit", err)
		}
		if err := fn(*unit); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return s.ioErr("iterating units", err)
	}
	return nil
}

// ioErr wraps a driver error as a structural storage failure for this
// store.
func (s *unitStore) ioErr(op string, err error) error {
	return &domain.StoreIOError{Store: s.name, Err: fmt.Errorf("%s: %w", op, err)}
}

// ==================== Helper Functions ====================

// matchExpr builds the FTS5 MATCH argument from sanitised terms.
// Each term is double-quoted and the terms are OR-joined, so the only
// query syntax in the expression is the syntax written here.
func matchExpr(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + t + `"`
	}
	return strings.Join(quoted, " OR ")
}

// escapeLike escapes LIKE wildcards in a concordance term.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

// prefixedUnitColumns qualifies the unit column list with a table alias.
func prefixedUnitColumns(alias string) string {
	cols := strings.Split(unitColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

// scanUnitRow scans a single unit row.
func scanUnitRow(row *sql.Row) (*domain.TranslationUnit, error) {
	var unit domain.TranslationUnit
	var hash int64
	var createdAt, modifiedAt sql.NullTime

	if err := row.Scan(&unit.ID, &unit.StoreID, &unit.SourceText, &unit.TargetText,
		&unit.SourceLang, &unit.TargetLang, &hash, &unit.UsageCount,
		&unit.ContextBefore, &unit.ContextAfter, &createdAt, &modifiedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning unit: %w", err)
	}

	unit.ContentHash = uint64(hash)
	if createdAt.Valid {
		unit.CreatedAt = createdAt.Time
	}
	if modifiedAt.Valid {
		unit.ModifiedAt = modifiedAt.Time
	}

	return &unit, nil
}

// scanUnitRows scans a unit from *sql.Rows.
func scanUnitRows(rows *sql.Rows) (*domain.TranslationUnit, error) {
	var unit domain.TranslationUnit
	var hash int64
	var createdAt, modifiedAt sql.NullTime

	if err := rows.Scan(&unit.ID, &unit.StoreID, &unit.SourceText, &unit.TargetText,
		&unit.SourceLang, &unit.TargetLang, &hash, &unit.UsageCount,
		&unit.ContextBefore, &unit.ContextAfter, &createdAt, &modifiedAt); err != nil {
		return nil, fmt.Errorf("scanning unit: %w", err)
	}

	unit.ContentHash = uint64(hash)
	if createdAt.Valid {
		unit.CreatedAt = createdAt.Time
	}
	if modifiedAt.Valid {
		unit.ModifiedAt = modifiedAt.Time
	}

	return &unit, nil
}

// scanUnits scans multiple unit rows.
func scanUnits(rows *sql.Rows) ([]domain.TranslationUnit, error) {
	var units []domain.TranslationUnit //nolint:prealloc // size unknown from query
	for rows.Next() {
		unit, err := scanUnitRows(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *unit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating units: %w", err)
	}

	return units, nil
}

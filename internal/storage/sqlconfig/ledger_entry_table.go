package sqlconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-sync/internal/ledger"
)

const ledgerEntriesTableName = "ledger_entries"

var ledgerEntryColumns = []string{
	"id",
	"payer_id",
	"note",
	"notes",
	"category_id",
	"amount",
	"currency",
	"occurred_at",
	"scope",
	"shares",
	"is_settled",
	"created_at",
	"updated_at",
}

type ledgerEntryRow struct {
	ID         string          `db:"id"`
	PayerID    string          `db:"payer_id"`
	Note       string          `db:"note"`
	Notes      string          `db:"notes"`
	CategoryID string          `db:"category_id"`
	Amount     decimal.Decimal `db:"amount"`
	Currency   string          `db:"currency"`
	OccurredAt time.Time       `db:"occurred_at"`
	Scope      string          `db:"scope"`
	Shares     []byte          `db:"shares"`
	IsSettled  bool            `db:"is_settled"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

var _ ILedgerEntryTable = (*LedgerEntriesTable)(nil)

// LedgerEntriesTable provides access to the ledger_entries table.
type LedgerEntriesTable struct {
	exec bob.Executor
	now  func() time.Time
}

// NewLedgerEntriesTable creates a LedgerEntriesTable for the given database.
func NewLedgerEntriesTable(db *sql.DB) *LedgerEntriesTable {
	return &LedgerEntriesTable{exec: bob.NewDB(db), now: time.Now}
}

// List returns entries matching the filter sorted by (occurred_at DESC, id DESC).
func (t *LedgerEntriesTable) List(ctx context.Context, filter *LedgerEntryFilter) ([]*ledger.Entry, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columnsAsAny()...),
		sm.From(ledgerEntriesTableName),
	}
	if filter != nil {
		if filter.From != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("occurred_at").GTE(psql.Arg(*filter.From))))
		}
		if filter.To != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("occurred_at").LTE(psql.Arg(*filter.To))))
		}
		if filter.Before != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("occurred_at").LT(psql.Arg(*filter.Before))))
		}
		if filter.Scope != "" && filter.Scope != ledger.ScopeAll {
			queryMods = append(queryMods, sm.Where(psql.Quote("scope").EQ(psql.Arg(string(filter.Scope)))))
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			queryMods = append(queryMods, sm.Where(psql.Raw("(note ILIKE ? OR notes ILIKE ?)", pattern, pattern)))
		}
		switch filter.Settled {
		case ledger.SettledOnly:
			queryMods = append(queryMods, sm.Where(psql.Quote("is_settled").EQ(psql.Arg(true))))
		case ledger.UnsettledOnly:
			queryMods = append(queryMods, sm.Where(psql.Quote("is_settled").EQ(psql.Arg(false))))
		}
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit))
		}
	}
	queryMods = append(queryMods,
		sm.OrderBy(psql.Quote("occurred_at")).Desc(),
		sm.OrderBy(psql.Quote("id")).Desc(),
	)

	rows, err := bob.All(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[ledgerEntryRow]())
	if err != nil {
		return nil, err
	}

	result := make([]*ledger.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := rowToEntry(row)
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, nil
}

// FindByID retrieves an entry by primary key.
func (t *LedgerEntriesTable) FindByID(ctx context.Context, id string) (*ledger.Entry, error) {
	query := psql.Select(
		sm.Columns(columnsAsAny()...),
		sm.From(ledgerEntriesTableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[ledgerEntryRow]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return rowToEntry(row)
}

// Upsert inserts the entry or replaces the row with the same id, returning the stored row.
func (t *LedgerEntriesTable) Upsert(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error) {
	shares := []byte("{}")
	if entry.Shares != nil {
		var err error
		if shares, err = json.Marshal(entry.Shares); err != nil {
			return nil, err
		}
	}

	now := t.now().UTC()
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	query := psql.Insert(
		im.Into(ledgerEntriesTableName, ledgerEntryColumns...),
		im.Values(psql.Arg(
			entry.ID,
			entry.PayerID,
			entry.Note,
			entry.Notes,
			entry.CategoryID,
			entry.Amount,
			string(entry.Currency),
			entry.OccurredAt.UTC(),
			string(entry.Scope),
			string(shares),
			entry.Settled,
			createdAt,
			now,
		)),
		im.OnConflict("id").DoUpdate(
			im.SetExcluded(
				"payer_id",
				"note",
				"notes",
				"category_id",
				"amount",
				"currency",
				"occurred_at",
				"scope",
				"shares",
				"is_settled",
				"updated_at",
			),
		),
		im.Returning(columnsAsAny()...),
	)

	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[ledgerEntryRow]())
	if err != nil {
		return nil, err
	}
	return rowToEntry(row)
}

// UpdateSettled sets is_settled for a single entry.
func (t *LedgerEntriesTable) UpdateSettled(ctx context.Context, id string, settled bool) error {
	query := psql.Update(
		um.Table(ledgerEntriesTableName),
		um.SetCol("is_settled").ToArg(settled),
		um.SetCol("updated_at").ToArg(t.now().UTC()),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	result, err := bob.Exec(ctx, t.exec, query)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// UpdateSettledWhere sets is_settled on every row picked by the selector and
// returns the number of rows changed.
func (t *LedgerEntriesTable) UpdateSettledWhere(ctx context.Context, update *SettledUpdate) (int64, error) {
	where := selectorExpressions(update.Target)
	if where == nil {
		return 0, nil
	}

	queryMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(ledgerEntriesTableName),
		um.SetCol("is_settled").ToArg(update.Settled),
		um.SetCol("updated_at").ToArg(t.now().UTC()),
	}
	for _, expr := range where {
		queryMods = append(queryMods, um.Where(expr))
	}

	result, err := bob.Exec(ctx, t.exec, psql.Update(queryMods...))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Delete removes a single entry, returning ErrEntryNotFound when no row has id.
func (t *LedgerEntriesTable) Delete(ctx context.Context, id string) error {
	query := psql.Delete(
		dm.From(ledgerEntriesTableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	result, err := bob.Exec(ctx, t.exec, query)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// DeleteWhere removes every row picked by the selector.
func (t *LedgerEntriesTable) DeleteWhere(ctx context.Context, target ledger.Selector) (int64, error) {
	where := selectorExpressions(target)
	if where == nil {
		return 0, nil
	}

	queryMods := []bob.Mod[*dialect.DeleteQuery]{
		dm.From(ledgerEntriesTableName),
	}
	for _, expr := range where {
		queryMods = append(queryMods, dm.Where(expr))
	}

	result, err := bob.Exec(ctx, t.exec, psql.Delete(queryMods...))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// selectorExpressions returns nil when the selector can match nothing,
// so callers never issue an unbounded update or delete.
func selectorExpressions(target ledger.Selector) []bob.Expression {
	if target.ByIDs() {
		if len(target.IDs) == 0 {
			return nil
		}
		return []bob.Expression{psql.Raw("id = ANY(?)", pq.Array(target.IDs))}
	}

	var where []bob.Expression
	if target.From != nil {
		where = append(where, psql.Quote("occurred_at").GTE(psql.Arg(*target.From)))
	}
	if target.To != nil {
		where = append(where, psql.Quote("occurred_at").LTE(psql.Arg(*target.To)))
	}
	return where
}

func columnsAsAny() []any {
	columns := make([]any, len(ledgerEntryColumns))
	for i, column := range ledgerEntryColumns {
		columns[i] = column
	}
	return columns
}

func rowToEntry(row ledgerEntryRow) (*ledger.Entry, error) {
	var shares map[string]decimal.Decimal
	if len(row.Shares) > 0 {
		if err := json.Unmarshal(row.Shares, &shares); err != nil {
			return nil, err
		}
	}

	return &ledger.Entry{
		ID:         row.ID,
		PayerID:    row.PayerID,
		Note:       row.Note,
		Notes:      row.Notes,
		CategoryID: row.CategoryID,
		Amount:     row.Amount,
		Currency:   ledger.Currency(row.Currency),
		OccurredAt: row.OccurredAt.UTC(),
		Scope:      ledger.Scope(row.Scope),
		Shares:     shares,
		Settled:    row.IsSettled,
		CreatedAt:  row.CreatedAt.UTC(),
		UpdatedAt:  row.UpdatedAt.UTC(),
	}, nil
}

package maintenance

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Row is one fetched table row keyed by column name.
type Row map[string]any

func (r Row) String(col string) string {
	switch v := r[col].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case []byte, string:
		var n int64
		fmt.Sscan(r.String(col), &n)
		return n
	}
	return 0
}

func (r Row) IsNull(col string) bool {
	return r[col] == nil
}

// BatchRowIterator walks a table in primary key order, batchSize rows at
// a time.
type BatchRowIterator struct {
	db           *sqlx.DB
	table        string
	idField      string
	batchSize    int
	conditions   []string
	args         []any
	fetchColumns []string

	lastID int64
	done   bool
}

func NewBatchRowIterator(db *sqlx.DB, table, idField string, batchSize int) *BatchRowIterator {
	if batchSize < 1 {
		batchSize = 1
	}
	return &BatchRowIterator{
		db:        db,
		table:     table,
		idField:   idField,
		batchSize: batchSize,
	}
}

// AddConditions appends a WHERE clause fragment with its ? arguments.
func (it *BatchRowIterator) AddConditions(condition string, args ...any) {
	it.conditions = append(it.conditions, condition)
	it.args = append(it.args, args...)
}

// SetFetchColumns selects the columns returned besides the id field.
func (it *BatchRowIterator) SetFetchColumns(columns ...string) {
	it.fetchColumns = columns
}

// Next returns the next batch, or nil once the table is exhausted.
func (it *BatchRowIterator) Next(ctx context.Context) ([]Row, error) {
	if it.done {
		return nil, nil
	}

	columns := append([]string{it.idField}, it.fetchColumns...)
	where := append([]string{it.idField + " > ?"}, it.conditions...)
	args := append([]any{it.lastID}, it.args...)
	args = append(args, it.batchSize)

	query := it.db.Rebind(fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT ?",
		strings.Join(columns, ", "), it.table, strings.Join(where, " AND "), it.idField))

	rows, err := it.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batch []Row
	for rows.Next() {
		row := Row{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		batch = append(batch, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(batch) < it.batchSize {
		it.done = true
	}
	if len(batch) > 0 {
		it.lastID = batch[len(batch)-1].Int64(it.idField)
	}
	return batch, nil
}

// RowUpdate is the column changes for the row with the given id.
type RowUpdate struct {
	ID      int64
	Changes map[string]any
}

// BatchRowWriter applies a batch of row updates in one transaction.
type BatchRowWriter struct {
	db      *sqlx.DB
	table   string
	idField string
}

func NewBatchRowWriter(db *sqlx.DB, table, idField string) *BatchRowWriter {
	return &BatchRowWriter{db: db, table: table, idField: idField}
}

func (w *BatchRowWriter) Write(ctx context.Context, updates []RowUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, u := range updates {
		cols := make([]string, 0, len(u.Changes))
		for col := range u.Changes {
			cols = append(cols, col)
		}
		sort.Strings(cols)

		sets := make([]string, 0, len(cols))
		args := make([]any, 0, len(cols)+1)
		for _, col := range cols {
			sets = append(sets, col+" = ?")
			args = append(args, u.Changes[col])
		}
		args = append(args, u.ID)

		query := tx.Rebind(fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", w.table, strings.Join(sets, ", "), w.idField))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to update %s %d: %w", w.idField, u.ID, err)
		}
	}

	return tx.Commit()
}

// RowUpdateGenerator computes the changes for one row. An empty result
// leaves the row alone.
type RowUpdateGenerator interface {
	Update(ctx context.Context, row Row) (map[string]any, error)
}

// BatchPreparer is implemented by generators that look up data for a whole
// batch before rows are visited.
type BatchPreparer interface {
	Prepare(ctx context.Context, rows []Row) error
}

// BatchRowUpdate feeds every batch of reader through generator into writer.
type BatchRowUpdate struct {
	reader    *BatchRowIterator
	writer    *BatchRowWriter
	generator RowUpdateGenerator
	output    func(string)
}

func NewBatchRowUpdate(reader *BatchRowIterator, writer *BatchRowWriter, generator RowUpdateGenerator) *BatchRowUpdate {
	return &BatchRowUpdate{
		reader:    reader,
		writer:    writer,
		generator: generator,
		output:    func(string) {},
	}
}

func (u *BatchRowUpdate) SetOutput(output func(string)) {
	u.output = output
}

// Execute runs to completion and returns the number of rows changed.
func (u *BatchRowUpdate) Execute(ctx context.Context) (int, error) {
	total := 0
	for {
		batch, err := u.reader.Next(ctx)
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			return total, nil
		}

		if p, ok := u.generator.(BatchPreparer); ok {
			if err := p.Prepare(ctx, batch); err != nil {
				return total, err
			}
		}

		var updates []RowUpdate
		for _, row := range batch {
			changes, err := u.generator.Update(ctx, row)
			if err != nil {
				return total, err
			}
			if len(changes) > 0 {
				updates = append(updates, RowUpdate{ID: row.Int64(u.reader.idField), Changes: changes})
			}
		}

		if err := u.writer.Write(ctx, updates); err != nil {
			return total, err
		}
		total += len(updates)

		first := batch[0].Int64(u.reader.idField)
		last := batch[len(batch)-1].Int64(u.reader.idField)
		u.output(fmt.Sprintf("Processing %s %d to %d: updated %d rows\n", u.reader.idField, first, last, len(updates)))
	}
}

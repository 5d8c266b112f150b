package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"invoicer/internal/invoice/models"
	id "invoicer/pkg/domain"
	"invoicer/pkg/platform/sentinel"
)

// Postgres persists invoices in PostgreSQL. Line items live in their own
// table and are written together with the invoice row in one transaction,
// keeping the aggregate save atomic.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed invoice store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, inv *models.Invoice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create invoice: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoices (id, status, customer_name, customer_email)
		VALUES ($1, $2, $3, $4)
	`, uuid.UUID(inv.ID), inv.Status.String(), inv.CustomerName, inv.CustomerEmail.String())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	if err := insertLineItems(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create invoice: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, invoiceID id.InvoiceID) (*models.Invoice, error) {
	inv, err := loadInvoice(ctx, s.db, invoiceID, false)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Execute runs the validate-then-mutate sequence inside a transaction with a
// SELECT ... FOR UPDATE row lock, so concurrent transitions on the same
// invoice serialize at the database.
func (s *Postgres) Execute(ctx context.Context, invoiceID id.InvoiceID, check CheckFunc, mutate MutateFunc) (*models.Invoice, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin execute: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inv, err := loadInvoice(ctx, tx, invoiceID, true)
	if err != nil {
		return nil, err
	}

	if err := check(inv); err != nil {
		return nil, err
	}
	mutate(inv)

	_, err = tx.ExecContext(ctx, `
		UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1
	`, uuid.UUID(inv.ID), inv.Status.String())
	if err != nil {
		return nil, fmt.Errorf("update invoice status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit execute: %w", err)
	}
	return inv, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadInvoice(ctx context.Context, q querier, invoiceID id.InvoiceID, forUpdate bool) (*models.Invoice, error) {
	query := `
		SELECT id, status, customer_name, customer_email
		FROM invoices
		WHERE id = $1`
	if forUpdate {
		query += `
		FOR UPDATE`
	}

	var (
		rowID    uuid.UUID
		status   string
		custName string
		custMail string
	)
	err := q.QueryRowContext(ctx, query, uuid.UUID(invoiceID)).Scan(&rowID, &status, &custName, &custMail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}

	parsedStatus, err := models.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}

	items, err := loadLineItems(ctx, q, invoiceID)
	if err != nil {
		return nil, err
	}

	return models.Reconstitute(
		id.InvoiceID(rowID),
		parsedStatus,
		custName,
		models.Email(custMail),
		items,
	), nil
}

func loadLineItems(ctx context.Context, q querier, invoiceID id.InvoiceID) ([]models.LineItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, product_name, quantity, unit_price
		FROM invoice_line_items
		WHERE invoice_id = $1
		ORDER BY position
	`, uuid.UUID(invoiceID))
	if err != nil {
		return nil, fmt.Errorf("load line items: %w", err)
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var (
			itemID    uuid.UUID
			name      string
			quantity  int
			unitPrice int
		)
		if err := rows.Scan(&itemID, &name, &quantity, &unitPrice); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		items = append(items, models.ReconstituteLineItem(id.LineItemID(itemID), name, quantity, unitPrice))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}
	return items, nil
}

func insertLineItems(ctx context.Context, tx *sql.Tx, inv *models.Invoice) error {
	for pos, li := range inv.LineItems {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_line_items (id, invoice_id, product_name, quantity, unit_price, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.UUID(li.ID), uuid.UUID(inv.ID), li.ProductName, li.Quantity.Int(), li.UnitPrice.Int(), pos)
		if err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
	}
	return nil
}

package datasource

import (
	"context"

	"github.com/supabase-community/postgrest-go"

	"hdfhr-backend/internal/domain"
	"hdfhr-backend/internal/repository"
	apperrors "hdfhr-backend/pkg/errors"
)

const receiptsTable = "receipts"

// ListReceipts pages through receipts matching the query, newest first.
func (c *Client) ListReceipts(ctx context.Context, query repository.ReceiptQuery) ([]domain.Receipt, error) {
	from, to := query.Page.Bounds()
	data, err := c.call(ctx, "receipts.list", func() ([]byte, error) {
		builder := c.sb.From(receiptsTable).Select("*", "", false)
		if query.CompanyID != "" {
			builder = builder.Eq("company_id", query.CompanyID)
		}
		if query.Category != "" {
			builder = builder.Eq("category", query.Category)
		}
		data, _, err := builder.
			Order("created_at", &postgrest.OrderOpts{Ascending: false}).
			Range(from, to, "").
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}
	return decodeList[domain.Receipt](data, "receipt list")
}

// GetReceipt returns one receipt, or nil when the id matches no row.
func (c *Client) GetReceipt(ctx context.Context, id string) (*domain.Receipt, error) {
	data, err := c.call(ctx, "receipts.get", func() ([]byte, error) {
		data, _, err := c.sb.From(receiptsTable).
			Select("*", "", false).
			Eq("id", id).
			Limit(1, "").
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.Receipt](data, "receipt")
}

// CreateReceipt inserts a receipt and returns the stored row.
func (c *Client) CreateReceipt(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error) {
	record := map[string]any{
		"company_id":    receipt.CompanyID,
		"merchant_name": receipt.MerchantName,
		"date":          receipt.Date,
		"total_amount":  receipt.TotalAmount,
		"tax_amount":    receipt.TaxAmount,
	}
	if receipt.EmployeeID != "" {
		record["employee_id"] = receipt.EmployeeID
	}
	if receipt.Category != "" {
		record["category"] = receipt.Category
	}
	if receipt.ImagePath != "" {
		record["image_path"] = receipt.ImagePath
	}

	data, err := c.call(ctx, "receipts.create", func() ([]byte, error) {
		data, _, err := c.sb.From(receiptsTable).
			Insert(record, false, "", "representation", "").
			Execute()
		return data, err
	})
	if err != nil {
		return nil, err
	}

	created, err := decodeOne[domain.Receipt](data, "receipt")
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, apperrors.NewExternal("upstream returned no receipt row", nil)
	}
	return created, nil
}

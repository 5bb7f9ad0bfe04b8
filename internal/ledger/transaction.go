// Package ledger records a user's income and expense transactions and
// summarizes them.
package ledger

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a transaction does not exist for the user
	ErrNotFound = errors.New("transaction not found")
	// ErrInvalidTransaction is returned when input fails validation
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// Type distinguishes money coming in from money going out
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// DefaultCategory is assigned when a transaction is saved without a category
const DefaultCategory = "Other"

// ExpenseCategories are the categories an expense may be filed under
var ExpenseCategories = []string{
	"Office Supplies", "Travel", "Meals", "Equipment", "Software", "Marketing", "Utilities", "Rent", "Other",
}

// IncomeCategories are the categories income may be filed under
var IncomeCategories = []string{
	"Services", "Products", "Consulting", "Commissions", "Royalties", "Other",
}

// Categories returns the categories valid for a transaction type
func Categories(t Type) []string {
	switch t {
	case TypeIncome:
		return IncomeCategories
	case TypeExpense:
		return ExpenseCategories
	}
	return nil
}

func validCategory(t Type, category string) bool {
	return slices.Contains(Categories(t), category)
}

// Transaction is a single income or expense entry owned by one user
type Transaction struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	Type               Type            `json:"type"`
	Amount             decimal.Decimal `json:"amount"`
	Description        string          `json:"description"`
	Category           string          `json:"category"`
	Date               time.Time       `json:"date"`
	ReceiptFile        string          `json:"receipt_file,omitempty"`
	ReceiptContentType string          `json:"receipt_content_type,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Input is what a user submits to record a transaction
type Input struct {
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	// Date is YYYY-MM-DD or RFC 3339; empty means now
	Date string `json:"date"`
	// ReceiptImage is an optional base64 image or data URL kept alongside the transaction
	ReceiptImage    string `json:"receipt_image,omitempty"`
	ReceiptFilename string `json:"receipt_filename,omitempty"`
}

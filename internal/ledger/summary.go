package ledger

import "github.com/shopspring/decimal"

// CategoryTotal is the sum of expenses filed under one category
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// Summary aggregates a user's transactions
type Summary struct {
	TotalIncome        decimal.Decimal `json:"total_income"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	Balance            decimal.Decimal `json:"balance"`
	ExpensesByCategory []CategoryTotal `json:"expenses_by_category"`
	Count              int             `json:"count"`
}

// Summarize totals income and expenses. Categories appear in the order they are
// first seen in transactions.
func Summarize(transactions []*Transaction) Summary {
	summary := Summary{
		ExpensesByCategory: []CategoryTotal{},
		Count:              len(transactions),
	}
	index := make(map[string]int)

	for _, t := range transactions {
		switch t.Type {
		case TypeIncome:
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
		case TypeExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(t.Amount)
			i, ok := index[t.Category]
			if !ok {
				i = len(summary.ExpensesByCategory)
				index[t.Category] = i
				summary.ExpensesByCategory = append(summary.ExpensesByCategory, CategoryTotal{Category: t.Category})
			}
			summary.ExpensesByCategory[i].Total = summary.ExpensesByCategory[i].Total.Add(t.Amount)
		}
	}

	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary
}

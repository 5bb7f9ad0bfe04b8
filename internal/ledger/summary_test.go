package ledger

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Summarize", func() {
	amount := func(s string) decimal.Decimal {
		return decimal.RequireFromString(s)
	}

	It("totals income, expenses and balance", func() {
		summary := Summarize([]*Transaction{
			{Type: TypeIncome, Amount: amount("1500.00"), Category: "Consulting"},
			{Type: TypeExpense, Amount: amount("0.10"), Category: "Meals"},
			{Type: TypeExpense, Amount: amount("0.20"), Category: "Meals"},
			{Type: TypeExpense, Amount: amount("1200"), Category: "Rent"},
		})

		Expect(summary.TotalIncome.StringFixed(2)).To(Equal("1500.00"))
		Expect(summary.TotalExpenses.StringFixed(2)).To(Equal("1200.30"))
		Expect(summary.Balance.StringFixed(2)).To(Equal("299.70"))
		Expect(summary.Count).To(Equal(4))
	})

	It("groups expenses by category in first-seen order", func() {
		summary := Summarize([]*Transaction{
			{Type: TypeExpense, Amount: amount("30"), Category: "Travel"},
			{Type: TypeExpense, Amount: amount("5"), Category: "Meals"},
			{Type: TypeIncome, Amount: amount("80"), Category: "Services"},
			{Type: TypeExpense, Amount: amount("12.5"), Category: "Travel"},
		})

		Expect(summary.ExpensesByCategory).To(HaveLen(2))
		Expect(summary.ExpensesByCategory[0].Category).To(Equal("Travel"))
		Expect(summary.ExpensesByCategory[0].Total.StringFixed(2)).To(Equal("42.50"))
		Expect(summary.ExpensesByCategory[1].Category).To(Equal("Meals"))
	})

	It("returns zero totals and an empty breakdown for no transactions", func() {
		summary := Summarize(nil)
		Expect(summary.Balance.IsZero()).To(BeTrue())
		Expect(summary.ExpensesByCategory).NotTo(BeNil())
		Expect(summary.ExpensesByCategory).To(BeEmpty())
	})
})

var _ = Describe("Categories", func() {
	It("returns the list for each type", func() {
		Expect(Categories(TypeExpense)).To(ContainElement("Office Supplies"))
		Expect(Categories(TypeIncome)).To(ContainElement("Royalties"))
		Expect(Categories("transfer")).To(BeEmpty())
	})
})

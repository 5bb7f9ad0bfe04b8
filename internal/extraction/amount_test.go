package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Amount", func() {
	DescribeTable("picking the amount",
		func(text, expected string) {
			Expect(Amount(text)).To(Equal(expected))
		},
		Entry("no digits at all", "THANK YOU\nCOME AGAIN", ""),
		Entry("empty text", "", ""),
		Entry("labeled total beats smaller line items", "Coffee 3.50\nTotal: $45.00\nMuffin 12", "45.00"),
		Entry("labeled total beats a larger bare number", "Total: $45.00\nCard ending 9999", "45.00"),
		Entry("largest of several totals", "Subtotal 40.00\nTotal 43.20", "43.20"),
		Entry("total label is case-insensitive", "GRAND TOTAL 19.99\nItem 25.00", "19.99"),
		Entry("amount label when no total", "Amount: 20\nItem 50", "20.00"),
		Entry("bare numbers pick the max", "$5 $12 $3", "12.00"),
		Entry("single fractional digit", "Paid 7.5", "7.50"),
		Entry("trailing period", "Paid 8.", "8.00"),
		Entry("three decimals keep the first two", "Weight 1.234", "1.23"),
	)
})

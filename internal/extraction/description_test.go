package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Description", func() {
	var (
		lines       Lines
		description string
	)

	JustBeforeEach(func() {
		description = Description(lines)
	})

	When("a header line is entirely capitalized words", func() {
		BeforeEach(func() {
			lines = Lines{"BARNES & NOBLE", "Store 2231", "Book 14.99"}
		})

		It("should use the whole line", func() {
			Expect(description).To(Equal("BARNES & NOBLE"))
		})
	})

	When("the merchant name is embedded in a longer line", func() {
		BeforeEach(func() {
			lines = Lines{"#0042 Corner Market 555-1234"}
		})

		It("should use the embedded run", func() {
			Expect(description).To(Equal("Corner Market"))
		})
	})

	When("the merchant only appears after the first five lines", func() {
		BeforeEach(func() {
			lines = Lines{"12", "ab", "x9", "$4.50", "1234", "$1.00", "receipt no", "JOE'S COFFEE SHOP"}
		})

		It("should find it with the all-lines fallback", func() {
			Expect(description).To(Equal("JOE'S COFFEE SHOP"))
		})
	})

	When("nothing qualifies", func() {
		BeforeEach(func() {
			lines = Lines{"1234", "5678", "$3.00", "receipt #2"}
		})

		It("should return the fallback", func() {
			Expect(description).To(Equal(FallbackDescription))
		})
	})

	When("there are no lines", func() {
		BeforeEach(func() {
			lines = nil
		})

		It("should return the fallback", func() {
			Expect(description).To(Equal(FallbackDescription))
		})
	})
})

var _ = Describe("ScanWindow", func() {
	It("stops at the first acceptable match", func() {
		name, ok := ScanWindow(Lines{"WALGREENS", "CVS PHARMACY"}, 5)
		Expect(ok).To(BeTrue())
		Expect(name).To(Equal("WALGREENS"))
	})

	It("ignores lines beyond the limit", func() {
		_, ok := ScanWindow(Lines{"123", "TARGET"}, 1)
		Expect(ok).To(BeFalse())
	})

	It("rejects matches of three characters or fewer", func() {
		_, ok := ScanWindow(Lines{"CVS", "Ab 12"}, 5)
		Expect(ok).To(BeFalse())
	})

	It("tolerates a limit larger than the input", func() {
		name, ok := ScanWindow(Lines{"KROGER"}, 10)
		Expect(ok).To(BeTrue())
		Expect(name).To(Equal("KROGER"))
	})
})

var _ = Describe("FirstMeaningfulLine", func() {
	It("skips prices, bare numbers and receipt headers", func() {
		line, ok := FirstMeaningfulLine(Lines{"$9.99", "20240115", "Customer Receipt", "thanks for shopping"})
		Expect(ok).To(BeTrue())
		Expect(line).To(Equal("thanks for shopping"))
	})

	It("reports a miss when nothing qualifies", func() {
		_, ok := FirstMeaningfulLine(Lines{"ok", "42"})
		Expect(ok).To(BeFalse())
	})
})

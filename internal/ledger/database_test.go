package ledger

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		db, err = NewBoltDB(filepath.Join(tmpDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	save := func(t *Transaction) {
		Expect(db.SaveTransaction(t)).To(Succeed())
	}

	Describe("SaveTransaction", func() {
		When("saving succeeds", func() {
			BeforeEach(func() {
				save(&Transaction{
					ID:          "t1",
					UserID:      "alice",
					Type:        TypeExpense,
					Amount:      decimal.RequireFromString("25.99"),
					Description: "Office chair",
					Category:    "Equipment",
					Date:        day(15),
				})
			})

			It("should store the transaction for its user", func() {
				saved, err := db.GetTransaction("alice", "t1")
				Expect(err).NotTo(HaveOccurred())
				Expect(saved.Description).To(Equal("Office chair"))
				Expect(saved.Amount.Equal(decimal.RequireFromString("25.99"))).To(BeTrue())
				Expect(saved.Date.Equal(day(15))).To(BeTrue())
			})

			It("should not be visible to other users", func() {
				_, err := db.GetTransaction("bob", "t1")
				Expect(err).To(MatchError(ErrNotFound))
			})
		})

		When("the transaction has no user", func() {
			It("returns an error", func() {
				Expect(db.SaveTransaction(&Transaction{ID: "t1"})).To(MatchError(ContainSubstring("missing user")))
			})
		})
	})

	Describe("GetTransaction", func() {
		When("the transaction does not exist", func() {
			BeforeEach(func() {
				save(&Transaction{ID: "t1", UserID: "alice"})
			})

			It("returns ErrNotFound", func() {
				_, err := db.GetTransaction("alice", "nope")
				Expect(err).To(MatchError(ErrNotFound))
			})
		})
	})

	Describe("ListTransactions", func() {
		var (
			transactions []*Transaction
			err          error
		)

		JustBeforeEach(func() {
			transactions, err = db.ListTransactions("alice")
		})

		When("the user has transactions", func() {
			BeforeEach(func() {
				save(&Transaction{ID: "old", UserID: "alice", Date: day(1)})
				save(&Transaction{ID: "new", UserID: "alice", Date: day(20)})
				save(&Transaction{ID: "mid-a", UserID: "alice", Date: day(10), CreatedAt: day(10)})
				save(&Transaction{ID: "mid-b", UserID: "alice", Date: day(10), CreatedAt: day(11)})
				save(&Transaction{ID: "other", UserID: "bob", Date: day(25)})
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return only the user's transactions, newest first", func() {
				ids := make([]string, 0, len(transactions))
				for _, t := range transactions {
					ids = append(ids, t.ID)
				}
				Expect(ids).To(Equal([]string{"new", "mid-b", "mid-a", "old"}))
			})
		})

		When("the user has no transactions", func() {
			It("should return an empty list", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(transactions).NotTo(BeNil())
				Expect(transactions).To(BeEmpty())
			})
		})
	})

	Describe("DeleteTransaction", func() {
		BeforeEach(func() {
			save(&Transaction{ID: "t1", UserID: "alice"})
		})

		It("removes the transaction", func() {
			Expect(db.DeleteTransaction("alice", "t1")).To(Succeed())
			_, err := db.GetTransaction("alice", "t1")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("does not delete another user's transaction", func() {
			Expect(db.DeleteTransaction("bob", "t1")).To(MatchError(ErrNotFound))
			_, err := db.GetTransaction("alice", "t1")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("NewBoltDB", func() {
		It("fails for an unwritable path", func() {
			_, err := NewBoltDB(filepath.Join(tmpDir, "missing", "dir", "test.db"))
			Expect(err).To(MatchError(ContainSubstring("opening boltdb")))
		})
	})
})

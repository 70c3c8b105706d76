package parse_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mtaiwo/receiptscan/internal/parse"
)

func TestParse(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Parse Suite")
}

var _ = Describe("Parser.Parse", func() {
	var (
		parser *parse.Parser
		input  string
		result parse.Receipt
	)

	BeforeEach(func() {
		parser = parse.New()
	})

	JustBeforeEach(func() {
		result = parser.Parse(input)
	})

	When("given a complete cafe receipt", func() {
		BeforeEach(func() {
			input = "Joe's Cafe\n123 Main St\n12/03/2023\nCoffee 2 3.50\nTotal: 7.00"
		})

		It("extracts the store name from the keyword line", func() {
			Expect(result.StoreName).To(Equal("Joe's Cafe"))
		})

		It("reads the date as day-month-year", func() {
			Expect(result.PurchaseDate).NotTo(BeNil())
			Expect(*result.PurchaseDate).To(Equal(time.Date(2023, time.March, 12, 0, 0, 0, 0, time.UTC)))
		})

		It("takes the total from the keyword line", func() {
			Expect(result.TotalAmount).To(Equal(7.00))
		})

		It("extracts the single line item", func() {
			Expect(result.Items).To(ConsistOf(parse.LineItem{Name: "Coffee", Quantity: 2, UnitPrice: 3.50}))
		})
	})

	When("the total keyword is garbled by OCR", func() {
		BeforeEach(func() {
			input = "Corner Shop\nTea 1 2.00\nToatl 15.99"
		})

		It("still finds the total via fuzzy matching", func() {
			Expect(result.TotalAmount).To(Equal(15.99))
		})
	})

	When("no date appears anywhere", func() {
		BeforeEach(func() {
			input = "Corner Shop\nTea 1 2.00\nTotal 2.00"
		})

		It("reports the date as absent rather than inventing one", func() {
			Expect(result.PurchaseDate).To(BeNil())
		})
	})

	When("the same item line repeats", func() {
		BeforeEach(func() {
			input = "Fruit Mart\nApple 1 0.50\nApple 1 0.50\nTotal 1.00"
		})

		It("keeps only one copy", func() {
			Expect(result.Items).To(HaveLen(1))
			Expect(result.Items[0].Name).To(Equal("Apple"))
		})
	})

	When("input is empty", func() {
		BeforeEach(func() {
			input = ""
		})

		It("degrades to the sentinel receipt", func() {
			Expect(result.StoreName).To(Equal(parse.UnknownStore))
			Expect(result.PurchaseDate).To(BeNil())
			Expect(result.TotalAmount).To(BeZero())
			Expect(result.Items).To(BeEmpty())
		})
	})

	When("an item wraps onto two lines", func() {
		BeforeEach(func() {
			input = "Corner Shop\nBagel\n3 2.25\nTotal 6.75"
		})

		It("pairs the name line with the qty-price line", func() {
			Expect(result.Items).To(ConsistOf(parse.LineItem{Name: "Bagel", Quantity: 3, UnitPrice: 2.25}))
		})
	})

	When("a qty-price line follows an already-paired one", func() {
		BeforeEach(func() {
			input = "Corner Shop\nBagel\n3 2.25\n2 1.00\nTotal 6.75"
		})

		It("never reuses a consumed line for a second item", func() {
			Expect(result.Items).To(ConsistOf(parse.LineItem{Name: "Bagel", Quantity: 3, UnitPrice: 2.25}))
		})
	})

	When("lines carry zero quantities or prices", func() {
		BeforeEach(func() {
			input = "Mini Mart\nWater 0 1.50\nGum 2 0.00\nChips 1 1.25\nTotal 1.25"
		})

		It("only emits items with positive quantity and price", func() {
			Expect(result.Items).To(ConsistOf(parse.LineItem{Name: "Chips", Quantity: 1, UnitPrice: 1.25}))
			for _, it := range result.Items {
				Expect(it.Quantity).To(BeNumerically(">=", 1))
				Expect(it.UnitPrice).To(BeNumerically(">", 0))
			}
		})
	})

	When("fiscal-printer footer codes appear between items", func() {
		BeforeEach(func() {
			input = "Mini Mart\nChips 1 1.25\nERCA 2 4.00\nTotal 1.25"
		})

		It("vetoes the footer line", func() {
			Expect(result.Items).To(ConsistOf(parse.LineItem{Name: "Chips", Quantity: 1, UnitPrice: 1.25}))
		})
	})

	When("no line carries a total keyword", func() {
		BeforeEach(func() {
			input = "Mini Mart\nWater 1 1.10\nSnacks 2 4.95\nhave a nice day"
		})

		It("falls back to the largest amount token", func() {
			Expect(result.TotalAmount).To(Equal(4.95))
		})
	})

	When("input is pure noise", func() {
		BeforeEach(func() {
			input = "****\n||\n   \n--"
		})

		It("still yields a usable, empty result", func() {
			Expect(result.StoreName).NotTo(BeEmpty())
			Expect(result.TotalAmount).To(BeZero())
			Expect(result.Items).To(BeEmpty())
		})
	})

	When("the same text is parsed twice", func() {
		BeforeEach(func() {
			input = "Joe's Cafe\n12/03/2023\nCoffee 2 3.50\nTotal: 7.00"
		})

		It("produces identical results", func() {
			Expect(parser.Parse(input)).To(Equal(result))
		})
	})
})

var _ = Describe("Normalize", func() {
	It("splits on any line-break style", func() {
		Expect(parse.Normalize("a\r\nb\nc")).To(Equal([]string{"a", "b", "c"}))
	})

	It("strips asterisks and collapses whitespace", func() {
		Expect(parse.Normalize("  *Espresso*   1   79.050  ")).To(Equal([]string{"Espresso 1 79.050"}))
	})

	It("drops lines that normalize to empty", func() {
		Expect(parse.Normalize("a\n **  \n\nb")).To(Equal([]string{"a", "b"}))
	})

	It("returns nil for empty input", func() {
		Expect(parse.Normalize("")).To(BeNil())
	})
})

var _ = Describe("store extraction", func() {
	var parser *parse.Parser

	BeforeEach(func() {
		parser = parse.New()
	})

	It("skips address and phone lines when no keyword matches", func() {
		r := parser.Parse("12 High Street\n+1 (555) 123-4567\nGreen Grocers\nTotal 3.00")
		Expect(r.StoreName).To(Equal("Green Grocers"))
	})

	It("only scans the first ten lines for keywords", func() {
		input := "a1\na2\na3\na4\na5\na6\na7\na8\na9\na10\nBig Coffee House"
		r := parser.Parse(input)
		Expect(r.StoreName).NotTo(Equal("Big Coffee House"))
	})

	It("honors custom merchant keywords", func() {
		custom := parse.NewParser(parse.Tables{MerchantKeywords: []string{"apotheke"}})
		r := custom.Parse("Kassenbon\nStadt Apotheke\nTotal 9.99")
		Expect(r.StoreName).To(Equal("Stadt Apotheke"))
	})
})

var _ = Describe("Receipt.Payload", func() {
	It("formats money and date for the wire", func() {
		r := parse.New().Parse("Joe's Cafe\n12/03/2023\nCoffee 2 3.50\nTotal: 7.00")
		p := r.Payload()
		Expect(p.StoreName).To(Equal("Joe's Cafe"))
		Expect(p.TotalAmount).To(Equal("7.00"))
		Expect(p.PurchaseDate).To(Equal("2023-03-12"))
		Expect(p.DateFound).To(BeTrue())
		Expect(p.Items).To(ConsistOf(parse.ItemPayload{Name: "Coffee", Quantity: 2, UnitPrice: "3.50"}))
	})

	It("marks an absent date explicitly", func() {
		r := parse.New().Parse("Corner Shop\nTotal 2.00")
		p := r.Payload()
		Expect(p.PurchaseDate).To(BeEmpty())
		Expect(p.DateFound).To(BeFalse())
	})
})

package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crafthouse/crafthouse/internal/domain"
	"github.com/crafthouse/crafthouse/internal/store"
)

func textiles(now time.Time) store.Dataset {
	return store.Dataset{
		RawMaterials: []domain.RawMaterial{
			{Name: "Cotton", Unit: "m", PricePerUnit: dec("2.5"), AvailableQuantity: qty("120")},
			{Name: "Linen", Unit: "m", PricePerUnit: dec("6.8"), AvailableQuantity: qty("40")},
			{Name: "Indigo Dye", Unit: "l", PricePerUnit: dec("14"), AvailableQuantity: qty("6")},
			{Name: "Thread", Unit: "spool", PricePerUnit: dec("1.2"), AvailableQuantity: qty("85")},
			{Name: "Buttons", Unit: "pc", PricePerUnit: dec("0.15"), AvailableQuantity: qty("9")},
		},
		Categories: []domain.Category{
			{Title: "Clothing", Description: "Cut-and-sew garments", ManufacturingStages: []string{"Cut", "Sew", "Press", "Pack"}},
			{Title: "Home", Description: "Household linens", ManufacturingStages: []string{"Dye", "Hem", "Fold"}},
		},
		Products: []domain.Product{
			{Name: "T-Shirt", Price: dec("20"), Category: "Clothing", RawMaterials: usage("Cotton", "0.2", "Thread", "0.1")},
			{Name: "Linen Shirt", Price: dec("55"), Category: "Clothing", RawMaterials: usage("Linen", "1.6", "Thread", "0.2", "Buttons", "8")},
			{Name: "Tea Towel", Price: dec("9"), Category: "Home", RawMaterials: usage("Linen", "0.5", "Indigo Dye", "0.05")},
		},
		Suppliers: []domain.Supplier{
			{
				Name: "Loom & Co", Address: "12 Mill Lane, Bradford", Phone: "+44 1274 555010",
				ContactPersons: []domain.ContactPerson{{Name: "Ada Booth", Phone: "+44 1274 555011", Email: "ada@loomco.example"}},
				GSTID:          "GB123456789", Rating: 4.5, RawMaterials: []string{"Cotton", "Linen"},
			},
			{
				Name: "Haberdashery Direct", Address: "4 Button Row, Leeds", Phone: "+44 113 555020",
				ContactPersons: []domain.ContactPerson{}, Rating: 3.8, RawMaterials: []string{"Thread", "Buttons", "Indigo Dye"},
			},
		},
		Orders: []domain.Order{
			{OrderDate: now.Add(-2 * time.Hour), Products: lines("T-Shirt", 3, "Tea Towel", 2), Source: domain.SourcePlaced},
			{OrderDate: now.Add(-30 * time.Minute), Products: lines("Linen Shirt", 1), Source: domain.SourceShipped},
			{OrderDate: now.AddDate(0, 0, -1), Products: lines("T-Shirt", 10), Source: domain.SourcePlaced},
		},
		Transactions: []domain.Transaction{
			{MaterialName: "Buttons", Quantity: decimal.NewFromInt(200), Supplier: "Haberdashery Direct", EstimatedPrice: dec("30"), Date: now.AddDate(0, 0, -2), Status: domain.TransactionPending},
			{MaterialName: "Cotton", Quantity: decimal.NewFromInt(50), Supplier: "Loom & Co", EstimatedPrice: dec("125"), ActualPrice: dec("120"), Date: now.AddDate(0, 0, -9), Status: domain.TransactionCompleted, InvoiceNo: "LC-2291"},
		},
	}
}

func bakery(now time.Time) store.Dataset {
	return store.Dataset{
		RawMaterials: []domain.RawMaterial{
			{Name: "Flour", Unit: "kg", PricePerUnit: dec("0.9"), AvailableQuantity: qty("75")},
			{Name: "Butter", Unit: "kg", PricePerUnit: dec("8.5"), AvailableQuantity: qty("12")},
			{Name: "Sugar", Unit: "kg", PricePerUnit: dec("1.1"), AvailableQuantity: qty("30")},
			{Name: "Eggs", Unit: "pc", PricePerUnit: dec("0.25"), AvailableQuantity: qty("8")},
			{Name: "Yeast", Unit: "g", PricePerUnit: dec("0.02"), AvailableQuantity: qty("500")},
		},
		Categories: []domain.Category{
			{Title: "Bread", Description: "Yeasted loaves", ManufacturingStages: []string{"Mix", "Proof", "Shape", "Bake"}},
			{Title: "Pastry", Description: "Laminated and sweet doughs", ManufacturingStages: []string{"Laminate", "Shape", "Bake", "Glaze"}},
		},
		Products: []domain.Product{
			{Name: "Sourdough Loaf", Price: dec("6.5"), Category: "Bread", RawMaterials: usage("Flour", "0.5")},
			{Name: "Brioche", Price: dec("8"), Category: "Bread", RawMaterials: usage("Flour", "0.4", "Butter", "0.15", "Eggs", "3", "Sugar", "0.05", "Yeast", "7")},
			{Name: "Croissant", Price: dec("2.8"), Category: "Pastry", RawMaterials: usage("Flour", "0.06", "Butter", "0.04", "Yeast", "1")},
		},
		Suppliers: []domain.Supplier{
			{
				Name: "Millstone Flour", Address: "Old Mill, Stoneground Rd", Phone: "+1 555 0101",
				ContactPersons: []domain.ContactPerson{{Name: "Jo Miller", Phone: "+1 555 0102", Email: "jo@millstone.example"}},
				Rating: 4.9, RawMaterials: []string{"Flour", "Yeast"},
			},
			{
				Name: "Valley Dairy", Address: "Route 9, Green Valley", Phone: "+1 555 0200",
				ContactPersons: []domain.ContactPerson{}, Rating: 4.1, RawMaterials: []string{"Butter", "Eggs"},
			},
		},
		Orders: []domain.Order{
			{OrderDate: now.Add(-3 * time.Hour), Products: lines("Sourdough Loaf", 4, "Croissant", 6), Source: domain.SourcePlaced},
			{OrderDate: now.Add(-1 * time.Hour), Products: lines("Brioche", 2), Source: domain.SourceShipped},
		},
		Transactions: []domain.Transaction{
			{MaterialName: "Eggs", Quantity: decimal.NewFromInt(60), Supplier: "Valley Dairy", EstimatedPrice: dec("15"), Date: now.AddDate(0, 0, -1), Status: domain.TransactionPending},
		},
	}
}

func woodshop(now time.Time) store.Dataset {
	return store.Dataset{
		RawMaterials: []domain.RawMaterial{
			{Name: "Oak Board", Unit: "bd ft", PricePerUnit: dec("9.5"), AvailableQuantity: qty("64")},
			{Name: "Walnut Board", Unit: "bd ft", PricePerUnit: dec("14.25"), AvailableQuantity: qty("18")},
			{Name: "Wood Glue", Unit: "ml", PricePerUnit: dec("0.03"), AvailableQuantity: qty("2000")},
			{Name: "Finishing Oil", Unit: "ml", PricePerUnit: dec("0.05"), AvailableQuantity: qty("750")},
			{Name: "Brass Screws", Unit: "pc", PricePerUnit: dec("0.12")},
		},
		Categories: []domain.Category{
			{Title: "Furniture", Description: "Joined pieces", ManufacturingStages: []string{"Mill", "Join", "Sand", "Finish", "Inspect"}},
			{Title: "Kitchenware", Description: "Boards and utensils", ManufacturingStages: []string{"Cut", "Sand", "Oil"}},
		},
		Products: []domain.Product{
			{Name: "Side Table", Price: dec("240"), Category: "Furniture", RawMaterials: usage("Oak Board", "9", "Wood Glue", "60", "Finishing Oil", "120", "Brass Screws", "12")},
			{Name: "Cutting Board", Price: dec("45"), Category: "Kitchenware", RawMaterials: usage("Walnut Board", "1.5", "Finishing Oil", "30")},
			{Name: "Serving Spoon", Price: dec("18"), Category: "Kitchenware", RawMaterials: usage("Oak Board", "0.25", "Finishing Oil", "5")},
		},
		Suppliers: []domain.Supplier{
			{
				Name: "Timber Yard North", Address: "Unit 3, Sawmill Estate", Phone: "+61 2 5550 1000",
				ContactPersons: []domain.ContactPerson{{Name: "Sam Carver", Phone: "+61 2 5550 1001", Email: "sam@timberyard.example"}},
				Rating: 4.3, RawMaterials: []string{"Oak Board", "Walnut Board"},
			},
		},
		Orders: []domain.Order{
			{OrderDate: now.Add(-90 * time.Minute), Products: lines("Cutting Board", 3, "Serving Spoon", 5), Source: domain.SourcePlaced},
			{OrderDate: now.Add(-10 * time.Minute), Products: lines("Side Table", 1), Source: domain.SourceShipped},
		},
		Transactions: []domain.Transaction{
			{MaterialName: "Brass Screws", Quantity: decimal.NewFromInt(500), Supplier: "Timber Yard North", EstimatedPrice: dec("60"), Date: now.AddDate(0, 0, -3), Status: domain.TransactionPending},
		},
	}
}

// AngelaMos | 2026
// catalog.go

package seed

import (
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/storefront-api/internal/product"
)

type accessory struct {
	Quantity int
	Item     string
}

type catalogItem struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Description string
	ImageName   string
	Features    []string
	Includes    []accessory
}

type demoUser struct {
	FirstName string
	LastName  string
	Email     string
}

var demoUsers = []demoUser{
	{FirstName: "John", LastName: "Doe", Email: "john.doe@example.com"},
	{FirstName: "Jane", LastName: "Smith", Email: "jane.smith@example.com"},
}

var catalog = []catalogItem{
	{
		Name:        "XX99 Mark II Headphones",
		Category:    product.CategoryHeadphones,
		Price:       decimal.RequireFromString("469.99"),
		Description: "The new XX99 Mark II headphones is the pinnacle of pristine audio. It redefines your premium headphone experience by reproducing the balanced depth and precision of studio-quality sound.",
		ImageName:   "xx99-mark-two-headphones.jpg",
		Features: []string{
			"Genuine leather head strap and premium earcups with intuitive controls and auto on/off.",
			"Active Noise Cancellation with built-in equalizer, Bluetooth 5.0 and 17 hour battery life.",
		},
		Includes: []accessory{
			{1, "Headphone Unit"},
			{2, "Replacement Earcups"},
			{1, "User Manual"},
			{1, "3.5mm 5mm Audio Cable"},
			{1, "Travel Bag"},
		},
	},
	{
		Name:        "XX99 Mark I Headphones",
		Category:    product.CategoryHeadphones,
		Price:       decimal.RequireFromString("344.99"),
		Description: "As the gold standard for headphones, the classic XX99 Mark I offers detailed and accurate audio reproduction for audiophiles, mixing engineers, and music aficionados alike in studios and on the go.",
		ImageName:   "xx99-mark-one-headphones.jpg",
		Features: []string{
			"Padded headband and earcups with excellent sound isolation and a balanced profile.",
			"Durable build, detachable cable and a carrying case for transport and storage.",
		},
		Includes: []accessory{
			{1, "Headphone Unit"},
			{1, "Replacement Earcups"},
			{1, "User Manual"},
			{1, "3.5mm Audio Cable"},
			{1, "Carrying Case"},
		},
	},
	{
		Name:        "XX59 Headphones",
		Category:    product.CategoryHeadphones,
		Price:       decimal.RequireFromString("599.99"),
		Description: "Enjoy your audio almost anywhere and customize it to your specific tastes with the XX59 headphones. The stylish yet durable versatile wireless headset is a brilliant companion at home or on the move.",
		ImageName:   "xx59-headphones.jpg",
		Features: []string{
			"Sleek design with deep bass and clear highs for a wide range of genres.",
			"Long battery life, Bluetooth connectivity and a built-in microphone for calls.",
		},
		Includes: []accessory{
			{1, "Headphone Unit"},
			{1, "User Manual"},
			{1, "3.5mm Audio Cable"},
			{1, "Charging Cable"},
		},
	},
	{
		Name:        "ZX9 Speaker",
		Category:    product.CategorySpeakers,
		Price:       decimal.RequireFromString("1045"),
		Description: "Upgrade your sound system with the all new ZX9 active speaker. It's a bookshelf speaker system that offers truly wireless connectivity, creating new possibilities for more pleasing and practical audio setups.",
		ImageName:   "zx9-speaker.jpg",
		Features: []string{
			"High-fidelity drivers and advanced acoustic design with wireless streaming.",
			"Modern design that fits any decor, with a remote control included.",
		},
		Includes: []accessory{
			{2, "Speaker Units"},
			{1, "Remote Control"},
			{1, "User Manual"},
			{1, "Power Cable"},
			{2, "Speaker Stands"},
		},
	},
	{
		Name:        "ZX7 Speaker",
		Category:    product.CategorySpeakers,
		Price:       decimal.RequireFromString("1248"),
		Description: "Stream high quality sound wirelessly with minimal loss. The ZX7 bookshelf speaker uses high-end audiophile components that represents the top of the line powered speakers for home or studio use.",
		ImageName:   "zx7-speaker.jpg",
		Features: []string{
			"High-performance drivers and an advanced crossover network, wired or wireless.",
			"Classic design and premium build quality with a remote control.",
		},
		Includes: []accessory{
			{2, "Speaker Units"},
			{1, "Remote Control"},
			{1, "User Manual"},
			{1, "Power Cable"},
		},
	},
	{
		Name:        "YX1 Wireless Earphones",
		Category:    product.CategoryEarphones,
		Price:       decimal.RequireFromString("499.99"),
		Description: "Tailor your listening experience with bespoke dynamic drivers from the new YX1 Wireless Earphones. Enjoy incredible high-fidelity sound even in noisy environments with its active noise cancellation feature.",
		ImageName:   "yx1-earphones.jpg",
		Features: []string{
			"Ergonomic fit with multiple ear tip sizes and high-fidelity sound.",
			"Active noise cancellation, long battery life and a charging case.",
		},
		Includes: []accessory{
			{1, "Earphone Unit"},
			{3, "Ear Tip Sizes"},
			{1, "User Manual"},
			{1, "Charging Case"},
			{1, "USB-C Charging Cable"},
		},
	},
}

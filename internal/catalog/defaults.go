package catalog

import "github.com/shopspring/decimal"

// demoProducts seeds a fresh install with a small browsable catalog.
func demoProducts() []Product {
	return []Product{
		{
			ID:          1,
			Title:       "Wireless Headphones",
			Price:       decimal.RequireFromString("99.99"),
			Category:    "Electronics",
			ImageURL:    "https://picsum.photos/id/29/600/400",
			Description: "Comfortable over-ear wireless headphones with noise cancellation and 20-hour battery life.",
			Popularity:  86,
			Stock:       defaultStock,
			Reviews: []Review{
				{User: "Alice", Rating: 5, Comment: "Great sound and comfort!", Date: "2024-06-12"},
				{User: "Bob", Rating: 4, Comment: "Battery life is solid.", Date: "2024-07-01"},
			},
		},
		{
			ID:          2,
			Title:       "Smart Watch",
			Price:       decimal.RequireFromString("149.99"),
			Category:    "Electronics",
			ImageURL:    "https://picsum.photos/id/103/600/400",
			Description: "Water-resistant smartwatch with heart-rate monitoring and GPS tracking.",
			Popularity:  120,
			Stock:       defaultStock,
			Reviews: []Review{
				{User: "Carol", Rating: 4, Comment: "Love the fitness features.", Date: "2024-05-20"},
				{User: "Dave", Rating: 3, Comment: "Screen could be brighter.", Date: "2024-06-02"},
			},
		},
		{
			ID:          3,
			Title:       "Denim Jacket",
			Price:       decimal.RequireFromString("69.99"),
			Category:    "Fashion",
			ImageURL:    "https://picsum.photos/id/1060/600/400",
			Description: "Classic denim jacket, perfect for layering across seasons.",
			Popularity:  54,
			Stock:       defaultStock,
			Reviews: []Review{
				{User: "Ella", Rating: 5, Comment: "Fits perfectly!", Date: "2024-03-10"},
			},
		},
		{
			ID:          4,
			Title:       "Espresso Machine",
			Price:       decimal.RequireFromString("199.99"),
			Category:    "Home",
			ImageURL:    "https://picsum.photos/id/1062/600/400",
			Description: "Compact espresso machine with milk frother for cafe-style drinks at home.",
			Popularity:  77,
			Stock:       defaultStock,
			Reviews: []Review{
				{User: "Frank", Rating: 4, Comment: "Great crema and easy to use.", Date: "2024-02-18"},
			},
		},
		{
			ID:          5,
			Title:       "Novel: The Wanderer",
			Price:       decimal.RequireFromString("14.99"),
			Category:    "Books",
			ImageURL:    "https://picsum.photos/id/24/600/400",
			Description: "A captivating journey through distant lands and self-discovery.",
			Popularity:  38,
			Stock:       defaultStock,
			Reviews: []Review{
				{User: "Gina", Rating: 3, Comment: "Interesting story but slow start.", Date: "2024-08-30"},
			},
		},
		{
			ID:          6,
			Title:       "Bluetooth Speaker",
			Price:       decimal.RequireFromString("59.99"),
			Category:    "Electronics",
			ImageURL:    "https://picsum.photos/id/1063/600/400",
			Description: "Portable speaker with deep bass and splash-proof design.",
			Popularity:  95,
			Stock:       defaultStock,
			Reviews:     []Review{},
		},
		{
			ID:          7,
			Title:       "Running Shoes",
			Price:       decimal.RequireFromString("79.99"),
			Category:    "Fashion",
			ImageURL:    "https://picsum.photos/id/21/600/400",
			Description: "Lightweight running shoes designed for comfort and speed.",
			Popularity:  61,
			Stock:       defaultStock,
			Reviews: []Review{
				{User: "Henry", Rating: 5, Comment: "Super comfortable for long runs.", Date: "2024-04-14"},
			},
		},
		{
			ID:          8,
			Title:       "Air Fryer",
			Price:       decimal.RequireFromString("129.99"),
			Category:    "Home",
			ImageURL:    "https://picsum.photos/id/1070/600/400",
			Description: "Healthy frying with minimal oil; includes multiple cooking presets.",
			Popularity:  83,
			Stock:       defaultStock,
			Reviews:     []Review{},
		},
	}
}

package views

import "salespulse/internal/model"

// NearbyCustomers returns the static stand-in list for the map screen. The
// backend has no proximity endpoint yet, so the screen renders these until
// one exists.
func NearbyCustomers() []model.Customer {
	return []model.Customer{
		{Name: "Sharma General Store", Phone: "9800011111", Gap: 1200},
		{Name: "Patel Kirana", Phone: "9800022222", Gap: 800},
		{Name: "Gupta Provisions", Phone: "9800033333", Gap: 350},
		{Name: "New Laxmi Traders", Phone: "9800044444", Gap: 150},
	}
}

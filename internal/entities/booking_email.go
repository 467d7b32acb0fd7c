package entities

type BookingEmailData struct {
	CustomerName      string
	BookingID         string
	ProductName       string
	Guests            int
	CheckinFormatted  string
	CheckoutFormatted string
	TotalPrice        string
	Currency          string
	CurrentYear       int
	Language          string
	Status            string
}

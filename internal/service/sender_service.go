package service

import (
	"fmt"
	"log"
	"time"

	"soggiorno/internal/config"
	"soggiorno/internal/entities"
)

// SenderService composes and dispatches booking notifications. Sending is
// fire-and-forget: a provider failure is logged, never surfaced to the
// booking flow.
type SenderService struct {
	cfg *config.Config
}

func NewSenderService(cfg *config.Config) *SenderService {
	return &SenderService{cfg: cfg}
}

// NotifyBooking sends the confirmation email and, when a phone number is
// present, the confirmation SMS.
func (s *SenderService) NotifyBooking(booking entities.Booking, status string) {
	s.SendBookingEmail(booking, status)
	if booking.Customer.Phone != "" {
		s.SendBookingSMS(booking, status)
	}
}

func (s *SenderService) SendBookingEmail(booking entities.Booking, status string) {
	loc := italyLocation()
	translated := statusTranslation(status, booking.Customer.Language)

	data := entities.BookingEmailData{
		CustomerName:      booking.Customer.Name,
		BookingID:         booking.ID,
		ProductName:       s.cfg.Product.Name,
		Guests:            booking.Guests,
		CheckinFormatted:  booking.Stay.Checkin.Format("02 Jan 2006"),
		CheckoutFormatted: booking.Stay.Checkout.Format("02 Jan 2006"),
		TotalPrice:        booking.AgreedPrice.StringFixed(2),
		Currency:          booking.Currency,
		CurrentYear:       time.Now().In(loc).Year(),
		Language:          booking.Customer.Language,
		Status:            translated,
	}

	var subject, body string
	switch booking.Customer.Language {
	case "it":
		subject = fmt.Sprintf("La tua prenotazione %s è %s - Codice: %s", data.ProductName, data.Status, data.BookingID)
		body = fmt.Sprintf(
			"Ciao %s,\n\nLa tua prenotazione per %s è %s.\n\n"+
				"Dettagli della prenotazione:\n"+
				"Codice prenotazione: %s\n"+
				"Ospiti: %d\n"+
				"Check-in: %s\n"+
				"Check-out: %s\n"+
				"Prezzo totale: %s %s\n\n"+
				"Grazie per aver prenotato con noi.",
			data.CustomerName, data.ProductName, data.Status, data.BookingID,
			data.Guests, data.CheckinFormatted, data.CheckoutFormatted,
			data.TotalPrice, data.Currency,
		)
	default:
		subject = fmt.Sprintf("Your %s booking is %s - Code: %s", data.ProductName, data.Status, data.BookingID)
		body = fmt.Sprintf(
			"Hello %s,\n\nYour booking for %s is %s.\n\n"+
				"Booking details:\n"+
				"Booking code: %s\n"+
				"Guests: %d\n"+
				"Check-in: %s\n"+
				"Check-out: %s\n"+
				"Total price: %s %s\n\n"+
				"Thank you for booking with us.",
			data.CustomerName, data.ProductName, data.Status, data.BookingID,
			data.Guests, data.CheckinFormatted, data.CheckoutFormatted,
			data.TotalPrice, data.Currency,
		)
	}

	go func(toEmail, toName, subject, body string) {
		if err := SendEmailWithSendGrid(toEmail, toName, subject, body); err != nil {
			log.Printf("WARNING (async): confirmation email for booking %s failed: %v", data.BookingID, err)
		}
	}(booking.Customer.Email, data.CustomerName, subject, body)
}

func (s *SenderService) SendBookingSMS(booking entities.Booking, status string) {
	loc := italyLocation()
	translated := statusTranslation(status, booking.Customer.Language)

	var message string
	switch booking.Customer.Language {
	case "it":
		message = fmt.Sprintf("%s: La tua prenotazione %s è %s!\nCheck-in: %s.\nAltri dettagli nella tua email.",
			s.cfg.Product.Name, booking.ID, translated,
			booking.Stay.Checkin.In(loc).Format("02/01/2006"),
		)
	default:
		message = fmt.Sprintf("%s: Booking %s is %s!\nCheck-in: %s.\nMore details in your email.",
			s.cfg.Product.Name, booking.ID, translated,
			booking.Stay.Checkin.In(loc).Format("02/01/2006"),
		)
	}

	go func(phone, message string) {
		if err := SendSMS(phone, message); err != nil {
			log.Printf("WARNING (async): confirmation SMS for booking %s failed: %v", booking.ID, err)
		}
	}(booking.Customer.Phone, message)
}

func italyLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		return time.FixedZone("CET", 1*60*60)
	}
	return loc
}

// statusTranslation renders a booking status in the customer's language.
func statusTranslation(status, lang string) string {
	if lang == "it" {
		switch status {
		case entities.StatusReserved:
			return "confermata"
		case entities.StatusCanceled:
			return "cancellata"
		case entities.StatusFinished:
			return "conclusa"
		}
		return status
	}
	switch status {
	case entities.StatusReserved:
		return "confirmed"
	case entities.StatusCanceled:
		return "cancelled"
	}
	return status
}

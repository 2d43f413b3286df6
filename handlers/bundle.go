package handlers

// HandlerBundle groups all endpoint handlers for route registration.
type HandlerBundle struct {
	Availability  *AvailabilityHandler
	Bookings      *BookingHandler
	Catalog       *CatalogHandler
	Chat          *ChatHandler
	Wallet        *WalletHandler
	Notifications *NotificationHandler
	Users         *UserHandler
}

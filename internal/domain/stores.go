package domain

// Stores groups one implementation of every repository so storage backends can be swapped as a unit.
type Stores struct {
	Events   EventRepository
	Slots    SlotRepository
	Bookings BookingRepository
	Admins   AdminRepository
}
